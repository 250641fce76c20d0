package models

// AppState holds the application state
type AppState struct {
	Width    int
	Height   int
	ViewMode ViewMode

	// Data source
	Source    SourceConfig
	TableName string
	View      string

	// Grid state
	FocusedColumn int
	TotalRows     int
}

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	FilterMode
	PresetMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:    80,
		Height:   24,
		ViewMode: NormalMode,
		View:     "default",
	}
}

// ColumnInfo describes a table column as reported by the database
type ColumnInfo struct {
	Name     string
	DataType string
	Position int
}
