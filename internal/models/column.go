package models

import "strings"

// DataType identifies how a column is filtered
type DataType string

const (
	DataTypeText     DataType = "text"
	DataTypeNumber   DataType = "number"
	DataTypeDate     DataType = "date"
	DataTypeDateTime DataType = "datetime"
	DataTypeBool     DataType = "bool"
	DataTypeOption   DataType = "option"
)

// ParseDataType converts a config or attribute string to a DataType.
// Unknown values fall back to text.
func ParseDataType(s string) DataType {
	switch DataType(strings.ToLower(strings.TrimSpace(s))) {
	case DataTypeNumber:
		return DataTypeNumber
	case DataTypeDate:
		return DataTypeDate
	case DataTypeDateTime:
		return DataTypeDateTime
	case DataTypeBool:
		return DataTypeBool
	case DataTypeOption:
		return DataTypeOption
	default:
		return DataTypeText
	}
}

// IsRange reports whether the type is filtered with a min/max pair
func (d DataType) IsRange() bool {
	return d == DataTypeNumber || d == DataTypeDate || d == DataTypeDateTime
}

// IsTemporal reports whether bounds are epoch seconds
func (d DataType) IsTemporal() bool {
	return d == DataTypeDate || d == DataTypeDateTime
}

// TriState is a three valued include/ignore/exclude selection
type TriState int

const (
	Exclude TriState = -1
	Ignore  TriState = 0
	Include TriState = 1
)

func (t TriState) String() string {
	switch t {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "ignore"
	}
}

// SortOrder is the order rows are listed in for a column
//
//   - -1 = Descending
//   - 1  = Ascending
//   - 0  = Not ordered by this column
type SortOrder int

const (
	SortDescending SortOrder = -1
	SortNone       SortOrder = 0
	SortAscending  SortOrder = 1
)

func (o SortOrder) String() string {
	switch o {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	default:
		return "none"
	}
}

// Option is one fixed value a column can hold
type Option struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// OptionFilter is the tri-state selection for a single option
type OptionFilter struct {
	ID   int      `yaml:"id" json:"id"`
	Mode TriState `yaml:"mode" json:"mode"`
}

// ColumnSpec describes a filterable column in the grid
type ColumnSpec struct {
	Name        string
	DataType    DataType
	SQLType     string
	Options     []Option
	ShowMinMax  bool
	SortByValue bool
}

// WithLayout applies a snapshot's stored value or range choice to a number
// column. Other types and snapshots without a layout are returned unchanged.
func (c ColumnSpec) WithLayout(s Snapshot) ColumnSpec {
	if c.DataType == DataTypeNumber && s.Layout != LayoutDefault {
		c.ShowMinMax = s.Layout == LayoutRange
	}
	return c
}

// OptionLabels returns an id to label lookup for option columns
func (c ColumnSpec) OptionLabels() map[int]string {
	if len(c.Options) == 0 {
		return nil
	}
	labels := make(map[int]string, len(c.Options))
	for _, opt := range c.Options {
		labels[opt.ID] = opt.Name
	}
	return labels
}

// FilterLayout records whether a number column filters by a single value
// or by a min/max range
type FilterLayout string

const (
	// LayoutDefault leaves the choice to the column's configuration
	LayoutDefault FilterLayout = ""
	LayoutValue   FilterLayout = "value"
	LayoutRange   FilterLayout = "range"
)

// Snapshot is externally owned filter/sort state for one column. The host
// keeps these in its state store and hands them back to seed new controls.
type Snapshot struct {
	Field   string         `yaml:"field" json:"field"`
	Filter  string         `yaml:"filter,omitempty" json:"filter,omitempty"`
	Min     int64          `yaml:"min,omitempty" json:"min,omitempty"`
	Max     int64          `yaml:"max,omitempty" json:"max,omitempty"`
	Order   SortOrder      `yaml:"order,omitempty" json:"order,omitempty"`
	Bool    TriState       `yaml:"bool,omitempty" json:"bool,omitempty"`
	Options []OptionFilter `yaml:"options,omitempty" json:"options,omitempty"`
	Layout  FilterLayout   `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// IsActive reports whether the snapshot filters or sorts anything
func (s Snapshot) IsActive() bool {
	if s.Filter != "" || s.Min != 0 || s.Max != 0 || s.Order != SortNone || s.Bool != Ignore {
		return true
	}
	for _, opt := range s.Options {
		if opt.Mode != Ignore {
			return true
		}
	}
	return false
}

// ColumnFilter pairs a column with its current snapshot
type ColumnFilter struct {
	Column ColumnSpec
	State  Snapshot
}

// FieldKind identifies which editable part of a filter/sort control an
// input belongs to
type FieldKind int

const (
	FieldFilter FieldKind = iota
	FieldMin
	FieldMax
	FieldBool
	FieldOption
	FieldSortUp
	FieldSortDown
)

func (k FieldKind) String() string {
	switch k {
	case FieldFilter:
		return "filter"
	case FieldMin:
		return "min"
	case FieldMax:
		return "max"
	case FieldBool:
		return "bool"
	case FieldOption:
		return "option"
	case FieldSortUp, FieldSortDown:
		return "order"
	default:
		return "unknown"
	}
}

// FieldInput is a single user edit of a control field
type FieldInput struct {
	Kind  FieldKind
	Value string

	// ChildID is the option id for FieldOption inputs
	ChildID int
}
