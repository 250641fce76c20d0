package models

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpNotEqual       FilterOperator = "!="
	OpGreaterOrEqual FilterOperator = ">="
	OpLessOrEqual    FilterOperator = "<="
	OpLike           FilterOperator = "LIKE"
	OpNotLike        FilterOperator = "NOT LIKE"
	OpIn             FilterOperator = "IN"
	OpNotIn          FilterOperator = "NOT IN"
)

// FilterCondition represents a single filter condition
type FilterCondition struct {
	Column   string
	Operator FilterOperator
	Value    interface{}
	Type     DataType
}

// FilterGroup represents a group of conditions with AND/OR logic
type FilterGroup struct {
	Conditions []FilterCondition
	Logic      string // "AND" or "OR"
	Groups     []FilterGroup
}

// SortKey is one ORDER BY term
type SortKey struct {
	Column string
	Order  SortOrder

	// Labels maps option ids to display labels. When set the column is
	// ordered by label rather than by raw id.
	Labels map[int]string
}

// Filter represents the complete query state for one table
type Filter struct {
	RootGroup FilterGroup
	Sort      []SortKey
	TableName string
	Schema    string
}

// IsEmpty reports whether the filter has neither conditions nor sort keys
func (f Filter) IsEmpty() bool {
	return len(f.RootGroup.Conditions) == 0 && len(f.RootGroup.Groups) == 0 && len(f.Sort) == 0
}
