package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Dialect selects the SQL flavour the builder emits
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// Builder generates SQL clauses from Filter models
type Builder struct {
	dialect Dialect
}

// NewBuilder creates a new filter builder
func NewBuilder(dialect Dialect) *Builder {
	return &Builder{dialect: dialect}
}

// FromColumns translates per-column snapshots into a Filter model.
// Range bounds of 0 mean "unbounded".
func FromColumns(schema, table string, columns []models.ColumnFilter) models.Filter {
	f := models.Filter{
		RootGroup: models.FilterGroup{Logic: "AND"},
		TableName: table,
		Schema:    schema,
	}

	for _, col := range columns {
		name := col.Column.Name
		dt := col.Column.DataType
		st := col.State

		switch dt {
		case models.DataTypeText:
			textConditions(&f.RootGroup, name, st.Filter)

		case models.DataTypeNumber, models.DataTypeDate, models.DataTypeDateTime:
			if !col.Column.ShowMinMax && dt == models.DataTypeNumber {
				// Single value number filter
				if n, err := parseIntPrefix(strings.TrimSpace(st.Filter)); err == nil {
					f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
						Column: name, Operator: models.OpEqual, Value: n, Type: dt,
					})
				}
				break
			}
			if st.Min != 0 {
				f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
					Column: name, Operator: models.OpGreaterOrEqual, Value: st.Min, Type: dt,
				})
			}
			if st.Max != 0 {
				f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
					Column: name, Operator: models.OpLessOrEqual, Value: st.Max, Type: dt,
				})
			}

		case models.DataTypeBool:
			switch st.Bool {
			case models.Include:
				f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
					Column: name, Operator: models.OpEqual, Value: true, Type: dt,
				})
			case models.Exclude:
				f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
					Column: name, Operator: models.OpNotEqual, Value: true, Type: dt,
				})
			}

		case models.DataTypeOption:
			var include, exclude []int
			for _, opt := range st.Options {
				switch opt.Mode {
				case models.Include:
					include = append(include, opt.ID)
				case models.Exclude:
					exclude = append(exclude, opt.ID)
				}
			}
			if len(include) > 0 {
				f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
					Column: name, Operator: models.OpIn, Value: include, Type: dt,
				})
			}
			if len(exclude) > 0 {
				f.RootGroup.Conditions = append(f.RootGroup.Conditions, models.FilterCondition{
					Column: name, Operator: models.OpNotIn, Value: exclude, Type: dt,
				})
			}
		}

		if st.Order != models.SortNone {
			key := models.SortKey{Column: name, Order: st.Order}
			if dt == models.DataTypeOption && !col.Column.SortByValue {
				key.Labels = col.Column.OptionLabels()
			}
			f.Sort = append(f.Sort, key)
		}
	}

	return f
}

// textConditions adds the conditions for one text filter. Positive fragments
// are OR'd in a sub-group, negated fragments are AND'd at the top level.
func textConditions(group *models.FilterGroup, column, text string) {
	var positive []models.FilterCondition

	for _, frag := range ParseTextFilter(text) {
		cond := models.FilterCondition{
			Column:   column,
			Operator: models.OpLike,
			Value:    frag.LikePattern(),
			Type:     models.DataTypeText,
		}
		if frag.Negate {
			cond.Operator = models.OpNotLike
			group.Conditions = append(group.Conditions, cond)
			continue
		}
		positive = append(positive, cond)
	}

	switch len(positive) {
	case 0:
	case 1:
		group.Conditions = append(group.Conditions, positive[0])
	default:
		group.Groups = append(group.Groups, models.FilterGroup{
			Conditions: positive,
			Logic:      "OR",
		})
	}
}

// BuildWhere generates a WHERE clause from a Filter
func (b *Builder) BuildWhere(filter models.Filter) (string, []interface{}, error) {
	if len(filter.RootGroup.Conditions) == 0 && len(filter.RootGroup.Groups) == 0 {
		return "", nil, nil
	}

	clause, args, err := b.buildGroup(filter.RootGroup, 1)
	if err != nil {
		return "", nil, err
	}

	return "WHERE " + clause, args, nil
}

// BuildOrderBy generates an ORDER BY clause from the filter's sort keys
func (b *Builder) BuildOrderBy(filter models.Filter) string {
	if len(filter.Sort) == 0 {
		return ""
	}

	terms := make([]string, 0, len(filter.Sort))
	for _, key := range filter.Sort {
		dir := "ASC"
		if key.Order == models.SortDescending {
			dir = "DESC"
		}
		terms = append(terms, b.sortExpr(key)+" "+dir)
	}

	return "ORDER BY " + strings.Join(terms, ", ")
}

// BuildSelect generates a full paginated SELECT for the filter
func (b *Builder) BuildSelect(filter models.Filter, limit, offset int) (string, []interface{}, error) {
	where, args, err := b.BuildWhere(filter)
	if err != nil {
		return "", nil, err
	}

	parts := []string{"SELECT * FROM " + b.tableRef(filter)}
	if where != "" {
		parts = append(parts, where)
	}
	if orderBy := b.BuildOrderBy(filter); orderBy != "" {
		parts = append(parts, orderBy)
	}
	if limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset))
	}

	return strings.Join(parts, " "), args, nil
}

// BuildCount generates a COUNT query honouring the filter's conditions
func (b *Builder) BuildCount(filter models.Filter) (string, []interface{}, error) {
	where, args, err := b.BuildWhere(filter)
	if err != nil {
		return "", nil, err
	}

	query := "SELECT COUNT(*) FROM " + b.tableRef(filter)
	if where != "" {
		query += " " + where
	}
	return query, args, nil
}

// buildGroup recursively builds a filter group
func (b *Builder) buildGroup(group models.FilterGroup, paramIndex int) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}
	currentParam := paramIndex

	// Build conditions
	for _, cond := range group.Conditions {
		clause, condArgs, err := b.buildCondition(cond, currentParam)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
		currentParam += len(condArgs)
	}

	// Build sub-groups
	for _, subGroup := range group.Groups {
		clause, groupArgs, err := b.buildGroup(subGroup, currentParam)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "("+clause+")")
		args = append(args, groupArgs...)
		currentParam += len(groupArgs)
	}

	logic := group.Logic
	if logic == "" {
		logic = "AND"
	}

	return strings.Join(clauses, " "+logic+" "), args, nil
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(cond models.FilterCondition, paramIndex int) (string, []interface{}, error) {
	column := b.columnExpr(cond)

	switch cond.Operator {
	case models.OpNotEqual:
		if cond.Type == models.DataTypeBool {
			// NULL counts as "not true"
			return fmt.Sprintf("%s %s %s", column, b.distinctOp(), b.placeholder(paramIndex)), []interface{}{cond.Value}, nil
		}
		return fmt.Sprintf("%s != %s", column, b.placeholder(paramIndex)), []interface{}{cond.Value}, nil
	case models.OpEqual, models.OpGreaterOrEqual, models.OpLessOrEqual:
		return fmt.Sprintf("%s %s %s", column, cond.Operator, b.placeholder(paramIndex)), []interface{}{cond.Value}, nil
	case models.OpLike, models.OpNotLike:
		return fmt.Sprintf(`%s %s %s ESCAPE '\'`, column, b.likeOp(cond.Operator), b.placeholder(paramIndex)), []interface{}{cond.Value}, nil
	case models.OpIn, models.OpNotIn:
		ids, ok := cond.Value.([]int)
		if !ok || len(ids) == 0 {
			return "", nil, fmt.Errorf("operator %s on %s needs a non-empty id list", cond.Operator, cond.Column)
		}
		holders := make([]string, len(ids))
		args := make([]interface{}, len(ids))
		for i, id := range ids {
			holders[i] = b.placeholder(paramIndex + i)
			args[i] = id
		}
		return fmt.Sprintf("%s %s (%s)", column, cond.Operator, strings.Join(holders, ", ")), args, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator: %s", cond.Operator)
	}
}

func (b *Builder) placeholder(n int) string {
	if b.dialect == DialectSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (b *Builder) likeOp(op models.FilterOperator) string {
	if b.dialect == DialectSQLite {
		// SQLite LIKE is already case-insensitive for ASCII
		return string(op)
	}
	if op == models.OpNotLike {
		return "NOT ILIKE"
	}
	return "ILIKE"
}

func (b *Builder) distinctOp() string {
	if b.dialect == DialectSQLite {
		return "IS NOT"
	}
	return "IS DISTINCT FROM"
}

// columnExpr returns the SQL expression a condition compares against.
// Text filters compare the column as text and temporal bounds compare it as
// epoch seconds.
func (b *Builder) columnExpr(cond models.FilterCondition) string {
	col := QuoteIdent(cond.Column)

	switch {
	case cond.Operator == models.OpLike || cond.Operator == models.OpNotLike:
		return "CAST(" + col + " AS TEXT)"
	case cond.Type.IsTemporal():
		if b.dialect == DialectSQLite {
			return fmt.Sprintf("(CASE WHEN typeof(%[1]s) = 'integer' THEN %[1]s ELSE CAST(strftime('%%s', %[1]s) AS INTEGER) END)", col)
		}
		return fmt.Sprintf("EXTRACT(EPOCH FROM %s)", col)
	default:
		return col
	}
}

func (b *Builder) sortExpr(key models.SortKey) string {
	col := QuoteIdent(key.Column)
	if len(key.Labels) == 0 {
		return col
	}

	ids := make([]int, 0, len(key.Labels))
	for id := range key.Labels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var sb strings.Builder
	sb.WriteString("CASE ")
	sb.WriteString(col)
	for _, id := range ids {
		fmt.Fprintf(&sb, " WHEN %d THEN %s", id, QuoteLiteral(key.Labels[id]))
	}
	sb.WriteString(" END")
	return sb.String()
}

func (b *Builder) tableRef(filter models.Filter) string {
	if filter.Schema == "" {
		return QuoteIdent(filter.TableName)
	}
	return QuoteIdent(filter.Schema) + "." + QuoteIdent(filter.TableName)
}

// QuoteIdent quotes an SQL identifier
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes an SQL string literal
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// DataTypeForSQL maps a database column type to the control data type
func DataTypeForSQL(sqlType string) models.DataType {
	t := strings.ToLower(sqlType)
	switch {
	case strings.Contains(t, "bool"):
		return models.DataTypeBool
	case strings.Contains(t, "timestamp") || strings.Contains(t, "datetime"):
		return models.DataTypeDateTime
	case strings.Contains(t, "date"):
		return models.DataTypeDate
	case strings.Contains(t, "int") || strings.Contains(t, "numeric") ||
		strings.Contains(t, "real") || strings.Contains(t, "double") ||
		strings.Contains(t, "decimal") || strings.Contains(t, "float"):
		return models.DataTypeNumber
	default:
		return models.DataTypeText
	}
}
