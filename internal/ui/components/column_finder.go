package components

import (
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ColumnQuery represents a parsed column search query
type ColumnQuery struct {
	Pattern    string          // The search pattern (after removing prefix/type)
	Negate     bool            // True if query starts with !
	TypeFilter models.DataType // Data type filter, empty for any
}

// Type prefixes, longest first so "dt:" wins over "d:"
var typePrefixes = []struct {
	prefix string
	dt     models.DataType
}{
	{"datetime:", models.DataTypeDateTime},
	{"number:", models.DataTypeNumber},
	{"option:", models.DataTypeOption},
	{"text:", models.DataTypeText},
	{"date:", models.DataTypeDate},
	{"bool:", models.DataTypeBool},
	{"dt:", models.DataTypeDateTime},
	{"n:", models.DataTypeNumber},
	{"o:", models.DataTypeOption},
	{"t:", models.DataTypeText},
	{"d:", models.DataTypeDate},
	{"b:", models.DataTypeBool},
}

// ParseColumnQuery parses a column search string into structured form
// Examples:
//   - "qty" → {Pattern: "qty"}
//   - "!id" → {Pattern: "id", Negate: true}
//   - "n:q" → {Pattern: "q", TypeFilter: number}
//   - "!d:" → {Negate: true, TypeFilter: date}
func ParseColumnQuery(query string) ColumnQuery {
	q := ColumnQuery{}

	// Check for negation prefix
	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	// Check for type prefix
	queryLower := strings.ToLower(query)
	for _, p := range typePrefixes {
		if strings.HasPrefix(queryLower, p.prefix) {
			q.TypeFilter = p.dt
			query = query[len(p.prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// FindColumns returns the indexes of the columns matching the query, in
// column order
func FindColumns(columns []models.ColumnSpec, query ColumnQuery) []int {
	var matches []int

	for i, col := range columns {
		typeMatches := query.TypeFilter == "" || col.DataType == query.TypeFilter

		patternMatches := true
		if query.Pattern != "" {
			patternMatches, _ = FuzzyMatch(query.Pattern, col.Name)
		}

		// Apply negation logic
		shouldInclude := false
		if query.Negate {
			if query.TypeFilter != "" && !typeMatches {
				shouldInclude = true
			} else if typeMatches && query.Pattern != "" && !patternMatches {
				shouldInclude = true
			}
		} else {
			shouldInclude = typeMatches && patternMatches
		}

		if shouldInclude {
			matches = append(matches, i)
		}
	}

	return matches
}
