package filter

import "github.com/rebeliceyang/lazygrid/internal/models"

// ParseTriState maps a raw radio value to a tri-state. Anything other than
// "-1", "0" or "1" is treated as ignore.
func ParseTriState(raw string) models.TriState {
	switch raw {
	case "1":
		return models.Include
	case "-1":
		return models.Exclude
	default:
		return models.Ignore
	}
}

// TriStateValue is the raw radio value for a tri-state
func TriStateValue(t models.TriState) string {
	switch {
	case t > 0:
		return "1"
	case t < 0:
		return "-1"
	default:
		return "0"
	}
}
