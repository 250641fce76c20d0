package filter

import (
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ParseOptions parses a string of the form "id:label,id:label" into the
// options that can be used in an option filter.
//
// An entry starts at the beginning of the string or right after a comma.
// Its label runs until the next comma that is followed by a digit, so labels
// may contain commas as long as no digit follows them. Entries whose id is
// not a number are skipped.
//
// Examples:
//   - "3:Red,7:Blue" → [{3 Red} {7 Blue}]
//   - "1:Yes, please,2:No" → [{1 "Yes, please"} {2 No}]
//   - "x:Bad,2:Good" → [{2 Good}]
func ParseOptions(input string) []models.Option {
	output := []models.Option{}

	for pos := 0; pos < len(input); pos++ {
		if pos > 0 && input[pos-1] != ',' {
			continue
		}

		opt, end, ok := matchOption(input, pos)
		if !ok {
			continue
		}
		output = append(output, opt)
		// The loop increment moves past the terminating comma
		pos = end - 1
	}

	return output
}

// matchOption tries to read one "id:label" entry starting at pos. It returns
// the index just past the label.
func matchOption(input string, pos int) (models.Option, int, bool) {
	i := pos
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	if i == pos || i >= len(input) || input[i] != ':' {
		return models.Option{}, 0, false
	}

	id, err := strconv.Atoi(input[pos:i])
	if err != nil {
		return models.Option{}, 0, false
	}

	start := i + 1
	end := start
	for end < len(input) {
		c := input[end]
		if c == '\n' || c == '\r' {
			// Labels never span lines
			return models.Option{}, 0, false
		}
		if c == ',' && end+1 < len(input) && isDigit(input[end+1]) {
			break
		}
		end++
	}

	return models.Option{
		ID:          id,
		Name:        input[start:end],
		Description: "",
	}, end, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// EncodeSelection serialises the active option selections as "id:mode"
// pairs. Ignored options are left out and array order is preserved.
func EncodeSelection(filteredOptions []models.OptionFilter) string {
	var b strings.Builder
	sep := ""

	for _, opt := range filteredOptions {
		if opt.Mode == models.Ignore {
			continue
		}
		b.WriteString(sep)
		b.WriteString(strconv.Itoa(opt.ID))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(opt.Mode)))
		sep = ","
	}

	return b.String()
}

// DecodeSelection parses an "id:mode" string produced by EncodeSelection.
// Malformed pairs and ignore entries are dropped.
func DecodeSelection(input string) []models.OptionFilter {
	output := []models.OptionFilter{}
	if input == "" {
		return output
	}

	for _, pair := range strings.Split(input, ",") {
		id, mode, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found {
			continue
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		state := ParseTriState(mode)
		if state == models.Ignore {
			continue
		}
		output = append(output, models.OptionFilter{ID: n, Mode: state})
	}

	return output
}

// UpdateSelection returns a copy of filteredOptions where the entry for id
// has its mode replaced by the tri-state parsed from raw. The input slice is
// never modified.
func UpdateSelection(filteredOptions []models.OptionFilter, id int, raw string) []models.OptionFilter {
	mode := ParseTriState(raw)
	output := make([]models.OptionFilter, len(filteredOptions))

	for i, item := range filteredOptions {
		if item.ID == id {
			item.Mode = mode
		}
		output[i] = item
	}

	return output
}

// OptionMode returns the mode for an option id. Missing or ambiguous ids
// are ignored.
func OptionMode(id int, filters []models.OptionFilter) models.TriState {
	mode := models.Ignore
	matches := 0

	for _, item := range filters {
		if item.ID == id {
			mode = item.Mode
			matches++
		}
	}

	if matches != 1 {
		return models.Ignore
	}
	return mode
}

// SeedSelection builds one selection entry per known option, taking each
// mode from a prior selection when present.
func SeedSelection(options []models.Option, prior []models.OptionFilter) []models.OptionFilter {
	output := make([]models.OptionFilter, 0, len(options))

	for _, opt := range options {
		output = append(output, models.OptionFilter{
			ID:   opt.ID,
			Mode: OptionMode(opt.ID, prior),
		})
	}

	return output
}
