package filter

import "strings"

// TextFragment is one part of a text filter
type TextFragment struct {
	Pattern     string // Text to look for, markers removed
	Negate      bool   // Fragment started with !
	AnchorStart bool   // Fragment started with ^
	AnchorEnd   bool   // Fragment ended with $
}

// ParseTextFilter splits a text filter into fragments.
// Examples:
//   - "red" → contains "red"
//   - "^red" → starts with "red"
//   - "red$" → ends with "red"
//   - "!red" → does not contain "red"
//   - "red;blue" → contains "red" or "blue"
func ParseTextFilter(input string) []TextFragment {
	var fragments []TextFragment

	for _, part := range strings.Split(input, ";") {
		part = strings.TrimSpace(part)

		f := TextFragment{}
		if strings.HasPrefix(part, "!") {
			f.Negate = true
			part = part[1:]
		}
		if strings.HasPrefix(part, "^") {
			f.AnchorStart = true
			part = part[1:]
		}
		if strings.HasSuffix(part, "$") {
			f.AnchorEnd = true
			part = part[:len(part)-1]
		}

		if part == "" {
			continue
		}
		f.Pattern = part
		fragments = append(fragments, f)
	}

	return fragments
}

// LikePattern returns the SQL LIKE pattern for the fragment, escaping
// wildcards with a backslash
func (f TextFragment) LikePattern() string {
	escaped := likeEscaper.Replace(f.Pattern)
	if !f.AnchorStart {
		escaped = "%" + escaped
	}
	if !f.AnchorEnd {
		escaped += "%"
	}
	return escaped
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Matches reports whether value satisfies the fragment, ignoring case.
// Negation is applied.
func (f TextFragment) Matches(value string) bool {
	v := strings.ToLower(value)
	p := strings.ToLower(f.Pattern)

	var ok bool
	switch {
	case f.AnchorStart && f.AnchorEnd:
		ok = v == p
	case f.AnchorStart:
		ok = strings.HasPrefix(v, p)
	case f.AnchorEnd:
		ok = strings.HasSuffix(v, p)
	default:
		ok = strings.Contains(v, p)
	}

	if f.Negate {
		return !ok
	}
	return ok
}

// MatchText applies a whole text filter to a value. Positive fragments are
// alternatives; every negated fragment must hold.
func MatchText(filter, value string) bool {
	fragments := ParseTextFilter(filter)
	if len(fragments) == 0 {
		return true
	}

	anyPositive := false
	positiveHit := false
	for _, f := range fragments {
		if f.Negate {
			if !f.Matches(value) {
				return false
			}
			continue
		}
		anyPositive = true
		if f.Matches(value) {
			positiveHit = true
		}
	}

	return !anyPositive || positiveHit
}
