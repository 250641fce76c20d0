package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextFilter(t *testing.T) {
	got := ParseTextFilter("^red; blue$ ;!green;;^exact$")

	require.Len(t, got, 4)
	assert.Equal(t, TextFragment{Pattern: "red", AnchorStart: true}, got[0])
	assert.Equal(t, TextFragment{Pattern: "blue", AnchorEnd: true}, got[1])
	assert.Equal(t, TextFragment{Pattern: "green", Negate: true}, got[2])
	assert.Equal(t, TextFragment{Pattern: "exact", AnchorStart: true, AnchorEnd: true}, got[3])
}

func TestParseTextFilter_MarkersOnly(t *testing.T) {
	assert.Empty(t, ParseTextFilter("!;^;$;"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%red%", TextFragment{Pattern: "red"}.LikePattern())
	assert.Equal(t, "red%", TextFragment{Pattern: "red", AnchorStart: true}.LikePattern())
	assert.Equal(t, "%red", TextFragment{Pattern: "red", AnchorEnd: true}.LikePattern())
	assert.Equal(t, `%50\%\_off%`, TextFragment{Pattern: "50%_off"}.LikePattern())
}

func TestMatchText(t *testing.T) {
	tests := []struct {
		filter string
		value  string
		want   bool
	}{
		{"", "anything", true},
		{"red", "Dark RED", true},
		{"^red", "Dark red", false},
		{"^dark", "Dark red", true},
		{"red$", "red wine", false},
		{"!red", "blue", true},
		{"!red", "red", false},
		{"red;blue", "blue", true},
		{"red;blue", "green", false},
		{"red;!wine", "red wine", false},
		{"!wine", "", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchText(tt.filter, tt.value), "%q on %q", tt.filter, tt.value)
	}
}
