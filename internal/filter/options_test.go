package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func TestParseTriState(t *testing.T) {
	tests := []struct {
		raw  string
		want models.TriState
	}{
		{"-1", models.Exclude},
		{"0", models.Ignore},
		{"1", models.Include},
		{"", models.Ignore},
		{"2", models.Ignore},
		{" 1", models.Ignore},
		{"include", models.Ignore},
		{"-", models.Ignore},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTriState(tt.raw), "raw %q", tt.raw)
	}
}

func TestTriStateValue_RoundTrip(t *testing.T) {
	for _, s := range []models.TriState{models.Exclude, models.Ignore, models.Include} {
		assert.Equal(t, s, ParseTriState(TriStateValue(s)))
	}
}

func TestParseOptions_Simple(t *testing.T) {
	got := ParseOptions("3:Red,7:Blue,12:Green")

	assert.Equal(t, []models.Option{
		{ID: 3, Name: "Red"},
		{ID: 7, Name: "Blue"},
		{ID: 12, Name: "Green"},
	}, got)
}

func TestParseOptions_LabelWithComma(t *testing.T) {
	got := ParseOptions("1:Yes, please,2:No")

	require.Len(t, got, 2)
	assert.Equal(t, "Yes, please", got[0].Name)
	assert.Equal(t, "No", got[1].Name)
}

func TestParseOptions_SkipsNonNumericIDs(t *testing.T) {
	got := ParseOptions("x:Bad,2:Good")

	assert.Equal(t, []models.Option{{ID: 2, Name: "Good"}}, got)
}

func TestParseOptions_MalformedEntryInsideRun(t *testing.T) {
	// "7Blue" has no colon, so the run falls through to the next entry
	got := ParseOptions("3:Red,7Blue,12:Green")

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, "Red", got[0].Name)
	assert.Equal(t, 12, got[1].ID)
	assert.Equal(t, "Green", got[1].Name)
}

func TestParseOptions_EmptyLabelAndInput(t *testing.T) {
	assert.Empty(t, ParseOptions(""))
	assert.Equal(t, []models.Option{{ID: 4, Name: ""}, {ID: 5, Name: "x"}}, ParseOptions("4:,5:x"))
}

func TestEncodeSelection(t *testing.T) {
	got := EncodeSelection([]models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 7, Mode: models.Ignore},
		{ID: 12, Mode: models.Exclude},
	})

	assert.Equal(t, "3:1,12:-1", got)
	assert.Equal(t, "", EncodeSelection(nil))
}

func TestDecodeSelection_RoundTrip(t *testing.T) {
	selection := []models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 7, Mode: models.Ignore},
		{ID: 12, Mode: models.Exclude},
	}

	decoded := DecodeSelection(EncodeSelection(selection))

	assert.Equal(t, []models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 12, Mode: models.Exclude},
	}, decoded)
	assert.Equal(t, EncodeSelection(selection), EncodeSelection(decoded))
}

func TestDecodeSelection_SkipsMalformed(t *testing.T) {
	got := DecodeSelection("3:1,bad,x:1,4:9,5:-1")

	assert.Equal(t, []models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 5, Mode: models.Exclude},
	}, got)
}

func TestUpdateSelection_IsFunctional(t *testing.T) {
	input := []models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 7, Mode: models.Ignore},
		{ID: 12, Mode: models.Exclude},
	}

	got := UpdateSelection(input, 7, "-1")

	assert.Equal(t, []models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 7, Mode: models.Exclude},
		{ID: 12, Mode: models.Exclude},
	}, got)
	assert.Equal(t, models.Ignore, input[1].Mode, "input must not be modified")
}

func TestUpdateSelection_UnknownID(t *testing.T) {
	input := []models.OptionFilter{{ID: 1, Mode: models.Include}}

	got := UpdateSelection(input, 99, "-1")

	assert.Equal(t, input, got)
}

func TestOptionMode(t *testing.T) {
	filters := []models.OptionFilter{
		{ID: 1, Mode: models.Include},
		{ID: 2, Mode: models.Exclude},
		{ID: 2, Mode: models.Include},
	}

	assert.Equal(t, models.Include, OptionMode(1, filters))
	assert.Equal(t, models.Ignore, OptionMode(2, filters), "duplicate ids are ambiguous")
	assert.Equal(t, models.Ignore, OptionMode(3, filters))
}

func TestSeedSelection(t *testing.T) {
	options := ParseOptions("3:Red,7:Blue,12:Green")
	prior := []models.OptionFilter{{ID: 12, Mode: models.Exclude}, {ID: 99, Mode: models.Include}}

	got := SeedSelection(options, prior)

	assert.Equal(t, []models.OptionFilter{
		{ID: 3, Mode: models.Ignore},
		{ID: 7, Mode: models.Ignore},
		{ID: 12, Mode: models.Exclude},
	}, got)
}
