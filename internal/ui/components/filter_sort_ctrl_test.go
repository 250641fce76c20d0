package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// changes runs cmd and collects every change message it yields
func changes(cmd tea.Cmd) []FilterSortChangeMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case FilterSortChangeMsg:
		return []FilterSortChangeMsg{msg}
	case tea.BatchMsg:
		var out []FilterSortChangeMsg
		for _, c := range msg {
			out = append(out, changes(c)...)
		}
		return out
	}
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newCtrl(props FilterSortProps) *FilterSortCtrl {
	if props.ColName == "" {
		props.ColName = "name"
	}
	props.StateSlice = "orders"
	props.Action = "setColumnFilter"
	return NewFilterSortCtrl(props, theme.DefaultTheme(), nil)
}

func TestFilterSortCtrl_SeedsFromStateData(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{
		ColName:  "status",
		DataType: models.DataTypeOption,
		Order:    models.SortAscending,
		Options: []models.Option{
			{ID: 1, Name: "Open"},
			{ID: 2, Name: "Closed"},
			{ID: 3, Name: "Archived"},
		},
		StateData: &models.Snapshot{
			Field:   "status",
			Order:   models.SortDescending,
			Min:     3,
			Max:     9,
			Options: []models.OptionFilter{{ID: 2, Mode: models.Exclude}},
		},
	})

	snap := ctrl.Snapshot()
	assert.Equal(t, models.SortDescending, snap.Order, "state data wins over props")
	assert.Equal(t, int64(3), snap.Min)
	assert.Equal(t, int64(9), snap.Max)
	assert.Equal(t, []models.OptionFilter{{ID: 2, Mode: models.Exclude}}, snap.Options)

	// Re-selecting the seeded mode is not a change
	assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldOption, ChildID: 2, Value: "-1"}))
}

func TestFilterSortCtrl_ToggleAndHidden(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{})
	assert.True(t, ctrl.Hidden())
	assert.Empty(t, ctrl.View())

	ctrl.Toggle()
	assert.False(t, ctrl.Hidden())
	assert.Contains(t, ctrl.View(), "Filter and sort: name")

	ctrl.Toggle()
	assert.True(t, ctrl.Hidden())

	always := newCtrl(FilterSortProps{AlwaysExpanded: true})
	assert.False(t, always.Hidden())
	always.Toggle()
	always.Toggle()
	assert.False(t, always.Hidden())
}

func TestFilterSortCtrl_TextChangeDetection(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeText, Filter: "abc"})

	assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldFilter, Value: "abc"}))

	got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldFilter, Value: "abd"}))
	require.Len(t, got, 1)
	assert.Equal(t, "orders", got[0].StateSlice)
	assert.Equal(t, "name", got[0].ColName)
	assert.Equal(t, "setColumnFilter", got[0].Action)
	assert.Equal(t, models.FieldFilter, got[0].Subtype)
	assert.Equal(t, "abd", got[0].Value)
	assert.Equal(t, "abd", got[0].Snapshot.Filter)
	assert.Equal(t, "abd", ctrl.Value())
}

func TestFilterSortCtrl_Bounds(t *testing.T) {
	t.Run("date max includes the whole day", func(t *testing.T) {
		ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeDate, ShowMinMax: true})

		got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: "2024-01-15"}))
		require.Len(t, got, 1)
		assert.Equal(t, models.FieldMax, got[0].Subtype)
		assert.Equal(t, int64(1705276800+86399), got[0].Value)

		// Same day again is not a change
		assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: "2024-01-15"}))

		got = changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: "2024-01-15"}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(1705276800), got[0].Value, "min is not adjusted")
	})

	t.Run("datetime max is not adjusted", func(t *testing.T) {
		ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeDateTime})

		got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: "2024-01-15T10:30"}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(1705314600), got[0].Value)
	})

	t.Run("number parses a leading integer", func(t *testing.T) {
		ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeNumber, ShowMinMax: true})

		got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: "42abc"}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(42), got[0].Value)
	})

	t.Run("date max around the epoch", func(t *testing.T) {
		ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeDate})

		got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: "1969-12-31"}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(-1), got[0].Snapshot.Max)

		got = changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: "1970-01-01"}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(86399), got[0].Snapshot.Max)

		got = changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMax, Value: ""}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(0), got[0].Snapshot.Max, "cleared max is unset, not end of day")
	})

	t.Run("zero bound is flagged", func(t *testing.T) {
		ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeNumber, ShowMinMax: true, Expanded: true})

		assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: "0"}))
		assert.Equal(t, "Minimum of 0 is treated as no bound", ctrl.BoundNote())
		assert.Contains(t, ctrl.View(), "treated as no bound")

		_ = ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: "3"})
		assert.Empty(t, ctrl.BoundNote())
		assert.NotContains(t, ctrl.View(), "treated as no bound")
	})

	t.Run("malformed input keeps the bound", func(t *testing.T) {
		ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeNumber, ShowMinMax: true, Min: 5})

		assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: "abc"}))
		assert.Equal(t, int64(5), ctrl.Snapshot().Min)
		assert.NotEmpty(t, ctrl.ValidationError())

		got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: ""}))
		require.Len(t, got, 1)
		assert.Equal(t, int64(0), got[0].Snapshot.Min, "cleared input removes the bound")
		assert.Empty(t, ctrl.ValidationError())
	})
}

func TestFilterSortCtrl_Bool(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeBool})

	assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldBool, Value: "junk"}), "junk is ignore")

	got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldBool, Value: "-1"}))
	require.Len(t, got, 1)
	assert.Equal(t, models.Exclude, got[0].Value)
	assert.Equal(t, models.Exclude, got[0].Snapshot.Bool)
}

func TestFilterSortCtrl_Options(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{
		DataType: models.DataTypeOption,
		Options:  []models.Option{{ID: 3, Name: "Red"}, {ID: 7, Name: "Green"}, {ID: 12, Name: "Blue"}},
	})

	got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldOption, ChildID: 3, Value: "1"}))
	require.Len(t, got, 1)
	assert.Equal(t, "3:1", got[0].Value)

	got = changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldOption, ChildID: 12, Value: "-1"}))
	require.Len(t, got, 1)
	assert.Equal(t, models.FieldOption, got[0].Subtype)
	assert.Equal(t, "3:1,12:-1", got[0].Value)

	assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldOption, ChildID: 12, Value: "-1"}))
	assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldOption, ChildID: 99, Value: "1"}), "unknown option")
}

func TestFilterSortCtrl_SortButtons(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{})

	tests := []struct {
		kind models.FieldKind
		want models.SortOrder
	}{
		{models.FieldSortUp, models.SortDescending},
		{models.FieldSortUp, models.SortNone},
		{models.FieldSortDown, models.SortAscending},
		{models.FieldSortUp, models.SortDescending},
		{models.FieldSortDown, models.SortAscending},
		{models.FieldSortDown, models.SortNone},
	}

	for _, tt := range tests {
		got := changes(ctrl.HandleInput(models.FieldInput{Kind: tt.kind}))
		require.Len(t, got, 1)
		assert.Equal(t, tt.want, got[0].Value)
		assert.Equal(t, "order", got[0].Subtype.String())
		assert.Equal(t, tt.want, ctrl.Order())
	}

	ctrl.SetOrder(models.SortAscending)
	assert.Equal(t, models.SortAscending, ctrl.Snapshot().Order)
}

func TestFilterSortCtrl_UnknownFieldKind(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{})
	assert.Nil(t, ctrl.HandleInput(models.FieldInput{Kind: models.FieldKind(99), Value: "x"}))
}

func TestFilterSortCtrl_KeyboardText(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeText, Expanded: true})

	_, cmd := ctrl.Update(runes("a"))
	got := changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Value)

	_, cmd = ctrl.Update(runes("b"))
	got = changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, "ab", got[0].Snapshot.Filter)

	// u types into the input rather than sorting
	_, cmd = ctrl.Update(runes("u"))
	got = changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, models.FieldFilter, got[0].Subtype)

	// Tab to the up button and press it
	_, cmd = ctrl.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
	_, cmd = ctrl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, models.SortDescending, got[0].Value)

	_, cmd = ctrl.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, FilterSortClosedMsg{ColName: "name"}, cmd())
	assert.True(t, ctrl.Hidden())

	// Collapsed controls ignore keys
	_, cmd = ctrl.Update(runes("x"))
	assert.Nil(t, cmd)
}

func TestFilterSortCtrl_KeyboardTrio(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeBool, Expanded: true})

	_, cmd := ctrl.Update(tea.KeyMsg{Type: tea.KeyRight})
	got := changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, models.Include, got[0].Value)

	_, cmd = ctrl.Update(tea.KeyMsg{Type: tea.KeyRight})
	got = changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, models.Exclude, got[0].Value)

	// Already at the right end
	_, cmd = ctrl.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd)

	_, cmd = ctrl.Update(runes("d"))
	got = changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, models.SortAscending, got[0].Value)
}

func TestFilterSortCtrl_KeyboardOptions(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{
		DataType: models.DataTypeOption,
		Expanded: true,
		Options:  []models.Option{{ID: 1, Name: "Open"}, {ID: 2, Name: "Closed"}},
	})

	_, _ = ctrl.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := ctrl.Update(tea.KeyMsg{Type: tea.KeyRight})
	got := changes(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, "2:1", got[0].Value)

	view := ctrl.View()
	assert.Contains(t, view, "Open:")
	assert.Contains(t, view, "Closed:")
}

func TestFilterSortCtrl_RangeToggle(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{ColName: "qty", DataType: models.DataTypeNumber, Expanded: true})
	assert.False(t, ctrl.ShowMinMax())
	assert.Contains(t, ctrl.View(), "Filter by value")

	_, cmd := ctrl.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	require.NotNil(t, cmd)
	assert.Equal(t, FilterSortLayoutMsg{ColName: "qty", ShowMinMax: true}, cmd())
	assert.True(t, ctrl.ShowMinMax())
	assert.True(t, ctrl.Spec().ShowMinMax)

	view := ctrl.View()
	assert.Contains(t, view, "Minimum:")
	assert.Contains(t, view, "Maximum:")
}

func TestFilterSortCtrl_StoredLayout(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{ColName: "qty", DataType: models.DataTypeNumber, Expanded: true})
	_, _ = ctrl.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	got := changes(ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: "5"}))
	require.Len(t, got, 1)
	assert.Equal(t, models.LayoutRange, got[0].Snapshot.Layout)

	// The stored layout wins over the configured one
	snap := ctrl.Snapshot()
	restored := newCtrl(FilterSortProps{ColName: "qty", DataType: models.DataTypeNumber, StateData: &snap})
	assert.True(t, restored.ShowMinMax())
	assert.True(t, restored.Spec().ShowMinMax)
	assert.Equal(t, "5", restored.minInput.Value())

	// Snapshots without a layout keep the configured one
	legacy := newCtrl(FilterSortProps{DataType: models.DataTypeNumber, ShowMinMax: true, StateData: &models.Snapshot{Min: 5}})
	assert.True(t, legacy.ShowMinMax())

	// Dates do not record a layout
	date := newCtrl(FilterSortProps{DataType: models.DataTypeDate})
	assert.Equal(t, models.LayoutDefault, date.Snapshot().Layout)
}

func TestFilterBadge_FollowsLayout(t *testing.T) {
	th := theme.DefaultTheme()

	assert.NotEmpty(t, FilterBadge(th, models.Snapshot{Min: 5, Layout: models.LayoutRange}))
	assert.Empty(t, FilterBadge(th, models.Snapshot{Min: 5, Layout: models.LayoutValue}), "bounds are ignored in value mode")
	assert.Empty(t, FilterBadge(th, models.Snapshot{Filter: "42", Layout: models.LayoutRange}))
	assert.NotEmpty(t, FilterBadge(th, models.Snapshot{Min: 5}))
}

func TestFilterSortCtrl_HeaderView(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{ColName: "qty", DataType: models.DataTypeNumber, ShowMinMax: true})
	assert.Equal(t, "qty", strings.TrimSpace(ctrl.HeaderView(0, false)))

	_ = ctrl.HandleInput(models.FieldInput{Kind: models.FieldSortDown})
	_ = ctrl.HandleInput(models.FieldInput{Kind: models.FieldMin, Value: "3"})

	header := ctrl.HeaderView(0, false)
	assert.Contains(t, header, "▼")
	assert.Contains(t, header, "●")
}

func TestFilterSortCtrl_TextHelp(t *testing.T) {
	ctrl := newCtrl(FilterSortProps{DataType: models.DataTypeText, Expanded: true})
	assert.Contains(t, ctrl.View(), "semicolon")

	num := newCtrl(FilterSortProps{DataType: models.DataTypeNumber, Expanded: true})
	assert.NotContains(t, num.View(), "semicolon")
}
