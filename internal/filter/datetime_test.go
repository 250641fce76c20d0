package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func TestISOToEpoch(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Unix()

	tests := []struct {
		in   string
		want int64
	}{
		{"2024-03-10", day},
		{"2024-03-10T00:00:00Z", day},
		{"2024-03-10T13:45", day + 13*3600 + 45*60},
		{"2024-03-10T13:45:30", day + 13*3600 + 45*60 + 30},
		{"2024-03-10T13:45:30+01:00", day + 12*3600 + 45*60 + 30},
	}

	for _, tt := range tests {
		got, err := ISOToEpoch(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestISOToEpoch_Invalid(t *testing.T) {
	_, err := ISOToEpoch("10/03/2024")
	assert.True(t, errors.Is(err, ErrInvalidBound))
}

func TestEpochToISO(t *testing.T) {
	v := time.Date(2024, 3, 10, 13, 45, 0, 0, time.UTC).Unix()

	assert.Equal(t, "2024-03-10", EpochToISO(v, models.DataTypeDate))
	assert.Equal(t, "2024-03-10T13:45", EpochToISO(v, models.DataTypeDateTime))
	assert.Equal(t, "", EpochToISO(0, models.DataTypeDate))
	assert.Equal(t, "", EpochToISO(-5, models.DataTypeDateTime))
}

func TestAdjustMax(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Unix()

	assert.Equal(t, day+86399, AdjustMax(models.DataTypeDate, day))
	assert.Equal(t, day, AdjustMax(models.DataTypeDateTime, day))
	assert.Equal(t, int64(5), AdjustMax(models.DataTypeNumber, 5))
	assert.Equal(t, int64(86399), AdjustMax(models.DataTypeDate, 0))
	assert.Equal(t, int64(-1), AdjustMax(models.DataTypeDate, -86400))
}

func TestParseBound(t *testing.T) {
	n, err := ParseBound(models.DataTypeNumber, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = ParseBound(models.DataTypeNumber, "12px")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	n, err = ParseBound(models.DataTypeNumber, "-7.9")
	require.NoError(t, err)
	assert.Equal(t, int64(-7), n)

	n, err = ParseBound(models.DataTypeNumber, "  ")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = ParseBound(models.DataTypeNumber, "abc")
	assert.ErrorIs(t, err, ErrInvalidBound)

	_, err = ParseBound(models.DataTypeNumber, "-")
	assert.ErrorIs(t, err, ErrInvalidBound)

	n, err = ParseBound(models.DataTypeDate, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Unix(), n)
}

func TestFormatBound(t *testing.T) {
	assert.Equal(t, "", FormatBound(models.DataTypeNumber, 0))
	assert.Equal(t, "-3", FormatBound(models.DataTypeNumber, -3))
	assert.Equal(t, "2024-03-10", FormatBound(models.DataTypeDate, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Unix()))
	assert.Equal(t, "1969-12-31", FormatBound(models.DataTypeDate, -1))
	assert.Equal(t, "1970-01-01", FormatBound(models.DataTypeDate, 86399))
}
