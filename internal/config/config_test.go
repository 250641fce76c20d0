package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

const sampleConfig = `
ui:
  theme: catppuccin-mocha
  include_label: Only
data:
  page_size: 25
source:
  driver: postgres
  host: db.local
  database: shop
columns:
  - name: status
    options: "1:Open,2:Closed"
  - name: qty
    type: number
    show_min_max: true
    sort_by_value: true
`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "catppuccin-mocha", cfg.UI.Theme)
	assert.Equal(t, "Only", cfg.UI.IncludeLabel)
	assert.Equal(t, "Exclude", cfg.UI.ExcludeLabel, "default kept")
	assert.Equal(t, 25, cfg.Data.PageSize)
	assert.Equal(t, 10000, cfg.Data.QueryTimeout)
	assert.Equal(t, models.DriverPostgres, cfg.Source.Driver)
	assert.Equal(t, "db.local", cfg.Source.Host)
	require.Len(t, cfg.Columns, 2)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestColumnConfig_Apply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)

	status, ok := cfg.Column("STATUS")
	require.True(t, ok)
	spec := status.Apply(models.ColumnSpec{Name: "status", DataType: models.DataTypeNumber})
	assert.Equal(t, models.DataTypeOption, spec.DataType)
	assert.Equal(t, []models.Option{{ID: 1, Name: "Open"}, {ID: 2, Name: "Closed"}}, spec.Options)

	qty, ok := cfg.Column("qty")
	require.True(t, ok)
	spec = qty.Apply(models.ColumnSpec{Name: "qty", DataType: models.DataTypeText})
	assert.Equal(t, models.DataTypeNumber, spec.DataType)
	assert.True(t, spec.ShowMinMax)
	assert.True(t, spec.SortByValue)

	_, ok = cfg.Column("missing")
	assert.False(t, ok)
}

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	assert.Equal(t, "default", cfg.UI.Theme)
	assert.Equal(t, 100, cfg.Data.PageSize)
	assert.True(t, cfg.State.Enabled)
	assert.Equal(t, models.DriverSQLite, cfg.Source.Driver)
}

func TestConfig_ColumnSpecs(t *testing.T) {
	cfg := GetDefaults()
	cfg.Columns = []ColumnConfig{{Name: "status", Options: "1:Open,2:Closed"}}

	specs := cfg.ColumnSpecs([]models.ColumnInfo{
		{Name: "placed_at", DataType: "timestamp with time zone"},
		{Name: "status", DataType: "integer"},
		{Name: "note", DataType: "TEXT"},
	})

	require.Len(t, specs, 3)
	assert.Equal(t, models.DataTypeDateTime, specs[0].DataType)
	assert.Equal(t, "timestamp with time zone", specs[0].SQLType)
	assert.Equal(t, models.DataTypeOption, specs[1].DataType)
	assert.Len(t, specs[1].Options, 2)
	assert.Equal(t, models.DataTypeText, specs[2].DataType)
}
