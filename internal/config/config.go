package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Config holds all application configuration
type Config struct {
	UI      UIConfig            `mapstructure:"ui"`
	Data    DataConfig          `mapstructure:"data"`
	Source  models.SourceConfig `mapstructure:"source"`
	State   StateConfig         `mapstructure:"state"`
	Log     LogConfig           `mapstructure:"log"`
	Columns []ColumnConfig      `mapstructure:"columns"`
}

type UIConfig struct {
	Theme          string `mapstructure:"theme"`
	MouseEnabled   bool   `mapstructure:"mouse_enabled"`
	AlwaysExpanded bool   `mapstructure:"always_expanded"`
	IncludeLabel   string `mapstructure:"include_label"`
	ExcludeLabel   string `mapstructure:"exclude_label"`
	SingleSort     bool   `mapstructure:"single_sort"`
}

type DataConfig struct {
	PageSize             int `mapstructure:"page_size"`
	MaxCellDisplayLength int `mapstructure:"max_cell_display_length"`
	QueryTimeout         int `mapstructure:"query_timeout"` // milliseconds
}

type StateConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	View       string `mapstructure:"view"`
	PresetsDir string `mapstructure:"presets_dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// ColumnConfig overrides what lazygrid infers about a column
type ColumnConfig struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Options     string `mapstructure:"options"` // "id:label,id:label"
	ShowMinMax  *bool  `mapstructure:"show_min_max"`
	SortByValue bool   `mapstructure:"sort_by_value"`
}

// Apply merges the override into an inferred column spec
func (c ColumnConfig) Apply(spec models.ColumnSpec) models.ColumnSpec {
	if c.Type != "" {
		spec.DataType = models.ParseDataType(c.Type)
	}
	if c.Options != "" {
		spec.Options = filter.ParseOptions(c.Options)
		if c.Type == "" {
			spec.DataType = models.DataTypeOption
		}
	}
	if c.ShowMinMax != nil {
		spec.ShowMinMax = *c.ShowMinMax
	}
	spec.SortByValue = c.SortByValue
	return spec
}

// Column returns the override for a column name, if any
func (c *Config) Column(name string) (ColumnConfig, bool) {
	for _, col := range c.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return ColumnConfig{}, false
}

// ColumnSpecs infers a spec for each database column and applies the
// configured overrides
func (c *Config) ColumnSpecs(infos []models.ColumnInfo) []models.ColumnSpec {
	specs := make([]models.ColumnSpec, 0, len(infos))
	for _, info := range infos {
		spec := models.ColumnSpec{
			Name:     info.Name,
			DataType: filter.DataTypeForSQL(info.DataType),
			SQLType:  info.DataType,
		}
		if override, ok := c.Column(info.Name); ok {
			spec = override.Apply(spec)
		}
		specs = append(specs, spec)
	}
	return specs
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:          "default",
			MouseEnabled:   false,
			AlwaysExpanded: false,
			IncludeLabel:   "Include",
			ExcludeLabel:   "Exclude",
			SingleSort:     true,
		},
		Data: DataConfig{
			PageSize:             100,
			MaxCellDisplayLength: 40,
			QueryTimeout:         10000,
		},
		Source: models.SourceConfig{
			Driver: models.DriverSQLite,
		},
		State: StateConfig{
			Enabled:    true,
			Path:       defaultStatePath(),
			View:       "default",
			PresetsDir: defaultConfigDir(),
		},
		Log: LogConfig{
			Level: "INFO",
			Path:  defaultLogPath(),
		},
	}
}

// Load loads configuration from files. An explicit file path takes
// precedence over the search paths.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// 1. User config directory
		if dir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(dir)
		}
		// 2. Current directory
		v.AddConfigPath(".")
		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	defaults := GetDefaults()
	v.SetDefault("ui.theme", defaults.UI.Theme)
	v.SetDefault("ui.mouse_enabled", defaults.UI.MouseEnabled)
	v.SetDefault("ui.always_expanded", defaults.UI.AlwaysExpanded)
	v.SetDefault("ui.include_label", defaults.UI.IncludeLabel)
	v.SetDefault("ui.exclude_label", defaults.UI.ExcludeLabel)
	v.SetDefault("ui.single_sort", defaults.UI.SingleSort)
	v.SetDefault("data.page_size", defaults.Data.PageSize)
	v.SetDefault("data.max_cell_display_length", defaults.Data.MaxCellDisplayLength)
	v.SetDefault("data.query_timeout", defaults.Data.QueryTimeout)
	v.SetDefault("source.driver", string(defaults.Source.Driver))
	v.SetDefault("state.enabled", defaults.State.Enabled)
	v.SetDefault("state.path", defaults.State.Path)
	v.SetDefault("state.view", defaults.State.View)
	v.SetDefault("state.presets_dir", defaults.State.PresetsDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.path", defaults.Log.Path)

	v.SetEnvPrefix("LAZYGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazygrid"), nil
}

func defaultConfigDir() string {
	dir, err := GetConfigPath()
	if err != nil {
		return ""
	}
	return dir
}

func defaultStatePath() string {
	dir, err := GetConfigPath()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "state.db")
}

func defaultLogPath() string {
	dir, err := GetConfigPath()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lazygrid.log")
}
