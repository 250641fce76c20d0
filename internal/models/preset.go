package models

import "time"

// Preset is a named set of column filters and sorts saved for a table
type Preset struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Table       string     `yaml:"table" json:"table"`
	Columns     []Snapshot `yaml:"columns" json:"columns"`
	CreatedAt   time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time  `yaml:"last_used,omitempty" json:"last_used,omitempty"`
	UsageCount  int        `yaml:"usage_count" json:"usage_count"`
}
