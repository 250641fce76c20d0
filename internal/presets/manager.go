// Package presets stores named column filter sets in a YAML file
package presets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no preset has the requested ID
var ErrNotFound = errors.New("preset not found")

// Manager manages filter presets
type Manager struct {
	path    string
	presets []models.Preset
}

// NewManager creates a new preset manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "presets.yaml")

	m := &Manager{
		path:    path,
		presets: []models.Preset{},
	}

	// Load existing presets if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}

	return m, nil
}

// Load loads presets from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.presets); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}

	return nil
}

// Save saves presets to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}

	return nil
}

// activeOnly drops snapshots that neither filter nor sort
func activeOnly(columns []models.Snapshot) []models.Snapshot {
	out := make([]models.Snapshot, 0, len(columns))
	for _, snap := range columns {
		if snap.IsActive() {
			out = append(out, snap)
		}
	}
	return out
}

// Add saves the current column states of a table under a new name
func (m *Manager) Add(name, description, table string, columns []models.Snapshot) (*models.Preset, error) {
	// Validate inputs
	name = strings.TrimSpace(name)
	columns = activeOnly(columns)

	if name == "" {
		return nil, fmt.Errorf("preset name cannot be empty")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("preset has no active filters or sorts")
	}

	// Check for duplicate names within the table (case-insensitive)
	for _, p := range m.presets {
		if p.Table == table && strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("a preset named '%s' already exists for %s (names are case-insensitive)", name, table)
		}
	}

	now := time.Now()
	preset := models.Preset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Table:       table,
		Columns:     columns,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.presets = append(m.presets, preset)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	return &preset, nil
}

// Update replaces the name, description and columns of a preset
func (m *Manager) Update(id, name, description string, columns []models.Snapshot) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// Check for duplicate names (case-insensitive, excluding the current preset)
	for _, p := range m.presets {
		if p.ID != id && p.Table == m.presets[idx].Table && strings.EqualFold(p.Name, name) {
			return fmt.Errorf("a preset named '%s' already exists for %s (names are case-insensitive)", name, p.Table)
		}
	}

	m.presets[idx].Name = name
	m.presets[idx].Description = strings.TrimSpace(description)
	m.presets[idx].Columns = activeOnly(columns)
	m.presets[idx].UpdatedAt = time.Now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	return nil
}

// Delete deletes a preset by ID
func (m *Manager) Delete(id string) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m.presets = append(m.presets[:idx], m.presets[idx+1:]...)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save presets after deletion: %w", err)
	}
	return nil
}

func (m *Manager) indexOf(id string) int {
	for i, p := range m.presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Get returns a preset by ID
func (m *Manager) Get(id string) (*models.Preset, error) {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := m.presets[idx]
	return &p, nil
}

// GetAll returns all presets
func (m *Manager) GetAll() []models.Preset {
	return m.presets
}

// ForTable returns the presets saved for a table, most used first
func (m *Manager) ForTable(table string) []models.Preset {
	var out []models.Preset
	for _, p := range m.presets {
		if p.Table == table {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UsageCount > out[j].UsageCount
	})
	return out
}

// Search searches presets by name, description, or filtered column
func (m *Manager) Search(query string) []models.Preset {
	if query == "" {
		return m.presets
	}

	query = strings.ToLower(query)
	var results []models.Preset

	for _, p := range m.presets {
		// Search in name
		if strings.Contains(strings.ToLower(p.Name), query) {
			results = append(results, p)
			continue
		}

		// Search in description
		if strings.Contains(strings.ToLower(p.Description), query) {
			results = append(results, p)
			continue
		}

		// Search in column names
		for _, col := range p.Columns {
			if strings.Contains(strings.ToLower(col.Field), query) {
				results = append(results, p)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a preset
func (m *Manager) RecordUsage(id string) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m.presets[idx].UsageCount++
	m.presets[idx].LastUsed = time.Now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save usage statistics: %w", err)
	}
	return nil
}

// GetRecent returns the most recently used presets
func (m *Manager) GetRecent(limit int) []models.Preset {
	sorted := make([]models.Preset, len(m.presets))
	copy(sorted, m.presets)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// ExportToJSON exports all presets to a JSON file
func (m *Manager) ExportToJSON(customPath ...string) (string, error) {
	if len(m.presets) == 0 {
		return "", fmt.Errorf("no presets to export")
	}

	// Determine export path
	path := filepath.Join(filepath.Dir(m.path), "presets.json")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportToJSON(m.presets, path); err != nil {
		return "", fmt.Errorf("failed to export presets to JSON: %w", err)
	}

	return path, nil
}
