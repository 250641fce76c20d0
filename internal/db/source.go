package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ErrUnsupportedDriver is returned for an unknown source driver
var ErrUnsupportedDriver = errors.New("unsupported source driver")

// TableData represents one page of filtered table data
type TableData struct {
	Columns   []string
	Rows      [][]string
	TotalRows int64
}

// Source reads filtered, sorted pages of a table
type Source interface {
	Dialect() filter.Dialect
	Columns(ctx context.Context, schema, table string) ([]models.ColumnInfo, error)
	QueryTableData(ctx context.Context, f models.Filter, offset, limit int) (*TableData, error)
	Close() error
}

// Open connects to the configured source
func Open(ctx context.Context, cfg models.SourceConfig, log *logging.Logger) (Source, error) {
	switch cfg.Driver {
	case models.DriverSQLite, "":
		return NewSQLiteSource(cfg.Path, log)
	case models.DriverPostgres:
		resolved, err := ResolvePassword(cfg)
		if err != nil {
			log.Warn("keyring lookup failed", "error", err)
			resolved = cfg
		}
		return NewPostgresSource(ctx, resolved, log)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// SplitTableName splits "schema.table" into its parts
func SplitTableName(name string) (string, string) {
	if schema, table, found := strings.Cut(name, "."); found {
		return schema, table
	}
	return "", name
}

// formatValue converts a database value to its display string, handling JSON
// values properly
func formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case map[string]interface{}, []interface{}:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	case []byte:
		return string(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
