package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// SQLiteSource reads tables from a SQLite database file
type SQLiteSource struct {
	db      *sql.DB
	builder *filter.Builder
	log     *logging.Logger
}

// NewSQLiteSource opens the database at path
func NewSQLiteSource(path string, log *logging.Logger) (*SQLiteSource, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite source needs a database path")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return NewSQLiteSourceFromDB(db, log), nil
}

// NewSQLiteSourceFromDB wraps an already open database handle
func NewSQLiteSourceFromDB(db *sql.DB, log *logging.Logger) *SQLiteSource {
	return &SQLiteSource{
		db:      db,
		builder: filter.NewBuilder(filter.DialectSQLite),
		log:     log.WithComponent("sqlite"),
	}
}

// Dialect implements Source
func (s *SQLiteSource) Dialect() filter.Dialect {
	return filter.DialectSQLite
}

// Columns implements Source. SQLite has no schemas so schema is ignored.
func (s *SQLiteSource) Columns(ctx context.Context, _, table string) ([]models.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+filter.QuoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []models.ColumnInfo
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, models.ColumnInfo{Name: name, DataType: colType, Position: cid})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}

	return columns, nil
}

// QueryTableData implements Source
func (s *SQLiteSource) QueryTableData(ctx context.Context, f models.Filter, offset, limit int) (*TableData, error) {
	countQuery, countArgs, err := s.builder.BuildCount(f)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	query, args, err := s.builder.BuildSelect(f, limit, offset)
	if err != nil {
		return nil, err
	}
	s.log.Debug("query", "sql", query, "args", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	data := [][]string{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &TableData{
		Columns:   columns,
		Rows:      data,
		TotalRows: total,
	}, nil
}

// Close implements Source
func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
