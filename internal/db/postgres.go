package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// PostgresSource reads tables through a pgx connection pool
type PostgresSource struct {
	pool    *pgxpool.Pool
	builder *filter.Builder
	log     *logging.Logger
}

// NewPostgresSource creates a new connection pool
func NewPostgresSource(ctx context.Context, config models.SourceConfig, log *logging.Logger) (*PostgresSource, error) {
	poolConfig, err := pgxpool.ParseConfig(config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSource{
		pool:    pool,
		builder: filter.NewBuilder(filter.DialectPostgres),
		log:     log.WithComponent("postgres"),
	}, nil
}

// Dialect implements Source
func (p *PostgresSource) Dialect() filter.Dialect {
	return filter.DialectPostgres
}

// Columns implements Source
func (p *PostgresSource) Columns(ctx context.Context, schema, table string) ([]models.ColumnInfo, error) {
	if schema == "" {
		schema = "public"
	}

	rows, err := p.pool.Query(ctx, `
		SELECT column_name, data_type, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var col models.ColumnInfo
		var position int32
		if err := rows.Scan(&col.Name, &col.DataType, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Position = int(position)
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}

	return columns, nil
}

// QueryTableData implements Source
func (p *PostgresSource) QueryTableData(ctx context.Context, f models.Filter, offset, limit int) (*TableData, error) {
	if f.Schema == "" {
		f.Schema = "public"
	}

	countQuery, countArgs, err := p.builder.BuildCount(f)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	query, args, err := p.builder.BuildSelect(f, limit, offset)
	if err != nil {
		return nil, err
	}
	p.log.Debug("query", "sql", query, "args", len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer rows.Close()

	// Get column names
	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	data := [][]string{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		data = append(data, row)
	}

	// Check for errors from iteration
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
func (p *PostgresSource) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
