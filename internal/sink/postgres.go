// Package sink writes imported records to external stores.
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/output"
	"go.uber.org/zap"
)

// DefaultTable receives cascade field records.
const DefaultTable = "cascade_fields"

// copier is the subset of *pgxpool.Pool the sink needs.
type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresConfig configures the Postgres sink.
type PostgresConfig struct {
	URL      string
	Table    string
	MaxConns int
}

// Postgres copies valid records into a table with COPY.
type Postgres struct {
	pool  *pgxpool.Pool
	db    copier
	table pgx.Identifier
	log   *zap.Logger
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := newPostgres(pool, cfg.Table, logger)
	p.pool = pool
	return p, nil
}

func newPostgres(db copier, table string, logger *zap.Logger) *Postgres {
	if table == "" {
		table = DefaultTable
	}
	return &Postgres{db: db, table: TableIdentifier(table), log: logger}
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Write copies the valid records of res and returns the number of rows
// copied. Columns are the record keys in first-seen order; values are sent
// as display text and nulls as NULL.
func (p *Postgres) Write(ctx context.Context, res *models.Result) (int64, error) {
	valid := res.ValidRecords()
	if len(valid) == 0 {
		return 0, nil
	}

	columns := output.Columns(valid)
	n, err := p.db.CopyFrom(ctx, p.table, columns, pgx.CopyFromRows(copyRows(valid, columns)))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", p.table.Sanitize(), err)
	}
	p.log.Info("records copied",
		zap.String("table", p.table.Sanitize()),
		zap.Int64("rows", n),
		zap.Int("columns", len(columns)),
	)
	return n, nil
}

// TableIdentifier splits an optionally schema-qualified table name.
func TableIdentifier(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

func copyRows(records []models.Record, columns []string) [][]any {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, col := range columns {
			v, _ := rec.Get(col)
			if v.IsNull() {
				row[j] = nil
			} else {
				row[j] = v.String()
			}
		}
		rows[i] = row
	}
	return rows
}
