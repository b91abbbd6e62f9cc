// Package store keeps the delivery journal in SQLite. The journal is an audit trail
// and the source of brief digests, it is never used to restore dedup state.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/newscast/pkg/domain"
)

//go:embed schema.sql
var schemaFS embed.FS

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Journal records delivery attempts
type Journal struct {
	db *sqlx.DB
}

// Stats summarizes the journal
type Stats struct {
	Sent       int64     `json:"sent"`
	Failed     int64     `json:"failed"`
	LastSentAt time.Time `json:"last_sent_at"`
}

// deliveryRow is the db shape of domain.Delivery, timestamps are unix milliseconds
type deliveryRow struct {
	ID        int64  `db:"id"`
	EntryID   string `db:"entry_id"`
	Title     string `db:"title"`
	Link      string `db:"link"`
	Status    string `db:"status"`
	Error     string `db:"error"`
	CreatedAt int64  `db:"created_at"`
}

// New opens the database and creates the schema
func New(ctx context.Context, cfg Config) (*Journal, error) {
	if cfg.DSN == "" {
		return nil, errors.New("empty dsn")
	}

	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// a single writer keeps per-connection pragmas and in-memory databases consistent
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends one delivery attempt. Lock errors are retried with backoff.
func (j *Journal) Record(ctx context.Context, d domain.Delivery) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	row := toRow(d)

	var critical error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		_, err := j.db.NamedExecContext(ctx, `
			INSERT INTO deliveries (entry_id, title, link, status, error, created_at)
			VALUES (:entry_id, :title, :link, :status, :error, :created_at)`, row)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			critical = err
		}
		return nil
	})
	if critical != nil {
		return fmt.Errorf("insert delivery: %w", critical)
	}
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// Recent returns attempts made at or after since, newest first. limit <= 0 means no limit.
func (j *Journal) Recent(ctx context.Context, since time.Time, limit int) ([]domain.Delivery, error) {
	query := `SELECT id, entry_id, title, link, status, error, created_at
		FROM deliveries WHERE created_at >= ? ORDER BY created_at DESC, id DESC`
	args := []any{since.UnixMilli()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []deliveryRow
	if err := j.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select deliveries: %w", err)
	}
	res := make([]domain.Delivery, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.toDomain())
	}
	return res, nil
}

// Stats counts attempts by outcome
func (j *Journal) Stats(ctx context.Context) (Stats, error) {
	var row struct {
		Sent   sql.NullInt64 `db:"sent"`
		Failed sql.NullInt64 `db:"failed"`
		Last   sql.NullInt64 `db:"last_sent"`
	}
	err := j.db.GetContext(ctx, &row, `
		SELECT
			SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END) AS sent,
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed,
			MAX(CASE WHEN status = 'sent' THEN created_at END) AS last_sent
		FROM deliveries`)
	if err != nil {
		return Stats{}, fmt.Errorf("get delivery stats: %w", err)
	}

	st := Stats{Sent: row.Sent.Int64, Failed: row.Failed.Int64}
	if row.Last.Valid {
		st.LastSentAt = time.UnixMilli(row.Last.Int64)
	}
	return st, nil
}

// Ping verifies the database connection
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.db.Close()
}

func initSchema(ctx context.Context, db *sqlx.DB) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

func toRow(d domain.Delivery) deliveryRow {
	return deliveryRow{
		ID:        d.ID,
		EntryID:   d.EntryID,
		Title:     d.Title,
		Link:      d.Link,
		Status:    string(d.Status),
		Error:     d.Error,
		CreatedAt: d.CreatedAt.UnixMilli(),
	}
}

func (r deliveryRow) toDomain() domain.Delivery {
	return domain.Delivery{
		ID:        r.ID,
		EntryID:   r.EntryID,
		Title:     r.Title,
		Link:      r.Link,
		Status:    domain.DeliveryStatus(r.Status),
		Error:     r.Error,
		CreatedAt: time.UnixMilli(r.CreatedAt),
	}
}
