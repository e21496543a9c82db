package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tvm-agent/domain"
)

const sqliteInMemory = ":memory:"

// ScanRepositorySQLite persists scan records in a SQLite database.
type ScanRepositorySQLite struct {
	db *sql.DB
}

// NewScanRepositorySQLite opens (or creates) the database at path.
// Use ":memory:" for a throwaway database.
func NewScanRepositorySQLite(path string) (*ScanRepositorySQLite, error) {
	dsn := sqliteInMemory
	if path != sqliteInMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	repo := &ScanRepositorySQLite{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

func (r *ScanRepositorySQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		input TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at DESC);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *ScanRepositorySQLite) Save(
	ctx context.Context,
	record domain.ScanRecord,
) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scans (id, kind, input, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID.String(), string(record.Kind), record.Input, record.RowCount, record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}
	return nil
}

func (r *ScanRepositorySQLite) List(
	ctx context.Context,
	limit int,
) ([]domain.ScanRecord, error) {
	query := `SELECT id, kind, input, row_count, created_at FROM scans ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	records := []domain.ScanRecord{}
	for rows.Next() {
		var (
			id        string
			kind      string
			record    domain.ScanRecord
			createdAt time.Time
		)
		if err := rows.Scan(&id, &kind, &record.Input, &record.RowCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		record.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid scan id %q: %w", id, err)
		}
		record.Kind = domain.ScanKind(kind)
		record.CreatedAt = createdAt
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *ScanRepositorySQLite) Close() error {
	return r.db.Close()
}
