package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/sink"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the dataset table. Idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS dataset_records (
            run_id     TEXT        NOT NULL,
            ordinal    BIGINT      NOT NULL,
            payload    JSONB       NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (run_id, ordinal)
        )
    `)
	if err != nil {
		return fmt.Errorf("migrate dataset: %w", err)
	}
	return nil
}

// Dataset is an ordered record stream persisted per run. The ordinal is
// assigned at push time, so read-back order always matches push order.
type Dataset struct {
	db    *DB
	runID string

	mu   sync.Mutex
	next int64
}

func NewDataset(db *DB, runID string) *Dataset {
	return &Dataset{db: db, runID: runID}
}

func (d *Dataset) Push(ctx context.Context, record json.RawMessage) error {
	d.mu.Lock()
	ordinal := d.next
	d.next++
	d.mu.Unlock()

	query := `
        INSERT INTO dataset_records (run_id, ordinal, payload)
        VALUES ($1, $2, $3)
    `

	if _, err := d.db.Pool.Exec(ctx, query, d.runID, ordinal, record); err != nil {
		return fmt.Errorf("%w: %v", sink.ErrPushFailed, err)
	}
	return nil
}

// Records returns the run's records in push order.
func (d *Dataset) Records(ctx context.Context) ([]json.RawMessage, error) {
	query := `
        SELECT payload
        FROM dataset_records
        WHERE run_id = $1
        ORDER BY ordinal
    `

	rows, err := d.db.Pool.Query(ctx, query, d.runID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, json.RawMessage(payload))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

var _ sink.Sink = (*Dataset)(nil)
