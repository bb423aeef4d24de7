package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SnapshotTransaction is one cached transaction row. Position preserves
// the server's flat-list order across save and load.
type SnapshotTransaction struct {
	ID          int64
	Description string
	AmountCents int64
	Date        string
	Category    string
	Confidence  int
}

// Snapshot is the cached aggregate state: the cycle header plus the full
// flat transaction list, as last fetched from the backend.
type Snapshot struct {
	Cycle        string
	TotalCents   int64
	Count        int
	FetchedAt    time.Time
	Transactions []SnapshotTransaction
}

type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Replace overwrites the cached snapshot with a fresh one atomically.
func (r *SnapshotRepo) Replace(ctx context.Context, snap Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	fetchedValue := snap.FetchedAt.UTC().Format(time.RFC3339Nano)
	const upsertMeta = `
INSERT INTO snapshot_meta (id, cycle, total_cents, tx_count, fetched_at)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  cycle = excluded.cycle,
  total_cents = excluded.total_cents,
  tx_count = excluded.tx_count,
  fetched_at = excluded.fetched_at
`
	if _, err = tx.ExecContext(ctx, upsertMeta, snap.Cycle, snap.TotalCents, snap.Count, fetchedValue); err != nil {
		return fmt.Errorf("upsert snapshot meta: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clear cached transactions: %w", err)
	}

	const insertTx = `
INSERT INTO transactions (id, position, description, amount_cents, date, category, confidence)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	for i, row := range snap.Transactions {
		if _, err = tx.ExecContext(ctx, insertTx, row.ID, i, row.Description, row.AmountCents, row.Date, row.Category, row.Confidence); err != nil {
			return fmt.Errorf("insert cached transaction %d: %w", row.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the cached snapshot. The second return value is false when
// no snapshot has ever been saved.
func (r *SnapshotRepo) Load(ctx context.Context) (Snapshot, bool, error) {
	var snap Snapshot
	var fetchedValue string
	err := r.db.QueryRowContext(
		ctx,
		"SELECT cycle, total_cents, tx_count, fetched_at FROM snapshot_meta WHERE id = 1",
	).Scan(&snap.Cycle, &snap.TotalCents, &snap.Count, &fetchedValue)
	if err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("query snapshot meta: %w", err)
	}

	snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedValue)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("parse snapshot fetched_at: %w", err)
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, description, amount_cents, date, category, confidence
		 FROM transactions ORDER BY position`,
	)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("query cached transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row SnapshotTransaction
		if err := rows.Scan(&row.ID, &row.Description, &row.AmountCents, &row.Date, &row.Category, &row.Confidence); err != nil {
			return Snapshot{}, false, fmt.Errorf("scan cached transaction: %w", err)
		}
		snap.Transactions = append(snap.Transactions, row)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf("iterate cached transactions: %w", err)
	}

	return snap, true, nil
}
