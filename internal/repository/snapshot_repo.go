package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

var _ SnapshotRepo = (*SnapshotSQLite)(nil)

const (
	// a repeated sim_time (time_acceleration 0) keeps the latest snapshot
	upsertSnapshotSQL = `
		INSERT INTO meter_snapshots (meter_id, sim_time, doc)
		VALUES (?, ?, ?)
		ON CONFLICT(meter_id, sim_time) DO UPDATE SET doc=excluded.doc
	`

	selectSnapshotRangeSQL = `
		SELECT doc FROM meter_snapshots
		WHERE meter_id = ? AND sim_time >= ? AND sim_time <= ?
		ORDER BY sim_time ASC
	`

	deleteSnapshotsBeforeSQL = `DELETE FROM meter_snapshots WHERE meter_id = ? AND sim_time < ?`
)

// Append stores snapshots in one transaction.
func (r *SnapshotSQLite) Append(ctx context.Context, snaps ...models.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSnapshotSQL)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range snaps {
		doc, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode snapshot %s: %w", s.MeterID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.MeterID, formatTime(s.Timestamp), string(doc)); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", s.MeterID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshots: %w", err)
	}
	return nil
}

// Range returns snapshots of one meter with from <= sim_time <= to, oldest first.
// A zero to means no upper bound.
func (r *SnapshotSQLite) Range(ctx context.Context, meterID string, from, to time.Time) ([]models.Snapshot, error) {
	upper := formatTime(to)
	if to.IsZero() {
		upper = "9999"
	}
	rows, err := r.db.QueryContext(ctx, selectSnapshotRangeSQL, meterID, formatTime(from), upper)
	if err != nil {
		return nil, fmt.Errorf("select snapshots %s: %w", meterID, err)
	}
	defer rows.Close()

	out := make([]models.Snapshot, 0, 64)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var s models.Snapshot
		if err := json.Unmarshal([]byte(doc), &s); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", meterID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Prune deletes snapshots of one meter older than before.
func (r *SnapshotSQLite) Prune(ctx context.Context, meterID string, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteSnapshotsBeforeSQL, meterID, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("prune snapshots %s: %w", meterID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots %s: %w", meterID, err)
	}
	return n, nil
}
