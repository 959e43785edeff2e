package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const insertEventSQL = `
	INSERT OR IGNORE INTO meter_events (id, meter_id, occurred_at, severity, category, message, meta)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Append inserts events in one transaction. Events without an id get one;
// ids already archived are ignored.
func (r *EventSQLite) Append(ctx context.Context, events ...models.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range events {
		if e.EventID == "" {
			e.EventID = uuid.NewString()
		}
		var metaPtr *string
		if e.Metadata != nil {
			if b, err := json.Marshal(e.Metadata); err == nil {
				s := string(b)
				metaPtr = &s
			}
		}
		if _, err := tx.ExecContext(ctx, insertEventSQL,
			e.EventID,
			e.MeterID,
			formatTime(e.Timestamp),
			string(e.Severity),
			e.Category,
			e.Message,
			metaPtr,
		); err != nil {
			return fmt.Errorf("insert event %s: %w", e.EventID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit events: %w", err)
	}
	return nil
}

// List returns archived events matching q, most recent first.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.Event, error) {
	query, args := buildEventQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := make([]models.Event, 0, 64)
	for rows.Next() {
		var (
			ev       models.Event
			at       string
			severity string
			metaStr  sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.MeterID, &at, &severity, &ev.Category, &ev.Message, &metaStr); err != nil {
			return nil, err
		}
		if ev.Timestamp, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("event %s: bad timestamp %q: %w", ev.EventID, at, err)
		}
		ev.Severity = models.Severity(severity)

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildEventQuery(q EventQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.MeterID != "" {
		conds = append(conds, "meter_id = ?")
		args = append(args, q.MeterID)
	}
	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatTime(q.From))
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatTime(q.To))
	}
	if q.Severity != "" {
		conds = append(conds, "severity = ?")
		args = append(args, string(q.Severity))
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		conds = append(conds, "category = ?")
		args = append(args, c)
	}

	query := `SELECT id, meter_id, occurred_at, severity, category, message, meta FROM meter_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at DESC, rowid DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return query, args
}
