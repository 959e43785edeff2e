package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// Operators keeps operator accounts and their per-meter scope.
type Operators interface {
	Create(ctx context.Context, username, passwordHash string, meters []string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
	GetByID(ctx context.Context, id int) (*models.Operator, error)
}

// SnapshotRepo keeps the per-tick snapshot history used for timeseries.
type SnapshotRepo interface {
	Append(ctx context.Context, snaps ...models.Snapshot) error
	Range(ctx context.Context, meterID string, from, to time.Time) ([]models.Snapshot, error)
	Prune(ctx context.Context, meterID string, before time.Time) (int64, error)
}

// EventRepo archives meter events beyond the in-memory ring.
type EventRepo interface {
	Append(ctx context.Context, events ...models.Event) error
	List(ctx context.Context, q EventQuery) ([]models.Event, error)
}

// EventQuery filters the event archive. Zero fields match everything.
type EventQuery struct {
	MeterID  string
	From     time.Time
	To       time.Time
	Severity models.Severity
	Category string
	Limit    int
}

type Repository struct {
	Snapshots SnapshotRepo
	Events    EventRepo
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Snapshots: NewSnapshotSQLite(db),
		Events:    NewEventSQLite(db),
		Operators: NewOperatorSQLite(db),
	}
}

// timeLayout is fixed width so lexical order in SQLite matches time order.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}
