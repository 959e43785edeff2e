package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/market"
	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

var simStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) *simulation.Model {
	t.Helper()
	model, err := simulation.NewModel(simulation.DefaultParams())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return model
}

// newTestRegistry provisions ids on a registry with a flat 8.5 price.
func newTestRegistry(t *testing.T, opts []meter.Option, ids ...string) *meter.Registry {
	t.Helper()
	opts = append([]meter.Option{meter.WithEventCapacity(50)}, opts...)
	reg := meter.NewRegistry(newTestModel(t), market.ConstantPrice(8.5), simStart, opts...)
	for _, id := range ids {
		if _, _, err := reg.Ensure(id); err != nil {
			t.Fatalf("Ensure(%q): %v", id, err)
		}
	}
	return reg
}

// fakeEventRepo is a minimal stub that satisfies repository.EventRepo.
type fakeEventRepo struct {
	mu sync.Mutex

	appended  []models.Event
	appendErr error

	gotQuery  repository.EventQuery
	listCalls int
	events    []models.Event
	listErr   error
}

func (f *fakeEventRepo) Append(_ context.Context, events ...models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, events...)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, q repository.EventQuery) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.gotQuery = q
	return f.events, f.listErr
}

func (f *fakeEventRepo) categories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Category)
	}
	return out
}

// fakeSnapshotRepo records history writes in memory.
type fakeSnapshotRepo struct {
	mu sync.Mutex

	appended  []models.Snapshot
	appendErr error
	pruned    map[string]time.Time

	gotFrom, gotTo time.Time
	rangeOut       []models.Snapshot
}

func (f *fakeSnapshotRepo) Append(_ context.Context, snaps ...models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, snaps...)
	return nil
}

func (f *fakeSnapshotRepo) Range(_ context.Context, _ string, from, to time.Time) ([]models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFrom, f.gotTo = from, to
	return f.rangeOut, nil
}

func (f *fakeSnapshotRepo) Prune(_ context.Context, meterID string, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pruned == nil {
		f.pruned = map[string]time.Time{}
	}
	f.pruned[meterID] = before
	return 1, nil
}

func (f *fakeSnapshotRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

func categoriesOf(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Category)
	}
	return out
}
