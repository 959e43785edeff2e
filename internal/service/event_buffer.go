package service

import (
	"slices"
	"sync"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// defaultArchiveBacklog bounds events waiting for the archive writer.
const defaultArchiveBacklog = 10000

// EventBuffer collects events from meter sinks until the simulator loop
// writes them to the archive. Past max it drops the oldest.
type EventBuffer struct {
	mu      sync.Mutex
	pending []models.Event
	max     int
	dropped int
}

func NewEventBuffer(max int) *EventBuffer {
	if max <= 0 {
		max = defaultArchiveBacklog
	}
	return &EventBuffer{max: max}
}

// Add queues e. It has the shape of a meter event sink.
func (b *EventBuffer) Add(e models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) >= b.max {
		b.pending = b.pending[1:]
		b.dropped++
	}
	b.pending = append(b.pending, e)
}

// Drain returns and clears the queued events plus the number dropped
// since the previous drain.
func (b *EventBuffer) Drain() ([]models.Event, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out, dropped := b.pending, b.dropped
	b.pending, b.dropped = nil, 0
	return out, dropped
}

// Requeue puts events back in front after a failed write.
func (b *EventBuffer) Requeue(events []models.Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	merged := append(slices.Clone(events), b.pending...)
	if over := len(merged) - b.max; over > 0 {
		merged = merged[over:]
		b.dropped += over
	}
	b.pending = merged
}

// Len is the current backlog. A nil buffer has none.
func (b *EventBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func reverse(events []models.Event) {
	slices.Reverse(events)
}

func sortNewestFirst(events []models.Event) {
	slices.SortStableFunc(events, func(a, b models.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}
