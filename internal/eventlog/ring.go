// Package eventlog keeps the most recent events of one meter in memory.
package eventlog

import (
	"sync"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// DefaultCapacity is the number of events a meter keeps.
const DefaultCapacity = 500

// Ring is a fixed-capacity, append-only event buffer. The oldest event
// is evicted first. It is safe for concurrent use.
type Ring struct {
	mu    sync.RWMutex
	buf   []models.Event
	next  int // slot of the next append
	count int
	total uint64
}

// NewRing returns a ring holding at most capacity events. A non-positive
// capacity falls back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]models.Event, capacity)}
}

// Append stores e, evicting the oldest event when full.
func (r *Ring) Append(e models.Event) {
	r.mu.Lock()
	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.total++
	r.mu.Unlock()
}

// Last returns up to n of the most recent events in chronological order.
// n <= 0 returns everything held.
func (r *Ring) Last(n int) []models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || n > r.count {
		n = r.count
	}
	out := make([]models.Event, n)
	start := (r.next - n + len(r.buf)) % len(r.buf)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Len is the number of events held.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Cap is the fixed capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Total counts every event ever appended, evicted ones included.
func (r *Ring) Total() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}
