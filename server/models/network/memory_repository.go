package network

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultMemoryCapacity bounds the number of runs kept when no database
	// is configured
	DefaultMemoryCapacity = 1000
	// DefaultMemoryNodeBudget bounds the total distance entries kept across
	// all runs, about 16 MB of int64s
	DefaultMemoryNodeBudget = 2_000_000
)

// MemoryRepository keeps the most recent runs in process memory. Old runs
// are evicted once either the run count or the node budget is exceeded. A
// single run larger than the whole budget is kept without its per-node
// totals and marked Truncated.
type MemoryRepository struct {
	sync.RWMutex
	runs       []*Run
	capacity   int
	nodeBudget int
	nodesUsed  int
	idCounter  int64
	now        func() time.Time
}

func NewMemoryRepository(capacity, nodeBudget int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	if nodeBudget <= 0 {
		nodeBudget = DefaultMemoryNodeBudget
	}
	return &MemoryRepository{
		runs:       make([]*Run, 0, capacity),
		capacity:   capacity,
		nodeBudget: nodeBudget,
		now:        time.Now,
	}
}

// Create stores a copy of run, evicting the oldest entries to make room
func (r *MemoryRepository) Create(_ context.Context, run *Run) (*Run, error) {
	r.Lock()
	defer r.Unlock()

	r.idCounter++
	stored := *run
	stored.ID = r.idCounter
	stored.CreatedAt = r.now()

	if len(stored.TotalDistance) > r.nodeBudget {
		stored.TotalDistance = nil
		stored.Truncated = true
	}

	cost := len(stored.TotalDistance)
	for len(r.runs) > 0 && (len(r.runs) >= r.capacity || r.nodesUsed+cost > r.nodeBudget) {
		r.evictOldest()
	}
	r.runs = append(r.runs, &stored)
	r.nodesUsed += cost

	out := stored
	return &out, nil
}

// evictOldest shifts the history down in place and clears the vacated slot
// so the evicted run can be collected.
func (r *MemoryRepository) evictOldest() {
	r.nodesUsed -= len(r.runs[0].TotalDistance)
	last := len(r.runs) - 1
	copy(r.runs, r.runs[1:])
	r.runs[last] = nil
	r.runs = r.runs[:last]
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Run, error) {
	r.RLock()
	defer r.RUnlock()

	for _, run := range r.runs {
		if run.ID == id {
			out := *run
			return &out, nil
		}
	}
	return nil, ErrRunNotFound
}

// ListRecent returns up to limit runs, newest first
func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]*Run, error) {
	r.RLock()
	defer r.RUnlock()

	runs := make([]*Run, 0, min(limit, len(r.runs)))
	for i := len(r.runs) - 1; i >= 0 && len(runs) < limit; i-- {
		out := *r.runs[i]
		runs = append(runs, &out)
	}
	return runs, nil
}
