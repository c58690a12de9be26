// Package dedupe tracks client request IDs so that resubmitted batch jobs
// resolve to the job created the first time.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 50000

// Deduper maps request IDs to the job they created.
type Deduper interface {
	// Claim atomically records requestID as owned by jobID. When requestID
	// was already claimed it returns the owning job ID and true.
	Claim(ctx context.Context, requestID, jobID string) (owner string, duplicate bool)

	// Release forgets requestID so it can be claimed again. Used when a
	// claimed job could not be enqueued.
	Release(ctx context.Context, requestID string)

	Size() int
}

type entry struct {
	requestID string
	jobID     string
}

// inMemoryDeduper keeps claims in a map plus an insertion-ordered list
// used for oldest-first eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, requestID, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[requestID]; ok {
		return el.Value.(entry).jobID, true
	}
	if d.maxSize > 0 {
		for d.order.Len() >= d.maxSize {
			oldest := d.order.Front()
			delete(d.seen, oldest.Value.(entry).requestID)
			d.order.Remove(oldest)
		}
	}
	d.seen[requestID] = d.order.PushBack(entry{requestID: requestID, jobID: jobID})
	return jobID, false
}

func (d *inMemoryDeduper) Release(_ context.Context, requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[requestID]; ok {
		delete(d.seen, requestID)
		d.order.Remove(el)
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
