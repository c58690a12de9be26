package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: total rating DESC, then result ID ASC. "less" means ranks
// earlier, so in-order traversal yields the ranking from best to worst.
// Priorities are a hash of the ID, which keeps the tree balanced in
// expectation whatever order results arrive in.

type node struct {
	id    int
	total int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aTotal, aID) ranks before (bTotal, bID).
func less(aTotal, aID, bTotal, bID int) bool {
	if aTotal != bTotal {
		return aTotal > bTotal
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

// priority is splitmix64 of the id.
func priority(id int) uint64 {
	z := uint64(id) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func insert(n *node, id, total int) *node {
	if n == nil {
		return &node{id: id, total: total, prio: priority(id), size: 1}
	}
	if less(total, id, n.total, n.id) {
		n.left = insert(n.left, id, total)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, total)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id, total int) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, total)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, total)
		}
	case less(total, id, n.total, n.id):
		n.left = deleteNode(n.left, id, total)
	default:
		n.right = deleteNode(n.right, id, total)
	}
	fix(n)
	return n
}

// position returns the number of nodes ranked before (total, id), or -1
// when the key is absent.
func position(n *node, id, total int) int {
	pos := 0
	for n != nil {
		switch {
		case n.id == id:
			return pos + nsize(n.left)
		case less(total, id, n.total, n.id):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return -1
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, byID map[int]model.ScenarioResult, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		*out = append(*out, types.Entry{Rank: len(*out) + 1, ScenarioResult: byID[n.id]})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byID, out)
	}
}

// TreapStore is an in-memory Store. It is safe for concurrent use.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[int]model.ScenarioResult
	order  []int // append order, oldest first
	nextID int
	limit  int
	logger logger.Logger
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID:   make(map[int]model.ScenarioResult),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrGlobal(s.logger, "history")
	metrics.UpdateHistorySize(0)
	return s
}

func observe(operation string, start time.Time) {
	metrics.RecordHistoryLatency(operation, float64(time.Since(start).Microseconds())/1000)
}

// Reserve implements Store.Reserve. n < 1 reserves nothing.
func (s *TreapStore) Reserve(_ context.Context, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	first := s.nextID
	if n > 0 {
		s.nextID += n
	}
	return first
}

// NextID implements Store.NextID.
func (s *TreapStore) NextID(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// Append implements Store.Append with O(log n) expected time per result.
// Appending an ID beyond the reserved range moves NextID past it.
func (s *TreapStore) Append(ctx context.Context, results ...model.ScenarioResult) error {
	defer observe("append", time.Now())

	s.mu.Lock()
	seen := make(map[int]struct{}, len(results))
	for _, r := range results {
		if r.ID <= 0 {
			s.mu.Unlock()
			return fmt.Errorf("%w: got %d", ErrInvalidID, r.ID)
		}
		_, stored := s.byID[r.ID]
		_, repeated := seen[r.ID]
		if stored || repeated {
			s.mu.Unlock()
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	for _, r := range results {
		s.byID[r.ID] = r
		s.order = append(s.order, r.ID)
		s.root = insert(s.root, r.ID, r.TotalRating)
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	evicted := s.evictLocked()
	size := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateHistorySize(size)
	if evicted > 0 {
		metrics.RecordHistoryEvictions(evicted)
		s.logger.Debug(ctx, "history trimmed", logger.Int("evicted", evicted), logger.Int("size", size))
	}
	return nil
}

func (s *TreapStore) evictLocked() int {
	if s.limit <= 0 || len(s.order) <= s.limit {
		return 0
	}
	drop := len(s.order) - s.limit
	for _, id := range s.order[:drop] {
		r := s.byID[id]
		s.root = deleteNode(s.root, id, r.TotalRating)
		delete(s.byID, id)
	}
	s.order = slices.Clone(s.order[drop:])
	return drop
}

// Get implements Store.Get.
func (s *TreapStore) Get(_ context.Context, id int) (model.ScenarioResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return model.ScenarioResult{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, nil
}

// Rank implements Store.Rank in O(log n) expected time.
func (s *TreapStore) Rank(_ context.Context, id int) (types.Entry, error) {
	defer observe("rank", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return types.Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return types.Entry{Rank: position(s.root, id, r.TotalRating) + 1, ScenarioResult: r}, nil
}

// TopN implements Store.TopN.
func (s *TreapStore) TopN(_ context.Context, n int) ([]types.Entry, error) {
	defer observe("top_n", time.Now())

	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, s.byID, &out)
	return out, nil
}

// Recent implements Store.Recent.
func (s *TreapStore) Recent(_ context.Context, n int) ([]model.ScenarioResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n = min(n, len(s.order))
	out := make([]model.ScenarioResult, 0, n)
	for i := len(s.order) - 1; i >= len(s.order)-n; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

// All implements Store.All.
func (s *TreapStore) All(_ context.Context) []model.ScenarioResult {
	s.mu.RLock()
	out := make([]model.ScenarioResult, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b model.ScenarioResult) int { return a.ID - b.ID })
	return out
}

// Count implements Store.Count.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
