package repository

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scenario"
)

func result(id, total int) model.ScenarioResult {
	return model.ScenarioResult{
		ID:           id,
		ScenarioName: "s",
		Timestamp:    model.PlaceholderTimestamp,
		Size:         2,
		LineupResult: model.LineupResult{TotalRating: total, Objective: "max_total"},
	}
}

func ids(entries []model.ScenarioResult) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if err := store.Append(ctx, result(1, 3000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalRating != 3000 {
		t.Errorf("expected total 3000, got %d", got.TotalRating)
	}

	entry, err := store.Rank(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.ID != 1 {
		t.Errorf("expected rank 1 for id 1, got %+v", entry)
	}

	if _, err := store.Get(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Rank(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	err := store.Append(ctx, result(1, 2000), result(2, 4000), result(3, 3000), result(4, 4000), result(5, 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 4, 3, 1, 5}
	for i, e := range top {
		if e.ID != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], e.ID)
		}
		if e.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
	}

	top, _ = store.TopN(ctx, 2)
	if len(top) != 2 || top[0].ID != 2 || top[1].ID != 4 {
		t.Errorf("unexpected top 2: %+v", top)
	}

	for i, id := range want {
		entry, err := store.Rank(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Rank != i+1 {
			t.Errorf("id %d: expected rank %d, got %d", id, i+1, entry.Rank)
		}
	}

	if got := ids(store.All(ctx)); !equalInts(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("All should be in id order, got %v", got)
	}

	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(recent); !equalInts(got, []int{5, 4, 3}) {
		t.Errorf("Recent should be newest first, got %v", got)
	}
}

func TestTreapStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.Recent(ctx, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if err := store.Append(ctx, result(0, 10)); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}

	if err := store.Append(ctx, result(1, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(ctx, result(2, 10), result(1, 20)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if err := store.Append(ctx, result(3, 10), result(3, 20)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID for a repeated id, got %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("a rejected batch must not be stored, count %d", count)
	}
}

func TestTreapStore_Reserve(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if first := store.Reserve(ctx, 3); first != 1 {
		t.Errorf("expected first id 1, got %d", first)
	}
	if first := store.Reserve(ctx, 2); first != 4 {
		t.Errorf("expected first id 4, got %d", first)
	}
	if next := store.Reserve(ctx, 0); next != 6 {
		t.Errorf("expected 6 without reserving, got %d", next)
	}
	if next := store.NextID(ctx); next != 6 {
		t.Errorf("expected next id 6, got %d", next)
	}

	if err := store.Append(ctx, result(10, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next := store.NextID(ctx); next != 11 {
		t.Errorf("appending past the reserved range should move next id, got %d", next)
	}
}

func TestTreapStore_Limit(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithLimit(3))

	for id := 1; id <= 5; id++ {
		if err := store.Append(ctx, result(id, id*100)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if count := store.Count(ctx); count != 3 {
		t.Errorf("expected 3 retained, got %d", count)
	}
	if _, err := store.Get(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("oldest results should be evicted, got %v", err)
	}
	top, _ := store.TopN(ctx, 5)
	if len(top) != 3 || top[0].ID != 5 || top[2].ID != 3 {
		t.Errorf("unexpected ranking after eviction: %+v", top)
	}

	if err := store.Append(ctx, result(6, 50), result(7, 60), result(8, 70), result(9, 80)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(store.All(ctx)); !equalInts(got, []int{7, 8, 9}) {
		t.Errorf("expected the last three appended, got %v", got)
	}
}

func TestTreapStore_MatchesSortedRanking(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithLimit(200))
	rng := rand.New(rand.NewPCG(42, 7))

	var all []model.ScenarioResult
	for id := 1; id <= 500; id++ {
		r := result(id, rng.IntN(50)*100)
		all = append(all, r)
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := scenario.Rank(all[300:])
	top, err := store.TopN(ctx, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i := range want {
		if top[i].ID != want[i].ID {
			t.Fatalf("position %d: expected id %d, got %d", i, want[i].ID, top[i].ID)
		}
		entry, err := store.Rank(ctx, want[i].ID)
		if err != nil || entry.Rank != i+1 {
			t.Fatalf("id %d: expected rank %d, got %d (%v)", want[i].ID, i+1, entry.Rank, err)
		}
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			first := store.Reserve(ctx, perWriter)
			batch := make([]model.ScenarioResult, perWriter)
			for i := range batch {
				batch[i] = result(first+i, (w*perWriter+i)%37)
			}
			if err := store.Append(ctx, batch...); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			_, _ = store.TopN(ctx, 10)
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != writers*perWriter {
		t.Errorf("expected %d results, got %d", writers*perWriter, count)
	}
	if next := store.NextID(ctx); next != writers*perWriter+1 {
		t.Errorf("expected next id %d, got %d", writers*perWriter+1, next)
	}
}

func BenchmarkTreapStore_Append(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(WithLimit(10_000))
	rng := rand.New(rand.NewPCG(1, 2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Append(ctx, result(i+1, rng.IntN(10_000)))
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore()
	for i := 1; i <= 10_000; i++ {
		_ = store.Append(ctx, result(i, (i*7919)%10_000))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.TopN(ctx, 50)
	}
}
