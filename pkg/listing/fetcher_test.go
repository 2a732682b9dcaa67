package listing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchLoadsPage(t *testing.T) {
	all := rows(47)
	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		return pageOf(all, q), nil
	})

	s := f.Fetch(context.Background(), NewListQuery(10))
	if s.Loading {
		t.Fatal("expected loading to be false after fetch")
	}
	if !s.HasData || s.Data.TotalPages != 5 || s.Data.Len() != 10 {
		t.Fatalf("unexpected state %+v", s)
	}
	if s.Error != "" {
		t.Fatalf("unexpected error %q", s.Error)
	}
}

func TestLastRequestWins(t *testing.T) {
	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	var once sync.Once

	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		if q.SearchText == "a" {
			once.Do(func() { close(startedA) })
			<-releaseA
			return NewPagedResult([]row{{id: "a"}}, 1, q.PageSize), nil
		}
		return NewPagedResult([]row{{id: "b"}}, 1, q.PageSize), nil
	}, WithDebounce(0))

	ctx := context.Background()
	qa := NewListQuery(10)
	qa.SearchText = "a"
	f.Update(ctx, qa)
	<-startedA

	qb := NewListQuery(10)
	qb.SearchText = "b"
	f.Update(ctx, qb)

	deadline := time.Now().Add(2 * time.Second)
	for !f.State().HasData {
		if time.Now().After(deadline) {
			t.Fatal("request b never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(releaseA)
	f.Wait()

	s := f.State()
	if s.Data.Items[0].id != "b" {
		t.Fatalf("expected response b to win, got %s", s.Data.Items[0].id)
	}
	if s.Query.SearchText != "b" {
		t.Fatalf("expected state query b, got %q", s.Query.SearchText)
	}
	if s.Loading {
		t.Fatal("expected loading to be false")
	}
}

func TestErrorKeepsPreviousData(t *testing.T) {
	fail := false
	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		if fail {
			return PagedResult[row]{}, errors.New("backend unavailable")
		}
		return NewPagedResult(rows(3), 3, q.PageSize), nil
	})

	ctx := context.Background()
	f.Fetch(ctx, NewListQuery(10))

	fail = true
	q := NewListQuery(10)
	q.PageIndex = 1
	s := f.Fetch(ctx, q)
	if s.Error != "backend unavailable" {
		t.Fatalf("expected error message, got %q", s.Error)
	}
	if !s.HasData || s.Data.Len() != 3 {
		t.Fatalf("expected stale data to survive, got %+v", s.Data)
	}

	fail = false
	s = f.Fetch(ctx, q)
	if s.Error != "" {
		t.Fatalf("expected error to clear on success, got %q", s.Error)
	}
}

func TestSearchChangesAreDebounced(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Value
	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		calls.Add(1)
		last.Store(q.SearchText)
		return NewPagedResult[row](nil, 0, q.PageSize), nil
	}, WithDebounce(50*time.Millisecond))

	ctx := context.Background()
	q := NewListQuery(10)
	f.Fetch(ctx, q)

	for _, text := range []string{"g", "go", "gol", "gola", "golang"} {
		q.SearchText = text
		f.Update(ctx, q)
	}
	f.Wait()

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
	if got := last.Load().(string); got != "golang" {
		t.Fatalf("expected last search golang, got %q", got)
	}
}

func TestUpdateSkipsUnchangedQuery(t *testing.T) {
	var calls atomic.Int32
	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		calls.Add(1)
		return NewPagedResult[row](nil, 0, q.PageSize), nil
	}, WithDebounce(0))

	ctx := context.Background()
	q := NewListQuery(10)
	if !f.Update(ctx, q) {
		t.Fatal("expected first update to schedule a request")
	}
	if f.Update(ctx, q) {
		t.Fatal("expected unchanged query to be skipped")
	}
	f.Wait()
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestInvalidQuerySetsError(t *testing.T) {
	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		t.Fatal("fetch must not run for an invalid query")
		return PagedResult[row]{}, nil
	})

	q := NewListQuery(10)
	q.PageIndex = -1
	s := f.Fetch(context.Background(), q)
	if s.Error == "" {
		t.Fatal("expected validation error in state")
	}
}

func TestSubscribersSeeLoadingTransitions(t *testing.T) {
	f := NewFetcher(func(ctx context.Context, q ListQuery) (PagedResult[row], error) {
		return NewPagedResult(rows(1), 1, q.PageSize), nil
	})

	var seen []bool
	var lastVersion uint64
	f.Subscribe(func(s State[row]) {
		if s.Version <= lastVersion {
			t.Fatalf("version did not increase: %d after %d", s.Version, lastVersion)
		}
		lastVersion = s.Version
		seen = append(seen, s.Loading)
	})

	f.Fetch(context.Background(), NewListQuery(10))
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("expected loading then loaded, got %v", seen)
	}
}
