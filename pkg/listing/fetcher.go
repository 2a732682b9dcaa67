/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Search debounce bounds accepted from user configuration.
const (
	DefaultDebounce = 300 * time.Millisecond
	MinDebounce     = 300 * time.Millisecond
	MaxDebounce     = 500 * time.Millisecond
)

// FetchFunc loads one page of a collection.
type FetchFunc[T any] func(ctx context.Context, q ListQuery) (PagedResult[T], error)

// State is a snapshot of a Fetcher. Data keeps the last successful page even
// when a later request failed; Error then carries the failure message.
type State[T any] struct {
	Query   ListQuery
	Data    PagedResult[T]
	HasData bool
	Loading bool
	Error   string
	// Version increases with every applied change.
	Version uint64
}

type FetcherOption func(*fetcherOptions)

type fetcherOptions struct {
	debounce time.Duration
}

// WithDebounce sets how long a search text change waits for further typing
// before the request goes out. Zero disables debouncing.
func WithDebounce(d time.Duration) FetcherOption {
	return func(o *fetcherOptions) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// Fetcher holds the loading, error and data state of one list. Requests are
// numbered when issued and only the newest one may update the state: a
// response that arrives after a newer request was issued is discarded.
// In-flight requests are never aborted.
type Fetcher[T any] struct {
	fetch    FetchFunc[T]
	debounce time.Duration

	mu        sync.Mutex
	seq       uint64
	target    ListQuery
	requested bool
	state     State[T]
	timer     *time.Timer
	listeners []func(State[T])

	wg sync.WaitGroup
}

func NewFetcher[T any](fetch FetchFunc[T], opts ...FetcherOption) *Fetcher[T] {
	o := fetcherOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	return &Fetcher[T]{
		fetch:    fetch,
		debounce: o.debounce,
	}
}

func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every applied change.
// fn runs on the goroutine that applied the change.
func (f *Fetcher[T]) Subscribe(fn func(State[T])) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Fetch issues a request for q and waits for it. The returned state is the
// fetcher state after the response was applied or discarded.
func (f *Fetcher[T]) Fetch(ctx context.Context, q ListQuery) State[T] {
	id, ok := f.issue(q)
	if !ok {
		return f.State()
	}
	f.run(ctx, id, q)
	return f.State()
}

// Update requests q in the background when it differs from the last
// requested query. A change of the search text alone is debounced. It
// reports whether a request was scheduled.
func (f *Fetcher[T]) Update(ctx context.Context, q ListQuery) bool {
	f.mu.Lock()
	if f.requested && q.Equal(f.target) {
		f.mu.Unlock()
		return false
	}
	debounce := f.debounce > 0 && f.requested && q.OnlySearchDiffers(f.target)
	f.mu.Unlock()

	id, ok := f.issue(q)
	if !ok {
		return false
	}
	if debounce {
		f.schedule(ctx, id, q)
	} else {
		f.start(ctx, id, q)
	}
	return true
}

// Refetch requests the last requested query again, in the background.
func (f *Fetcher[T]) Refetch(ctx context.Context) bool {
	f.mu.Lock()
	if !f.requested {
		f.mu.Unlock()
		return false
	}
	q := f.target.Clone()
	f.mu.Unlock()

	id, ok := f.issue(q)
	if !ok {
		return false
	}
	f.start(ctx, id, q)
	return true
}

// Patch rewrites the current page in place. It does nothing before the first
// successful load.
func (f *Fetcher[T]) Patch(fn func(PagedResult[T]) PagedResult[T]) bool {
	f.mu.Lock()
	if !f.state.HasData {
		f.mu.Unlock()
		return false
	}
	f.state.Data = fn(f.state.Data)
	f.state.Version++
	snap, listeners := f.snapshotLocked(), f.listenersLocked()
	f.mu.Unlock()

	notify(listeners, snap)
	return true
}

// Wait blocks until every scheduled and in-flight request has finished.
func (f *Fetcher[T]) Wait() {
	f.wg.Wait()
}

func (f *Fetcher[T]) issue(q ListQuery) (uint64, bool) {
	if err := q.Validate(); err != nil {
		f.mu.Lock()
		f.state.Error = err.Error()
		f.state.Version++
		snap, listeners := f.snapshotLocked(), f.listenersLocked()
		f.mu.Unlock()
		notify(listeners, snap)
		return 0, false
	}

	f.mu.Lock()
	f.stopTimerLocked()
	f.seq++
	id := f.seq
	f.target = q.Clone()
	f.requested = true
	f.state.Query = q.Clone()
	f.state.Loading = true
	f.state.Version++
	snap, listeners := f.snapshotLocked(), f.listenersLocked()
	f.mu.Unlock()

	notify(listeners, snap)
	return id, true
}

func (f *Fetcher[T]) start(ctx context.Context, id uint64, q ListQuery) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run(ctx, id, q)
	}()
}

func (f *Fetcher[T]) schedule(ctx context.Context, id uint64, q ListQuery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wg.Add(1)
	f.timer = time.AfterFunc(f.debounce, func() {
		defer f.wg.Done()
		f.run(ctx, id, q)
	})
}

// stopTimerLocked drops a pending debounced request. The caller holds f.mu.
func (f *Fetcher[T]) stopTimerLocked() {
	if f.timer == nil {
		return
	}
	if f.timer.Stop() {
		f.wg.Done()
	}
	f.timer = nil
}

func (f *Fetcher[T]) run(ctx context.Context, id uint64, q ListQuery) {
	if !f.isLatest(id) {
		return
	}

	result, err := f.fetch(ctx, q)

	f.mu.Lock()
	if id != f.seq {
		f.mu.Unlock()
		slog.DebugContext(ctx, "discarding stale list response", "request", id, "latest", f.latestSeq())
		return
	}
	f.state.Loading = false
	if err != nil {
		f.state.Error = err.Error()
	} else {
		f.state.Data = result
		f.state.HasData = true
		f.state.Error = ""
	}
	f.state.Version++
	snap, listeners := f.snapshotLocked(), f.listenersLocked()
	f.mu.Unlock()

	notify(listeners, snap)
}

func (f *Fetcher[T]) isLatest(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return id == f.seq
}

func (f *Fetcher[T]) latestSeq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

func (f *Fetcher[T]) snapshotLocked() State[T] {
	s := f.state
	s.Query = f.state.Query.Clone()
	return s
}

func (f *Fetcher[T]) listenersLocked() []func(State[T]) {
	return append([]func(State[T]){}, f.listeners...)
}

func notify[T any](listeners []func(State[T]), s State[T]) {
	for _, fn := range listeners {
		fn(s)
	}
}
