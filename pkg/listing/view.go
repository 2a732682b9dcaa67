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
	"sync"
)

// View composes a Controller and a Fetcher into one list screen: every query
// change triggers a fetch, and mutation outcomes are merged into the page on
// display.
type View[T Record] struct {
	controller *Controller
	fetcher    *Fetcher[T]

	mu  sync.Mutex
	ctx context.Context
}

func NewView[T Record](fetch FetchFunc[T], initial ListQuery, opts ...FetcherOption) *View[T] {
	v := &View[T]{
		controller: NewController(initial),
		fetcher:    NewFetcher(fetch, opts...),
		ctx:        context.Background(),
	}
	v.controller.OnChange(func(q ListQuery) {
		v.fetcher.Update(v.context(), q)
	})
	return v
}

func (v *View[T]) Controller() *Controller {
	return v.controller
}

func (v *View[T]) Fetcher() *Fetcher[T] {
	return v.fetcher
}

func (v *View[T]) State() State[T] {
	return v.fetcher.State()
}

// Load binds ctx to the fetches triggered by later query changes and loads
// the current query synchronously.
func (v *View[T]) Load(ctx context.Context) State[T] {
	v.mu.Lock()
	v.ctx = ctx
	v.mu.Unlock()
	return v.fetcher.Fetch(ctx, v.controller.Query())
}

// Apply merges a successful mutation into the page on display. Deletions,
// and creations seen before the first load, trigger a background refetch.
func (v *View[T]) Apply(ctx context.Context, out MutationOutcome[T]) MergeEffect {
	q := v.controller.Query()
	effect := MergeRefetch

	if out.Kind != MutationDeleted {
		patched := v.fetcher.Patch(func(cur PagedResult[T]) PagedResult[T] {
			next, e := Merge(cur, out, q.PageSize, q.PageIndex == 0)
			effect = e
			return next
		})
		if !patched {
			effect = MergeRefetch
		}
	}

	if effect == MergeRefetch {
		if !v.fetcher.Refetch(ctx) {
			v.fetcher.Update(ctx, q)
		}
	}
	return effect
}

// Retry fetches the current query again after a failure.
func (v *View[T]) Retry(ctx context.Context) bool {
	return v.fetcher.Refetch(ctx)
}

// Wait blocks until all fetches triggered so far have completed.
func (v *View[T]) Wait() {
	v.fetcher.Wait()
}

func (v *View[T]) context() context.Context {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ctx
}
