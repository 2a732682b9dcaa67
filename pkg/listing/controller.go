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
	"strings"
	"sync"
)

// Controller owns the ListQuery of one list view. Changing the result set
// (search, filters, page size) moves back to the first page; changing the
// order keeps the current page.
type Controller struct {
	mu        sync.Mutex
	query     ListQuery
	listeners []func(ListQuery)
}

func NewController(initial ListQuery) *Controller {
	if initial.PageSize <= 0 {
		initial.PageSize = DefaultPageSize
	}
	if initial.PageIndex < 0 {
		initial.PageIndex = 0
	}
	return &Controller{query: initial.Clone()}
}

func (c *Controller) Query() ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Clone()
}

// OnChange registers fn to be called with the new query after every change.
func (c *Controller) OnChange(fn func(ListQuery)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) SetSearch(text string) ListQuery {
	text = strings.TrimSpace(text)
	return c.mutate(func(q *ListQuery) {
		if q.SearchText == text {
			return
		}
		q.SearchText = text
		q.PageIndex = 0
	})
}

// SetFilter sets one filter value. An empty value removes the filter.
func (c *Controller) SetFilter(key, value string) ListQuery {
	if value == "" {
		return c.RemoveFilter(key)
	}
	return c.mutate(func(q *ListQuery) {
		if cur, ok := q.Filters[key]; ok && cur == value {
			return
		}
		q.Filters[key] = value
		q.PageIndex = 0
	})
}

func (c *Controller) RemoveFilter(key string) ListQuery {
	return c.mutate(func(q *ListQuery) {
		if _, ok := q.Filters[key]; !ok {
			return
		}
		delete(q.Filters, key)
		q.PageIndex = 0
	})
}

func (c *Controller) ClearFilters() ListQuery {
	return c.mutate(func(q *ListQuery) {
		if len(q.Filters) == 0 {
			return
		}
		q.Filters = map[string]string{}
		q.PageIndex = 0
	})
}

func (c *Controller) SetSort(key string, dir SortDirection) ListQuery {
	if key == "" {
		dir = ""
	} else if dir == "" {
		dir = SortAscending
	}
	return c.mutate(func(q *ListQuery) {
		q.SortKey = key
		q.SortDirection = dir
	})
}

// ToggleSort sorts by key ascending, or flips the direction when the list is
// already sorted by key.
func (c *Controller) ToggleSort(key string) ListQuery {
	return c.mutate(func(q *ListQuery) {
		if q.SortKey == key && q.SortDirection == SortAscending {
			q.SortDirection = SortDescending
			return
		}
		q.SortKey = key
		q.SortDirection = SortAscending
	})
}

func (c *Controller) SetPageSize(size int) (ListQuery, error) {
	if size <= 0 {
		return c.Query(), ErrInvalidPageSize
	}
	return c.mutate(func(q *ListQuery) {
		if q.PageSize == size {
			return
		}
		q.PageSize = size
		q.PageIndex = 0
	}), nil
}

// SetPage jumps to index, clamped to the last of totalPages. An empty result
// still has page 0.
func (c *Controller) SetPage(index, totalPages int) (ListQuery, error) {
	if index < 0 {
		return c.Query(), ErrInvalidPageIndex
	}
	return c.mutate(func(q *ListQuery) {
		q.PageIndex = min(index, max(totalPages, 1)-1)
	}), nil
}

// NextPage advances one page if totalPages allows it.
func (c *Controller) NextPage(totalPages int) bool {
	moved := false
	c.mutate(func(q *ListQuery) {
		if q.PageIndex+1 < totalPages {
			q.PageIndex++
			moved = true
		}
	})
	return moved
}

func (c *Controller) PrevPage() bool {
	moved := false
	c.mutate(func(q *ListQuery) {
		if q.PageIndex > 0 {
			q.PageIndex--
			moved = true
		}
	})
	return moved
}

func (c *Controller) mutate(fn func(q *ListQuery)) ListQuery {
	c.mu.Lock()
	before := c.query.Clone()
	fn(&c.query)
	after := c.query.Clone()
	changed := !before.Equal(after)
	listeners := append([]func(ListQuery){}, c.listeners...)
	c.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(after.Clone())
		}
	}
	return after
}
