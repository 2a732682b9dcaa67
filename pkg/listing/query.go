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

// Package listing implements the paginated, filterable, mutation-aware list
// pattern shared by every list screen: a query controller, a fetch-state
// holder with last-request-wins semantics, and a reducer that merges single
// record mutations into the page currently shown.
package listing

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

const DefaultPageSize = 10

var (
	ErrInvalidPageIndex = errors.New("page index must not be negative")
	ErrInvalidPageSize  = errors.New("page size must be positive")
)

// ListQuery describes one request for a page of a collection. PageIndex is
// zero based; the wire format uses one based pages.
type ListQuery struct {
	SearchText    string
	Filters       map[string]string
	PageIndex     int
	PageSize      int
	SortKey       string
	SortDirection SortDirection
}

func NewListQuery(pageSize int) ListQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ListQuery{
		Filters:  map[string]string{},
		PageSize: pageSize,
	}
}

func (q ListQuery) Validate() error {
	if q.PageIndex < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageIndex, q.PageIndex)
	}
	if q.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, q.PageSize)
	}
	return nil
}

// Clone returns a copy that shares no state with q.
func (q ListQuery) Clone() ListQuery {
	c := q
	c.Filters = maps.Clone(q.Filters)
	if c.Filters == nil {
		c.Filters = map[string]string{}
	}
	return c
}

// Equal compares two queries by value. A nil filter map equals an empty one.
func (q ListQuery) Equal(o ListQuery) bool {
	if q.SearchText != o.SearchText ||
		q.PageIndex != o.PageIndex ||
		q.PageSize != o.PageSize ||
		q.SortKey != o.SortKey ||
		q.SortDirection != o.SortDirection {
		return false
	}
	if len(q.Filters) != len(o.Filters) {
		return false
	}
	return maps.Equal(q.Filters, o.Filters)
}

// OnlySearchDiffers reports whether q and o differ in SearchText and in
// nothing else except the page reset that a search change implies.
func (q ListQuery) OnlySearchDiffers(o ListQuery) bool {
	if q.SearchText == o.SearchText {
		return false
	}
	a, b := q.Clone(), o.Clone()
	a.SearchText, b.SearchText = "", ""
	a.PageIndex, b.PageIndex = 0, 0
	return a.Equal(b)
}

// Values encodes q using the query parameters of the list endpoints:
// search, page (one based), pageSize, filter[key], sort and direction.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.SearchText != "" {
		v.Set("search", q.SearchText)
	}
	v.Set("page", strconv.Itoa(q.PageIndex+1))
	v.Set("pageSize", strconv.Itoa(q.PageSize))

	keys := slices.Sorted(maps.Keys(q.Filters))
	for _, k := range keys {
		if q.Filters[k] == "" {
			continue
		}
		v.Set("filter["+k+"]", q.Filters[k])
	}

	if q.SortKey != "" {
		v.Set("sort", q.SortKey)
		dir := q.SortDirection
		if dir == "" {
			dir = SortAscending
		}
		v.Set("direction", string(dir))
	}
	return v
}

// ParseListQuery decodes the parameters produced by Values.
func ParseListQuery(v url.Values, defaultPageSize int) (ListQuery, error) {
	q := NewListQuery(defaultPageSize)
	q.SearchText = strings.TrimSpace(v.Get("search"))

	if raw := v.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid page %q: %w", raw, err)
		}
		q.PageIndex = page - 1
	}
	if raw := v.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid page size %q: %w", raw, err)
		}
		q.PageSize = size
	}

	for key, values := range v {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		name := key[len("filter[") : len(key)-1]
		if name == "" || values[0] == "" {
			continue
		}
		q.Filters[name] = values[0]
	}

	q.SortKey = v.Get("sort")
	switch dir := SortDirection(strings.ToLower(v.Get("direction"))); dir {
	case SortAscending, SortDescending:
		q.SortDirection = dir
	case "":
		if q.SortKey != "" {
			q.SortDirection = SortAscending
		}
	default:
		return q, fmt.Errorf("invalid sort direction %q", dir)
	}

	return q, q.Validate()
}
