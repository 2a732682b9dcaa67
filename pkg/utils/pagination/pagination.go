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

package pagination

import (
	"fmt"
	"net/url"

	"github.com/masteryyh/jobboard/pkg/listing"
)

const MaxPageSize = 100

// Meta is the pagination block of every list response. Pages are one based.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

func NewMeta(q listing.ListQuery, total int64) Meta {
	return Meta{
		CurrentPage: q.PageIndex + 1,
		LastPage:    listing.TotalPages(total, q.PageSize),
		PerPage:     q.PageSize,
		Total:       total,
	}
}

// PagedResponse is one page of a collection together with its meta block.
type PagedResponse[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// ToResult converts the wire form into the list engine's page type, sized by
// the page size the caller asked for.
func (p *PagedResponse[T]) ToResult(pageSize int) listing.PagedResult[T] {
	return listing.NewPagedResult(p.Data, p.Meta.Total, pageSize)
}

// CheckPageSize rejects page sizes the server would silently clamp.
func CheckPageSize(size int) error {
	if size > MaxPageSize {
		return fmt.Errorf("page size %d exceeds the maximum of %d", size, MaxPageSize)
	}
	return nil
}

type PageRequest struct {
	listing.ListQuery
}

// ParsePageRequest reads search, page, pageSize, filter[...], sort and
// direction from a query string.
func ParsePageRequest(v url.Values) (*PageRequest, error) {
	q, err := listing.ParseListQuery(v, listing.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	req := &PageRequest{ListQuery: q}
	req.ApplyDefaults()
	return req, nil
}

func (p *PageRequest) ApplyDefaults() {
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = listing.DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Filters == nil {
		p.Filters = map[string]string{}
	}
}

func (p *PageRequest) Offset() int {
	return p.PageIndex * p.PageSize
}
