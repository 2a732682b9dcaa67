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

// PagedResult is one page of a collection together with the collection size.
type PagedResult[T any] struct {
	Items      []T
	TotalItems int64
	TotalPages int
}

// NewPagedResult builds a page and derives TotalPages from total and pageSize.
// Items beyond pageSize are dropped so the page never exceeds its size.
func NewPagedResult[T any](items []T, total int64, pageSize int) PagedResult[T] {
	if pageSize > 0 && len(items) > pageSize {
		items = items[:pageSize]
	}
	return PagedResult[T]{
		Items:      items,
		TotalItems: total,
		TotalPages: TotalPages(total, pageSize),
	}
}

// TotalPages returns ceil(total / pageSize), or 0 for an empty collection.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func (r PagedResult[T]) Len() int {
	return len(r.Items)
}

func (r PagedResult[T]) Empty() bool {
	return len(r.Items) == 0
}
