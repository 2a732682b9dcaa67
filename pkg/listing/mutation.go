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
	"slices"

	"github.com/samber/lo"
)

// Record is implemented by every item shown in a list so that mutations can
// be matched against the current page.
type Record interface {
	RecordID() string
}

type MutationKind int

const (
	MutationCreated MutationKind = iota + 1
	MutationUpdated
	MutationDeleted
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreated:
		return "created"
	case MutationUpdated:
		return "updated"
	case MutationDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// MutationOutcome is the result of a successful create, update or delete.
// Item is set for created and updated outcomes, ID for deleted ones.
type MutationOutcome[T Record] struct {
	Kind MutationKind
	Item T
	ID   string
}

func Created[T Record](item T) MutationOutcome[T] {
	return MutationOutcome[T]{Kind: MutationCreated, Item: item, ID: item.RecordID()}
}

func Updated[T Record](item T) MutationOutcome[T] {
	return MutationOutcome[T]{Kind: MutationUpdated, Item: item, ID: item.RecordID()}
}

func Deleted[T Record](id string) MutationOutcome[T] {
	return MutationOutcome[T]{Kind: MutationDeleted, ID: id}
}

// MergeEffect tells the caller what Merge did with the outcome.
type MergeEffect int

const (
	// MergePatched means the returned result differs from the input.
	MergePatched MergeEffect = iota
	// MergeIgnored means the items are unchanged; counts may still move.
	MergeIgnored
	// MergeRefetch means the page must be fetched again.
	MergeRefetch
)

func (e MergeEffect) String() string {
	switch e {
	case MergePatched:
		return "patched"
	case MergeIgnored:
		return "ignored"
	case MergeRefetch:
		return "refetch"
	default:
		return "unknown"
	}
}

// Merge applies a mutation outcome to the page currently shown without a
// round trip where that is safe. Updates are patched in place, creations are
// prepended on the first page, and deletions always ask for a refetch since
// removing an element locally would desync page boundaries. cur is never
// modified.
func Merge[T Record](cur PagedResult[T], out MutationOutcome[T], pageSize int, onFirstPage bool) (PagedResult[T], MergeEffect) {
	switch out.Kind {
	case MutationCreated:
		return mergeCreated(cur, out.Item, pageSize, onFirstPage)
	case MutationUpdated:
		return mergeUpdated(cur, out.Item)
	case MutationDeleted:
		return cur, MergeRefetch
	default:
		return cur, MergeIgnored
	}
}

func mergeCreated[T Record](cur PagedResult[T], item T, pageSize int, onFirstPage bool) (PagedResult[T], MergeEffect) {
	next := PagedResult[T]{
		Items:      cur.Items,
		TotalItems: cur.TotalItems + 1,
	}
	next.TotalPages = TotalPages(next.TotalItems, pageSize)

	if !onFirstPage {
		return next, MergeIgnored
	}

	items := make([]T, 0, len(cur.Items)+1)
	items = append(items, item)
	items = append(items, cur.Items...)
	if pageSize > 0 && len(items) > pageSize {
		items = items[:pageSize]
	}
	next.Items = items
	return next, MergePatched
}

func mergeUpdated[T Record](cur PagedResult[T], item T) (PagedResult[T], MergeEffect) {
	id := item.RecordID()
	_, idx, found := lo.FindIndexOf(cur.Items, func(existing T) bool {
		return existing.RecordID() == id
	})
	if !found {
		return cur, MergeIgnored
	}

	items := slices.Clone(cur.Items)
	items[idx] = item
	return PagedResult[T]{
		Items:      items,
		TotalItems: cur.TotalItems,
		TotalPages: cur.TotalPages,
	}, MergePatched
}
