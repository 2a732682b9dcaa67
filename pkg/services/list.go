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

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/masteryyh/jobboard/pkg/utils/typeutil"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// filterFunc turns one filter value into a where clause.
type filterFunc func(value string) (string, []any, error)

// listSpec describes which columns a collection can be searched, filtered
// and sorted by. Anything not listed is rejected.
type listSpec struct {
	name          string
	searchColumns []string
	filters       map[string]filterFunc
	sorts         map[string]string
	defaultOrder  string
}

// listPage counts and loads one page of live rows. Extra conditions in where
// are applied before the request's own search and filters.
func listPage[T any](ctx context.Context, db *gorm.DB, spec *listSpec, req *pagination.PageRequest, where ...scope) ([]T, int64, error) {
	query := gorm.G[T](db).Where("deleted_at IS NULL")
	for _, w := range where {
		query = query.Where(w.clause, w.args...)
	}

	query, err := applySearch(query, spec, req.SearchText)
	if err != nil {
		return nil, 0, err
	}
	query, err = applyFilters(query, spec, req.Filters)
	if err != nil {
		return nil, 0, err
	}
	order, err := spec.order(req.SortKey, req.SortDirection)
	if err != nil {
		return nil, 0, err
	}

	total, err := query.Count(ctx, "id")
	if err != nil {
		slog.ErrorContext(ctx, "failed to count "+spec.name, "error", err)
		return nil, 0, err
	}

	rows, err := query.
		Order(order).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list "+spec.name, "error", err)
		return nil, 0, err
	}
	return rows, total, nil
}

type scope struct {
	clause string
	args   []any
}

func applySearch[T any](query gorm.ChainInterface[T], spec *listSpec, text string) (gorm.ChainInterface[T], error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || len(spec.searchColumns) == 0 {
		return query, nil
	}

	pattern := "%" + escapeLike(text) + "%"
	clauses := lo.Map(spec.searchColumns, func(col string, _ int) string {
		return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", col)
	})
	args := lo.Map(spec.searchColumns, func(string, int) any { return pattern })
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...), nil
}

func applyFilters[T any](query gorm.ChainInterface[T], spec *listSpec, filters map[string]string) (gorm.ChainInterface[T], error) {
	for key, value := range filters {
		if value == "" {
			continue
		}
		fn, ok := spec.filters[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", customerrors.ErrInvalidFilter, key)
		}
		clause, args, err := fn(value)
		if err != nil {
			return nil, err
		}
		query = query.Where(clause, args...)
	}
	return query, nil
}

// order resolves the sort key to a column. The id is always appended so that
// rows with equal sort values keep a stable position across pages.
func (s *listSpec) order(key string, dir listing.SortDirection) (string, error) {
	if key == "" {
		return s.defaultOrder + ", id DESC", nil
	}
	col, ok := s.sorts[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", customerrors.ErrInvalidSortKey, key)
	}
	if dir == listing.SortDescending {
		return col + " DESC, id DESC", nil
	}
	return col + " ASC, id ASC", nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func eqFilter(column string) filterFunc {
	return func(value string) (string, []any, error) {
		return column + " = ?", []any{value}, nil
	}
}

// enumFilter accepts only the listed values.
func enumFilter[E ~string](column string, allowed []E) filterFunc {
	return func(value string) (string, []any, error) {
		if !lo.Contains(allowed, E(value)) {
			return "", nil, fmt.Errorf("%w: %s must be one of %v", customerrors.ErrInvalidFilter, column, allowed)
		}
		return column + " = ?", []any{value}, nil
	}
}

func boolFilter(column string) filterFunc {
	return func(value string) (string, []any, error) {
		return column + " = ?", []any{typeutil.ParseBoolQueryParam(value)}, nil
	}
}

func uuidFilter(column string) filterFunc {
	return func(value string) (string, []any, error) {
		id, err := uuid.Parse(value)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s is not a valid id", customerrors.ErrInvalidFilter, column)
		}
		return column + " = ?", []any{id}, nil
	}
}

// minFilter keeps rows whose column is at least the given number.
func minFilter(column string) filterFunc {
	return func(value string) (string, []any, error) {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s expects a number", customerrors.ErrInvalidFilter, column)
		}
		return column + " >= ?", []any{n}, nil
	}
}

func containsFilter(column string) filterFunc {
	return func(value string) (string, []any, error) {
		return "LOWER(" + column + ") LIKE ? ESCAPE '\\'", []any{"%" + escapeLike(strings.ToLower(value)) + "%"}, nil
	}
}

// skillFilter matches one element of a JSON string list column.
func skillFilter(column string) filterFunc {
	return func(value string) (string, []any, error) {
		pattern := `%"` + escapeLike(strings.ToLower(strings.TrimSpace(value))) + `"%`
		return "LOWER(CAST(" + column + " AS TEXT)) LIKE ? ESCAPE '\\'", []any{pattern}, nil
	}
}
