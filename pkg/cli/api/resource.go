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

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
)

// Resource is the CRUD surface of one collection endpoint.
type Resource[T any] struct {
	client *Client
	path   string
	name   string
}

func newResource[T any](client *Client, path, name string) *Resource[T] {
	return &Resource[T]{client: client, path: path, name: name}
}

// List fetches the page described by q. Page sizes above the server maximum
// are rejected rather than silently clamped.
func (r *Resource[T]) List(ctx context.Context, q listing.ListQuery) (listing.PagedResult[T], error) {
	if err := pagination.CheckPageSize(q.PageSize); err != nil {
		return listing.PagedResult[T]{}, err
	}
	resp, err := r.client.doRequest(ctx, http.MethodGet, r.path, q.Values(), nil)
	if err != nil {
		return listing.PagedResult[T]{}, err
	}

	items, err := decode[[]T](resp.Data, r.name+" list")
	if err != nil {
		return listing.PagedResult[T]{}, err
	}
	if resp.Meta == nil {
		return listing.NewPagedResult(*items, int64(len(*items)), q.PageSize), nil
	}
	page := pagination.PagedResponse[T]{Data: *items, Meta: *resp.Meta}
	return page.ToResult(q.PageSize), nil
}

// All walks every page of q starting from its current page.
func (r *Resource[T]) All(ctx context.Context, q listing.ListQuery) ([]T, error) {
	var out []T
	for {
		page, err := r.List(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if page.Empty() || q.PageIndex+1 >= page.TotalPages {
			return out, nil
		}
		q.PageIndex++
	}
}

// FetchFunc adapts List to the list engine.
func (r *Resource[T]) FetchFunc() listing.FetchFunc[T] {
	return r.List
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	resp, err := r.client.doRequest(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[T](resp.Data, r.name)
}

func (r *Resource[T]) Create(ctx context.Context, dto any) (*T, error) {
	resp, err := r.client.doRequest(ctx, http.MethodPost, r.path, nil, dto)
	if err != nil {
		return nil, err
	}
	return decode[T](resp.Data, r.name)
}

func (r *Resource[T]) Update(ctx context.Context, id string, dto any) (*T, error) {
	resp, err := r.client.doRequest(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, dto)
	if err != nil {
		return nil, err
	}
	return decode[T](resp.Data, r.name)
}

func (r *Resource[T]) Delete(ctx context.Context, id string, force bool) error {
	var query url.Values
	if force {
		query = url.Values{"force": {"true"}}
	}
	_, err := r.client.doRequest(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), query, nil)
	return err
}
