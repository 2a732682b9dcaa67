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
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Error is a request the server answered with a failure envelope.
type Error struct {
	Status  int
	Code    int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.FieldNames() {
		parts = append(parts, fmt.Sprintf("%s %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return fmt.Sprintf("API error %d: %s (%s)", e.Code, e.Message, strings.Join(parts, "; "))
}

// FieldNames lists the rejected fields in a stable order.
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (e *Error) IsValidation() bool {
	return e.Status == http.StatusUnprocessableEntity
}

func (e *Error) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
