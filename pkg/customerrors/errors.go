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

package customerrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type BusinessError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrUnauthorized        = NewBusinessError(http.StatusUnauthorized, "authorization required")
	ErrInvalidCredentials  = NewBusinessError(http.StatusUnauthorized, "invalid username or password")
	ErrForbidden           = NewBusinessError(http.StatusForbidden, "forbidden")
	ErrInvalidParams       = NewBusinessError(http.StatusBadRequest, "invalid params")
	ErrTooManyRequests     = NewBusinessError(http.StatusTooManyRequests, "too many requests")
	ErrInternalServerError = NewBusinessError(http.StatusInternalServerError, "internal server error")

	ErrInvalidSortKey = NewBusinessError(http.StatusBadRequest, "unsupported sort key")
	ErrInvalidFilter  = NewBusinessError(http.StatusBadRequest, "unsupported filter")

	ErrCompanyNotFound      = NewBusinessError(http.StatusNotFound, "company not found")
	ErrCompanyAlreadyExists = NewBusinessError(http.StatusConflict, "company with the same name already exists")
	ErrCompanyInUse         = NewBusinessError(http.StatusConflict, "company still has job listings")

	ErrJobListingNotFound = NewBusinessError(http.StatusNotFound, "job listing not found")

	ErrCandidateNotFound      = NewBusinessError(http.StatusNotFound, "candidate not found")
	ErrCandidateAlreadyExists = NewBusinessError(http.StatusConflict, "candidate with the same email already exists")

	ErrUserNotFound      = NewBusinessError(http.StatusNotFound, "user not found")
	ErrUserAlreadyExists = NewBusinessError(http.StatusConflict, "user with the same email already exists")

	ErrTransactionNotFound = NewBusinessError(http.StatusNotFound, "transaction not found")
)

func GetBusinessError(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}

// ValidationError carries per-field messages for a rejected request body.
type ValidationError struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors"`
}

func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{
		Message: "the given data was invalid",
		Fields:  fields,
	}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	if len(parts) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

func GetValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}
