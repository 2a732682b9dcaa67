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

package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
)

type GenericResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Meta    *pagination.Meta    `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func NewGenericResponse(code int, message string, data any) *GenericResponse {
	return &GenericResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewGenericResponse(http.StatusOK, "ok", data))
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, NewGenericResponse(http.StatusCreated, "created", data))
}

// Paged writes one page of a collection. An empty page is sent as [] rather
// than null.
func Paged[T any](c *gin.Context, page *pagination.PagedResponse[T]) {
	data := page.Data
	if data == nil {
		data = []T{}
	}
	resp := NewGenericResponse(http.StatusOK, "ok", data)
	resp.Meta = &page.Meta
	c.JSON(http.StatusOK, resp)
}

func Failed(c *gin.Context, err error) {
	c.JSON(failure(c, err))
}

// BindFailed reports a request body or query that did not pass binding.
// Field level violations become a 422 with per-field messages.
func BindFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], describe(fe))
		}
		Failed(c, customerrors.NewValidationError(fields))
		return
	}
	Failed(c, customerrors.ErrInvalidParams)
}

func Abort(c *gin.Context, reason any) {
	err, ok := reason.(error)
	if ok {
		c.AbortWithStatusJSON(failure(c, err))
	} else {
		slog.ErrorContext(c, "an error occurred or panic recovered", "reason", reason)
		c.AbortWithStatusJSON(http.StatusInternalServerError, NewGenericResponse(http.StatusInternalServerError, "internal server error", nil))
	}
}

func failure(c *gin.Context, err error) (int, *GenericResponse) {
	if validationErr := customerrors.GetValidationError(err); validationErr != nil {
		resp := NewGenericResponse(http.StatusUnprocessableEntity, validationErr.Message, nil)
		resp.Errors = validationErr.Fields
		return http.StatusUnprocessableEntity, resp
	}
	if bizErr := customerrors.GetBusinessError(err); bizErr != nil {
		return bizErr.Code, NewGenericResponse(bizErr.Code, bizErr.Message, nil)
	}
	slog.ErrorContext(c, "unhandled error", "error", err, "path", c.FullPath())
	return http.StatusInternalServerError, NewGenericResponse(http.StatusInternalServerError, "internal server error", nil)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "currency":
		return "must be a three letter currency code"
	case "uuid":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}
