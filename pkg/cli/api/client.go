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
	"bytes"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/masteryyh/jobboard/pkg/wallet"
	"github.com/sony/gobreaker/v2"
)

const DefaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	breaker    *gobreaker.CircuitBreaker[*APIResponse]
}

type Option func(*Client)

func WithAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// BreakerSettings opens the circuit after Failures consecutive transport or
// server errors and probes again after Cooldown.
type BreakerSettings struct {
	Failures uint32
	Cooldown time.Duration
}

func WithBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		failures := max(settings.Failures, 1)
		c.breaker = gobreaker.NewCircuitBreaker[*APIResponse](gobreaker.Settings{
			Name:        "jobboard-api",
			MaxRequests: 1,
			Timeout:     settings.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Debug("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
			// client errors mean the server is healthy
			IsSuccessful: func(err error) bool {
				var apiErr *Error
				if errors.As(err, &apiErr) {
					return apiErr.Status < http.StatusInternalServerError
				}
				return err == nil
			},
		})
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type APIResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    stdjson.RawMessage  `json:"data"`
	Meta    *pagination.Meta    `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (*APIResponse, error) {
	if c.breaker == nil {
		return c.send(ctx, method, path, query, body)
	}
	resp, err := c.breaker.Execute(func() (*APIResponse, error) {
		return c.send(ctx, method, path, query, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("server unavailable, not retrying yet: %w", err)
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &Error{Status: resp.StatusCode, Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || apiResp.Code >= http.StatusBadRequest {
		return nil, &Error{
			Status:  resp.StatusCode,
			Code:    apiResp.Code,
			Message: apiResp.Message,
			Fields:  apiResp.Errors,
		}
	}
	return &apiResp, nil
}

func decode[T any](data []byte, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return &v, nil
}

func (c *Client) Companies() *Resource[models.CompanyDto] {
	return newResource[models.CompanyDto](c, "/api/v1/companies", "company")
}

func (c *Client) JobListings() *Resource[models.JobListingDto] {
	return newResource[models.JobListingDto](c, "/api/v1/job-listings", "job listing")
}

func (c *Client) Candidates() *Resource[models.CandidateDto] {
	return newResource[models.CandidateDto](c, "/api/v1/candidates", "candidate")
}

func (c *Client) Users() *Resource[models.UserDto] {
	return newResource[models.UserDto](c, "/api/v1/users", "user")
}

func (c *Client) Transactions() *Resource[models.TransactionDto] {
	return newResource[models.TransactionDto](c, "/api/v1/wallet/transactions", "transaction")
}

func (c *Client) WalletSummary(ctx context.Context, userID string) (*wallet.Summary, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/wallet/summary", url.Values{"userId": {userID}}, nil)
	if err != nil {
		return nil, err
	}
	return decode[wallet.Summary](resp.Data, "wallet summary")
}

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[HealthStatus](resp.Data, "health status")
}
