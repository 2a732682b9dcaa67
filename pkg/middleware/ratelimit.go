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

package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/jobboard/pkg/config"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/utils/response"
	"github.com/masteryyh/jobboard/pkg/utils/safe"
	"golang.org/x/time/rate"
)

const limiterIdleTimeout = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	enabled  bool
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
}

func NewRateLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	l := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
	l.Configure(cfg)
	return l
}

// Configure applies new limits. Existing buckets are rebuilt on their next
// request.
func (l *RateLimiter) Configure(cfg *config.RateLimitConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cfg == nil || !cfg.Enabled {
		l.enabled = false
		return
	}
	l.enabled = true
	l.limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	l.burst = max(cfg.Burst, 1)
	clear(l.limiters)
	clear(l.lastSeen)
}

// Allow reports whether a request from key may proceed.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	if !l.enabled {
		l.mu.Unlock()
		return true
	}
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.lastSeen[key] = time.Now()
	l.mu.Unlock()

	return limiter.Allow()
}

// Run evicts idle buckets until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	safe.GoSafeWithCtx("rate-limiter-cleanup", ctx, func(ctx context.Context) {
		ticker := time.NewTicker(limiterIdleTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.evict(time.Now().Add(-limiterIdleTimeout)); n > 0 {
					slog.DebugContext(ctx, "evicted idle rate limiters", "count", n, "goroutine", safe.GoroutineName(ctx))
				}
			}
		}
	})
}

func (l *RateLimiter) evict(before time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, seen := range l.lastSeen {
		if seen.Before(before) {
			delete(l.limiters, key)
			delete(l.lastSeen, key)
			n++
		}
	}
	return n
}

func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		slog.InfoContext(c, "rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
		c.Header("Retry-After", "60")
		response.Abort(c, customerrors.ErrTooManyRequests)
	}
}
