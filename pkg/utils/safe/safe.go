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

package safe

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/masteryyh/jobboard/pkg/utils/signal"
)

type goIDKey struct{}

// GoSafeWithCtx runs fn in a goroutine and restarts it after a panic until
// fn returns normally.
func GoSafeWithCtx(name string, ctx context.Context, fn func(ctx context.Context)) {
	ctxWithGoID, cancel := createContext(ctx, name)

	go func() {
		for {
			panicked := false
			func() {
				defer func() {
					if r := recover(); r != nil {
						panicked = true
						slog.Error("recovered from panic, restarting", "goroutine", name, "error", r, "stack", string(debug.Stack()))
					}
				}()
				fn(ctxWithGoID)
			}()

			cancel()
			if !panicked {
				return
			}
			time.Sleep(500 * time.Millisecond)
			ctxWithGoID, cancel = createContext(ctx, name)
		}
	}()
}

// GoroutineName returns the name given to GoSafeWithCtx, if any.
func GoroutineName(ctx context.Context) string {
	name, _ := ctx.Value(goIDKey{}).(string)
	return name
}

func createContext(baseCtx context.Context, goID string) (context.Context, context.CancelFunc) {
	if baseCtx == nil {
		baseCtx = signal.GetBaseContext()
	}
	return context.WithCancel(context.WithValue(baseCtx, goIDKey{}, goID))
}
