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
	"sync/atomic"
	"testing"
	"time"
)

func TestGoSafeRestartsAfterPanic(t *testing.T) {
	var runs atomic.Int32
	done := make(chan string, 1)

	GoSafeWithCtx("worker", context.Background(), func(ctx context.Context) {
		if runs.Add(1) == 1 {
			panic("boom")
		}
		done <- GoroutineName(ctx)
	})

	select {
	case name := <-done:
		if name != "worker" {
			t.Fatalf("expected goroutine name worker, got %q", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("goroutine was not restarted")
	}
	if runs.Load() != 2 {
		t.Fatalf("expected 2 runs, got %d", runs.Load())
	}
}
