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

package typeutil

import "testing"

func TestParseBoolQueryParam(t *testing.T) {
	for _, raw := range []string{"true", "TRUE", "1", "yes", " on "} {
		if !ParseBoolQueryParam(raw) {
			t.Fatalf("expected %q to be true", raw)
		}
	}
	for _, raw := range []string{"", "false", "0", "nope"} {
		if ParseBoolQueryParam(raw) {
			t.Fatalf("expected %q to be false", raw)
		}
	}
}

func TestParseKeyValue(t *testing.T) {
	key, value, ok := ParseKeyValue("status = published")
	if !ok || key != "status" || value != "published" {
		t.Fatalf("unexpected result %q %q %v", key, value, ok)
	}
	if _, _, ok := ParseKeyValue("missing"); ok {
		t.Fatal("expected missing separator to fail")
	}
	if _, _, ok := ParseKeyValue("=value"); ok {
		t.Fatal("expected empty key to fail")
	}
}
