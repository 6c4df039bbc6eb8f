// Copyright 2026 The Authors (see AUTHORS file)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"io"
	"log/slog"
	"testing"
)

// TestLogger returns a debug-level logger that writes through tb.Log. Output
// only appears for failed tests, or for all tests under "go test -v".
func TestLogger(tb testing.TB) *slog.Logger {
	tb.Helper()

	encode := attrsEncoder()
	return slog.New(NewLevelHandler(LevelDebug, slog.NewTextHandler(&testingWriter{tb}, &slog.HandlerOptions{
		Level: slog.Level(-100),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// tb.Log already carries timing.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return encode(groups, a)
		},
	})))
}

var _ io.Writer = (*testingWriter)(nil)

type testingWriter struct {
	tb testing.TB
}

func (t *testingWriter) Write(b []byte) (int, error) {
	t.tb.Helper()
	t.tb.Log(string(b))
	return len(b), nil
}
