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
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestContext(t *testing.T) {
	t.Parallel()

	logger1 := New(&bytes.Buffer{}, LevelInfo, FormatText, false)
	logger2 := New(&bytes.Buffer{}, LevelDebug, FormatJSON, false)

	checkFromContext(context.Background(), t, DefaultLogger())

	ctx := WithLogger(context.Background(), logger1)
	checkFromContext(ctx, t, logger1)

	ctx = WithLogger(ctx, logger2)
	checkFromContext(ctx, t, logger2)
}

func checkFromContext(ctx context.Context, tb testing.TB, want *slog.Logger) {
	tb.Helper()

	if got := FromContext(ctx); want != got {
		tb.Errorf("unexpected logger in context. got: %v, want: %v", got, want)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"MY_APP_LOG_LEVEL": "debug",
		"LOG_FORMAT":       "json",
	}
	var b bytes.Buffer
	logger := NewFromEnv("MY_APP_",
		WithDefaultTarget(&b),
		WithGetenv(func(k string) string { return env[k] }))

	logger.Debug("hello", "took", 90*time.Minute)

	out := b.String()
	for _, want := range []string{`"level":"debug"`, `"msg":"hello"`, `"took":"1h30m"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q to contain %q", out, want)
		}
	}
}

func TestNewFromEnv_invalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic")
		}
	}()

	NewFromEnv("", WithGetenv(func(k string) string {
		if k == "LOG_LEVEL" {
			return "chatty"
		}
		return ""
	}))
}

func TestSetLevel(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	logger := New(&b, LevelWarning, FormatText, false)

	logger.Info("dropped")
	if got := b.String(); got != "" {
		t.Errorf("expected no output, got %q", got)
	}

	SetLevel(logger, LevelInfo)
	logger.With("k", "v").Info("kept")
	if got, want := b.String(), "msg=kept k=v"; !strings.Contains(got, want) {
		t.Errorf("expected %q to contain %q", got, want)
	}
}

func TestLookupLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: " INFO ", want: LevelInfo},
		{in: "warn", want: LevelWarning},
		{in: "notice", want: LevelNotice},
		{in: "emergency", want: LevelEmergency},
		{in: "verbose", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := LookupLevel(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v to be %v", got, tc.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   slog.Level
		want string
	}{
		{in: LevelDebug, want: "debug"},
		{in: LevelDebug - 2, want: "debug-2"},
		{in: LevelInfo + 1, want: "info+1"},
		{in: LevelWarning, want: "warning"},
		{in: LevelEmergency + 4, want: "emergency+4"},
	}

	for _, tc := range cases {
		if got := LevelString(tc.in); got != tc.want {
			t.Errorf("LevelString(%d): expected %q to be %q", tc.in, got, tc.want)
		}
	}
}
