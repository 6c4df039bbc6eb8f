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
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Levels understood by [LookupLevel]. They sit on the [log/slog] scale so the
// standard constants interoperate.
const (
	LevelDebug     = slog.LevelDebug
	LevelInfo      = slog.LevelInfo
	LevelNotice    = slog.Level(2)
	LevelWarning   = slog.LevelWarn
	LevelError     = slog.LevelError
	LevelEmergency = slog.Level(12)
)

var levelNames = map[string]slog.Level{
	"debug":     LevelDebug,
	"info":      LevelInfo,
	"notice":    LevelNotice,
	"warning":   LevelWarning,
	"error":     LevelError,
	"emergency": LevelEmergency,
}

// LookupLevel returns the level for the given case-insensitive name. "warn"
// is accepted as an alias for "warning".
func LookupLevel(name string) (slog.Level, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "warn" {
		n = "warning"
	}
	if v, ok := levelNames[n]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("no such level %q, valid levels are %q", name, LevelNames())
}

// LevelNames returns the sorted list of level names.
func LevelNames() []string {
	names := make([]string, 0, len(levelNames))
	for k := range levelNames {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		return levelNames[names[i]] < levelNames[names[j]]
	})
	return names
}

// LevelString returns the name of the closest named level at or below l,
// with an offset suffix when l is between named levels (e.g. "info+1").
func LevelString(l slog.Level) string {
	names := LevelNames()
	best := names[0]
	for _, n := range names {
		if levelNames[n] <= l {
			best = n
		}
	}

	if l < levelNames[best] {
		return fmt.Sprintf("%s%d", best, int(l-levelNames[best]))
	}
	if d := l - levelNames[best]; d != 0 {
		return fmt.Sprintf("%s+%d", best, int(d))
	}
	return best
}

// Format is a log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// LookupFormat parses a format name.
func LookupFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("no such format %q, valid formats are %q", name, []Format{FormatJSON, FormatText})
	}
}

// LookupTarget parses an output target name.
func LookupTarget(name string) (io.Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("no such target %q, valid targets are [stdout stderr]", name)
	}
}
