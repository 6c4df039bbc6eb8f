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

package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abcxyz/conflag/logging"
)

// CasterFunc converts a raw string into a typed value. A returned error is
// reported by [Run] as [ErrCast].
type CasterFunc func(raw string) (any, error)

// Caster adapts a typed parse function (e.g. [strconv.ParseBool]) into a
// [CasterFunc].
func Caster[T any](fn func(string) (T, error)) CasterFunc {
	return func(s string) (any, error) {
		v, err := fn(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

var (
	// IntCaster parses a base-10 int.
	IntCaster = Caster(func(s string) (int, error) {
		v, err := strconv.ParseInt(s, 10, strconv.IntSize)
		return int(v), err //nolint:wrapcheck
	})

	// Int64Caster parses a base-10 int64.
	Int64Caster = Caster(func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64) //nolint:wrapcheck
	})

	// UintCaster parses a base-10 uint.
	UintCaster = Caster(func(s string) (uint, error) {
		v, err := strconv.ParseUint(s, 10, strconv.IntSize)
		return uint(v), err //nolint:wrapcheck
	})

	// Float64Caster parses a float64.
	Float64Caster = Caster(func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64) //nolint:wrapcheck
	})

	// BoolCaster accepts the values of [strconv.ParseBool].
	BoolCaster = Caster(strconv.ParseBool)

	// DurationCaster accepts the values of [time.ParseDuration].
	DurationCaster = Caster(time.ParseDuration)

	// StringSliceCaster splits on commas, trimming space and dropping empty
	// elements.
	StringSliceCaster = Caster(func(s string) ([]string, error) {
		final := make([]string, 0)
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				final = append(final, trimmed)
			}
		}
		return final, nil
	})

	// StringMapCaster parses comma-separated "k=v" pairs.
	StringMapCaster = Caster(func(s string) (map[string]string, error) {
		m := make(map[string]string)
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			k, v, ok := strings.Cut(part, "=")
			if !ok {
				return nil, fmt.Errorf("missing = in KV pair %q", part)
			}
			m[k] = v
		}
		return m, nil
	})

	// LogLevelCaster accepts the level names of the logging package.
	LogLevelCaster = Caster(func(s string) (slog.Level, error) {
		return logging.LookupLevel(s) //nolint:wrapcheck
	})
)

// TimeCaster parses times in the given layout.
func TimeCaster(layout string) CasterFunc {
	return Caster(func(s string) (time.Time, error) {
		return time.Parse(layout, s) //nolint:wrapcheck
	})
}

// formatStringMap renders a map the way [StringMapCaster] reads it.
func formatStringMap(m map[string]string) string {
	list := make([]string, 0, len(m))
	for k, v := range m {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return strings.Join(list, ",")
}
