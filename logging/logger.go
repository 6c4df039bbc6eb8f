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

// Package logging is the structured logger used by conflag programs. It is a
// thin, opinionated layer over [log/slog] that adds named levels, a handler
// whose level can be changed after creation, and context propagation.
//
// Command resolution logs at [LevelDebug] only, so a program that never
// lowers its level sees nothing from the library.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/abcxyz/conflag/timeutil"
)

type contextKey string

const loggerKey = contextKey("logger")

// defaultLogger writes text to stderr at the "warning" level. A CLI owns
// stdout, so diagnostics never go there by default.
var defaultLogger = sync.OnceValue(func() *slog.Logger {
	return New(os.Stderr, LevelWarning, FormatText, false)
})

// New creates a logger that writes records in the given format to w at the
// given level. The returned logger's handler satisfies [LevelableHandler].
//
// If debug is true, every record is emitted regardless of level and source
// locations are included.
func New(w io.Writer, level slog.Level, format Format, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		ReplaceAttr: attrsEncoder(),
	}

	if debug {
		opts.AddSource = true
		level = math.MinInt
	}

	var h slog.Handler
	switch format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	default:
		panic(fmt.Sprintf("unknown log format %q", format))
	}
	return slog.New(NewLevelHandler(level, h))
}

// NewFromEnv creates a logger configured from the environment. Each variable
// is first looked up with the prefix and then without it:
//
//   - LOG_LEVEL: level name (see [LevelNames]).
//   - LOG_FORMAT: "json" or "text".
//   - LOG_DEBUG: boolean, see [New].
//   - LOG_TARGET: "stdout" or "stderr".
//
// Invalid values panic, since they indicate a broken deployment rather than a
// runtime condition.
func NewFromEnv(envPrefix string, opts ...Option) *slog.Logger {
	o := &options{
		level:  LevelWarning,
		format: FormatText,
		target: os.Stderr,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		o = opt(o)
	}

	if k, v := multiGetenv(o.getenv, envPrefix+"LOG_LEVEL", "LOG_LEVEL"); v != "" {
		level, err := LookupLevel(v)
		if err != nil {
			panic(fmt.Sprintf("invalid value for %s: %s", k, err))
		}
		o.level = level
	}

	if k, v := multiGetenv(o.getenv, envPrefix+"LOG_FORMAT", "LOG_FORMAT"); v != "" {
		format, err := LookupFormat(v)
		if err != nil {
			panic(fmt.Sprintf("invalid value for %s: %s", k, err))
		}
		o.format = format
	}

	if k, v := multiGetenv(o.getenv, envPrefix+"LOG_DEBUG", "LOG_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Sprintf("invalid value for %s: %s", k, err))
		}
		o.debug = debug
	}

	if k, v := multiGetenv(o.getenv, envPrefix+"LOG_TARGET", "LOG_TARGET"); v != "" {
		target, err := LookupTarget(v)
		if err != nil {
			panic(fmt.Sprintf("invalid value for %s: %s", k, err))
		}
		o.target = target
	}

	return New(o.target, o.level, o.format, o.debug)
}

type options struct {
	level  slog.Level
	format Format
	debug  bool
	target io.Writer
	getenv func(string) string
}

// Option configures [NewFromEnv] defaults.
type Option func(o *options) *options

// WithDefaultLevel sets the level used when LOG_LEVEL is unset.
func WithDefaultLevel(l slog.Level) Option {
	return func(o *options) *options {
		o.level = l
		return o
	}
}

// WithDefaultFormat sets the format used when LOG_FORMAT is unset.
func WithDefaultFormat(f Format) Option {
	return func(o *options) *options {
		o.format = f
		return o
	}
}

// WithDefaultTarget sets the writer used when LOG_TARGET is unset.
func WithDefaultTarget(w io.Writer) Option {
	return func(o *options) *options {
		o.target = w
		return o
	}
}

// WithGetenv overrides the environment lookup. It is mostly used in tests.
func WithGetenv(f func(string) string) Option {
	return func(o *options) *options {
		if f != nil {
			o.getenv = f
		}
		return o
	}
}

func multiGetenv(f func(string) string, keys ...string) (string, string) {
	if len(keys) == 0 {
		return "", ""
	}
	for _, k := range keys {
		if v := strings.TrimSpace(f(k)); v != "" {
			return k, v
		}
	}
	return keys[0], ""
}

// SetLevel changes the level of logger. It panics if the logger's handler is
// not a [LevelableHandler]; loggers built by this package always are.
func SetLevel(logger *slog.Logger, level slog.Level) *slog.Logger {
	typ, ok := logger.Handler().(LevelableHandler)
	if !ok {
		panic("handler is not capable of setting levels")
	}
	typ.SetLevel(level)
	return logger
}

// DefaultLogger returns the process-wide fallback logger.
func DefaultLogger() *slog.Logger {
	return defaultLogger()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger in ctx, or [DefaultLogger].
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// attrsEncoder renders levels with this package's names and durations in
// their short human form.
func attrsEncoder() func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && len(groups) == 0 {
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(LevelString(lvl))
			}
		}

		if a.Value.Kind() == slog.KindDuration {
			a.Value = slog.StringValue(timeutil.HumanDuration(a.Value.Duration()))
		}
		return a
	}
}
