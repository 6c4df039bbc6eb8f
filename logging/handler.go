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
	"context"
	"log/slog"
)

// LevelableHandler is a [slog.Handler] whose minimum level can be changed
// while it is in use.
type LevelableHandler interface {
	slog.Handler
	SetLevel(level slog.Level)
}

var _ LevelableHandler = (*LevelHandler)(nil)

// LevelHandler gates an inner handler on a mutable level. Derived handlers
// (WithAttrs, WithGroup) share the level of their parent.
type LevelHandler struct {
	level   *slog.LevelVar
	handler slog.Handler
}

// NewLevelHandler wraps h so that records below level are dropped.
func NewLevelHandler(level slog.Level, h slog.Handler) *LevelHandler {
	if typ, ok := h.(*LevelHandler); ok {
		h = typ.handler
	}

	var lv slog.LevelVar
	lv.Set(level)
	return &LevelHandler{level: &lv, handler: h}
}

// SetLevel is safe for concurrent use.
func (h *LevelHandler) SetLevel(level slog.Level) {
	h.level.Set(level)
}

func (h *LevelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LevelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r) //nolint:wrapcheck // Pass-through.
}

func (h *LevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelHandler{level: h.level, handler: h.handler.WithAttrs(attrs)}
}

func (h *LevelHandler) WithGroup(name string) slog.Handler {
	return &LevelHandler{level: h.level, handler: h.handler.WithGroup(name)}
}
