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
	"context"
	"fmt"
)

// RunFunc is the target of a [Command]. args holds exactly one entry per
// declared parameter.
type RunFunc func(ctx context.Context, args Args) error

// Command is a named, invocable unit with an ordered parameter list.
type Command struct {
	// Name is the token that selects the command. It must be unique among the
	// commands and sub-registries of the registry it is registered on.
	Name string

	// Description is a short, one-line description shown in listings.
	Description string

	// Hidden commands are omitted from help output but can still be run.
	Hidden bool

	// Params are matched in order: the i-th positional token binds to the i-th
	// Positional parameter, regardless of where options appear.
	Params []*Param

	Run RunFunc
}

// validate checks the command and its parameters.
func (c *Command) validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidCommand)
	}
	if err := validateName(c.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if c.Run == nil {
		return fmt.Errorf("%w: %q has no run function", ErrInvalidCommand, c.Name)
	}

	seen := make(map[string]struct{}, len(c.Params))
	for _, p := range c.Params {
		if err := p.validate(); err != nil {
			return fmt.Errorf("command %q: %w", c.Name, err)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("command %q: %w: duplicate parameter %q", c.Name, ErrInvalidParam, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// positionals returns the Positional parameters in declaration order.
func (c *Command) positionals() []*Param {
	out := make([]*Param, 0, len(c.Params))
	for _, p := range c.Params {
		if p.Kind == Positional {
			out = append(out, p)
		}
	}
	return out
}

// options returns the Option parameters keyed by name.
func (c *Command) options() map[string]*Param {
	out := make(map[string]*Param, len(c.Params))
	for _, p := range c.Params {
		if p.Kind == Option {
			out[p.Name] = p
		}
	}
	return out
}

// Args are the bound values of a command invocation, keyed by parameter name.
type Args map[string]any

// String returns the named value if it is a string, or its default
// formatting otherwise. Missing or nil values return "".
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Value returns the named value as a T. ok is false if the value is missing,
// nil, or of another type.
func Value[T any](a Args, name string) (T, bool) {
	v, ok := a[name].(T)
	return v, ok
}
