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
	"reflect"
	"slices"
	"strings"
)

// Kind says how a parameter receives its value.
type Kind int

const (
	// Positional parameters are required and bound, in declaration order, to
	// the command's non-option tokens.
	Positional Kind = iota

	// Option parameters have a default and are set with "--name value".
	Option
)

func (k Kind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Option:
		return "option"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param describes one formal argument of a [Command].
type Param struct {
	// Name is unique within the command. Options are addressed as "--Name".
	Name string

	Kind Kind

	// Type is the declared type shown in help output. It is advisory: values
	// are only converted by Caster or Enum. When empty it is derived from
	// Enum, then from Default, and is otherwise "string".
	Type string

	// Default is the value of an Option when neither the command line nor the
	// configuration supplies one. A string default is cast like a token; any
	// other value is used as-is. Positional parameters must not set it.
	Default any

	// Caster converts a raw string into the parameter's value.
	Caster CasterFunc

	// Choices, if set, is the ordered set of permitted raw values.
	Choices []string

	// Enum restricts the parameter to the members of a closed enumeration and
	// converts member names into members. It cannot be combined with Choices.
	Enum *Enum

	// Usage is the help text for the parameter.
	Usage string
}

// Arg returns a positional parameter.
func Arg(name string) *Param {
	return &Param{Name: name, Kind: Positional}
}

// Opt returns an option parameter with the given default.
func Opt(name string, def any) *Param {
	return &Param{Name: name, Kind: Option, Default: def}
}

// WithCaster sets the caster and returns p.
func (p *Param) WithCaster(fn CasterFunc) *Param {
	p.Caster = fn
	return p
}

// WithChoices sets the permitted raw values and returns p.
func (p *Param) WithChoices(choices ...string) *Param {
	p.Choices = choices
	return p
}

// WithEnum sets the enumeration and returns p.
func (p *Param) WithEnum(e *Enum) *Param {
	p.Enum = e
	return p
}

// WithType sets the declared type name and returns p.
func (p *Param) WithType(typ string) *Param {
	p.Type = typ
	return p
}

// WithUsage sets the help text and returns p.
func (p *Param) WithUsage(usage string) *Param {
	p.Usage = usage
	return p
}

// validate checks p in isolation and de-duplicates its choices.
func (p *Param) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil parameter", ErrInvalidParam)
	}
	if err := validateName(p.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}

	switch p.Kind {
	case Positional:
		if p.Default != nil {
			return fmt.Errorf("%w: positional %q cannot have a default", ErrInvalidParam, p.Name)
		}
	case Option:
	default:
		return fmt.Errorf("%w: %q has unknown kind %s", ErrInvalidParam, p.Name, p.Kind)
	}

	if p.Enum != nil && len(p.Choices) > 0 {
		return fmt.Errorf("%w: %q cannot have both an enum and choices", ErrInvalidParam, p.Name)
	}

	seen := make(map[string]struct{}, len(p.Choices))
	choices := p.Choices[:0:0]
	for _, c := range p.Choices {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		choices = append(choices, c)
	}
	p.Choices = choices
	return nil
}

// typeName is the declared type for help output.
func (p *Param) typeName() string {
	switch {
	case p.Type != "":
		return p.Type
	case p.Enum != nil:
		return p.Enum.Name()
	case p.Default != nil:
		if _, ok := p.Default.(string); !ok {
			return reflect.TypeOf(p.Default).String()
		}
	}
	return "string"
}

// choices returns the permitted names, explicit or derived from Enum.
func (p *Param) choices() []string {
	if p.Enum != nil {
		return p.Enum.Names()
	}
	return p.Choices
}

// resolve turns a raw value (token, config value or default) into the bound
// value. Only strings are cast; anything else is already typed.
func (p *Param) resolve(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	s, isString := raw.(string)
	var value any
	switch {
	case !isString:
		if p.Enum != nil && !p.Enum.Contains(raw) {
			return nil, fmt.Errorf("%w: %q for %q, valid values are %q",
				ErrInvalidChoice, fmt.Sprint(raw), p.Name, p.Enum.Names())
		}
		value = raw
	case p.Caster != nil:
		v, err := safeCast(p.Caster, s)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: value %q: %w", ErrCast, p.Name, s, err)
		}
		value = v
	case p.Enum != nil:
		v, ok := p.Enum.Lookup(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q for %q, valid values are %q",
				ErrInvalidChoice, s, p.Name, p.Enum.Names())
		}
		value = v
	default:
		value = s
	}

	if len(p.Choices) > 0 {
		key := s
		if !isString {
			key = fmt.Sprint(raw)
		}
		if !slices.Contains(p.Choices, key) {
			return nil, fmt.Errorf("%w: %q for %q, valid values are %q",
				ErrInvalidChoice, key, p.Name, p.Choices)
		}
	}
	return value, nil
}

// safeCast calls fn, reporting a panic as an error.
func safeCast(fn CasterFunc, s string) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("caster panicked: %v", r)
		}
	}()
	return fn(s)
}

// validateName rejects names that could not be typed as a single token or
// would be mistaken for an option.
func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name")
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("name %q cannot start with a dash", name)
	case strings.ContainsAny(name, " \t\r\n="):
		return fmt.Errorf("name %q cannot contain whitespace or '='", name)
	}
	return nil
}
