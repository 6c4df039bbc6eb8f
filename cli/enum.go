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

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Enumerated is implemented by types whose values form a closed set. It is
// used by [FromStruct] to turn a field of that type into an enum parameter.
// Enum is called on the zero value, so it must not depend on the receiver.
type Enumerated interface {
	Enum() *Enum
}

// Enum is a closed, ordered set of values addressed by lower-case names.
type Enum struct {
	name   string
	names  []string
	values []any
	byName map[string]any
}

// NewEnum builds an enumeration named typeName (shown as the parameter type in
// help). Each member is addressed by its lower-cased String(), e.g. a member
// printing as "GOLDEN_RETRIEVER" is selected with "golden_retriever". Lookups
// are case-sensitive.
func NewEnum[T fmt.Stringer](typeName string, members ...T) (*Enum, error) {
	if typeName == "" {
		return nil, fmt.Errorf("enum name cannot be empty")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("enum %q has no members", typeName)
	}
	if !reflect.TypeOf((*T)(nil)).Elem().Comparable() {
		return nil, fmt.Errorf("enum %q members must be comparable", typeName)
	}

	lower := cases.Lower(language.Und)
	e := &Enum{
		name:   typeName,
		names:  make([]string, 0, len(members)),
		values: make([]any, 0, len(members)),
		byName: make(map[string]any, len(members)),
	}
	for _, m := range members {
		n := lower.String(m.String())
		if _, ok := e.byName[n]; ok {
			return nil, fmt.Errorf("enum %q has duplicate member %q", typeName, n)
		}
		e.names = append(e.names, n)
		e.values = append(e.values, m)
		e.byName[n] = m
	}
	return e, nil
}

// MustEnum is [NewEnum], but panics on error. It is meant for package-level
// variables.
func MustEnum[T fmt.Stringer](typeName string, members ...T) *Enum {
	e, err := NewEnum(typeName, members...)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the enumeration's type name.
func (e *Enum) Name() string {
	return e.name
}

// Names returns the member names in declaration order.
func (e *Enum) Names() []string {
	return append([]string(nil), e.names...)
}

// Lookup returns the member with the given name.
func (e *Enum) Lookup(name string) (any, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// Contains reports whether v is a member.
func (e *Enum) Contains(v any) bool {
	_, ok := e.NameOf(v)
	return ok
}

// NameOf returns the name of member v.
func (e *Enum) NameOf(v any) (string, bool) {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return "", false
	}
	for i, m := range e.values {
		if m == v {
			return e.names[i], true
		}
	}
	return "", false
}
