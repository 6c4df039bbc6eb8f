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
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	enumeratedType      = reflect.TypeOf((*Enumerated)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
	stringSliceType     = reflect.TypeOf([]string(nil))
)

// FromStruct derives a command from the fields of T, in field order:
//
//	type Greet struct {
//	  Name     string        `arg:"name" usage:"Who to greet."`
//	  Greeting string        `opt:"greeting" default:"hello" choices:"hello,hi"`
//	  Times    int           `opt:"times" default:"1"`
//	  Pause    time.Duration `opt:"pause"`
//	}
//
// A field tagged "arg" is a positional parameter and one tagged "opt" is an
// option; other fields are ignored. The "default" tag is cast like a token,
// and an option without one is left at the zero value unless the command line
// or the configuration sets it. Fields are cast according to their type:
// strings verbatim, then bool, integer, float, [time.Duration], []string
// (comma-separated) and [encoding.TextUnmarshaler]. Types implementing
// [Enumerated] become enum parameters.
//
// When name is empty the lower-cased type name of T is used. fn receives a
// fresh *T populated from the bound arguments.
func FromStruct[T any](name string, fn func(ctx context.Context, in *T) error) (*Command, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidCommand, typ)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function for %s", ErrInvalidCommand, typ)
	}
	if name == "" {
		name = strings.ToLower(typ.Name())
	}

	params, fields, err := paramsFromStruct(typ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}

	cmd := &Command{
		Name:   name,
		Params: params,
		Run: func(ctx context.Context, args Args) error {
			in := new(T)
			v := reflect.ValueOf(in).Elem()
			for i, p := range params {
				if err := assign(v.Field(fields[i]), args[p.Name]); err != nil {
					return fmt.Errorf("%w: parameter %q: %w", ErrCast, p.Name, err)
				}
			}
			return fn(ctx, in)
		},
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// MustFromStruct is [FromStruct], but panics on error.
func MustFromStruct[T any](name string, fn func(ctx context.Context, in *T) error) *Command {
	cmd, err := FromStruct(name, fn)
	if err != nil {
		panic(err)
	}
	return cmd
}

// paramsFromStruct returns the parameters and, for each, its field index.
func paramsFromStruct(typ reflect.Type) ([]*Param, []int, error) {
	var params []*Param
	var fields []int
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)

		argName, isArg := f.Tag.Lookup("arg")
		optName, isOpt := f.Tag.Lookup("opt")
		switch {
		case !isArg && !isOpt:
			continue
		case isArg && isOpt:
			return nil, nil, fmt.Errorf("%w: field %s has both arg and opt tags", ErrInvalidParam, f.Name)
		case !f.IsExported():
			return nil, nil, fmt.Errorf("%w: field %s is not exported", ErrInvalidParam, f.Name)
		}

		p := &Param{
			Name:  argName,
			Kind:  Positional,
			Type:  f.Type.String(),
			Usage: f.Tag.Get("usage"),
		}
		if isOpt {
			p.Name = optName
			p.Kind = Option
			if def, ok := f.Tag.Lookup("default"); ok {
				p.Default = def
			}
		} else if _, ok := f.Tag.Lookup("default"); ok {
			return nil, nil, fmt.Errorf("%w: positional field %s cannot have a default", ErrInvalidParam, f.Name)
		}
		if p.Name == "" {
			p.Name = strings.ToLower(f.Name)
		}
		if v := f.Tag.Get("type"); v != "" {
			p.Type = v
		}
		if v := f.Tag.Get("choices"); v != "" {
			p.Choices = strings.Split(v, ",")
		}

		caster, enum, err := casterFor(f.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		p.Caster = caster
		if enum != nil {
			p.Enum = enum
			p.Type = enum.Name()
		}

		params = append(params, p)
		fields = append(fields, i)
	}
	return params, fields, nil
}

// casterFor picks the conversion for a field type. A nil caster and nil enum
// means strings are used verbatim.
func casterFor(t reflect.Type) (CasterFunc, *Enum, error) {
	if t.Implements(enumeratedType) {
		e, ok := reflect.Zero(t).Interface().(Enumerated)
		if !ok || e == nil {
			return nil, nil, fmt.Errorf("%w: %s has a nil enumeration", ErrInvalidParam, t)
		}
		enum := e.Enum()
		if enum == nil {
			return nil, nil, fmt.Errorf("%w: %s has a nil enumeration", ErrInvalidParam, t)
		}
		return nil, enum, nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(s string) (any, error) {
			v := reflect.New(t)
			if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return nil, err //nolint:wrapcheck
			}
			return v.Elem().Interface(), nil
		}, nil, nil
	}

	switch t {
	case durationType:
		return DurationCaster, nil, nil
	case stringSliceType:
		return StringSliceCaster, nil, nil
	}

	switch t.Kind() {
	case reflect.String:
		if t == reflect.TypeOf("") {
			return nil, nil, nil
		}
		return func(s string) (any, error) {
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		}, nil, nil
	case reflect.Bool:
		return converting(t, func(s string) (any, error) { return strconv.ParseBool(s) }), nil, nil //nolint:wrapcheck
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return converting(t, func(s string) (any, error) { return strconv.ParseInt(s, 10, t.Bits()) }), nil, nil //nolint:wrapcheck
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return converting(t, func(s string) (any, error) { return strconv.ParseUint(s, 10, t.Bits()) }), nil, nil //nolint:wrapcheck
	case reflect.Float32, reflect.Float64:
		return converting(t, func(s string) (any, error) { return strconv.ParseFloat(s, t.Bits()) }), nil, nil //nolint:wrapcheck
	default:
		return nil, nil, fmt.Errorf("%w: unsupported field type %s", ErrInvalidParam, t)
	}
}

// converting wraps a parser so its result is converted to t.
func converting(t reflect.Type, parse CasterFunc) CasterFunc {
	return func(s string) (any, error) {
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(v).Convert(t).Interface(), nil
	}
}

// assign stores a bound value into a struct field. Values taken as-is from
// configuration may need a numeric conversion or a []any to []string copy.
func assign(field reflect.Value, v any) error {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	ft := field.Type()
	switch {
	case rv.Type().AssignableTo(ft):
		field.Set(rv)
	case isNumber(rv.Kind()) && isNumber(ft.Kind()):
		if !fitsNumber(rv, field) {
			return fmt.Errorf("cannot assign %v to %s", v, ft)
		}
		field.Set(rv.Convert(ft))
	case rv.Kind() == reflect.String && ft.Kind() == reflect.String:
		field.Set(rv.Convert(ft))
	case rv.Kind() == reflect.Slice && ft == stringSliceType:
		out := make([]string, rv.Len())
		for i := range out {
			out[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		field.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("cannot assign %T to %s", v, ft)
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fitsNumber reports whether the numeric value rv converts to field's type
// without wrapping, changing sign or dropping a fraction.
func fitsNumber(rv, field reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		switch {
		case isInt(field.Kind()):
			return !field.OverflowInt(n)
		case isUint(field.Kind()):
			return n >= 0 && !field.OverflowUint(uint64(n))
		default:
			return !field.OverflowFloat(float64(n))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		switch {
		case isInt(field.Kind()):
			return u <= math.MaxInt64 && !field.OverflowInt(int64(u))
		case isUint(field.Kind()):
			return !field.OverflowUint(u)
		default:
			return !field.OverflowFloat(float64(u))
		}
	default:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return field.Kind() == reflect.Float32 || field.Kind() == reflect.Float64
		}
		switch {
		case isInt(field.Kind()):
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 &&
				!field.OverflowInt(int64(f))
		case isUint(field.Kind()):
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 &&
				!field.OverflowUint(uint64(f))
		default:
			return !field.OverflowFloat(f)
		}
	}
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}
