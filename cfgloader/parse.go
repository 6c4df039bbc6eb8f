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

package cfgloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned when a document format cannot be determined.
var ErrUnknownFormat = errors.New("unknown config format")

// Format is a configuration document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q has extension %q, expected one of .yaml, .yml, .json, .toml or .hcl",
			ErrUnknownFormat, path, ext)
	}
}

// Parse decodes a document into nested maps. Mapping keys are always
// strings; scalars keep the type the decoder gives them (e.g. int64 for TOML
// integers). An empty document yields an empty map.
func Parse(b []byte, format Format) (map[string]any, error) {
	return parse(b, format, "config."+string(format))
}

func parse(b []byte, format Format, filename string) (map[string]any, error) {
	var raw any
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is decoded as YAML, which accepts it and keeps integers as ints.
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", format, err)
		}
	case FormatTOML:
		m := make(map[string]any)
		if err := toml.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
		raw = m
	case FormatHCL:
		m, err := parseHCL(b, filename)
		if err != nil {
			return nil, err
		}
		raw = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	switch doc := normalize(raw).(type) {
	case nil:
		return make(map[string]any), nil
	case map[string]any:
		return doc, nil
	default:
		return nil, fmt.Errorf("config document must be a mapping, got %T", doc)
	}
}

// parseHCL turns attributes into keys and blocks into nested maps, one level
// per block type and label:
//
//	greet "formal" {
//	  greeting = "good day"
//	}
//
// becomes {"greet": {"formal": {"greeting": "good day"}}}. Expressions are
// evaluated without variables or functions.
func parseHCL(b []byte, filename string) (map[string]any, error) {
	file, diags := hclsyntax.ParseConfig(b, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse hcl: %w", diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse hcl: unexpected body type %T", file.Body)
	}
	return hclBody(body)
}

func hclBody(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %q: %w", name, diags)
		}
		v, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %q: %w", name, err)
		}
		out[name] = v
	}

	for _, block := range body.Blocks {
		inner, err := hclBody(block.Body)
		if err != nil {
			return nil, err
		}

		node := inner
		for i := len(block.Labels) - 1; i >= 0; i-- {
			node = map[string]any{block.Labels[i]: node}
		}
		var existing map[string]any
		if prev, ok := out[block.Type]; ok {
			if existing, ok = prev.(map[string]any); !ok {
				return nil, fmt.Errorf("%s: block %q conflicts with attribute of the same name",
					block.DefRange(), block.Type)
			}
		}
		out[block.Type] = Merge(existing, node)
	}
	return out, nil
}

// ctyToGo converts through the JSON encoding of the value.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}

	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	var out any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return normalize(out), nil
}

// normalize rewrites decoded values so every mapping is a map[string]any and
// every sequence a []any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case []map[string]any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = normalize(e)
		}
		return s
	default:
		return v
	}
}

// Merge returns a new map with src layered over dst. Nested maps are merged
// key by key; any other value in src replaces the one in dst. Neither input
// is modified.
func Merge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}

	for k, v := range src {
		srcMap, srcOK := v.(map[string]any)
		dstMap, dstOK := out[k].(map[string]any)
		if srcOK && dstOK {
			out[k] = Merge(dstMap, srcMap)
			continue
		}
		if srcOK {
			out[k] = Merge(nil, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}
