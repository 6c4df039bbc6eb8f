// Copyright 2022 The Authors (see AUTHORS file)
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

// Package cfgloader loads configuration. [Load] fills a program's own
// settings struct from settings documents and the environment. [Parse] and
// [LoadFiles] read YAML, JSON, TOML and HCL documents into nested maps
// suitable for a command registry's configuration scope.
package cfgloader

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/abcxyz/conflag/logging"
)

// Validatable is the interface to validate a config.
type Validatable interface {
	Validate() error
}

// source is one settings document. Documents are decoded in the order their
// options were given.
type source struct {
	name   string
	format Format
	read   func() ([]byte, error)
}

type options struct {
	sources   []*source
	envPrefix string
	lookuper  envconfig.Lookuper
}

// Option is the config loading option type.
type Option func(*options) *options

// WithYAML instructs the loader to load config from the given yaml bytes.
func WithYAML(b []byte) Option {
	return func(o *options) *options {
		o.sources = append(o.sources, &source{
			name:   "yaml bytes",
			format: FormatYAML,
			read:   func() ([]byte, error) { return b, nil },
		})
		return o
	}
}

// WithFile instructs the loader to load config from the file at path. The
// format comes from the file extension, see [FormatFromPath]. An empty path
// is ignored.
func WithFile(path string) Option {
	return func(o *options) *options {
		if path == "" {
			return o
		}
		o.sources = append(o.sources, &source{
			name: path,
			read: func() ([]byte, error) { return os.ReadFile(path) }, //nolint:wrapcheck
		})
		return o
	}
}

// WithEnvPrefix instructs the loader to load config from env vars with the given prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) *options {
		o.envPrefix = prefix
		return o
	}
}

// WithLookuper instructs the loader to use the given lookuper to find config values.
func WithLookuper(lookuper envconfig.Lookuper) Option {
	return func(o *options) *options {
		o.lookuper = lookuper
		return o
	}
}

// Load loads config into the given config value. The loading order is:
//
//  1. The existing values in the given config.
//  2. Documents from [WithYAML] and [WithFile], in option order
//  3. Env vars
//
// The values loaded later will overwrite previously loaded values.
//
// Every document is read with [Parse] and then decoded through the config's
// yaml tags, whatever its format. The config must have the [env tag] to load
// from env vars. E.g.
//
//	type Settings struct {
//		ConfigFile string `yaml:"config_file,omitempty" env:"CONFIG_FILE,overwrite"`
//		Verbose    bool   `yaml:"verbose,omitempty" env:"VERBOSE,overwrite,default=false"`
//	}
//
// [env tag]: https://github.com/sethvargo/go-envconfig
func Load(ctx context.Context, cfg any, opt ...Option) error {
	opts := &options{
		// Default to OS lookuper.
		lookuper: envconfig.OsLookuper(),
	}
	for _, o := range opt {
		opts = o(opts)
	}

	logger := logging.FromContext(ctx)

	for _, src := range opts.sources {
		if err := src.decode(cfg); err != nil {
			return fmt.Errorf("failed to load %s: %w", src.name, err)
		}
		logger.DebugContext(ctx, "loaded settings", "source", src.name)
	}

	lookuper := opts.lookuper
	if opts.envPrefix != "" {
		lookuper = envconfig.PrefixLookuper(opts.envPrefix, lookuper)
	}

	if err := envconfig.ProcessWith(ctx, cfg, lookuper); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	v, ok := cfg.(Validatable)
	if ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}
	}

	return nil
}

// decode parses the document and re-encodes it as yaml so that the config's
// yaml tags apply to every format.
func (s *source) decode(cfg any) error {
	format := s.format
	if format == "" {
		f, err := FormatFromPath(s.name)
		if err != nil {
			return err
		}
		format = f
	}

	b, err := s.read()
	if err != nil {
		return err
	}

	doc, err := parse(b, format, s.name)
	if err != nil {
		return err
	}

	y, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", format, err)
	}
	if err := yaml.Unmarshal(y, cfg); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return nil
}
