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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/abcxyz/conflag/logging"
)

type fileOptions struct {
	missingOK   bool
	format      Format
	concurrency int
}

// FileOption configures [LoadFiles].
type FileOption func(*fileOptions) *fileOptions

// WithMissingOK skips files that do not exist instead of failing.
func WithMissingOK() FileOption {
	return func(o *fileOptions) *fileOptions {
		o.missingOK = true
		return o
	}
}

// WithFormat parses every file as f instead of detecting the format from the
// file extension.
func WithFormat(f Format) FileOption {
	return func(o *fileOptions) *fileOptions {
		o.format = f
		return o
	}
}

// WithConcurrency limits how many files are read at once. Values below 1
// mean no limit.
func WithConcurrency(n int) FileOption {
	return func(o *fileOptions) *fileOptions {
		o.concurrency = n
		return o
	}
}

// LoadFiles reads and parses the files concurrently, then merges them with
// [Merge] in the order given, so later files override earlier ones.
func LoadFiles(ctx context.Context, paths []string, opts ...FileOption) (map[string]any, error) {
	o := &fileOptions{}
	for _, opt := range opts {
		o = opt(o)
	}

	logger := logging.FromContext(ctx)

	docs := make([]map[string]any, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			format := o.format
			if format == "" {
				f, err := FormatFromPath(path)
				if err != nil {
					return err
				}
				format = f
			}

			b, err := os.ReadFile(path)
			if err != nil {
				if o.missingOK && errors.Is(err, fs.ErrNotExist) {
					logger.DebugContext(gctx, "skipping missing config file", "path", path)
					return nil
				}
				return fmt.Errorf("failed to read config file: %w", err)
			}

			doc, err := parse(b, format, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			docs[i] = doc

			logger.DebugContext(gctx, "loaded config file",
				"path", path,
				"format", format,
				"keys", len(doc))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	merged := make(map[string]any)
	for _, doc := range docs {
		merged = Merge(merged, doc)
	}
	return merged, nil
}
