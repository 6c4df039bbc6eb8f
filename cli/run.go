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
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/abcxyz/conflag/logging"
)

// DefaultHelpFlag is the token that requests help.
const DefaultHelpFlag = "--help"

type runConfig struct {
	helpFlag    string
	out         io.Writer
	programName string
}

// RunOption configures [Run].
type RunOption func(c *runConfig) *runConfig

// WithHelpFlag changes the token that requests help.
func WithHelpFlag(flag string) RunOption {
	return func(c *runConfig) *runConfig {
		if flag != "" {
			c.helpFlag = flag
		}
		return c
	}
}

// WithOutput sets the sink help is written to. The default is [os.Stdout].
func WithOutput(w io.Writer) RunOption {
	return func(c *runConfig) *runConfig {
		if w != nil {
			c.out = w
		}
		return c
	}
}

// WithProgramName overrides the program name used in help output. By default
// it is the root registry's name, or the base name of argv[0].
func WithProgramName(name string) RunOption {
	return func(c *runConfig) *runConfig {
		c.programName = name
		return c
	}
}

// Run resolves argv against the tree rooted at root and invokes the selected
// command once. argv[0] is the program name; the remaining tokens follow the
// grammar
//
//	prog [group ...] command [--option value | --option=value | positional]...
//
// Options and positionals may be interleaved; a bare "--" makes every later
// token positional. The help flag short-circuits resolution at any depth and
// writes help to the output sink instead of running anything.
//
// Resolution failures wrap one of the resolution sentinel errors (such as
// [ErrUnknownCommand]). An error returned by the command is returned as-is.
func Run(ctx context.Context, root *Registry, argv []string, opts ...RunOption) error {
	cfg := &runConfig{
		helpFlag: DefaultHelpFlag,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	var tokens []string
	if len(argv) > 0 {
		tokens = argv[1:]
	}

	prog := cfg.programName
	if prog == "" {
		prog = root.name
	}
	if prog == "" && len(argv) > 0 {
		prog = filepath.Base(argv[0])
	}

	logger := logging.FromContext(ctx)

	// Walk the tree. nodes[i] is the registry reached after consuming path[:i].
	nodes := []*Registry{root}
	var path []string
	var cmd *Command
	for cmd == nil {
		node := nodes[len(nodes)-1]
		usage := joinName(prog, path...)

		if len(tokens) == 0 {
			logger.DebugContext(ctx, "no command selected, printing help", "path", usage)
			return writeHelp(cfg.out, registryHelp(usage, node, helpStyleFor(cfg.out)))
		}

		tok := tokens[0]
		if tok == cfg.helpFlag {
			logger.DebugContext(ctx, "help requested", "path", usage)
			return writeHelp(cfg.out, registryHelp(usage, node, helpStyleFor(cfg.out)))
		}

		if child, ok := node.children[tok]; ok {
			nodes = append(nodes, child)
			path = append(path, tok)
			tokens = tokens[1:]
			continue
		}

		c, ok := node.commands[tok]
		if !ok {
			return fmt.Errorf("%w %q: run %q for a list of commands",
				ErrUnknownCommand, tok, usage+" "+cfg.helpFlag)
		}
		cmd = c
		tokens = tokens[1:]
	}

	usage := joinName(prog, append(path, cmd.Name)...)
	logger.DebugContext(ctx, "resolved command", "command", usage, "tokens", tokens)

	if slices.Contains(tokens, cfg.helpFlag) {
		logger.DebugContext(ctx, "help requested", "command", usage)
		return writeHelp(cfg.out, commandHelp(usage, cmd, helpStyleFor(cfg.out)))
	}

	args, err := bind(ctx, nodes, path, cmd, tokens)
	if err != nil {
		return fmt.Errorf("%s: %w", usage, err)
	}

	return cmd.Run(ctx, args) //nolint:wrapcheck // The command's error is returned exactly as-is.
}

// bind classifies the command's tokens and resolves a value for every
// parameter. Nothing is invoked.
func bind(ctx context.Context, nodes []*Registry, path []string, cmd *Command, tokens []string) (Args, error) {
	logger := logging.FromContext(ctx)

	optionParams := cmd.options()
	given := make(map[string]string, len(optionParams))
	var values []string

	onlyPositional := false
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case onlyPositional:
			values = append(values, tok)
		case tok == "--":
			onlyPositional = true
		case strings.HasPrefix(tok, "--"):
			name, val, hasVal := strings.Cut(tok[2:], "=")
			if _, ok := optionParams[name]; !ok {
				return nil, fmt.Errorf("%w %q", ErrUnknownOption, "--"+name)
			}
			if !hasVal {
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("%w: option %q requires a value", ErrMissingArgument, "--"+name)
				}
				i++
				val = tokens[i]
			}
			given[name] = val
		default:
			values = append(values, tok)
		}
	}

	positionals := cmd.positionals()
	if got, want := len(values), len(positionals); got < want {
		return nil, fmt.Errorf("%w %q: expected %d positional arguments, got %d",
			ErrMissingArgument, positionals[got].Name, want, got)
	} else if got > want {
		return nil, fmt.Errorf("%w: unexpected %q", ErrTooManyArguments, values[want:])
	}

	args := make(Args, len(cmd.Params))
	next := 0
	for _, p := range cmd.Params {
		var raw any
		var source string
		if p.Kind == Positional {
			raw, source = values[next], "cli"
			next++
		} else if v, ok := given[p.Name]; ok {
			raw, source = v, "cli"
		} else if v, ok := lookupOption(nodes, path, cmd.Name, p.Name); ok {
			raw, source = v, "config"
		} else {
			raw, source = p.Default, "default"
		}

		v, err := p.resolve(raw)
		if err != nil {
			return nil, err
		}
		args[p.Name] = v
		logger.DebugContext(ctx, "bound parameter",
			"command", cmd.Name,
			"param", p.Name,
			"source", source)
	}
	return args, nil
}

// lookupOption finds a config value for an option. The deepest registry's
// own scope is consulted first at [cmd, param]; then each ancestor at the
// remaining path, ending with the root at [path..., cmd, param].
func lookupOption(nodes []*Registry, path []string, cmd, param string) (any, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].config == nil {
			continue
		}
		key := append(append(slices.Clone(path[i:]), cmd), param)
		if v, ok := lookupPath(nodes[i].config, key); ok {
			return v, true
		}
	}
	return nil, false
}

func joinName(prog string, parts ...string) string {
	all := make([]string, 0, len(parts)+1)
	if prog != "" {
		all = append(all, prog)
	}
	all = append(all, parts...)
	return strings.Join(all, " ")
}
