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
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/kr/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/abcxyz/conflag/timeutil"
)

const maxLineLength = 80

// helpStyle controls rendering details that depend on the sink.
type helpStyle struct {
	width   int
	heading func(a ...any) string
}

var plainStyle = helpStyle{
	width:   maxLineLength,
	heading: fmt.Sprint,
}

// helpStyleFor returns a terminal-aware style when w is a terminal: lines are
// wrapped at the terminal width and headings are bold.
func helpStyleFor(w io.Writer) helpStyle {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return plainStyle
	}

	style := plainStyle
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols >= 40 {
		style.width = min(cols, 120)
	}

	bold := color.New(color.Bold)
	bold.EnableColor()
	style.heading = bold.SprintFunc()
	return style
}

func writeHelp(w io.Writer, s string) error {
	if _, err := fmt.Fprintln(w, s); err != nil {
		return fmt.Errorf("failed to write help: %w", err)
	}
	return nil
}

// Help returns help for the registry: its sub-command groups and, for each
// command, a one-line summary of every parameter. An unnamed root is shown
// as the running program's name.
func (r *Registry) Help() string {
	return registryHelp(r.usagePath(), r, plainStyle)
}

// usagePath is [Registry.Path], prefixed with the program name when the root
// registry has no name of its own.
func (r *Registry) usagePath() string {
	root := r
	for root.parent != nil {
		root = root.parent
	}
	if root.name != "" {
		return r.Path()
	}
	return strings.TrimSpace(filepath.Base(os.Args[0]) + " " + r.Path())
}

// Help returns the detailed help for the command.
func (c *Command) Help() string {
	return commandHelp(c.Name, c, plainStyle)
}

func registryHelp(usage string, r *Registry, style helpStyle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", style.heading("Usage:"), strings.TrimSpace(usage+" COMMAND"))
	if r.description != "" {
		fmt.Fprintf(&b, "\n%s\n", wrapAtLengthWithPadding(r.description, 2, style.width))
	}

	groups := make([]string, 0, len(r.children))
	longest := 0
	for name, child := range r.children {
		if child.hidden {
			continue
		}
		groups = append(groups, name)
		longest = max(longest, len(name))
	}
	cmds := make([]string, 0, len(r.commands))
	for name, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		cmds = append(cmds, name)
		longest = max(longest, len(name))
	}
	sort.Strings(groups)
	sort.Strings(cmds)

	if len(groups) > 0 {
		fmt.Fprintf(&b, "\n%s\n\n", style.heading("Groups:"))
		for _, name := range groups {
			fmt.Fprintln(&b, strings.TrimRight(fmt.Sprintf("  %-*s%s", longest+4, name, r.children[name].description), " "))
		}
	}

	if len(cmds) > 0 {
		fmt.Fprintf(&b, "\n%s\n\n", style.heading("Commands:"))
		for _, name := range cmds {
			cmd := r.commands[name]
			fmt.Fprintln(&b, strings.TrimRight(fmt.Sprintf("  %-*s%s", longest+4, name, cmd.Description), " "))
			writeParamSummary(&b, cmd)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeParamSummary writes one line per parameter: name, kind, type, then
// the default and choices when present.
func writeParamSummary(b *strings.Builder, cmd *Command) {
	longest := 0
	for _, p := range cmd.Params {
		longest = max(longest, len(paramLabel(p)))
	}

	for _, p := range cmd.Params {
		line := fmt.Sprintf("      %-*s%-12s%s", longest+4, paramLabel(p), p.Kind, p.typeName())
		if p.Kind == Option {
			if def, ok := formatDefault(p); ok {
				line += fmt.Sprintf(" (default %q)", def)
			}
		}
		if choices := p.choices(); len(choices) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(choices, "|"))
		}
		fmt.Fprintln(b, strings.TrimRight(line, " "))
	}
}

func commandHelp(usage string, c *Command, style helpStyle) string {
	var b strings.Builder

	positionals := c.positionals()
	hasOptions := len(positionals) != len(c.Params)

	fmt.Fprintf(&b, "%s %s", style.heading("Usage:"), usage)
	if hasOptions {
		fmt.Fprint(&b, " [options]")
	}
	for _, p := range positionals {
		fmt.Fprintf(&b, " %s", strings.ToUpper(p.Name))
	}
	fmt.Fprintln(&b)

	if c.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", wrapAtLengthWithPadding(c.Description, 2, style.width))
	}

	if len(positionals) > 0 {
		fmt.Fprintf(&b, "\n%s\n\n", style.heading("Arguments:"))
		for i, p := range positionals {
			if i > 0 {
				fmt.Fprintln(&b)
			}
			fmt.Fprintf(&b, "    %s (%s)\n", strings.ToUpper(p.Name), p.typeName())
			if u := paramUsage(p); u != "" {
				fmt.Fprintf(&b, "%s\n", wrapAtLengthWithPadding(u, 8, style.width))
			}
		}
	}

	if hasOptions {
		fmt.Fprintf(&b, "\n%s\n\n", style.heading("Options:"))
		first := true
		for _, p := range c.Params {
			if p.Kind != Option {
				continue
			}
			if !first {
				fmt.Fprintln(&b)
			}
			first = false
			fmt.Fprintf(&b, "    --%s=%s\n", p.Name, p.typeName())
			if u := paramUsage(p); u != "" {
				fmt.Fprintf(&b, "%s\n", wrapAtLengthWithPadding(u, 8, style.width))
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// paramLabel is the parameter as it is typed on the command line.
func paramLabel(p *Param) string {
	if p.Kind == Option {
		return "--" + p.Name
	}
	return strings.ToUpper(p.Name)
}

// paramUsage is the parameter's usage text followed by its choices and
// default.
func paramUsage(p *Param) string {
	usage := strings.TrimSpace(p.Usage)
	if choices := p.choices(); len(choices) > 0 {
		usage += fmt.Sprintf(" Valid values are %s.", quoteList(choices))
	}
	if p.Kind == Option {
		if def, ok := formatDefault(p); ok {
			usage += fmt.Sprintf(" The default value is %q.", def)
		}
	}
	return strings.TrimSpace(usage)
}

// formatDefault renders an option's default. ok is false when there is
// nothing meaningful to show.
func formatDefault(p *Param) (string, bool) {
	switch v := p.Default.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case time.Duration:
		return timeutil.HumanDuration(v), true
	case []string:
		return strings.Join(v, ","), len(v) > 0
	case map[string]string:
		return formatStringMap(v), len(v) > 0
	}

	if p.Enum != nil {
		if name, ok := p.Enum.NameOf(p.Default); ok {
			return name, true
		}
	}
	if s, ok := p.Default.(fmt.Stringer); ok {
		return s.String(), true
	}
	return fmt.Sprint(p.Default), true
}

func quoteList(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

// wrapAtLengthWithPadding wraps s at width, taking into account the left
// padding.
func wrapAtLengthWithPadding(s string, pad, width int) string {
	wrapped := text.Wrap(s, width-pad)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
