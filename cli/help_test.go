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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testKennel(tb testing.TB) *Registry {
	tb.Helper()

	noop := func(context.Context, Args) error { return nil }

	root := NewRegistry(WithName("kennel"), WithDescription("Manage the kennel."))
	if err := root.Register(
		&Command{Name: "foo", Description: "Print foo.", Run: noop},
		&Command{
			Name:        "bar",
			Description: "Register a dog.",
			Params: []*Param{
				Arg("dog").WithType("dog").WithUsage("The dog, as AGE,BREED."),
				Opt("breed", "lab").WithChoices("lab", "golden").WithUsage("Breed."),
			},
			Run: noop,
		},
		&Command{Name: "secret", Hidden: true, Run: noop},
	); err != nil {
		tb.Fatal(err)
	}

	within := NewRegistry(WithDescription("Nested commands."))
	if err := within.Register(&Command{
		Name: "sub",
		Params: []*Param{
			Opt("something", "nothing"),
			Opt("pet", cat).WithEnum(animalEnum),
			Opt("timeout", 90*time.Second).WithCaster(DurationCaster),
			Opt("tags", []string{"a", "b"}).WithCaster(StringSliceCaster),
		},
		Run: noop,
	}); err != nil {
		tb.Fatal(err)
	}
	if err := root.RegisterSub("within", within); err != nil {
		tb.Fatal(err)
	}

	hidden := NewRegistry(WithHidden())
	if err := root.RegisterSub("internal", hidden); err != nil {
		tb.Fatal(err)
	}
	return root
}

func TestRegistry_Help(t *testing.T) {
	t.Parallel()

	root := testKennel(t)
	within, _ := root.Sub("within")

	unnamedSub := NewRegistry()
	if err := NewRegistry().RegisterSub("tools", unnamedSub); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		reg  *Registry
		exp  string
	}{
		{
			name: "root",
			reg:  root,
			exp: `Usage: kennel COMMAND

  Manage the kennel.

Groups:

  within    Nested commands.

Commands:

  bar       Register a dog.
      DOG        positional  dog
      --breed    option      string (default "lab") [lab|golden]
  foo       Print foo.`,
		},
		{
			name: "sub",
			reg:  within,
			exp: `Usage: kennel within COMMAND

  Nested commands.

Commands:

  sub
      --something    option      string (default "nothing")
      --pet          option      animal (default "cat") [dog|cat|tiger]
      --timeout      option      time.Duration (default "1m30s")
      --tags         option      []string (default "a,b")`,
		},
		{
			name: "empty",
			reg:  NewRegistry(),
			exp:  "Usage: " + filepath.Base(os.Args[0]) + " COMMAND",
		},
		{
			name: "unnamed_root_sub",
			reg:  unnamedSub,
			exp:  "Usage: " + filepath.Base(os.Args[0]) + " tools COMMAND",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.exp, tc.reg.Help()); diff != "" {
				t.Errorf("help (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestCommand_Help(t *testing.T) {
	t.Parallel()

	root := testKennel(t)
	bar, _ := root.Command("bar")
	foo, _ := root.Command("foo")

	cases := []struct {
		name string
		cmd  *Command
		exp  string
	}{
		{
			name: "arguments_and_options",
			cmd:  bar,
			exp: `Usage: bar [options] DOG

  Register a dog.

Arguments:

    DOG (dog)
        The dog, as AGE,BREED.

Options:

    --breed=string
        Breed. Valid values are "lab", "golden". The default value is "lab".`,
		},
		{
			name: "no_params",
			cmd:  foo,
			exp: `Usage: foo

  Print foo.`,
		},
		{
			name: "several_of_each",
			cmd: &Command{
				Name: "move",
				Params: []*Param{
					Arg("from"),
					Opt("force", false),
					Arg("to"),
					Opt("mode", ""),
				},
			},
			exp: `Usage: move [options] FROM TO

Arguments:

    FROM (string)

    TO (string)

Options:

    --force=bool
        The default value is "false".

    --mode=string`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.exp, tc.cmd.Help()); diff != "" {
				t.Errorf("help (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRun_helpUsesFullPath(t *testing.T) {
	t.Parallel()

	root := testKennel(t)

	var out bytes.Buffer
	if err := Run(context.Background(), root, []string{"ignored", "within", "sub", "--help"}, WithOutput(&out)); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "Usage: kennel within sub [options]\n"; !strings.HasPrefix(got, want) {
		t.Errorf("expected\n\n%s\n\nto start with\n\n%s\n\n", got, want)
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("expected no escape sequences in %q", out.String())
	}
}

func TestHelpStyleFor(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "help.txt"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := f.Close(); err != nil {
			t.Error(err)
		}
	})

	for _, w := range []io.Writer{&bytes.Buffer{}, f} {
		style := helpStyleFor(w)
		if got, want := style.width, maxLineLength; got != want {
			t.Errorf("%T: expected width %d to be %d", w, got, want)
		}
		if got, want := style.heading("Usage:"), "Usage:"; got != want {
			t.Errorf("%T: expected heading %q to be %q", w, got, want)
		}
	}
}

func TestWrapAtLengthWithPadding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		in    string
		pad   int
		width int
		exp   string
	}{
		{
			name:  "fits",
			in:    "short words",
			pad:   2,
			width: 80,
			exp:   "  short words",
		},
		{
			name:  "wraps",
			in:    "aaaa bbbb",
			pad:   2,
			width: 8,
			exp:   "  aaaa\n  bbbb",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got, want := wrapAtLengthWithPadding(tc.in, tc.pad, tc.width), tc.exp; got != want {
				t.Errorf("expected %q to be %q", got, want)
			}
		})
	}
}
