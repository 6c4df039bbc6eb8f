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

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"

	"github.com/abcxyz/conflag/cli"
	"github.com/abcxyz/conflag/logging"
	"github.com/abcxyz/conflag/testutil"
)

func TestRealMain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configFile := filepath.Join(dir, "kennel.yaml")
	if err := os.WriteFile(configFile, []byte(`
within:
  sub:
    something: configured
`), 0o600); err != nil {
		t.Fatal(err)
	}
	overrideFile := filepath.Join(dir, "override.toml")
	if err := os.WriteFile(overrideFile, []byte(`
[within.sub]
something = "overridden"
`), 0o600); err != nil {
		t.Fatal(err)
	}

	settingsFile := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(settingsFile, []byte(fmt.Sprintf("config_files = [%q]\n", configFile)), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		env     map[string]string
		args    []string
		wantOut string
		wantErr error
		errMsg  string
	}{
		{
			name:    "foo",
			args:    []string{"kennel", "foo"},
			wantOut: "Hello world!\n",
		},
		{
			name:    "bar",
			args:    []string{"kennel", "bar", "3,lab"},
			wantOut: "Dog(age=3, breed=lab)\n",
		},
		{
			name:    "bar_invalid",
			args:    []string{"kennel", "bar", "three,lab"},
			wantErr: cli.ErrCast,
			errMsg:  "invalid age",
		},
		{
			name:    "bazz",
			args:    []string{"kennel", "bazz", "golden_retriever"},
			wantOut: "golden_retriever\n",
		},
		{
			name:    "bazz_invalid",
			args:    []string{"kennel", "bazz", "poodle"},
			wantErr: cli.ErrInvalidChoice,
			errMsg:  `"poodle" for "breed"`,
		},
		{
			name:    "sub_default",
			args:    []string{"kennel", "within", "sub"},
			wantOut: "nothing\n",
		},
		{
			name:    "sub_option",
			args:    []string{"kennel", "within", "sub", "--something", "else"},
			wantOut: "else\n",
		},
		{
			name:    "sub_config",
			env:     map[string]string{"KENNEL_CONFIG_FILE": configFile},
			args:    []string{"kennel", "within", "sub"},
			wantOut: "configured\n",
		},
		{
			name:    "sub_layered_config",
			env:     map[string]string{"KENNEL_CONFIG_FILE": configFile + "," + overrideFile},
			args:    []string{"kennel", "within", "sub"},
			wantOut: "overridden\n",
		},
		{
			name:    "cli_beats_config",
			env:     map[string]string{"KENNEL_CONFIG_FILE": configFile},
			args:    []string{"kennel", "within", "sub", "--something=cli"},
			wantOut: "cli\n",
		},
		{
			name:    "missing_config_optional",
			env:     map[string]string{"KENNEL_CONFIG_FILE": filepath.Join(dir, "nope.yaml")},
			args:    []string{"kennel", "within", "sub"},
			wantOut: "nothing\n",
		},
		{
			name: "missing_config_required",
			env: map[string]string{
				"KENNEL_CONFIG_FILE":     filepath.Join(dir, "nope.yaml"),
				"KENNEL_CONFIG_OPTIONAL": "false",
			},
			args:   []string{"kennel", "within", "sub"},
			errMsg: "failed to load config",
		},
		{
			name:    "settings_file",
			env:     map[string]string{"KENNEL_SETTINGS_FILE": settingsFile},
			args:    []string{"kennel", "within", "sub"},
			wantOut: "configured\n",
		},
		{
			name: "env_beats_settings_file",
			env: map[string]string{
				"KENNEL_SETTINGS_FILE": settingsFile,
				"KENNEL_CONFIG_FILE":   overrideFile,
			},
			args:    []string{"kennel", "within", "sub"},
			wantOut: "overridden\n",
		},
		{
			name:   "settings_file_missing",
			env:    map[string]string{"KENNEL_SETTINGS_FILE": filepath.Join(dir, "nope.toml")},
			args:   []string{"kennel", "within", "sub"},
			errMsg: "failed to load settings",
		},
		{
			name:    "help",
			args:    []string{"kennel"},
			wantOut: "Usage: kennel COMMAND",
		},
		{
			name:    "sub_help",
			args:    []string{"/opt/bin/kennel", "within", "sub", "--help"},
			wantOut: `The default value is "nothing".`,
		},
		{
			name:    "version",
			args:    []string{"kennel", "--version"},
			wantOut: "kennel ",
		},
		{
			name:    "unknown",
			args:    []string{"kennel", "qux"},
			wantErr: cli.ErrUnknownCommand,
			errMsg:  `unknown command "qux"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := logging.WithLogger(context.Background(), logging.TestLogger(t))

			var stdout bytes.Buffer
			err := realMain(ctx, tc.args, &stdout, envconfig.MapLookuper(tc.env))
			if diff := testutil.DiffErrString(err, tc.errMsg); diff != "" {
				t.Errorf("Unexpected err: %s", diff)
			}
			if tc.wantErr != nil {
				if diff := testutil.DiffErrIs(err, tc.wantErr); diff != "" {
					t.Errorf("Unexpected err: %s", diff)
				}
			}

			if got, want := stdout.String(), tc.wantOut; !strings.Contains(got, want) {
				t.Errorf("expected\n\n%s\n\nto contain\n\n%s\n\n", got, want)
			}
		})
	}
}

func TestParseDog(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    dog
		wantErr string
	}{
		{in: "3,lab", want: dog{Age: 3, Breed: "lab"}},
		{in: " 12 , golden retriever ", want: dog{Age: 12, Breed: "golden retriever"}},
		{in: "3", wantErr: "expected AGE,BREED"},
		{in: "x,lab", wantErr: "invalid age"},
		{in: "-1,lab", wantErr: "cannot be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := parseDog(tc.in)
			if diff := testutil.DiffErrString(err, tc.wantErr); diff != "" {
				t.Errorf("Unexpected err: %s", diff)
			}
			if got != tc.want {
				t.Errorf("expected %v to be %v", got, tc.want)
			}
		})
	}
}
