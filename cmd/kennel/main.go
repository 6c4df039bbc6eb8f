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

// Command kennel is a small program built on the cli package. It shows
// positional arguments with a custom caster, enumerations, options backed by a
// configuration file, and a sub-command group:
//
//	$ kennel foo
//	$ kennel bar 3,lab
//	$ kennel bazz golden_retriever
//	$ kennel within sub --something else
//
// Configuration files are listed, comma-separated, in KENNEL_CONFIG_FILE, or
// as config_files in the settings file named by KENNEL_SETTINGS_FILE. The
// environment wins over the settings file.
// Option values are read from [group..., command, option], e.g.
//
//	within:
//	  sub:
//	    something: configured
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"github.com/abcxyz/conflag/cfgloader"
	"github.com/abcxyz/conflag/cli"
	"github.com/abcxyz/conflag/internal/version"
	"github.com/abcxyz/conflag/logging"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	ctx = logging.WithLogger(ctx, logging.NewFromEnv("KENNEL_"))

	if err := realMain(ctx, os.Args, os.Stdout, envconfig.OsLookuper()); err != nil {
		done()
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// settings are the program's own settings, as opposed to command options.
type settings struct {
	ConfigFiles    []string `yaml:"config_files,omitempty" env:"CONFIG_FILE,overwrite"`
	ConfigOptional bool     `yaml:"config_optional,omitempty" env:"CONFIG_OPTIONAL,overwrite,default=true"`
}

func realMain(ctx context.Context, args []string, stdout io.Writer, lookuper envconfig.Lookuper) error {
	if len(args) > 1 && args[1] == "--version" {
		fmt.Fprintln(stdout, version.HumanVersion)
		return nil
	}

	settingsFile, _ := lookuper.Lookup("KENNEL_SETTINGS_FILE")

	var s settings
	if err := cfgloader.Load(ctx, &s,
		cfgloader.WithFile(settingsFile),
		cfgloader.WithEnvPrefix("KENNEL_"),
		cfgloader.WithLookuper(lookuper),
	); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var opts []cfgloader.FileOption
	if s.ConfigOptional {
		opts = append(opts, cfgloader.WithMissingOK())
	}
	config, err := cfgloader.LoadFiles(ctx, s.ConfigFiles, opts...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	root, err := newKennel(stdout, config)
	if err != nil {
		return err
	}
	return cli.Run(ctx, root, args, cli.WithOutput(stdout), cli.WithProgramName(version.Name)) //nolint:wrapcheck
}

type dog struct {
	Age   int
	Breed string
}

func (d dog) String() string {
	return fmt.Sprintf("Dog(age=%d, breed=%s)", d.Age, d.Breed)
}

// parseDog parses "AGE,BREED".
func parseDog(s string) (dog, error) {
	age, breed, ok := strings.Cut(s, ",")
	if !ok {
		return dog{}, fmt.Errorf("expected AGE,BREED, got %q", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(age))
	if err != nil {
		return dog{}, fmt.Errorf("invalid age: %w", err)
	}
	if n < 0 {
		return dog{}, errors.New("age cannot be negative")
	}
	return dog{Age: n, Breed: strings.TrimSpace(breed)}, nil
}

type breed int

const (
	goldenRetriever breed = iota
	lab
	lily
)

func (b breed) String() string {
	switch b {
	case goldenRetriever:
		return "GOLDEN_RETRIEVER"
	case lab:
		return "LAB"
	case lily:
		return "LILY"
	default:
		return "breed(" + strconv.Itoa(int(b)) + ")"
	}
}

var breeds = cli.MustEnum("breed", goldenRetriever, lab, lily)

type subInput struct {
	Something string `opt:"something" default:"nothing" usage:"What to print."`
}

func newKennel(stdout io.Writer, config map[string]any) (*cli.Registry, error) {
	root := cli.NewRegistry(
		cli.WithDescription("Keep track of the dogs in the kennel."),
		cli.WithConfig(config),
	)

	if err := root.Register(
		&cli.Command{
			Name:        "foo",
			Description: "Say hello.",
			Run: func(context.Context, cli.Args) error {
				fmt.Fprintln(stdout, "Hello world!")
				return nil
			},
		},
		&cli.Command{
			Name:        "bar",
			Description: "Describe a dog.",
			Params: []*cli.Param{
				cli.Arg("dog").
					WithType("dog").
					WithCaster(cli.Caster(parseDog)).
					WithUsage("The dog, as AGE,BREED (e.g. 3,lab)."),
			},
			Run: func(_ context.Context, args cli.Args) error {
				d, _ := cli.Value[dog](args, "dog")
				fmt.Fprintln(stdout, d)
				return nil
			},
		},
		&cli.Command{
			Name:        "bazz",
			Description: "Print a breed.",
			Params: []*cli.Param{
				cli.Arg("breed").WithEnum(breeds),
			},
			Run: func(_ context.Context, args cli.Args) error {
				b, _ := cli.Value[breed](args, "breed")
				name, _ := breeds.NameOf(b)
				fmt.Fprintln(stdout, name)
				return nil
			},
		},
	); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	sub, err := cli.FromStruct("sub", func(_ context.Context, in *subInput) error {
		fmt.Fprintln(stdout, in.Something)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build sub: %w", err)
	}
	sub.Description = "Print something."

	within := cli.NewRegistry(cli.WithDescription("Commands within the kennel."))
	if err := within.Register(sub); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	if err := root.RegisterSub("within", within); err != nil {
		return nil, fmt.Errorf("failed to register within: %w", err)
	}
	return root, nil
}
