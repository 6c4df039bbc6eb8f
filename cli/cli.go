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

// Package cli turns ordinary functions into a command-line interface. Commands
// are registered on a [Registry]; registries nest to form sub-command groups
// (e.g. "my-tool transport bus"). [Run] walks the tree with the process
// arguments, binds positional arguments and "--name value" options to the
// selected command's parameters, and invokes it exactly once.
//
// Every parameter is either positional (required, matched in declaration
// order) or an option (has a default). Option values come from the command
// line first, then from the registry's configuration, then from the declared
// default:
//
//	root := cli.NewRegistry(cli.WithConfig(map[string]any{
//	  "greet": map[string]any{"greeting": "howdy"},
//	}))
//
//	err := root.Register(&cli.Command{
//	  Name: "greet",
//	  Params: []*cli.Param{
//	    cli.Arg("name"),
//	    cli.Opt("greeting", "hello"),
//	    cli.Opt("times", 1).WithCaster(cli.IntCaster),
//	  },
//	  Run: func(ctx context.Context, args cli.Args) error {
//	    ...
//	  },
//	})
//
// This CLI could be invoked via:
//
//	$ my-tool greet turing
//	$ my-tool greet --times 3 turing
//	$ my-tool greet turing --greeting hi
//
// Parameters can also be derived from a struct with [FromStruct].
//
// Help is requested with "--help" at any depth and is written to the output
// sink without running anything.
package cli
