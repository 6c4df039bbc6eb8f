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

// Package version holds the build information of the kennel binary. Every
// value can be overridden with -ldflags "-X", which takes precedence over
// what is read from the embedded build information.
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	// Name is the name of the binary.
	Name = "kennel"

	// Version is the main module version, or "source" when built from a
	// checkout.
	Version = mainVersion(debug.ReadBuildInfo)

	// Commit is the git sha, suffixed with "-dirty" for modified trees.
	Commit = commit(debug.ReadBuildInfo)

	// OSArch is the operating system and architecture combination.
	OSArch = runtime.GOOS + "/" + runtime.GOARCH

	// HumanVersion is the compiled version.
	HumanVersion = Name + " " + Version + " (" + Commit + ", " + OSArch + ")"
)

type buildInfoFunc func() (*debug.BuildInfo, bool)

func mainVersion(read buildInfoFunc) string {
	if info, ok := read(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v // e.g. "v0.0.1-alpha6.0.20230815191505-8628f8201363"
		}
	}
	return "source"
}

func commit(read buildInfoFunc) string {
	info, ok := read()
	if !ok {
		return "HEAD"
	}

	var rev string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if rev == "" {
		return "HEAD"
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}
