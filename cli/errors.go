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

import "errors"

// Registration errors.
var (
	ErrNameConflict             = errors.New("name conflict")
	ErrInvalidCommand           = errors.New("invalid command")
	ErrInvalidParam             = errors.New("invalid parameter")
	ErrRegistryAlreadyHasParent = errors.New("registry already has a parent")
)

// Resolution errors. [Run] wraps one of these with the offending token or
// parameter name; use [errors.Is] to branch on the kind.
var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownOption    = errors.New("unknown option")
	ErrMissingArgument  = errors.New("missing argument")
	ErrTooManyArguments = errors.New("too many arguments")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrCast             = errors.New("cast error")
)
