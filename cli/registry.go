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
	"strings"
)

// Registry is a node of the command tree. It holds commands, named child
// registries, and an optional configuration scope. Registration must finish
// before [Run] is called; a Registry is not safe for concurrent mutation.
type Registry struct {
	name        string
	description string
	hidden      bool

	parent   *Registry
	commands map[string]*Command
	children map[string]*Registry
	config   map[string]any
}

// RegistryOption configures a [Registry].
type RegistryOption func(r *Registry) *Registry

// WithName sets the name of a root registry, used as the program name in
// help output. Sub-registries are named when they are registered.
func WithName(name string) RegistryOption {
	return func(r *Registry) *Registry {
		r.name = name
		return r
	}
}

// WithDescription sets the description shown for the registry in listings
// and at the top of its help.
func WithDescription(desc string) RegistryOption {
	return func(r *Registry) *Registry {
		r.description = desc
		return r
	}
}

// WithHidden hides the registry from its parent's help output.
func WithHidden() RegistryOption {
	return func(r *Registry) *Registry {
		r.hidden = true
		return r
	}
}

// WithConfig sets the registry's configuration scope. See [Registry.SetConfig].
func WithConfig(cfg map[string]any) RegistryOption {
	return func(r *Registry) *Registry {
		r.config = cfg
		return r
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		children: make(map[string]*Registry),
	}
	for _, opt := range opts {
		r = opt(r)
	}
	return r
}

// Register adds commands under their own names.
func (r *Registry) Register(cmds ...*Command) error {
	for _, cmd := range cmds {
		if err := cmd.validate(); err != nil {
			return err
		}
		if err := r.insertCommand(cmd.Name, cmd); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAs adds cmd under name instead of cmd.Name. cmd itself is not
// modified; the registry keeps a renamed copy.
func (r *Registry) RegisterAs(name string, cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidCommand)
	}
	renamed := *cmd
	renamed.Name = name
	if err := renamed.validate(); err != nil {
		return err
	}
	return r.insertCommand(name, &renamed)
}

func (r *Registry) insertCommand(name string, cmd *Command) error {
	if err := r.checkFree(name); err != nil {
		return err
	}
	r.commands[name] = cmd
	return nil
}

// RegisterSub attaches child as the sub-command group name. A registry can
// have only one parent, and the tree must stay acyclic.
func (r *Registry) RegisterSub(name string, child *Registry) error {
	if child == nil {
		return fmt.Errorf("%w: nil registry", ErrInvalidCommand)
	}
	if err := validateName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %q is registered as %q", ErrRegistryAlreadyHasParent, name, child.Path())
	}
	for n := r; n != nil; n = n.parent {
		if n == child {
			return fmt.Errorf("%w: registering %q would create a cycle", ErrInvalidCommand, name)
		}
	}
	if err := r.checkFree(name); err != nil {
		return err
	}

	child.parent = r
	child.name = name
	r.children[name] = child
	return nil
}

func (r *Registry) checkFree(name string) error {
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("%w: %q is already a command of %q", ErrNameConflict, name, r.Path())
	}
	if _, ok := r.children[name]; ok {
		return fmt.Errorf("%w: %q is already a sub-command group of %q", ErrNameConflict, name, r.Path())
	}
	return nil
}

// Name returns the name the registry is addressed by.
func (r *Registry) Name() string {
	return r.name
}

// Parent returns the registry this one is registered on, or nil for a root.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// Path returns the space-separated names from the root to r, e.g.
// "my-tool transport". Unnamed roots are skipped.
func (r *Registry) Path() string {
	var names []string
	for n := r; n != nil; n = n.parent {
		if n.name != "" {
			names = append([]string{n.name}, names...)
		}
	}
	return strings.Join(names, " ")
}

// Command returns the named command of this registry.
func (r *Registry) Command(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Sub returns the named child registry.
func (r *Registry) Sub(name string) (*Registry, bool) {
	c, ok := r.children[name]
	return c, ok
}

// Config returns the registry's own configuration scope.
func (r *Registry) Config() map[string]any {
	return r.config
}

// SetConfig replaces the registry's configuration scope. The root usually
// holds the whole parsed configuration document, in which option values
// live at [group..., command, option]. Children may hold their own scope,
// keyed from the child down. The map is read but never modified.
func (r *Registry) SetConfig(cfg map[string]any) {
	r.config = cfg
}

// Lookup returns the value at the given key path of the registry's own
// configuration scope.
func (r *Registry) Lookup(path ...string) (any, bool) {
	return lookupPath(r.config, path)
}

// lookupPath walks nested maps. Both map[string]any and map[any]any nodes
// are accepted so decoded documents can be used directly.
func lookupPath(node any, path []string) (any, bool) {
	if node == nil {
		return nil, false
	}
	cur := node
	for _, key := range path {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = v
		case map[any]any:
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}
