// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package cfg

import (
	"sort"

	"github.com/rtforge/appconfc/internal/optional"
)

// App is the root of a parsed application description. It is assembled once
// per parse and never mutated afterwards; ownership passes to the caller.
type App struct {
	// Device is the opaque dotted path naming the target hardware
	// description crate/module.
	Device Fragment `yaml:"device"`
	Init   Init     `yaml:"init"`
	Idle   Idle     `yaml:"idle"`
	// Resources maps resource names to their static declarations. Empty
	// when the configuration declares none.
	Resources Statics `yaml:"resources,omitempty"`
	Tasks     Tasks   `yaml:"tasks,omitempty"`
}

// Init describes the one-shot initialization routine.
type Init struct {
	Path Fragment `yaml:"path"`
}

// Idle describes the background routine that runs when no task is ready.
type Idle struct {
	Path      Fragment `yaml:"path"`
	Locals    Statics  `yaml:"locals,omitempty"`
	Resources Idents   `yaml:"resources,omitempty"`
}

// Static is a named piece of statically-allocated storage: a type
// expression and an initializer expression, both captured verbatim.
type Static struct {
	Ty   Fragment `yaml:"type"`
	Expr Fragment `yaml:"value"`
}

type Statics map[string]Static

// Task describes one schedulable task. Enabled and Priority stay absent
// when the configuration does not supply them; default semantics belong to
// the downstream consumer, not to the parser.
type Task struct {
	Enabled   optional.Optional[bool]  `yaml:"enabled,omitempty"`
	Priority  optional.Optional[uint8] `yaml:"priority,omitempty"`
	Resources Idents                   `yaml:"resources,omitempty"`
}

type Tasks map[string]Task

// Idents is a set of identifier names. Order carries no meaning.
type Idents map[string]struct{}

func NewIdents() Idents {
	return make(Idents)
}

func (ids Idents) Contains(name string) bool {
	_, ok := ids[name]
	return ok
}

func (ids Idents) Add(name string) {
	ids[name] = struct{}{}
}

// Sorted returns the members in lexical order, for deterministic output.
func (ids Idents) Sorted() []string {
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ids Idents) MarshalYAML() (interface{}, error) {
	return ids.Sorted(), nil
}
