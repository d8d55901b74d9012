/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package graph

import "slices"

// ModuleSet is a path-keyed collection of modules that remembers insertion
// order, so iterating it is reproducible.
type ModuleSet struct {
	order   []string
	modules map[string]*Module
}

// NewModuleSet creates a set holding mods in the given order.
func NewModuleSet(mods ...*Module) *ModuleSet {
	s := &ModuleSet{modules: make(map[string]*Module, len(mods))}
	for _, mod := range mods {
		s.Add(mod)
	}
	return s
}

// Add inserts mod. Re-adding a path replaces the module but keeps its position.
func (s *ModuleSet) Add(mod *Module) {
	if s.modules == nil {
		s.modules = make(map[string]*Module)
	}
	if _, exists := s.modules[mod.Path]; !exists {
		s.order = append(s.order, mod.Path)
	}
	s.modules[mod.Path] = mod
}

// Get returns the module at path.
func (s *ModuleSet) Get(path string) (*Module, bool) {
	if s == nil {
		return nil, false
	}
	mod, ok := s.modules[path]
	return mod, ok
}

// Len returns the number of modules in the set. A nil set is empty.
func (s *ModuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Modules returns the modules in insertion order.
func (s *ModuleSet) Modules() []*Module {
	if s == nil {
		return nil
	}
	result := make([]*Module, 0, len(s.order))
	for _, path := range s.order {
		result = append(result, s.modules[path])
	}
	return result
}

// Paths returns the module paths in insertion order.
func (s *ModuleSet) Paths() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Delta is the change-set between two graph snapshots.
type Delta struct {
	Added    *ModuleSet
	Modified *ModuleSet
	// Deleted lists removed module paths in enumeration order.
	Deleted []string
}

// Empty reports whether the delta carries no changes.
func (d *Delta) Empty() bool {
	return d.Added.Len() == 0 && d.Modified.Len() == 0 && len(d.Deleted) == 0
}
