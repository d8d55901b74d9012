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

// Package graph models the module dependency graph that hot updates are
// computed against.
package graph

import (
	"maps"
	"slices"
	"sync"
)

// Kind classifies a module by whether the client runtime can hot-swap it.
type Kind int

const (
	// KindScript is a source-language module registered through a define call.
	KindScript Kind = iota
	// KindAsset is a non-code module (image, font, stylesheet...).
	KindAsset
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// Dependency is one import edge out of a module.
type Dependency struct {
	Specifier string // The import specifier as written (e.g., "./foo.js", "lit")
	Path      string // Resolved module path
}

// Mapping is a raw source map segment.
// Lines are 1-based and columns 0-based. OriginalLine 0 marks a
// generated-only segment.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	OriginalLine    int
	OriginalColumn  int
	Name            string
}

// Module is a single node of the graph.
type Module struct {
	Path         string
	Kind         Kind
	Code         string
	Dependencies []Dependency

	// Source is the original text Code was produced from. Empty when Code
	// is the original text.
	Source string

	// InverseDependencies lists the paths of modules that import this one,
	// in the order the edges were added. Maintained by Graph.
	InverseDependencies []string

	// Map holds the raw mappings from Code back to the original source.
	Map []Mapping
}

// IsScript reports whether the module can be hot-swapped.
func (m *Module) IsScript() bool {
	return m != nil && m.Kind == KindScript
}

// clone returns a deep copy of the module.
func (m *Module) clone() *Module {
	c := *m
	c.Dependencies = slices.Clone(m.Dependencies)
	c.InverseDependencies = slices.Clone(m.InverseDependencies)
	c.Map = slices.Clone(m.Map)
	return &c
}

// Graph maps module paths to modules and keeps inverse edges consistent with
// forward edges. Writers are serialized; readers that walk module slices
// while the graph may change should work on a Clone.
type Graph struct {
	mu sync.RWMutex

	modules map[string]*Module

	// dependents maps module path -> ordered paths of modules importing it.
	// Edges may point at modules that are not (yet) in the graph.
	dependents map[string][]string

	entrypoints []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		modules:    make(map[string]*Module),
		dependents: make(map[string][]string),
	}
}

// AddModule inserts or replaces a module. Edges listed in its Dependencies
// are recorded; when a module is replaced, the edges of the old record are
// dropped first. InverseDependencies is rebuilt from the graph's edges.
func (g *Graph) AddModule(mod *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.modules[mod.Path]; ok {
		for _, dep := range old.Dependencies {
			g.unlink(mod.Path, dep.Path)
		}
		delete(g.modules, mod.Path)
	}

	deps := mod.Dependencies[:0:0]
	for _, dep := range mod.Dependencies {
		if slices.ContainsFunc(deps, func(d Dependency) bool { return d.Path == dep.Path }) {
			continue
		}
		deps = append(deps, dep)
		g.link(mod.Path, dep.Path)
	}
	mod.Dependencies = deps

	mod.InverseDependencies = slices.Clone(g.dependents[mod.Path])
	g.modules[mod.Path] = mod
}

// AddEntrypoint records a root module of the graph.
func (g *Graph) AddEntrypoint(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !slices.Contains(g.entrypoints, path) {
		g.entrypoints = append(g.entrypoints, path)
	}
}

// Entrypoints returns the root modules in insertion order.
func (g *Graph) Entrypoints() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.entrypoints)
}

// AddDependency records that the module at from imports dep.
// Updates the forward edge on from and the inverse edge on dep.Path.
// Repeated edges are ignored.
func (g *Graph) AddDependency(from string, dep Dependency) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if mod, ok := g.modules[from]; ok {
		if !slices.ContainsFunc(mod.Dependencies, func(d Dependency) bool { return d.Path == dep.Path }) {
			mod.Dependencies = append(mod.Dependencies, dep)
		}
	}

	g.link(from, dep.Path)
}

// link records from as a dependent of to. Callers hold the write lock.
func (g *Graph) link(from, to string) {
	if slices.Contains(g.dependents[to], from) {
		return
	}
	g.dependents[to] = append(g.dependents[to], from)
	if target, ok := g.modules[to]; ok {
		target.InverseDependencies = append(target.InverseDependencies, from)
	}
}

// unlink drops from from the dependents of to. Callers hold the write lock.
func (g *Graph) unlink(from, to string) {
	isFrom := func(p string) bool { return p == from }
	g.dependents[to] = slices.DeleteFunc(g.dependents[to], isFrom)
	if target, ok := g.modules[to]; ok {
		target.InverseDependencies = slices.DeleteFunc(target.InverseDependencies, isFrom)
	}
}

// Module returns the module at path.
func (g *Graph) Module(path string) (*Module, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	mod, ok := g.modules[path]
	return mod, ok
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.modules)
}

// Paths returns all module paths, sorted.
func (g *Graph) Paths() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.modules))
}

// RemoveModule removes a module and all its edges from the graph.
// Returns the paths of modules that imported the removed module.
func (g *Graph) RemoveModule(path string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	former := slices.Clone(g.dependents[path])

	// Drop path from the inverse edges of everything it imported
	if mod, ok := g.modules[path]; ok {
		for _, dep := range mod.Dependencies {
			g.unlink(path, dep.Path)
		}
	}

	// Drop the forward edges pointing at path
	for _, dependent := range former {
		if mod, ok := g.modules[dependent]; ok {
			mod.Dependencies = slices.DeleteFunc(mod.Dependencies, func(d Dependency) bool { return d.Path == path })
		}
	}

	delete(g.modules, path)
	delete(g.dependents, path)
	g.entrypoints = slices.DeleteFunc(g.entrypoints, func(p string) bool { return p == path })

	return former
}

// Clone creates a deep copy of the graph, suitable as a frozen snapshot.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	for path, mod := range g.modules {
		clone.modules[path] = mod.clone()
	}
	for path, deps := range g.dependents {
		clone.dependents[path] = slices.Clone(deps)
	}
	clone.entrypoints = slices.Clone(g.entrypoints)
	return clone
}
