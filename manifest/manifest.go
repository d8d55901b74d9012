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

// Package manifest reads delta manifests: YAML files listing the modules
// added, modified and deleted since the last update.
//
// Example:
//
//	added:
//	  - src/new.js
//	modified:
//	  - src/app.js
//	deleted:
//	  - src/old.js
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/graph"
)

// ErrUnknownModule is returned when an added or modified path is not in the graph.
var ErrUnknownModule = errors.New("module not in graph")

// Manifest lists changed module paths, absolute or relative to the project root.
type Manifest struct {
	Added    []string `yaml:"added"`
	Modified []string `yaml:"modified"`
	Deleted  []string `yaml:"deleted"`
}

// Parse parses manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// ParseFile parses a manifest file.
func ParseFile(fsys fs.FileSystem, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Delta resolves the manifest against a graph snapshot.
// Added and modified paths must name modules in g. Deleted paths are kept
// as paths, since deleted modules are usually gone from the graph.
// Repeated paths keep their first position.
func (m *Manifest) Delta(g *graph.Graph, rootDir string) (*graph.Delta, error) {
	added, err := moduleSet(m.Added, g, rootDir)
	if err != nil {
		return nil, fmt.Errorf("added: %w", err)
	}
	modified, err := moduleSet(m.Modified, g, rootDir)
	if err != nil {
		return nil, fmt.Errorf("modified: %w", err)
	}

	deleted := make([]string, 0, len(m.Deleted))
	for _, p := range m.Deleted {
		abs := absPath(rootDir, p)
		if !slices.Contains(deleted, abs) {
			deleted = append(deleted, abs)
		}
	}

	return &graph.Delta{Added: added, Modified: modified, Deleted: deleted}, nil
}

func moduleSet(paths []string, g *graph.Graph, rootDir string) (*graph.ModuleSet, error) {
	set := graph.NewModuleSet()
	var errs []error
	for _, p := range paths {
		mod, ok := g.Module(absPath(rootDir, p))
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", p, ErrUnknownModule))
			continue
		}
		set.Add(mod)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return set, nil
}

func absPath(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(rootDir, p)
}
