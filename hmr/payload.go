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

// Package hmr assembles hot module replacement payloads from graph deltas.
//
// For every changed script module it wraps the module code in a define
// call, resolves the modules that transitively import it and injects their
// ids, so the client can re-link the new code without a full reload.
package hmr

import (
	"errors"
	"net/url"

	"bennypowers.dev/hotmod/graph"
)

// Logger is an interface for logging messages during assembly.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Options configures payload assembly.
type Options struct {
	// ClientURL is the template for per-module source URLs. It is only read.
	ClientURL *url.URL
	// CreateModuleID maps a module path to its numeric id. It must return
	// the same id for the same path for the duration of one assembly.
	CreateModuleID func(path string) int
	// ProjectRoot is the directory module paths are made relative to.
	ProjectRoot string
	// Logger receives debug output. May be nil.
	Logger Logger
}

// Payload is the update a running client applies. The three added lists
// are index-aligned, as are the three modified lists.
type Payload struct {
	Added                     []ModuleUpdate `json:"added"`
	Modified                  []ModuleUpdate `json:"modified"`
	Deleted                   []int          `json:"deleted"`
	AddedSourceMappingURLs    []string       `json:"addedSourceMappingURLs"`
	AddedSourceURLs           []string       `json:"addedSourceURLs"`
	ModifiedSourceMappingURLs []string       `json:"modifiedSourceMappingURLs"`
	ModifiedSourceURLs        []string       `json:"modifiedSourceURLs"`
}

// moduleBatch accumulates aligned update records and URLs.
type moduleBatch struct {
	modules           []ModuleUpdate
	sourceMappingURLs []string
	sourceURLs        []string
}

// Assemble builds the payload for delta against the snapshot g.
// Non-script modules are left out. The graph must not change while
// Assemble runs; pass a Clone if other goroutines write to it.
func Assemble(delta *graph.Delta, g ModuleLookup, opts Options) (*Payload, error) {
	if opts.CreateModuleID == nil {
		return nil, errors.New("hmr: CreateModuleID is required")
	}

	added, err := generateModules(delta.Added.Modules(), g, opts)
	if err != nil {
		return nil, err
	}
	modified, err := generateModules(delta.Modified.Modules(), g, opts)
	if err != nil {
		return nil, err
	}

	deleted := make([]int, 0, len(delta.Deleted))
	for _, path := range delta.Deleted {
		deleted = append(deleted, opts.CreateModuleID(path))
	}

	return &Payload{
		Added:                     added.modules,
		Modified:                  modified.modules,
		Deleted:                   deleted,
		AddedSourceMappingURLs:    added.sourceMappingURLs,
		AddedSourceURLs:           added.sourceURLs,
		ModifiedSourceMappingURLs: modified.sourceMappingURLs,
		ModifiedSourceURLs:        modified.sourceURLs,
	}, nil
}

// generateModules builds updates for the script modules in mods, in order.
func generateModules(mods []*graph.Module, g ModuleLookup, opts Options) (moduleBatch, error) {
	batch := moduleBatch{
		modules:           make([]ModuleUpdate, 0, len(mods)),
		sourceMappingURLs: make([]string, 0, len(mods)),
		sourceURLs:        make([]string, 0, len(mods)),
	}

	for _, mod := range mods {
		if !mod.IsScript() {
			if opts.Logger != nil {
				opts.Logger.Debug("skipping %s module %s", mod.Kind, mod.Path)
			}
			continue
		}

		update, err := BuildModuleUpdate(mod, g, opts)
		if err != nil {
			return moduleBatch{}, err
		}
		batch.modules = append(batch.modules, update.Module)
		batch.sourceMappingURLs = append(batch.sourceMappingURLs, update.SourceMappingURL)
		batch.sourceURLs = append(batch.sourceURLs, update.SourceURL)
	}

	return batch, nil
}
