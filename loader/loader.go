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

// Package loader builds module graphs from JavaScript and TypeScript entry
// files. It follows relative imports and, when a node_modules directory is
// configured, bare specifiers into installed packages.
package loader

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/graph"
	"bennypowers.dev/hotmod/packagejson"
	"bennypowers.dev/hotmod/sourcemap"
)

// DefaultCacheSize is the number of parsed modules kept by a Loader.
const DefaultCacheSize = 4096

// DefaultAssetPatterns classify modules as assets by path.
var DefaultAssetPatterns = []string{
	"**/*.{png,jpg,jpeg,gif,webp,avif,svg,ico,bmp}",
	"**/*.{ttf,otf,woff,woff2}",
	"**/*.{css,json,wasm,mp3,mp4,wav,webm}",
}

// Logger is an interface for logging messages while loading.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Result is a loaded graph plus the non-fatal errors met while loading it.
// Each error is also reported to the Loader's logger as a warning.
type Result struct {
	Graph *graph.Graph
	// Errors collects modules that could not be read, parsed or resolved.
	// Their branches are left out of the graph.
	Errors []error
}

// Loader builds module graphs rooted at a project directory.
type Loader struct {
	fs              fs.FileSystem
	rootDir         string
	nodeModulesPath string
	conditions      []string
	assetPatterns   []string
	logger          Logger

	// imports caches extracted imports by path and content hash.
	// Shared by loaders derived with the With* methods.
	imports *lru.Cache[string, []Import]
	// packages caches parsed package.json files by path.
	packages *lru.Cache[string, *packagejson.PackageJSON]
}

// New creates a Loader for the given project root.
func New(fsys fs.FileSystem, rootDir string) *Loader {
	imports, _ := lru.New[string, []Import](DefaultCacheSize)
	packages, _ := lru.New[string, *packagejson.PackageJSON](DefaultCacheSize)
	return &Loader{
		fs:            fsys,
		rootDir:       rootDir,
		assetPatterns: DefaultAssetPatterns,
		imports:       imports,
		packages:      packages,
	}
}

func (l *Loader) clone() *Loader {
	c := *l
	return &c
}

// WithNodeModules returns a Loader that follows bare specifiers into the
// given node_modules directory.
func (l *Loader) WithNodeModules(nodeModulesPath string) *Loader {
	c := l.clone()
	c.nodeModulesPath = nodeModulesPath
	return c
}

// WithConditions returns a Loader using the given export condition priority.
func (l *Loader) WithConditions(conditions []string) *Loader {
	c := l.clone()
	c.conditions = conditions
	return c
}

// WithAssetPatterns returns a Loader that classifies paths matching any of
// the doublestar patterns as assets. Patterns are matched against paths
// relative to the project root.
func (l *Loader) WithAssetPatterns(patterns []string) (*Loader, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid asset pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	c := l.clone()
	c.assetPatterns = patterns
	return c, nil
}

// WithLogger returns a Loader that reports to logger.
func (l *Loader) WithLogger(logger Logger) *Loader {
	c := l.clone()
	c.logger = logger
	return c
}

// Load builds the graph reachable from the entry files.
// Only a failure to load an entry is fatal.
func (l *Loader) Load(entrypoints ...string) (*Result, error) {
	result := &Result{Graph: graph.New()}

	for _, entry := range entrypoints {
		path := l.absPath(entry)
		if err := l.loadModule(result, path); err != nil {
			return nil, fmt.Errorf("loading entrypoint %s: %w", entry, err)
		}
		result.Graph.AddEntrypoint(path)
	}

	return result, nil
}

// Classify returns the kind of the module at path.
func (l *Loader) Classify(path string) graph.Kind {
	name := filepath.ToSlash(path)
	if rel, err := filepath.Rel(l.rootDir, path); err == nil {
		name = filepath.ToSlash(rel)
	}
	for _, pattern := range l.assetPatterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return graph.KindAsset
		}
	}
	return graph.KindScript
}

// loadModule adds the module at path and everything it imports.
func (l *Loader) loadModule(result *Result, path string) error {
	if _, exists := result.Graph.Module(path); exists {
		return nil
	}

	if l.Classify(path) == graph.KindAsset {
		if !fs.IsFile(l.fs, path) {
			return fmt.Errorf("asset %s not found", path)
		}
		result.Graph.AddModule(&graph.Module{Path: path, Kind: graph.KindAsset})
		return nil
	}

	content, err := l.fs.ReadFile(path)
	if err != nil {
		return err
	}

	imports, err := l.extractImports(path, content)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	code := string(content)
	result.Graph.AddModule(&graph.Module{
		Path: path,
		Kind: graph.KindScript,
		Code: code,
		Map:  sourcemap.LineMappings(code),
	})

	moduleDir := filepath.Dir(path)
	for _, imp := range imports {
		depPath, err := l.resolveSpecifier(moduleDir, imp.Specifier)
		if err != nil {
			err = fmt.Errorf("%s:%d: resolving %s: %w", path, imp.Line, imp.Specifier, err)
			l.warning("%v", err)
			result.Errors = append(result.Errors, err)
			continue
		}
		if depPath == "" {
			l.debug("%s:%d: leaving %s external", path, imp.Line, imp.Specifier)
			continue
		}

		// Record the edge before loading, so the dependency picks up its
		// importer when it is added
		result.Graph.AddDependency(path, graph.Dependency{Specifier: imp.Specifier, Path: depPath})

		if err := l.loadModule(result, depPath); err != nil {
			l.warning("%s:%d: %v", path, imp.Line, err)
			result.Errors = append(result.Errors, fmt.Errorf("loading %s: %w", depPath, err))
		}
	}

	return nil
}

// extractImports returns the imports of a module, from cache when its
// content has not changed.
func (l *Loader) extractImports(path string, content []byte) ([]Import, error) {
	h := fnv.New64a()
	_, _ = h.Write(content)
	key := path + "@" + strconv.FormatUint(h.Sum64(), 16)

	if imports, ok := l.imports.Get(key); ok {
		return imports, nil
	}

	imports, err := ExtractImports(content)
	if err != nil {
		return nil, err
	}
	l.imports.Add(key, imports)
	return imports, nil
}

func (l *Loader) absPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.rootDir, path)
}

func (l *Loader) warning(format string, args ...any) {
	if l.logger != nil {
		l.logger.Warning(format, args...)
	}
}

func (l *Loader) debug(format string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(format, args...)
	}
}
