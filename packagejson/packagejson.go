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

// Package packagejson parses package.json files and resolves the module a
// bare specifier points at inside a package.
package packagejson

import (
	"encoding/json"
	"errors"
	"strings"

	"bennypowers.dev/hotmod/fs"
)

// ErrNotExported is returned when a subpath is not exported by the package.
var ErrNotExported = errors.New("not exported by package.json")

// DefaultConditions is the default export condition priority for browser environments.
var DefaultConditions = []string{"browser", "import", "default"}

// ResolveOptions configures how conditional exports are resolved.
type ResolveOptions struct {
	// Conditions is the ordered list of conditions to try when resolving exports.
	// If nil, defaults to DefaultConditions.
	Conditions []string
}

// PackageJSON represents the subset of package.json needed to locate modules.
type PackageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main,omitempty"`
	Module  string `json:"module,omitempty"`
	Exports any    `json:"exports,omitempty"`
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fsys fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ResolveExport resolves a subpath to a file path inside the package.
// The subpath is "." for the package entry or "./subpath" otherwise.
// Returns the resolved path without leading "./".
//
// Packages with an exports field only expose what it lists. Packages
// without one expose their entry ("module", then "main", then index.js)
// and every file by its own path.
// Pass nil for opts to use DefaultConditions.
func (pkg *PackageJSON) ResolveExport(subpath string, opts *ResolveOptions) (string, error) {
	if pkg.Exports == nil {
		if subpath != "." {
			return trimDotSlash(subpath), nil
		}
		switch {
		case pkg.Module != "":
			return trimDotSlash(pkg.Module), nil
		case pkg.Main != "":
			return trimDotSlash(pkg.Main), nil
		default:
			return "index.js", nil
		}
	}

	// String export covers the entry only
	if exportStr, ok := pkg.Exports.(string); ok {
		if subpath == "." {
			return trimDotSlash(exportStr), nil
		}
		return "", ErrNotExported
	}

	exportsMap, ok := pkg.Exports.(map[string]any)
	if !ok {
		return "", ErrNotExported
	}

	// A map without "." keys is a condition map for the entry
	hasSubpaths := false
	for key := range exportsMap {
		if strings.HasPrefix(key, ".") {
			hasSubpaths = true
			break
		}
	}
	if !hasSubpaths {
		if subpath == "." {
			return resolveConditions(exportsMap, opts)
		}
		return "", ErrNotExported
	}

	if exportValue, ok := exportsMap[subpath]; ok {
		return resolveExportValue(exportValue, opts)
	}

	return resolveWildcard(exportsMap, subpath, opts)
}

// resolveWildcard matches subpath against "./prefix*suffix" patterns and
// substitutes the matched part into the target. The longest prefix wins.
func resolveWildcard(exportsMap map[string]any, subpath string, opts *ResolveOptions) (string, error) {
	bestPattern := ""
	bestMatch := ""
	bestPrefix := -1
	for pattern := range exportsMap {
		star := strings.Index(pattern, "*")
		if star < 0 {
			continue
		}
		prefix, suffix := pattern[:star], pattern[star+1:]
		if !strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}
		if len(subpath) < len(prefix)+len(suffix) {
			continue
		}
		// Ties go to the lexically smaller pattern so map order never matters
		if len(prefix) > bestPrefix || (len(prefix) == bestPrefix && pattern < bestPattern) {
			bestPrefix = len(prefix)
			bestPattern = pattern
			bestMatch = subpath[len(prefix) : len(subpath)-len(suffix)]
		}
	}
	if bestPattern == "" {
		return "", ErrNotExported
	}

	target, err := resolveExportValue(exportsMap[bestPattern], opts)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(target, "*", bestMatch), nil
}

// resolveExportValue resolves an export value: a path, a condition map or
// a fallback array.
func resolveExportValue(value any, opts *ResolveOptions) (string, error) {
	switch v := value.(type) {
	case string:
		return trimDotSlash(v), nil
	case map[string]any:
		return resolveConditions(v, opts)
	case []any:
		for _, item := range v {
			if result, err := resolveExportValue(item, opts); err == nil {
				return result, nil
			}
		}
	}
	return "", ErrNotExported
}

// resolveConditions resolves a conditional export map to a path.
// Tries each condition in opts.Conditions order, recursing into nested maps.
func resolveConditions(conditions map[string]any, opts *ResolveOptions) (string, error) {
	conditionList := DefaultConditions
	if opts != nil && len(opts.Conditions) > 0 {
		conditionList = opts.Conditions
	}

	for _, cond := range conditionList {
		value, ok := conditions[cond]
		if !ok {
			continue
		}
		if result, err := resolveExportValue(value, opts); err == nil {
			return result, nil
		}
	}

	return "", ErrNotExported
}

// trimDotSlash removes a leading "./" from a path.
func trimDotSlash(path string) string {
	return strings.TrimPrefix(path, "./")
}
