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
package loader

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"
	"strings"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/packagejson"
)

// ErrModuleNotFound is returned when a specifier names no file.
var ErrModuleNotFound = errors.New("module not found")

// probeExtensions are tried in order for specifiers written without one.
var probeExtensions = []string{".js", ".ts", ".mjs", ".jsx", ".tsx"}

// resolveSpecifier resolves an import specifier to a file path.
// Returns an empty path for specifiers left to the runtime: URLs, and bare
// specifiers for packages that are not installed.
func (l *Loader) resolveSpecifier(moduleDir, specifier string) (string, error) {
	if strings.Contains(specifier, "://") || strings.HasPrefix(specifier, "data:") {
		return "", nil
	}
	if isBareSpecifier(specifier) {
		return l.resolveBareSpecifier(specifier)
	}
	return l.probe(l.resolvePath(moduleDir, specifier))
}

// resolvePath resolves a specifier relative to a base directory.
// "/foo" is resolved against the project root.
func (l *Loader) resolvePath(baseDir, specifier string) string {
	if strings.HasPrefix(specifier, "/") {
		return filepath.Join(l.rootDir, specifier)
	}
	return filepath.Join(baseDir, specifier)
}

// probe finds the file a resolved path refers to, trying the path itself,
// then known extensions, then an index file in the directory.
func (l *Loader) probe(p string) (string, error) {
	if fs.IsFile(l.fs, p) {
		return p, nil
	}
	for _, ext := range probeExtensions {
		if fs.IsFile(l.fs, p+ext) {
			return p + ext, nil
		}
	}
	for _, ext := range probeExtensions {
		index := filepath.Join(p, "index"+ext)
		if fs.IsFile(l.fs, index) {
			return index, nil
		}
	}
	return "", fmt.Errorf("%s: %w", p, ErrModuleNotFound)
}

// resolveBareSpecifier resolves a package specifier through node_modules.
func (l *Loader) resolveBareSpecifier(specifier string) (string, error) {
	if l.nodeModulesPath == "" {
		return "", nil
	}

	pkgName := getPackageName(specifier)
	subpath := "." + strings.TrimPrefix(specifier, pkgName)

	pkgPath := filepath.Join(l.nodeModulesPath, pkgName)
	pkg, err := l.getPackageJSON(filepath.Join(pkgPath, "package.json"))
	if err != nil {
		return "", err
	}
	if pkg == nil {
		l.debug("package %s is not installed", pkgName)
		return "", nil
	}

	resolved, err := pkg.ResolveExport(subpath, &packagejson.ResolveOptions{Conditions: l.conditions})
	if err != nil {
		return "", fmt.Errorf("%s in %s: %w", subpath, pkgName, err)
	}
	return l.probe(filepath.Join(pkgPath, resolved))
}

// getPackageJSON returns a cached package.json, parsing it if needed.
// Returns nil without error if the file does not exist.
func (l *Loader) getPackageJSON(pkgJSONPath string) (*packagejson.PackageJSON, error) {
	if cached, ok := l.packages.Get(pkgJSONPath); ok {
		return cached, nil
	}

	pkg, err := packagejson.ParseFile(l.fs, pkgJSONPath)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			l.packages.Add(pkgJSONPath, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", pkgJSONPath, err)
	}
	l.packages.Add(pkgJSONPath, pkg)
	return pkg, nil
}

// isBareSpecifier reports whether the specifier names a package rather
// than a path.
func isBareSpecifier(specifier string) bool {
	if specifier == "" || specifier == "." || specifier == ".." {
		return false
	}
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		return false
	}
	return !strings.HasPrefix(specifier, "/")
}

// getPackageName extracts the package name from a bare specifier.
func getPackageName(specifier string) string {
	// Scoped packages: @scope/package/path -> @scope/package
	if strings.HasPrefix(specifier, "@") {
		parts := strings.SplitN(specifier, "/", 3)
		if len(parts) >= 2 {
			return path.Join(parts[0], parts[1])
		}
		return specifier
	}
	parts := strings.SplitN(specifier, "/", 2)
	return parts[0]
}
