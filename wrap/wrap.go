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

// Package wrap turns a module body into the define call the client runtime
// uses to register module factories.
package wrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/hotmod/graph"
)

// PrefixLines is the number of lines Wrap emits before the module code.
// Source maps for wrapped code are shifted by this amount.
const PrefixLines = 1

// factoryHeader opens the define call. The factory parameters are the
// runtime's module-scoped bindings.
const factoryHeader = "__d(function (global, require, importDefault, importAll, module, exports, dependencyMap) {\n"

// Options configures Wrap.
type Options struct {
	// CreateModuleID maps a module path to its numeric id.
	CreateModuleID func(path string) int
	// ProjectRoot is used to derive the verbose module name.
	ProjectRoot string
	// Dev appends the verbose module name to the define call.
	Dev bool
}

// Wrap returns mod's code wrapped in a define call carrying the module id,
// the ids of its dependencies and, in dev mode, its verbose name:
//
//	__d(function (...) {
//	<code>
//	},<id>,[<dependency ids>],"<name>");
func Wrap(mod *graph.Module, opts Options) (string, error) {
	code := factoryHeader + mod.Code + "\n});"

	depIDs := make([]int, 0, len(mod.Dependencies))
	for _, dep := range mod.Dependencies {
		depIDs = append(depIDs, opts.CreateModuleID(dep.Path))
	}

	params := []any{opts.CreateModuleID(mod.Path), depIDs}
	if opts.Dev {
		params = append(params, VerboseName(mod.Path, opts.ProjectRoot))
	}
	return AddParams(code, params...)
}

// AddParams appends params to the last call expression in code, right
// before its closing parenthesis. Existing arguments are left untouched.
// Each param is JSON-encoded without HTML escaping; nil becomes undefined.
// Code without a closing parenthesis is returned unchanged.
func AddParams(code string, params ...any) (string, error) {
	index := strings.LastIndex(code, ")")
	if index < 0 {
		return code, nil
	}

	var b strings.Builder
	b.WriteString(code[:index])
	for _, param := range params {
		encoded, err := encodeParam(param)
		if err != nil {
			return "", fmt.Errorf("encoding define call parameter: %w", err)
		}
		b.WriteByte(',')
		b.WriteString(encoded)
	}
	b.WriteString(code[index:])
	return b.String(), nil
}

func encodeParam(param any) (string, error) {
	if param == nil {
		return "undefined", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(param); err != nil {
		return "", err
	}
	// Encode terminates each value with a newline
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// VerboseName returns the slash-separated path of a module relative to
// projectRoot, or the path itself when it cannot be made relative.
func VerboseName(path, projectRoot string) string {
	if projectRoot == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(projectRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
