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
package wrap_test

import (
	"testing"

	"bennypowers.dev/hotmod/graph"
	"bennypowers.dev/hotmod/wrap"
)

func ids(paths map[string]int) func(string) int {
	return func(p string) int { return paths[p] }
}

func TestWrap(t *testing.T) {
	mod := &graph.Module{
		Path: "/app/src/foo.js",
		Code: "console.log(bar);",
		Dependencies: []graph.Dependency{
			{Specifier: "./bar.js", Path: "/app/src/bar.js"},
			{Specifier: "lit", Path: "/app/node_modules/lit/index.js"},
		},
	}
	createID := ids(map[string]int{
		"/app/src/foo.js":                0,
		"/app/src/bar.js":                1,
		"/app/node_modules/lit/index.js": 2,
	})

	tests := []struct {
		name     string
		dev      bool
		expected string
	}{
		{
			name: "production",
			expected: "__d(function (global, require, importDefault, importAll, module, exports, dependencyMap) {\n" +
				"console.log(bar);\n" +
				"},0,[1,2]);",
		},
		{
			name: "dev adds verbose name",
			dev:  true,
			expected: "__d(function (global, require, importDefault, importAll, module, exports, dependencyMap) {\n" +
				"console.log(bar);\n" +
				"},0,[1,2],\"src/foo.js\");",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := wrap.Wrap(mod, wrap.Options{
				CreateModuleID: createID,
				ProjectRoot:    "/app",
				Dev:            tt.dev,
			})
			if err != nil {
				t.Fatalf("Wrap failed: %v", err)
			}
			if code != tt.expected {
				t.Errorf("Wrap() =\n%s\nwant\n%s", code, tt.expected)
			}
		})
	}
}

func TestWrapNoDependencies(t *testing.T) {
	mod := &graph.Module{Path: "/app/a.js", Code: ""}
	code, err := wrap.Wrap(mod, wrap.Options{CreateModuleID: func(string) int { return 7 }})
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	expected := "__d(function (global, require, importDefault, importAll, module, exports, dependencyMap) {\n\n},7,[]);"
	if code != expected {
		t.Errorf("Wrap() = %q, want %q", code, expected)
	}
}

func TestAddParams(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		params   []any
		expected string
	}{
		{
			name:     "appends after existing arguments",
			code:     "__d(function() {},0,[1]);",
			params:   []any{map[string][]int{"3": {4}}},
			expected: `__d(function() {},0,[1],{"3":[4]});`,
		},
		{
			name:     "nil becomes undefined",
			code:     "__d(f,0);",
			params:   []any{nil, "x"},
			expected: `__d(f,0,undefined,"x");`,
		},
		{
			name:     "no html escaping",
			code:     "__d(f);",
			params:   []any{"<a&b>"},
			expected: `__d(f,"<a&b>");`,
		},
		{
			name:     "targets the last parenthesis",
			code:     "__d(function() { g(1); },0);",
			params:   []any{9},
			expected: "__d(function() { g(1); },0,9);",
		},
		{
			name:     "no call is left unchanged",
			code:     "var x = 1;",
			params:   []any{1},
			expected: "var x = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wrap.AddParams(tt.code, tt.params...)
			if err != nil {
				t.Fatalf("AddParams failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("AddParams() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVerboseName(t *testing.T) {
	tests := []struct {
		path     string
		root     string
		expected string
	}{
		{"/app/src/foo.js", "/app", "src/foo.js"},
		{"/app/src/foo.js", "", "/app/src/foo.js"},
		{"/other/foo.js", "/app", "../other/foo.js"},
	}
	for _, tt := range tests {
		if got := wrap.VerboseName(tt.path, tt.root); got != tt.expected {
			t.Errorf("VerboseName(%q, %q) = %q, want %q", tt.path, tt.root, got, tt.expected)
		}
	}
}
