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
	"reflect"
	"testing"

	"bennypowers.dev/hotmod/graph"
	"bennypowers.dev/hotmod/packagejson"
	"bennypowers.dev/hotmod/testutil"
)

const root = "/project"

func newFixtureLoader(t *testing.T) *Loader {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "loader/project", root)
	return New(mfs, root).WithNodeModules(root + "/node_modules")
}

func TestLoad(t *testing.T) {
	result, err := newFixtureLoader(t).Load("src/index.js")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}

	g := result.Graph
	expectedPaths := []string{
		"/project/node_modules/lit/index.js",
		"/project/src/greet.js",
		"/project/src/index.js",
		"/project/src/lazy.js",
		"/project/src/shared.ts",
		"/project/src/styles.css",
		"/project/src/util/index.js",
	}
	if got := g.Paths(); !reflect.DeepEqual(got, expectedPaths) {
		t.Errorf("Paths() = %v, want %v", got, expectedPaths)
	}

	if got := g.Entrypoints(); !reflect.DeepEqual(got, []string{"/project/src/index.js"}) {
		t.Errorf("Entrypoints() = %v", got)
	}

	t.Run("dependencies keep source order", func(t *testing.T) {
		index, _ := g.Module("/project/src/index.js")
		var specifiers []string
		for _, dep := range index.Dependencies {
			specifiers = append(specifiers, dep.Specifier)
		}
		want := []string{"./greet.js", "./styles.css", "lit", "./lazy"}
		if !reflect.DeepEqual(specifiers, want) {
			t.Errorf("Dependencies = %v, want %v", specifiers, want)
		}
	})

	t.Run("inverse dependencies", func(t *testing.T) {
		greet, _ := g.Module("/project/src/greet.js")
		want := []string{"/project/src/index.js", "/project/src/lazy.js"}
		if !reflect.DeepEqual(greet.InverseDependencies, want) {
			t.Errorf("InverseDependencies = %v, want %v", greet.InverseDependencies, want)
		}
	})

	t.Run("assets are not read", func(t *testing.T) {
		css, ok := g.Module("/project/src/styles.css")
		if !ok {
			t.Fatal("styles.css not in graph")
		}
		if css.Kind != graph.KindAsset {
			t.Errorf("Kind = %v, want asset", css.Kind)
		}
		if css.Code != "" {
			t.Errorf("Expected asset without code, got %q", css.Code)
		}
	})

	t.Run("scripts carry line mappings", func(t *testing.T) {
		util, _ := g.Module("/project/src/util/index.js")
		if util.Code != "export const name = 'world';\n" {
			t.Errorf("Code = %q", util.Code)
		}
		// One mapping per line, including the empty line after the final newline
		if len(util.Map) != 2 {
			t.Errorf("Expected 2 mappings, got %d", len(util.Map))
		}
	})
}

func TestLoadWithoutNodeModules(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "loader/project", root)
	result, err := New(mfs, root).Load("/project/src/index.js")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := result.Graph.Module("/project/node_modules/lit/index.js"); ok {
		t.Error("Expected lit to stay external")
	}
	if result.Graph.Len() != 6 {
		t.Errorf("Len() = %d, want 6", result.Graph.Len())
	}
}

func TestLoadCollectsErrors(t *testing.T) {
	result, err := newFixtureLoader(t).Load("src/broken.js")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(result.Errors) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !errors.Is(result.Errors[0], ErrModuleNotFound) {
		t.Errorf("Errors[0] = %v, want ErrModuleNotFound", result.Errors[0])
	}
	if !errors.Is(result.Errors[1], packagejson.ErrNotExported) {
		t.Errorf("Errors[1] = %v, want ErrNotExported", result.Errors[1])
	}

	if _, ok := result.Graph.Module("/project/node_modules/@scope/pkg/dist/thing.js"); !ok {
		t.Error("Expected wildcard export to resolve")
	}
	if result.Graph.Len() != 2 {
		t.Errorf("Len() = %d, want 2", result.Graph.Len())
	}
}

func TestLoadMissingEntrypoint(t *testing.T) {
	if _, err := newFixtureLoader(t).Load("src/nope.js"); err == nil {
		t.Error("Expected error for missing entrypoint")
	}
}

func TestWithAssetPatterns(t *testing.T) {
	l := newFixtureLoader(t)

	if _, err := l.WithAssetPatterns([]string{"[unclosed"}); err == nil {
		t.Error("Expected error for invalid pattern")
	}

	custom, err := l.WithAssetPatterns([]string{"src/util/**"})
	if err != nil {
		t.Fatalf("WithAssetPatterns failed: %v", err)
	}

	tests := []struct {
		loader *Loader
		path   string
		want   graph.Kind
	}{
		{l, "/project/src/styles.css", graph.KindAsset},
		{l, "/project/src/img/logo.PNG", graph.KindScript},
		{l, "/project/src/img/logo.png", graph.KindAsset},
		{l, "/project/src/index.js", graph.KindScript},
		{custom, "/project/src/styles.css", graph.KindScript},
		{custom, "/project/src/util/index.js", graph.KindAsset},
	}
	for _, tt := range tests {
		if got := tt.loader.Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	// The original loader is unchanged
	if got := l.Classify("/project/src/util/index.js"); got != graph.KindScript {
		t.Errorf("Expected original loader to keep default patterns, got %v", got)
	}
}

func TestWithConditions(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "loader/project", root)
	mfs.AddFile("/project/node_modules/cond/package.json",
		`{"name":"cond","exports":{"node":"./node.js","browser":"./browser.js"}}`, 0644)
	mfs.AddFile("/project/node_modules/cond/node.js", "export default 'node';\n", 0644)
	mfs.AddFile("/project/node_modules/cond/browser.js", "export default 'browser';\n", 0644)
	mfs.AddFile("/project/src/cond.js", "import x from 'cond';\n", 0644)

	l := New(mfs, root).WithNodeModules(root + "/node_modules")

	tests := []struct {
		conditions []string
		want       string
	}{
		{nil, "/project/node_modules/cond/browser.js"},
		{[]string{"node", "default"}, "/project/node_modules/cond/node.js"},
	}
	for _, tt := range tests {
		result, err := l.WithConditions(tt.conditions).Load("src/cond.js")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		mod, _ := result.Graph.Module("/project/src/cond.js")
		if len(mod.Dependencies) != 1 || mod.Dependencies[0].Path != tt.want {
			t.Errorf("conditions %v: Dependencies = %v, want %s", tt.conditions, mod.Dependencies, tt.want)
		}
	}
}

func TestIsBareSpecifier(t *testing.T) {
	tests := []struct {
		specifier string
		want      bool
	}{
		{"lit", true},
		{"@scope/pkg/thing", true},
		{"./foo.js", false},
		{"../foo.js", false},
		{"/foo.js", false},
		{".", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isBareSpecifier(tt.specifier); got != tt.want {
			t.Errorf("isBareSpecifier(%q) = %v, want %v", tt.specifier, got, tt.want)
		}
	}
}

func TestGetPackageName(t *testing.T) {
	tests := []struct {
		specifier string
		want      string
	}{
		{"lit", "lit"},
		{"lit/decorators.js", "lit"},
		{"@scope/pkg", "@scope/pkg"},
		{"@scope/pkg/deep/file.js", "@scope/pkg"},
		{"@scope", "@scope"},
	}
	for _, tt := range tests {
		if got := getPackageName(tt.specifier); got != tt.want {
			t.Errorf("getPackageName(%q) = %q, want %q", tt.specifier, got, tt.want)
		}
	}
}
