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
package hmr_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"bennypowers.dev/hotmod/graph"
	"bennypowers.dev/hotmod/hmr"
)

// lookup is a minimal ModuleLookup built from inverse edges only.
type lookup map[string]*graph.Module

func (l lookup) Module(path string) (*graph.Module, bool) {
	mod, ok := l[path]
	return mod, ok
}

func newLookup(inverse map[string][]string) lookup {
	l := make(lookup, len(inverse))
	for path, deps := range inverse {
		l[path] = &graph.Module{Path: path, InverseDependencies: deps}
	}
	return l
}

func TestResolveInverseDependencies(t *testing.T) {
	tests := []struct {
		name      string
		inverse   map[string][]string
		start     string
		expected  map[string][]string
		wantOrder []string
	}{
		{
			name:      "leaf module",
			inverse:   map[string][]string{"/a.js": nil},
			start:     "/a.js",
			expected:  map[string][]string{"/a.js": {}},
			wantOrder: []string{"/a.js"},
		},
		{
			name: "cycle terminates",
			inverse: map[string][]string{
				"/a.js": {"/b.js"},
				"/b.js": {"/a.js"},
			},
			start: "/a.js",
			expected: map[string][]string{
				"/a.js": {"/b.js"},
				"/b.js": {"/a.js"},
			},
			wantOrder: []string{"/a.js", "/b.js"},
		},
		{
			name: "diamond visits shared dependent once",
			inverse: map[string][]string{
				"/a.js": {"/b.js", "/c.js"},
				"/b.js": {"/d.js"},
				"/c.js": {"/d.js"},
				"/d.js": nil,
			},
			start: "/a.js",
			expected: map[string][]string{
				"/a.js": {"/b.js", "/c.js"},
				"/b.js": {"/d.js"},
				"/c.js": {"/d.js"},
				"/d.js": {},
			},
			wantOrder: []string{"/a.js", "/b.js", "/d.js", "/c.js"},
		},
		{
			name: "missing module ends the branch",
			inverse: map[string][]string{
				"/a.js": {"/gone.js", "/b.js"},
				"/b.js": nil,
			},
			start: "/a.js",
			expected: map[string][]string{
				"/a.js": {"/gone.js", "/b.js"},
				"/b.js": {},
			},
			wantOrder: []string{"/a.js", "/b.js"},
		},
		{
			name:      "unknown start",
			inverse:   map[string][]string{},
			start:     "/a.js",
			expected:  map[string][]string{},
			wantOrder: nil,
		},
		{
			name: "only reachable modules are included",
			inverse: map[string][]string{
				"/a.js":     {"/b.js"},
				"/b.js":     nil,
				"/other.js": {"/b.js"},
			},
			start: "/a.js",
			expected: map[string][]string{
				"/a.js": {"/b.js"},
				"/b.js": {},
			},
			wantOrder: []string{"/a.js", "/b.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := hmr.ResolveInverseDependencies(tt.start, newLookup(tt.inverse))

			if got := result.Map(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ResolveInverseDependencies() = %v, want %v", got, tt.expected)
			}
			if got := result.Paths(); !reflect.DeepEqual(got, tt.wantOrder) {
				t.Errorf("Paths() = %v, want %v", got, tt.wantOrder)
			}
		})
	}
}

func TestResolveTraversesAssets(t *testing.T) {
	// An asset in the middle of the chain is walked like any other module
	l := lookup{
		"/a.js":   {Path: "/a.js", InverseDependencies: []string{"/b.css"}},
		"/b.css":  {Path: "/b.css", Kind: graph.KindAsset, InverseDependencies: []string{"/app.js"}},
		"/app.js": {Path: "/app.js"},
	}

	result := hmr.ResolveInverseDependencies("/a.js", l)
	if want := []string{"/a.js", "/b.css", "/app.js"}; !reflect.DeepEqual(result.Paths(), want) {
		t.Errorf("Paths() = %v, want %v", result.Paths(), want)
	}
}

func TestResolveWithGraph(t *testing.T) {
	g := graph.New()
	for _, p := range []string{"/a.js", "/b.js", "/c.js"} {
		g.AddModule(&graph.Module{Path: p})
	}
	g.AddDependency("/b.js", graph.Dependency{Path: "/a.js"})
	g.AddDependency("/c.js", graph.Dependency{Path: "/b.js"})

	result := hmr.ResolveInverseDependencies("/a.js", g)
	deps, ok := result.Get("/b.js")
	if !ok || !reflect.DeepEqual(deps, []string{"/c.js"}) {
		t.Errorf("Get(/b.js) = %v, %v; want [/c.js], true", deps, ok)
	}
	if result.Len() != 3 {
		t.Errorf("Len() = %d, want 3", result.Len())
	}
}

func TestTranslateInverseDependencies(t *testing.T) {
	l := newLookup(map[string][]string{
		"/a.js": {"/b.js", "/gone.js"},
		"/b.js": nil,
	})
	ids := map[string]int{"/a.js": 10, "/b.js": 2, "/gone.js": 7}

	result := hmr.TranslateInverseDependencies(
		hmr.ResolveInverseDependencies("/a.js", l),
		func(p string) int { return ids[p] },
	)

	expected := hmr.InverseDependencyIDs{10: {2, 7}, 2: {}}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("TranslateInverseDependencies() = %v, want %v", result, expected)
	}
}

func TestInverseDependencyIDsJSON(t *testing.T) {
	tests := []struct {
		name     string
		ids      hmr.InverseDependencyIDs
		expected string
	}{
		{"empty", hmr.InverseDependencyIDs{}, `{}`},
		{"leaf", hmr.InverseDependencyIDs{3: {}}, `{"3":[]}`},
		{"nil values encode as arrays", hmr.InverseDependencyIDs{3: nil}, `{"3":[]}`},
		{"numeric key order", hmr.InverseDependencyIDs{10: {2}, 2: {}, 1: {10, 2}}, `{"1":[10,2],"2":[],"10":[2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ids)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("Marshal() = %s, want %s", data, tt.expected)
			}
		})
	}
}
