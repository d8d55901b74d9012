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
package hmr

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"

	"bennypowers.dev/hotmod/graph"
)

// ModuleLookup finds modules by path. *graph.Graph satisfies it.
type ModuleLookup interface {
	Module(path string) (*graph.Module, bool)
}

// InverseDependencies maps each module reachable from a changed module
// through inverse edges to the modules that import it directly.
// Paths are kept in the order the traversal visited them.
type InverseDependencies struct {
	order   []string
	entries map[string][]string
}

// Paths returns the visited module paths in visitation order.
func (d *InverseDependencies) Paths() []string {
	return slices.Clone(d.order)
}

// Get returns the direct inverse dependencies recorded for path.
func (d *InverseDependencies) Get(path string) ([]string, bool) {
	deps, ok := d.entries[path]
	return slices.Clone(deps), ok
}

// Len returns the number of visited modules.
func (d *InverseDependencies) Len() int {
	return len(d.order)
}

// Map returns a copy of the entries as a plain map.
func (d *InverseDependencies) Map() map[string][]string {
	result := make(map[string][]string, len(d.entries))
	for path, deps := range d.entries {
		result[path] = slices.Clone(deps)
	}
	return result
}

// ResolveInverseDependencies walks inverse edges depth-first from start and
// records, for every module reached, the modules that import it.
//
// Each path is visited at most once, so cycles terminate. A path with no
// module in g ends its branch; it still appears in its importer's entry.
// The walk ignores module kind: assets are traversed like scripts.
func ResolveInverseDependencies(start string, g ModuleLookup) *InverseDependencies {
	result := &InverseDependencies{entries: make(map[string][]string)}

	stack := []string{start}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, visited := result.entries[path]; visited {
			continue
		}
		mod, ok := g.Module(path)
		if !ok {
			continue
		}

		entry := make([]string, 0, len(mod.InverseDependencies))
		entry = append(entry, mod.InverseDependencies...)
		result.entries[path] = entry
		result.order = append(result.order, path)

		// Push in reverse so the first inverse dependency is explored first
		for i := len(entry) - 1; i >= 0; i-- {
			if _, visited := result.entries[entry[i]]; !visited {
				stack = append(stack, entry[i])
			}
		}
	}

	return result
}

// InverseDependencyIDs is InverseDependencies keyed and valued by module id.
type InverseDependencyIDs map[int][]int

// TranslateInverseDependencies converts path-keyed inverse dependencies to
// ids. Both keys and values go through createID.
func TranslateInverseDependencies(deps *InverseDependencies, createID func(path string) int) InverseDependencyIDs {
	result := make(InverseDependencyIDs, deps.Len())
	for _, path := range deps.order {
		paths := deps.entries[path]
		ids := make([]int, 0, len(paths))
		for _, p := range paths {
			ids = append(ids, createID(p))
		}
		result[createID(path)] = ids
	}
	return result
}

// MarshalJSON encodes the map as a JSON object with keys in ascending
// numeric order.
func (ids InverseDependencyIDs) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')

		values := ids[id]
		if values == nil {
			values = []int{}
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
