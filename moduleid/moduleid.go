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

// Package moduleid allocates numeric module ids from stable module paths.
package moduleid

import (
	"slices"
	"sync"
)

// Factory hands out sequential ids, starting at zero, in first-request
// order. The same path always gets the same id from one Factory.
type Factory struct {
	mu   sync.Mutex
	ids  map[string]int
	next int
}

// NewFactory creates an empty Factory.
func NewFactory() *Factory {
	return &Factory{ids: make(map[string]int)}
}

// ID returns the id for path, allocating one if needed.
// Its signature matches the CreateModuleID option of the hmr package.
func (f *Factory) ID(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id, ok := f.ids[path]; ok {
		return id
	}
	id := f.next
	f.ids[path] = id
	f.next++
	return id
}

// Seed allocates ids for paths in sorted order, so a graph gets the same ids
// regardless of the order in which it was discovered.
func (f *Factory) Seed(paths ...string) {
	sorted := slices.Sorted(slices.Values(paths))
	for _, path := range sorted {
		f.ID(path)
	}
}

// Len returns the number of allocated ids.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}
