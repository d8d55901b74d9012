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

// Package sourcemap builds version 3 source maps for single modules and
// renders them as inline data URLs.
package sourcemap

import (
	"cmp"
	"encoding/base64"
	"encoding/json"
	"slices"
	"strings"

	"bennypowers.dev/hotmod/graph"
)

// InlinePrefix starts every inline source map URL.
const InlinePrefix = "data:application/json;charset=utf-8;base64,"

// Map is a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Options configures FromModule.
type Options struct {
	// LineOffset shifts every generated line, e.g. to account for wrapper
	// lines emitted before the module code.
	LineOffset int
	// ExcludeSource omits sourcesContent.
	ExcludeSource bool
}

// FromModule builds a source map for a single module from its raw mappings.
func FromModule(mod *graph.Module, opts Options) *Map {
	m := &Map{
		Version: 3,
		Sources: []string{mod.Path},
		Names:   []string{},
	}
	if !opts.ExcludeSource {
		source := mod.Source
		if source == "" {
			source = mod.Code
		}
		m.SourcesContent = []string{source}
	}

	mappings := slices.Clone(mod.Map)
	slices.SortStableFunc(mappings, func(a, b graph.Mapping) int {
		return cmp.Or(
			cmp.Compare(a.GeneratedLine, b.GeneratedLine),
			cmp.Compare(a.GeneratedColumn, b.GeneratedColumn),
		)
	})

	m.Mappings = m.encodeMappings(mappings, opts.LineOffset)
	return m
}

// encodeMappings renders sorted mappings in base64 VLQ form, collecting
// names into m.Names as it goes.
func (m *Map) encodeMappings(mappings []graph.Mapping, lineOffset int) string {
	var b strings.Builder
	nameIndex := make(map[string]int)

	line := 1
	var prevColumn, prevOrigLine, prevOrigColumn, prevName int
	first := true

	for _, mapping := range mappings {
		genLine := mapping.GeneratedLine + lineOffset
		if genLine < 1 {
			continue
		}
		for line < genLine {
			b.WriteByte(';')
			line++
			prevColumn = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false

		writeVLQ(&b, mapping.GeneratedColumn-prevColumn)
		prevColumn = mapping.GeneratedColumn

		if mapping.OriginalLine == 0 {
			continue
		}

		// Single source, so the source index delta is always zero
		writeVLQ(&b, 0)
		origLine := mapping.OriginalLine - 1
		writeVLQ(&b, origLine-prevOrigLine)
		prevOrigLine = origLine
		writeVLQ(&b, mapping.OriginalColumn-prevOrigColumn)
		prevOrigColumn = mapping.OriginalColumn

		if mapping.Name != "" {
			idx, ok := nameIndex[mapping.Name]
			if !ok {
				idx = len(m.Names)
				nameIndex[mapping.Name] = idx
				m.Names = append(m.Names, mapping.Name)
			}
			writeVLQ(&b, idx-prevName)
			prevName = idx
		}
	}

	return b.String()
}

// JSON returns the encoded source map.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// InlineURL renders the map as a self-contained data URL.
func (m *Map) InlineURL() (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	return InlinePrefix + base64.StdEncoding.EncodeToString(data), nil
}

// LineMappings returns one mapping per line of code, pointing each line at
// the same line of the original source. Used for modules whose code is the
// original text.
func LineMappings(code string) []graph.Mapping {
	lines := strings.Count(code, "\n") + 1
	mappings := make([]graph.Mapping, 0, lines)
	for i := 1; i <= lines; i++ {
		mappings = append(mappings, graph.Mapping{
			GeneratedLine: i,
			OriginalLine:  i,
		})
	}
	return mappings
}
