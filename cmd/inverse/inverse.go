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

// Package inverse provides the inverse command for hotmod.
package inverse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/hmr"
	"bennypowers.dev/hotmod/internal/logging"
	"bennypowers.dev/hotmod/internal/output"
	"bennypowers.dev/hotmod/internal/project"
	"bennypowers.dev/hotmod/moduleid"
)

// Cmd is the inverse cobra command that prints the modules transitively
// importing a module.
var Cmd = &cobra.Command{
	Use:   "inverse <module>",
	Short: "Print the inverse dependencies of a module",
	Long: `Load the module graph from the entry files and print, for the given module
and every module that transitively imports it, the modules importing it
directly. Entries are listed in traversal order.

With --ids, paths are replaced by the module ids a build would assign.`,
	Example: `  hotmod inverse src/util.js --entry src/index.js
  hotmod inverse src/util.js --entry src/index.js --ids`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("ids", false, "Print module ids instead of paths")
}

// entry is one element of the path-keyed output.
type entry struct {
	Module     string   `json:"module"`
	ImportedBy []string `json:"importedBy"`
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	cfg, err := project.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Verbose)

	g, err := cfg.LoadGraph(osfs, logger)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	start := args[0]
	if !filepath.IsAbs(start) {
		start = filepath.Join(cfg.Root, start)
	}
	if _, ok := g.Module(start); !ok {
		return fmt.Errorf("%s is not in the module graph", args[0])
	}

	deps := hmr.ResolveInverseDependencies(start, g)

	var data []byte
	if useIDs, _ := cmd.Flags().GetBool("ids"); useIDs {
		ids := moduleid.NewFactory()
		ids.Seed(g.Paths()...)
		data, err = json.Marshal(hmr.TranslateInverseDependencies(deps, ids.ID))
		if err != nil {
			return err
		}
		data = append(data, '\n')
	} else {
		entries := make([]entry, 0, deps.Len())
		for _, path := range deps.Paths() {
			importers, _ := deps.Get(path)
			rel := make([]string, 0, len(importers))
			for _, importer := range importers {
				rel = append(rel, relPath(cfg.Root, importer))
			}
			entries = append(entries, entry{Module: relPath(cfg.Root, path), ImportedBy: rel})
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return output.Write(osfs, data)
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
