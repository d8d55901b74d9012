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

// Package build provides the build command for hotmod.
package build

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/hmr"
	"bennypowers.dev/hotmod/internal/logging"
	"bennypowers.dev/hotmod/internal/output"
	"bennypowers.dev/hotmod/internal/project"
	"bennypowers.dev/hotmod/manifest"
	"bennypowers.dev/hotmod/moduleid"
)

// Cmd is the build cobra command that assembles an update payload for a
// set of changed modules.
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Build a hot module replacement payload",
	Long: `Load the module graph from the entry files and build the update payload
for the modules named in a delta manifest or by the --added, --modified and
--deleted flags.

Each changed script module is wrapped in a define call carrying its id,
dependency ids and the ids of every module that transitively imports it.
Asset modules are left out of the payload.`,
	Example: `  # Build a payload from a delta manifest
  hotmod build --entry src/index.js --delta delta.yaml \
    --client-url "http://localhost:8081/index.bundle?platform=ios&dev=true"

  # Name changes directly
  hotmod build --entry "src/**/*.entry.js" --modified src/app.js --deleted src/old.js

  # Binary output to a file
  hotmod build --entry src/index.js --delta delta.yaml --format msgpack -o update.bin`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("delta", "", "Delta manifest file (YAML or JSON)")
	Cmd.Flags().StringSlice("added", nil, "Added module paths")
	Cmd.Flags().StringSlice("modified", nil, "Modified module paths")
	Cmd.Flags().StringSlice("deleted", nil, "Deleted module paths")
	Cmd.Flags().String("client-url", "", "URL of the client bundle, used as the template for source URLs")
	Cmd.Flags().StringP("format", "f", "json", "Output format (json, msgpack)")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	if cmd.Flags().Changed("client-url") {
		clientURL, _ := cmd.Flags().GetString("client-url")
		viper.Set("client-url", clientURL)
	}

	format, _ := cmd.Flags().GetString("format")
	if !slices.Contains(output.Formats, format) {
		return fmt.Errorf("invalid format %q: must be one of %v", format, output.Formats)
	}

	cfg, err := project.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Verbose)

	if cfg.ClientURL == "" {
		return fmt.Errorf("no client URL: use --client-url or set client-url in %s.yaml", project.ConfigName)
	}
	clientURL, err := hmr.ParseClientURL(cfg.ClientURL)
	if err != nil {
		return err
	}

	m, err := readManifest(cmd, osfs)
	if err != nil {
		return err
	}

	g, err := cfg.LoadGraph(osfs, logger)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	delta, err := m.Delta(g, cfg.Root)
	if err != nil {
		return err
	}
	if delta.Empty() {
		logger.Debug("delta is empty")
	}

	ids := moduleid.NewFactory()
	ids.Seed(g.Paths()...)

	payload, err := hmr.Assemble(delta, g, hmr.Options{
		ClientURL:      clientURL,
		CreateModuleID: ids.ID,
		ProjectRoot:    cfg.Root,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	return output.Payload(osfs, payload, format)
}

// readManifest reads the --delta file and adds the paths named by flags.
// Relative --delta paths are resolved against the working directory.
func readManifest(cmd *cobra.Command, osfs fs.FileSystem) (*manifest.Manifest, error) {
	m := &manifest.Manifest{}

	if deltaPath, _ := cmd.Flags().GetString("delta"); deltaPath != "" {
		abs, err := filepath.Abs(deltaPath)
		if err != nil {
			return nil, fmt.Errorf("invalid delta path %q: %w", deltaPath, err)
		}
		m, err = manifest.ParseFile(osfs, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read delta: %w", err)
		}
	}

	added, _ := cmd.Flags().GetStringSlice("added")
	modified, _ := cmd.Flags().GetStringSlice("modified")
	deleted, _ := cmd.Flags().GetStringSlice("deleted")
	m.Added = append(m.Added, added...)
	m.Modified = append(m.Modified, modified...)
	m.Deleted = append(m.Deleted, deleted...)

	return m, nil
}
