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

// Package project reads hotmod project configuration and loads the module
// graph it describes.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/graph"
	"bennypowers.dev/hotmod/loader"
)

// ConfigName is the config file base name looked up in the package directory.
const ConfigName = ".hotmod"

// EnvPrefix prefixes environment overrides, e.g. HOTMOD_CLIENT_URL.
const EnvPrefix = "HOTMOD"

// ReadConfig reads the config file from dir into v and enables environment
// overrides. A missing config file is not an error.
func ReadConfig(v *viper.Viper, dir string) error {
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Config describes a project.
type Config struct {
	// Root is the absolute project root.
	Root string
	// Entries are entry files or doublestar patterns, relative to Root.
	Entries []string
	// NodeModules is the node_modules directory. Defaults to Root/node_modules
	// when that exists.
	NodeModules   string
	AssetPatterns []string
	Conditions    []string
	ClientURL     string
	Verbose       bool
}

// FromViper builds a Config from the keys bound on v.
func FromViper(v *viper.Viper) (*Config, error) {
	root, err := filepath.Abs(v.GetString("package"))
	if err != nil {
		return nil, fmt.Errorf("invalid package directory: %w", err)
	}
	return &Config{
		Root:          root,
		Entries:       v.GetStringSlice("entry"),
		NodeModules:   v.GetString("node-modules"),
		AssetPatterns: v.GetStringSlice("asset-pattern"),
		Conditions:    v.GetStringSlice("conditions"),
		ClientURL:     v.GetString("client-url"),
		Verbose:       v.GetBool("verbose"),
	}, nil
}

// EntryFiles expands Entries into absolute paths, in order, without repeats.
func (c *Config) EntryFiles() ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, exists := seen[p]; !exists {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, entry := range c.Entries {
		pattern := entry
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.Root, pattern)
		}
		if !strings.ContainsAny(entry, "*?[{") {
			add(filepath.Clean(pattern))
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid entry pattern %q: %w", entry, err)
		}
		for _, match := range matches {
			add(match)
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no entry files: use --entry or set entry in " + ConfigName + ".yaml")
	}
	return files, nil
}

// Loader returns a loader configured for the project.
func (c *Config) Loader(fsys fs.FileSystem, logger loader.Logger) (*loader.Loader, error) {
	l := loader.New(fsys, c.Root).WithConditions(c.Conditions)
	if logger != nil {
		l = l.WithLogger(logger)
	}

	nodeModules := c.NodeModules
	if nodeModules == "" {
		if candidate := filepath.Join(c.Root, "node_modules"); fsys.Exists(candidate) {
			nodeModules = candidate
		}
	} else if !filepath.IsAbs(nodeModules) {
		nodeModules = filepath.Join(c.Root, nodeModules)
	}
	if nodeModules != "" {
		l = l.WithNodeModules(nodeModules)
	}

	if len(c.AssetPatterns) > 0 {
		return l.WithAssetPatterns(c.AssetPatterns)
	}
	return l, nil
}

// LoadGraph loads the project graph and returns a snapshot of it.
// Non-fatal load errors are reported to logger, which must not be nil.
func (c *Config) LoadGraph(fsys fs.FileSystem, logger Logger) (*graph.Graph, error) {
	entries, err := c.EntryFiles()
	if err != nil {
		return nil, err
	}

	l, err := c.Loader(fsys, logger)
	if err != nil {
		return nil, err
	}

	result, err := l.Load(entries...)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded %d modules from %d entries with %d errors", result.Graph.Len(), len(entries), len(result.Errors))

	return result.Graph.Clone(), nil
}

// Logger is the logging interface used while loading a project.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}
