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

// Command hotmod builds hot module replacement payloads for JavaScript
// module graphs.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/hotmod/cmd/build"
	"bennypowers.dev/hotmod/cmd/inverse"
	"bennypowers.dev/hotmod/cmd/version"
	"bennypowers.dev/hotmod/internal/logging"
	"bennypowers.dev/hotmod/internal/project"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "hotmod",
		Short: "Build hot module replacement payloads",
		Long: `hotmod turns a set of changed modules into the update payload a running
client applies without a full reload.

Settings can also be given in a .hotmod.yaml file in the package directory
or as HOTMOD_* environment variables (e.g. HOTMOD_CLIENT_URL).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := project.ReadConfig(viper.GetViper(), viper.GetString("package")); err != nil {
				return err
			}
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("package", "p", ".", "Package directory")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.StringSliceP("entry", "e", nil, "Entry files or doublestar patterns, relative to the package directory")
	flags.String("node-modules", "", "node_modules directory (default: <package>/node_modules when present)")
	flags.StringSlice("asset-pattern", nil, "Doublestar patterns for asset modules (default: images, fonts, styles, media)")
	flags.StringSlice("conditions", nil, "Export condition priority (e.g., production,browser,import,default)")
	flags.BoolP("verbose", "v", false, "Log debug output")
	flags.StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	for _, name := range []string{"package", "output", "entry", "node-modules", "asset-pattern", "conditions", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// Add commands
	rootCmd.AddCommand(build.Cmd)
	rootCmd.AddCommand(inverse.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.New(viper.GetBool("verbose")).Error("%v", err)
		os.Exit(1)
	}
}
