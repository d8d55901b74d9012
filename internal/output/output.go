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

// Package output writes hotmod command results to stdout or a file.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/vmihailenco/msgpack/v5"

	"bennypowers.dev/hotmod/fs"
	"bennypowers.dev/hotmod/hmr"
)

// Formats lists the supported payload formats.
var Formats = []string{"json", "msgpack"}

// Encode encodes a payload. json is indented for reading; msgpack uses the
// same field names as the JSON form.
func Encode(payload *hmr.Payload, format string) ([]byte, error) {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "msgpack":
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(payload); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %v)", format, Formats)
	}
}

// Payload encodes a payload and writes it out.
// If viper's "output" flag is set, writes to that file; otherwise to stdout.
func Payload(osfs fs.FileSystem, payload *hmr.Payload, format string) error {
	data, err := Encode(payload, format)
	if err != nil {
		return err
	}
	return Write(osfs, data)
}

// Write writes data to the viper "output" file, or stdout when unset.
func Write(osfs fs.FileSystem, data []byte) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		return osfs.WriteFile(outputPath, data, 0644)
	}
	_, err := os.Stdout.Write(data)
	return err
}
