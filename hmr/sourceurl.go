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
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// BundleExtension replaces a module's extension in its source URL.
const BundleExtension = ".bundle"

// ErrInvalidClientURL is returned when a client URL template is unusable.
var ErrInvalidClientURL = errors.New("invalid client URL")

// ParseClientURL parses a client URL template. The template must be
// absolute and name a host; its path is replaced per module.
func ParseClientURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClientURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q must include scheme and host", ErrInvalidClientURL, raw)
	}
	return u, nil
}

// SourceURL returns the debug URL of a module: clientURL with its path
// replaced by the module path relative to projectRoot, extension swapped
// for BundleExtension. clientURL is not modified.
//
// e.g., "/app/src/a.js" with root "/app" and "http://localhost:8081/index.bundle?platform=ios"
// -> "http://localhost:8081/src/a.bundle?platform=ios"
func SourceURL(modulePath string, clientURL *url.URL, projectRoot string) string {
	bundlePath := strings.TrimSuffix(modulePath, filepath.Ext(modulePath)) + BundleExtension

	rel := bundlePath
	if projectRoot != "" {
		if r, err := filepath.Rel(projectRoot, bundlePath); err == nil {
			rel = r
		}
	}

	var u url.URL
	if clientURL != nil {
		u = *clientURL
	}
	u.Path = "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
	u.RawPath = ""
	return u.String()
}
