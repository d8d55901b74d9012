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
	"encoding/json"
	"fmt"

	"bennypowers.dev/hotmod/graph"
	"bennypowers.dev/hotmod/sourcemap"
	"bennypowers.dev/hotmod/wrap"
)

// ModuleUpdate is the id and wrapped code of one module.
// It encodes as the JSON pair [id, code].
type ModuleUpdate struct {
	ID   int
	Code string
}

// MarshalJSON implements json.Marshaler.
func (u ModuleUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{u.ID, u.Code})
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *ModuleUpdate) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("module update: expected [id, code], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &u.ID); err != nil {
		return fmt.Errorf("module update id: %w", err)
	}
	if err := json.Unmarshal(pair[1], &u.Code); err != nil {
		return fmt.Errorf("module update code: %w", err)
	}
	return nil
}

// Update is a module update together with the URLs describing it.
type Update struct {
	Module           ModuleUpdate
	SourceMappingURL string
	SourceURL        string
}

// PrepareModule wraps mod in a dev-mode define call and appends the
// id-keyed inverse dependencies of mod as the last call argument.
func PrepareModule(mod *graph.Module, g ModuleLookup, opts Options) (string, error) {
	code, err := wrap.Wrap(mod, wrap.Options{
		CreateModuleID: opts.CreateModuleID,
		ProjectRoot:    opts.ProjectRoot,
		Dev:            true,
	})
	if err != nil {
		return "", err
	}

	inverse := ResolveInverseDependencies(mod.Path, g)
	ids := TranslateInverseDependencies(inverse, opts.CreateModuleID)
	return wrap.AddParams(code, ids)
}

// BuildModuleUpdate produces the update record for mod along with its
// inline source map URL and its source URL.
func BuildModuleUpdate(mod *graph.Module, g ModuleLookup, opts Options) (Update, error) {
	code, err := PrepareModule(mod, g, opts)
	if err != nil {
		return Update{}, fmt.Errorf("preparing %s: %w", mod.Path, err)
	}

	sourceMappingURL, err := sourcemap.FromModule(mod, sourcemap.Options{
		LineOffset: wrap.PrefixLines,
	}).InlineURL()
	if err != nil {
		return Update{}, fmt.Errorf("source map for %s: %w", mod.Path, err)
	}

	return Update{
		Module: ModuleUpdate{
			ID:   opts.CreateModuleID(mod.Path),
			Code: code,
		},
		SourceMappingURL: sourceMappingURL,
		SourceURL:        SourceURL(mod.Path, opts.ClientURL, opts.ProjectRoot),
	}, nil
}
