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
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = ModuleUpdate{}
	_ msgpack.CustomDecoder = (*ModuleUpdate)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder, writing the same
// [id, code] pair as the JSON form.
func (u ModuleUpdate) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(u.ID)); err != nil {
		return err
	}
	return enc.EncodeString(u.Code)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (u *ModuleUpdate) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("module update: expected [id, code], got %d elements", n)
	}
	if u.ID, err = dec.DecodeInt(); err != nil {
		return fmt.Errorf("module update id: %w", err)
	}
	if u.Code, err = dec.DecodeString(); err != nil {
		return fmt.Errorf("module update code: %w", err)
	}
	return nil
}
