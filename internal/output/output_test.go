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
package output

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/spf13/viper"
	"github.com/vmihailenco/msgpack/v5"

	"bennypowers.dev/hotmod/hmr"
	"bennypowers.dev/hotmod/internal/mapfs"
	"bennypowers.dev/hotmod/testutil"
)

func samplePayload() *hmr.Payload {
	return &hmr.Payload{
		Added:                     []hmr.ModuleUpdate{},
		Modified:                  []hmr.ModuleUpdate{{ID: 1, Code: "__d(f,1,[]);"}},
		Deleted:                   []int{5},
		AddedSourceMappingURLs:    []string{},
		AddedSourceURLs:           []string{},
		ModifiedSourceMappingURLs: []string{"data:x"},
		ModifiedSourceURLs:        []string{"http://localhost:8081/a.bundle"},
	}
}

func TestEncodeJSON(t *testing.T) {
	data, err := Encode(samplePayload(), "json")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	testutil.UpdateGoldenFile(t, "output/payload.golden.json", data)
	expected := testutil.LoadGoldenFile(t, "output/payload.golden.json")
	if expected == nil {
		return
	}
	if !bytes.Equal(data, expected) {
		t.Errorf("Encode() =\n%s\nwant\n%s", data, expected)
	}
}

func TestEncodeMsgpack(t *testing.T) {
	payload := samplePayload()
	data, err := Encode(payload, "msgpack")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var decoded hmr.Payload
	if err := dec.Decode(&decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded.Modified, payload.Modified) {
		t.Errorf("Modified = %+v, want %+v", decoded.Modified, payload.Modified)
	}
	if !reflect.DeepEqual(decoded.Deleted, payload.Deleted) {
		t.Errorf("Deleted = %v, want %v", decoded.Deleted, payload.Deleted)
	}
	if !reflect.DeepEqual(decoded.ModifiedSourceURLs, payload.ModifiedSourceURLs) {
		t.Errorf("ModifiedSourceURLs = %v, want %v", decoded.ModifiedSourceURLs, payload.ModifiedSourceURLs)
	}
	if len(decoded.Added) != 0 {
		t.Errorf("Added = %v, want empty", decoded.Added)
	}

	// Field names match the JSON form
	var fields map[string]any
	if err := msgpack.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := fields["modifiedSourceURLs"]; !ok {
		t.Errorf("Expected modifiedSourceURLs key, got %v", fields)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := Encode(samplePayload(), "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestPayloadToFile(t *testing.T) {
	viper.Set("output", "/out/payload.json")
	defer viper.Set("output", "")

	mfs := mapfs.New()
	if err := Payload(mfs, samplePayload(), "json"); err != nil {
		t.Fatalf("Payload failed: %v", err)
	}

	written, err := mfs.ReadFile("/out/payload.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	expected, _ := Encode(samplePayload(), "json")
	if !bytes.Equal(written, expected) {
		t.Errorf("written = %s, want %s", written, expected)
	}
}
