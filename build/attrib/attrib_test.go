// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package attrib_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/build/attrib"
)

func TestRegistry(t *testing.T) {
	names := make(map[string]bool)
	for _, a := range attrib.All() {
		if names[a.Name] {
			t.Errorf("attribute %s registered twice", a.Name)
		}
		names[a.Name] = true
		if a.Default.Kind() != a.Kind {
			t.Errorf("attribute %s: default value of kind %s but attribute of kind %s", a.Name, a.Default.Kind(), a.Kind)
		}
		got, ok := attrib.Find(a.Name)
		if !ok {
			t.Errorf("attribute %s cannot be found", a.Name)
			continue
		}
		if !got.Equal(a) {
			t.Errorf("Find(%q) = %v but want %v", a.Name, got, a)
		}
	}
	if _, ok := attrib.Find("doesNotExist"); ok {
		t.Errorf("found an attribute that does not exist")
	}
	if attrib.ParticleID.Access != attrib.ReadOnly {
		t.Errorf("particleId should be read-only")
	}
}

func TestNew(t *testing.T) {
	a, err := attrib.New("custom", valuekind.Float2)
	if err != nil {
		t.Fatal(err)
	}
	if a.Access != attrib.Standard || a.Kind != valuekind.Float2 {
		t.Errorf("unexpected custom attribute: %+v", a)
	}
	if _, err := attrib.New("position", valuekind.Float3); err == nil {
		t.Errorf("redefining a built-in attribute should fail")
	}
	if _, err := attrib.New("tex", valuekind.Texture2D); err == nil {
		t.Errorf("defining a texture attribute should fail")
	}
}

func names(attrs []attrib.Attribute) []string {
	var r []string
	for _, a := range attrs {
		r = append(r, a.Name)
	}
	return r
}

func TestVariadic(t *testing.T) {
	tests := []struct {
		variadic string
		channels string
		want     []string
		kind     valuekind.Kind
		err      bool
	}{
		{variadic: "angle", channels: "XYZ", want: []string{"angleX", "angleY", "angleZ"}, kind: valuekind.Float3},
		{variadic: "scale", channels: "ZX", want: []string{"scaleZ", "scaleX"}, kind: valuekind.Float2},
		{variadic: "pivot", channels: "Y", want: []string{"pivotY"}, kind: valuekind.Float},
		{variadic: "angularVelocity", channels: "X", want: []string{"angularVelocityX"}, kind: valuekind.Float},
		{variadic: "angle", channels: "", err: true},
		{variadic: "angle", channels: "XX", err: true},
		{variadic: "angle", channels: "W", err: true},
	}
	for _, test := range tests {
		v, ok := attrib.FindVariadic(test.variadic)
		if !ok {
			t.Fatalf("variadic attribute %s not found", test.variadic)
		}
		got, err := v.Expand(test.channels)
		if test.err {
			if err == nil {
				t.Errorf("%s.Expand(%q): expected an error", test.variadic, test.channels)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s.Expand(%q): %+v", test.variadic, test.channels, err)
			continue
		}
		if diff := cmp.Diff(test.want, names(got)); diff != "" {
			t.Errorf("%s.Expand(%q): unexpected attributes:\n%s", test.variadic, test.channels, diff)
		}
		if kind := v.Kind(test.channels); kind != test.kind {
			t.Errorf("%s.Kind(%q) = %s but want %s", test.variadic, test.channels, kind, test.kind)
		}
	}
}

func TestMerge(t *testing.T) {
	custom, err := attrib.New("custom", valuekind.Float)
	if err != nil {
		t.Fatal(err)
	}
	infos := []attrib.Info{
		{Attribute: custom, Mode: attrib.Read},
		{Attribute: attrib.Velocity, Mode: attrib.Read},
		{Attribute: attrib.Seed, Mode: attrib.ReadWrite},
		{Attribute: attrib.Velocity, Mode: attrib.Write},
		{Attribute: attrib.Position, Mode: attrib.ReadSource},
	}
	got := attrib.Merge(slices.Values(infos))
	want := []attrib.Info{
		{Attribute: attrib.Seed, Mode: attrib.ReadWrite},
		{Attribute: attrib.Position, Mode: attrib.ReadSource},
		{Attribute: attrib.Velocity, Mode: attrib.ReadWrite},
		{Attribute: custom, Mode: attrib.Read},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected merged attributes:\n%s", diff)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode attrib.Mode
		want string
	}{
		{mode: attrib.None, want: "none"},
		{mode: attrib.Read, want: "read"},
		{mode: attrib.ReadWrite, want: "read|write"},
		{mode: attrib.Read | attrib.ReadSource, want: "read|source"},
	}
	for _, test := range tests {
		if got := test.mode.String(); got != test.want {
			t.Errorf("Mode(%d).String() = %q but want %q", test.mode, got, test.want)
		}
	}
}
