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

package vfxflag_test

import (
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/vfxgraph/tools/vfxflag"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestStringList(t *testing.T) {
	fs := newFlagSet()
	roots := vfxflag.StringList(fs, "roots", "roots to compile")
	if err := fs.Parse([]string{"-roots", "a, b,,c", "-roots=d"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, *roots); diff != "" {
		t.Errorf("unexpected list:\n%s", diff)
	}
}

func TestStringListAllowed(t *testing.T) {
	fs := newFlagSet()
	emit := vfxflag.StringList(fs, "emit", "outputs", "code", "sheet")
	if err := fs.Parse([]string{"-emit", "sheet,code"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"sheet", "code"}, *emit); diff != "" {
		t.Errorf("unexpected list:\n%s", diff)
	}
	fs = newFlagSet()
	vfxflag.StringList(fs, "emit", "outputs", "code", "sheet")
	if err := fs.Parse([]string{"-emit", "code,graph"}); err == nil {
		t.Errorf("expected an error for a value not allowed")
	}
}
