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

package iter_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/vfxgraph/base/iter"
)

func TestAll(t *testing.T) {
	got := slices.Collect(iter.All(
		[]string{"a", "b", "c"},
		[]string{"d", "e", "f"},
	))
	want := []string{"a", "b", "c", "d", "e", "f"}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
}

func TestPostOrder(t *testing.T) {
	// d depends on b and c which both depend on a.
	graph := map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
		"e": {"a"},
	}
	parents := func(n string) []string { return graph[n] }
	tests := []struct {
		roots []string
		want  []string
	}{
		{
			roots: []string{"d"},
			want:  []string{"a", "b", "c", "d"},
		},
		{
			roots: []string{"e", "d"},
			want:  []string{"a", "e", "b", "c", "d"},
		},
		{
			roots: []string{"a", "a"},
			want:  []string{"a"},
		},
	}
	for i, test := range tests {
		got := slices.Collect(iter.PostOrder(slices.Values(test.roots), parents))
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: got %v but want %v", i, got, test.want)
		}
	}
}

func TestPostOrderStop(t *testing.T) {
	graph := map[int][]int{2: {1}, 3: {2}}
	var got []int
	for n := range iter.PostOrder(slices.Values([]int{3}), func(n int) []int { return graph[n] }) {
		got = append(got, n)
		if n == 2 {
			break
		}
	}
	if want := []int{1, 2}; !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
}
