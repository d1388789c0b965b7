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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/vfxgraph/base/ordered"
)

type entry struct {
	k string
	v int
}

func collect(m *ordered.Map[string, int]) []entry {
	var got []entry
	for k, v := range m.Iter() {
		got = append(got, entry{k: k, v: v})
	}
	return got
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		deletes []string
		want    []entry
	}{
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
			want: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
				{k: "b", v: 2},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
			deletes: []string{"b", "z"},
			want: []entry{
				{k: "a", v: 1},
				{k: "c", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
			},
			deletes: []string{"a"},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, entry := range test.entries {
			m.Store(entry.k, entry.v)
		}
		for _, k := range test.deletes {
			m.Delete(k)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		got := collect(m)
		if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(entry{})); diff != "" {
			t.Errorf("test %d: unexpected entries (-want +got):\n%s", ti, diff)
		}
		keys := slices.Collect(m.Keys())
		for i, k := range keys {
			if !m.Has(k) {
				t.Errorf("test %d: key %q returned by Keys but Has returns false", ti, k)
			}
			if want := test.want[i].k; k != want {
				t.Errorf("test %d: key %d: got %q but want %q", ti, i, k, want)
			}
		}
	}
}

func TestUpdate(t *testing.T) {
	m := ordered.NewMap[string, int]()
	m.Store("x", 1)
	m.Store("y", 2)
	m.Update(func(_ string, v int) int { return v * 10 })
	got := slices.Collect(m.Values())
	if diff := cmp.Diff([]int{10, 20}, got); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
}
