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

package requirements

import (
	"slices"

	"github.com/gx-org/vfxgraph/base/iter"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/expr"
)

// Attributes returns the per-element attributes accessed by a set of expressions
// and all their ancestors. Accesses to the same attribute are merged.
func Attributes(roots ...*expr.Node) []attrib.Info {
	nodes := iter.PostOrder(slices.Values(roots), (*expr.Node).Parents)
	return attrib.Merge(func(yield func(attrib.Info) bool) {
		for n := range nodes {
			for info := range n.NeededAttributes() {
				if !yield(info) {
					return
				}
			}
		}
	})
}
