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

package attrib

import (
	"iter"
	"slices"

	"github.com/gx-org/vfxgraph/base/ordered"
)

// Merge merges infos accessing the same attribute by combining their modes.
// The result is sorted in registry order, custom attributes last in the order
// they were first seen.
func Merge(infos iter.Seq[Info]) []Info {
	merged := ordered.NewMap[string, Info]()
	for info := range infos {
		prev, ok := merged.Load(info.Attribute.Name)
		if ok {
			info.Mode |= prev.Mode
		}
		merged.Store(info.Attribute.Name, info)
	}
	result := slices.Collect(merged.Values())
	slices.SortStableFunc(result, func(a, b Info) int {
		return index(a.Attribute) - index(b.Attribute)
	})
	return result
}
