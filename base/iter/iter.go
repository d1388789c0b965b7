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

// Package iter provides iterators over slices and graphs.
package iter

import "iter"

// All iterates over the element of multiple slices.
func All[T any](slices ...[]T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, slice := range slices {
			for _, el := range slice {
				if !yield(el) {
					return
				}
			}
		}
	}
}

// PostOrder iterates over the nodes of a directed acyclic graph reachable from roots.
// Every node is yielded once, after all its parents.
func PostOrder[T comparable](roots iter.Seq[T], parents func(T) []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		seen := make(map[T]bool)
		var visit func(T) bool
		visit = func(n T) bool {
			if seen[n] {
				return true
			}
			seen[n] = true
			for _, p := range parents(n) {
				if !visit(p) {
					return false
				}
			}
			return yield(n)
		}
		for root := range roots {
			if !visit(root) {
				return
			}
		}
	}
}
