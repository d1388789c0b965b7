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

// Package uname generates unique identifiers for generated code.
package uname

import "fmt"

// Unique generates unique names.
type Unique struct {
	names map[string]int
	taken map[string]bool
}

// New name generator. Reserved names are never returned.
func New(reserved ...string) *Unique {
	u := &Unique{
		names: make(map[string]int),
		taken: make(map[string]bool),
	}
	for _, name := range reserved {
		u.taken[name] = true
	}
	return u
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a numeric suffix is appended.
func (u *Unique) Name(root string) string {
	name := root
	for u.taken[name] {
		u.names[root]++
		name = fmt.Sprintf("%s%d", root, u.names[root])
	}
	u.taken[name] = true
	return name
}
