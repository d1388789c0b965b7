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

// Package ordered provides a map keeping track of the insertion order.
package ordered

import "iter"

// Map is a map remembering the order in which keys were inserted.
type Map[K comparable, V any] struct {
	m    map[K]V
	keys []K
}

// NewMap returns a new ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Store a key,value pair.
// Storing an existing key keeps its original position.
func (m *Map[K, V]) Store(k K, v V) {
	_, in := m.m[k]
	if !in {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Has returns true if the key is in the map.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.m[k]
	return ok
}

// Delete removes a key from the map.
// It returns false if the key was not present.
func (m *Map[K, V]) Delete(k K) bool {
	if _, ok := m.m[k]; !ok {
		return false
	}
	delete(m.m, k)
	for i, ki := range m.keys {
		if ki == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Update the value of all keys in place.
func (m *Map[K, V]) Update(f func(K, V) V) {
	for _, k := range m.keys {
		m.m[k] = f(k, m.m[k])
	}
}

// Iter returns an iterator to range over the elements of the map.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Keys returns an iterator to range over the keys of the map.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				break
			}
		}
	}
}

// Values returns an iterator to range over the values of the map.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.m[k]) {
				break
			}
		}
	}
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}
