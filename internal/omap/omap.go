/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package omap implements a map that iterates in ascending key order,
// rather than Go's randomized map iteration order.
package omap

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// Map associates keys with values and iterates them back out in ascending
// key order. Zero value is ready to use.
type Map[K cmp.Ordered, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

// Set inserts or updates the value for k.
func (m *Map[K, V]) Set(k K, v V) {
	if m.index == nil {
		m.index = map[K]int{}
	}
	if i, ok := m.index[k]; ok {
		m.vals[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Get returns the value stored for k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if i, ok := m.index[k]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the map's keys in ascending order. Grounded on the teacher's
// util.go mapRunFuncSorted: maps.Keys for the unordered key set, then a
// stdlib sort.
func (m *Map[K, V]) Keys() []K {
	out := maps.Keys(m.index)
	slices.Sort(out)
	return out
}

// Range calls f for every entry in ascending key order, stopping early if f
// returns false.
func (m *Map[K, V]) Range(f func(K, V) bool) {
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if !f(k, v) {
			return
		}
	}
}
