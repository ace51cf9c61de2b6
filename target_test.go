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

package ngfxc

import "testing"

func TestLookupTarget(t *testing.T) {
	tg, ok := LookupTarget("gl430")
	if !ok {
		t.Fatalf("LookupTarget(gl430) not found")
	}
	if tg.API != TargetAPIGL || tg.FileExt != "glsl" {
		t.Fatalf("LookupTarget(gl430) = %+v, unexpected fields", tg)
	}

	if _, ok := LookupTarget("nope"); ok {
		t.Fatalf("LookupTarget(nope) unexpectedly found")
	}
}

func TestSortTargetsByAPI(t *testing.T) {
	spv, _ := LookupTarget("spv")
	gl, _ := LookupTarget("gl430")
	msl, _ := LookupTarget("msl20")

	targets := []Target{spv, msl, gl}
	SortTargets(targets)

	if targets[0].API != TargetAPIGL || targets[1].API != TargetAPIVulkan || targets[2].API != TargetAPIMetal {
		t.Fatalf("SortTargets did not sort by API: %+v", targets)
	}
}

func TestSortTargetsDeterministicRegardlessOfInputOrder(t *testing.T) {
	names := []string{"spv", "msl20", "gl430", "gles300", "gles310", "msl10ios"}

	build := func(order []string) []Target {
		out := make([]Target, len(order))
		for i, n := range order {
			tg, ok := LookupTarget(n)
			if !ok {
				t.Fatalf("LookupTarget(%q) not found", n)
			}
			out[i] = tg
		}
		SortTargets(out)
		return out
	}

	a := build(names)
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	b := build(reversed)

	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("SortTargets not order-independent at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
