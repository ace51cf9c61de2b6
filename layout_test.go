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

func TestLayoutBuilderMergesSharedUBO(t *testing.T) {
	b := NewLayoutBuilder(false)
	ubo := []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}

	if err := b.Feed(DescriptorTypeUniformBuffer, ubo, ShaderStageMaskVertex, nil); err != nil {
		t.Fatalf("Feed (vs): %v", err)
	}
	if err := b.Feed(DescriptorTypeUniformBuffer, ubo, ShaderStageMaskFragment, nil); err != nil {
		t.Fatalf("Feed (ps): %v", err)
	}

	dsl := b.Layout().SetAt(0)
	if dsl.Len() != 1 {
		t.Fatalf("set 0 has %d descriptors, want 1", dsl.Len())
	}
	d := dsl.Descriptors()[0]
	if d.StageMask != ShaderStageMaskVertex|ShaderStageMaskFragment {
		t.Fatalf("StageMask = %v, want VERTEX|FRAGMENT", d.StageMask)
	}
}

func TestLayoutBuilderConflictOnTypeMismatch(t *testing.T) {
	b := NewLayoutBuilder(false)
	ubo := []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}
	ssbo := []ReflectedResource{{ID: 2, Name: "Particles", OriginalSet: 0, OriginalSlot: 0}}

	if err := b.Feed(DescriptorTypeUniformBuffer, ubo, ShaderStageMaskVertex, nil); err != nil {
		t.Fatalf("Feed (vs): %v", err)
	}
	err := b.Feed(DescriptorTypeStorageBuffer, ssbo, ShaderStageMaskFragment, nil)
	lc, ok := err.(*LayoutConflictError)
	if !ok {
		t.Fatalf("expected *LayoutConflictError, got %v", err)
	}
	if lc.Set != 0 || lc.Slot != 0 || lc.Want != DescriptorTypeUniformBuffer || lc.Got != DescriptorTypeStorageBuffer {
		t.Fatalf("unexpected LayoutConflictError fields: %+v", lc)
	}
}

func TestLayoutBuilderRemappingAssignsDenseSlots(t *testing.T) {
	b := NewLayoutBuilder(true)
	resources := []ReflectedResource{
		{ID: 1, Name: "a", OriginalSet: 0, OriginalSlot: 5},
		{ID: 2, Name: "b", OriginalSet: 0, OriginalSlot: 2},
		{ID: 3, Name: "c", OriginalSet: 0, OriginalSlot: 9},
	}
	if err := b.Feed(DescriptorTypeTexture, resources, ShaderStageMaskFragment, nil); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	dsl := b.Layout().SetAt(0)
	got := map[int]bool{}
	for _, d := range dsl.Descriptors() {
		got[d.AssignedSlot] = true
	}
	for i := 0; i < len(resources); i++ {
		if !got[i] {
			t.Fatalf("assigned slots not dense 0..%d: %v", len(resources)-1, got)
		}
	}
}

func TestLayoutBuilderNoRemappingPreservesOriginalSlot(t *testing.T) {
	b := NewLayoutBuilder(false)
	resources := []ReflectedResource{{ID: 1, Name: "a", OriginalSet: 3, OriginalSlot: 7}}
	if err := b.Feed(DescriptorTypeTexture, resources, ShaderStageMaskFragment, nil); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	d := b.Layout().SetAt(3).Descriptors()[0]
	if d.AssignedSlot != 7 {
		t.Fatalf("AssignedSlot = %d, want 7", d.AssignedSlot)
	}
}

func TestLayoutBuilderFeedReflectionFixedKindOrder(t *testing.T) {
	b := NewLayoutBuilder(true)
	refl := &ReflectedResources{
		UniformBuffers: []ReflectedResource{{ID: 1, Name: "ubo", OriginalSet: 0, OriginalSlot: 0}},
		StorageBuffers: []ReflectedResource{{ID: 2, Name: "ssbo", OriginalSet: 0, OriginalSlot: 1}},
		SeparateSamplers: []ReflectedResource{{ID: 3, Name: "smp", OriginalSet: 0, OriginalSlot: 2}},
		SeparateImages:   []ReflectedResource{{ID: 4, Name: "img", OriginalSet: 0, OriginalSlot: 3}},
	}
	if err := b.FeedReflection(refl, ShaderStageVertex, nil); err != nil {
		t.Fatalf("FeedReflection: %v", err)
	}

	descs := b.Layout().SetAt(0).Descriptors()
	if len(descs) != 4 {
		t.Fatalf("got %d descriptors, want 4", len(descs))
	}
	wantOrder := []DescriptorType{DescriptorTypeUniformBuffer, DescriptorTypeStorageBuffer, DescriptorTypeSampler, DescriptorTypeTexture}
	for i, d := range descs {
		if d.AssignedSlot != i {
			t.Fatalf("descriptor %d AssignedSlot = %d, want %d", i, d.AssignedSlot, i)
		}
		if d.Type != wantOrder[i] {
			t.Fatalf("descriptor %d Type = %v, want %v", i, d.Type, wantOrder[i])
		}
	}
}
