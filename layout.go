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

// resourceKindOrder is the fixed processing order within one entry point's
// reflection, required by the determinism invariant (§4.6).
var resourceKindOrder = [...]DescriptorType{
	DescriptorTypeUniformBuffer,
	DescriptorTypeStorageBuffer,
	DescriptorTypeSampler,
	DescriptorTypeTexture,
}

// LayoutBuilder merges per-stage resources into a single PipelineLayout
// with deterministic binding assignment (§4.6).
type LayoutBuilder struct {
	doRemapping bool
	layout      PipelineLayout
}

// NewLayoutBuilder starts a new, empty layout. doRemapping selects the
// slot-assignment policy: true for GL/METAL (fresh per-set counter), false
// for VULKAN (assigned_slot = original_slot).
func NewLayoutBuilder(doRemapping bool) *LayoutBuilder {
	return &LayoutBuilder{doRemapping: doRemapping}
}

// Layout returns the layout built so far.
func (b *LayoutBuilder) Layout() *PipelineLayout { return &b.layout }

// Feed inserts or merges one kind's resources from one entry point's
// reflection, in reflection order, per the merge rule in §4.6. backend may
// be nil (e.g. in tests that only assert on the resulting layout); when
// non-nil its SetBinding is called for every freshly inserted descriptor
// under the remapping policy.
func (b *LayoutBuilder) Feed(kind DescriptorType, resources []ReflectedResource, stageBit ShaderStageMask, backend BackendCompiler) error {
	for _, r := range resources {
		dsl := b.layout.setAt(r.OriginalSet)
		key := newDescriptorKey(r.OriginalSet, r.OriginalSlot)

		if existing, ok := dsl.entries.Get(key); ok {
			if existing.Type != kind {
				return &LayoutConflictError{Set: r.OriginalSet, Slot: r.OriginalSlot, Want: existing.Type, Got: kind}
			}
			existing.StageMask |= stageBit
			dsl.entries.Set(key, existing)
			continue
		}

		assignedSlot := r.OriginalSlot
		if b.doRemapping {
			assignedSlot = dsl.nextSlot
			dsl.nextSlot++
			if backend != nil {
				backend.SetBinding(r.ID, r.OriginalSet, assignedSlot)
			}
		} else if assignedSlot >= dsl.nextSlot {
			dsl.nextSlot = assignedSlot + 1
		}

		dsl.entries.Set(key, Descriptor{
			OriginalSet:  r.OriginalSet,
			OriginalSlot: r.OriginalSlot,
			AssignedSlot: assignedSlot,
			Type:         kind,
			StageMask:    stageBit,
			Name:         r.Name,
		})
	}
	return nil
}

// FeedReflection feeds one entry point's full reflection into the layout in
// the fixed kind order {UNIFORM_BUFFER, STORAGE_BUFFER, SAMPLER, TEXTURE}
// required by §4.6's determinism invariant.
func (b *LayoutBuilder) FeedReflection(refl *ReflectedResources, stage ShaderStage, backend BackendCompiler) error {
	stageBit := stageMaskBit(stage)
	kinds := [...][]ReflectedResource{
		refl.UniformBuffers,
		refl.StorageBuffers,
		refl.SeparateSamplers,
		refl.SeparateImages,
	}
	for i, kind := range resourceKindOrder {
		if err := b.Feed(kind, kinds[i], stageBit, backend); err != nil {
			return err
		}
	}
	return nil
}
