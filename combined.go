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

// CombinedSamplerSynthesizer generates combined image/sampler bindings for
// back-ends without separate-sampler semantics and records the provenance
// needed to trace a combined binding back to its separate image and
// sampler (§4.7).
//
// runningIndex resets to 0 per technique, per §4.7: construct a fresh
// synthesizer for each technique, reusing it across that technique's entry
// points.
type CombinedSamplerSynthesizer struct {
	layout       *PipelineLayout
	imageMap     *SeparateToCombinedMap
	samplerMap   *SeparateToCombinedMap
	runningIndex int
}

// NewCombinedSamplerSynthesizer returns a synthesizer writing combined
// descriptors into layout and provenance into imageMap/samplerMap.
func NewCombinedSamplerSynthesizer(layout *PipelineLayout, imageMap, samplerMap *SeparateToCombinedMap) *CombinedSamplerSynthesizer {
	return &CombinedSamplerSynthesizer{layout: layout, imageMap: imageMap, samplerMap: samplerMap}
}

// Synthesize processes one entry point's combined image/sampler tuples, in
// the order returned by reflection (§4.5's ordering guarantee), against the
// resource lists from the same reflection (used to resolve image/sampler
// names and original bindings by id). backend may be nil for tests that
// only assert on the resulting maps and layout.
func (s *CombinedSamplerSynthesizer) Synthesize(refl *ReflectedResources, stage ShaderStage, backend BackendCompiler) error {
	if len(refl.CombinedImageSamplers) == 0 {
		return nil
	}

	imagesByID := make(map[uint32]ReflectedResource, len(refl.SeparateImages))
	for _, r := range refl.SeparateImages {
		imagesByID[r.ID] = r
	}
	samplersByID := make(map[uint32]ReflectedResource, len(refl.SeparateSamplers))
	for _, r := range refl.SeparateSamplers {
		samplersByID[r.ID] = r
	}

	stageBit := stageMaskBit(stage)
	dsl := s.layout.setAt(AUTOGEN_CIS_SET)

	for _, cis := range refl.CombinedImageSamplers {
		image := imagesByID[cis.ImageID]
		sampler := samplersByID[cis.SamplerID]
		name := image.Name + "_" + sampler.Name

		if backend != nil {
			backend.SetName(cis.CombinedID, name)
		}

		slot := s.runningIndex
		s.runningIndex++

		if backend != nil {
			backend.SetBinding(cis.CombinedID, AUTOGEN_CIS_SET, slot)
		}

		key := newDescriptorKey(AUTOGEN_CIS_SET, slot)
		dsl.entries.Set(key, Descriptor{
			OriginalSet:  AUTOGEN_CIS_SET,
			OriginalSlot: slot,
			AssignedSlot: slot,
			Type:         DescriptorTypeCombinedImageSampler,
			StageMask:    stageBit,
			Name:         name,
		})

		s.imageMap.add(cis.ImageID, image.Name, image.OriginalSet, image.OriginalSlot, cis.CombinedID)
		s.samplerMap.add(cis.SamplerID, sampler.Name, sampler.OriginalSet, sampler.OriginalSlot, cis.CombinedID)
	}
	return nil
}
