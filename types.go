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

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nicegraf/ngfxc/internal/omap"
)

// DescriptorType enumerates the kinds of resource a Descriptor can bind.
// The integer values are part of the binary metadata wire format (§6.4) and
// must never be reordered once released.
type DescriptorType uint32

const (
	DescriptorTypeUniformBuffer DescriptorType = iota
	DescriptorTypeStorageBuffer
	DescriptorTypeSampler
	DescriptorTypeTexture
	DescriptorTypeCombinedImageSampler
)

func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeUniformBuffer:
		return "UniformBuffer"
	case DescriptorTypeStorageBuffer:
		return "StorageBuffer"
	case DescriptorTypeSampler:
		return "Sampler"
	case DescriptorTypeTexture:
		return "Texture"
	case DescriptorTypeCombinedImageSampler:
		return "CombinedImageSampler"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the DescriptorType as its name, for -vv diagnostic
// dumps (SPEC_FULL.md §2 "JSON debug dumps"), matching the teacher's
// enum-as-quoted-string MarshalJSON style (descriptor.go's
// descriptorSetBinding.MarshalJSON).
func (t DescriptorType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ShaderStage identifies a single pipeline stage. EntryPoint.Stage uses this;
// ShaderStageMask is a bitfield over it.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vs"
	case ShaderStageFragment:
		return "ps"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the ShaderStage as its name.
func (s ShaderStage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ShaderStageMask is a bitfield over ShaderStage, designed extensibly per
// spec.md §3 (two bits defined today).
type ShaderStageMask uint32

const (
	ShaderStageMaskVertex   ShaderStageMask = 1 << ShaderStageMask(ShaderStageVertex)
	ShaderStageMaskFragment ShaderStageMask = 1 << ShaderStageMask(ShaderStageFragment)
)

func stageMaskBit(s ShaderStage) ShaderStageMask {
	return 1 << ShaderStageMask(s)
}

func (m ShaderStageMask) HasBits(want ShaderStageMask) bool {
	return m&want == want
}

func (m ShaderStageMask) String() string {
	str := ""
	if m.HasBits(ShaderStageMaskVertex) {
		str += "Vertex|"
	}
	if m.HasBits(ShaderStageMaskFragment) {
		str += "Fragment|"
	}
	if str == "" {
		return "None"
	}
	return str[:len(str)-1]
}

// MarshalJSON renders the ShaderStageMask as its "Vertex|Fragment"-style
// name.
func (m ShaderStageMask) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// Descriptor is a single binding slot, post layout-building. See spec.md §3.
type Descriptor struct {
	OriginalSet  int
	OriginalSlot int
	AssignedSlot int
	Type         DescriptorType
	StageMask    ShaderStageMask
	Name         string
}

// MarshalJSON renders a Descriptor as its fields, in the teacher's
// buffer-and-Sprintf style (config.go's Config.MarshalJSON).
func (d Descriptor) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	buff.WriteString(fmt.Sprintf("\"OriginalSet\": %d,", d.OriginalSet))
	buff.WriteString(fmt.Sprintf("\"OriginalSlot\": %d,", d.OriginalSlot))
	buff.WriteString(fmt.Sprintf("\"AssignedSlot\": %d,", d.AssignedSlot))
	buff.WriteString(fmt.Sprintf("\"Type\": %s,", jsonString(d.Type)))
	buff.WriteString(fmt.Sprintf("\"StageMask\": %s,", jsonString(d.StageMask)))
	buff.WriteString(fmt.Sprintf("\"Name\": %q", d.Name))
	buff.WriteString("}")
	return buff.Bytes(), nil
}

// descriptorKey packs (set, slot) into one ordered key so omap.Map can sort
// entries by (original_set, original_slot) using plain integer comparison.
type descriptorKey uint64

func newDescriptorKey(set, slot int) descriptorKey {
	return descriptorKey(uint64(uint32(set))<<32 | uint64(uint32(slot)))
}

// DescriptorSetLayout maps (original_set, original_slot) to Descriptor,
// ordered by that key for deterministic iteration (spec.md §3).
type DescriptorSetLayout struct {
	entries omap.Map[descriptorKey, Descriptor]
	// nextSlot is the per-set assigned-slot counter used when do_remapping
	// is true (spec.md §4.6 "Slot assignment").
	nextSlot int
}

// Descriptors returns the set's descriptors ordered by (original_set,
// original_slot).
func (l *DescriptorSetLayout) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, l.entries.Len())
	l.entries.Range(func(_ descriptorKey, d Descriptor) bool {
		out = append(out, d)
		return true
	})
	return out
}

func (l *DescriptorSetLayout) Len() int { return l.entries.Len() }

// MarshalJSON renders the set's descriptors in (original_set, original_slot)
// order.
func (l *DescriptorSetLayout) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("[")
	for _, d := range l.Descriptors() {
		buff.WriteString(fmt.Sprintf("%s,", jsonString(d)))
	}
	if buff.Len() > 1 {
		buff.Truncate(buff.Len() - 1)
	}
	buff.WriteString("]")
	return buff.Bytes(), nil
}

// PipelineLayout is the ordered sequence of descriptor-set layouts produced
// by the Pipeline layout builder (§4.6). Sets are keyed by their original
// index (0..N-1 from reflection, plus the AUTOGEN_CIS_SET sentinel) and
// iterate in ascending key order, so AUTOGEN_CIS_SET's large sentinel value
// does not force a dense array up to that index.
type PipelineLayout struct {
	sets omap.Map[int, *DescriptorSetLayout]
}

func (p *PipelineLayout) setAt(index int) *DescriptorSetLayout {
	dsl, ok := p.sets.Get(index)
	if !ok {
		dsl = &DescriptorSetLayout{}
		p.sets.Set(index, dsl)
	}
	return dsl
}

// SetIndices returns the indices of non-empty descriptor sets in ascending
// order.
func (p *PipelineLayout) SetIndices() []int { return p.sets.Keys() }

// SetAt returns the descriptor-set layout at index, or nil if no resource
// was ever fed into that set.
func (p *PipelineLayout) SetAt(index int) *DescriptorSetLayout {
	dsl, _ := p.sets.Get(index)
	return dsl
}

// NumSets returns the number of non-empty descriptor sets.
func (p *PipelineLayout) NumSets() int { return p.sets.Len() }

// MarshalJSON renders the layout as a map from set index to its descriptors,
// used by the orchestrator's -vv diagnostic dumps (SPEC_FULL.md §2).
func (p *PipelineLayout) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	for _, idx := range p.SetIndices() {
		buff.WriteString(fmt.Sprintf("%q: %s,", fmt.Sprintf("%d", idx), jsonString(p.SetAt(idx))))
	}
	if buff.Len() > 1 {
		buff.Truncate(buff.Len() - 1)
	}
	buff.WriteString("}")
	return buff.Bytes(), nil
}

// SeparateToCombinedMapEntry carries everything the metadata serializer and
// header emitter need for one separate (image or sampler) resource's
// provenance (spec.md §3).
type SeparateToCombinedMapEntry struct {
	Name          string
	OriginalSet   int
	OriginalSlot  int
	CombinedIDs   []uint32
}

// SeparateToCombinedMap records, for every separate image or sampler id, the
// set of combined-sampler ids it participates in.
type SeparateToCombinedMap struct {
	entries omap.Map[uint32, *SeparateToCombinedMapEntry]
}

// MarshalJSON renders a SeparateToCombinedMapEntry's fields.
func (e *SeparateToCombinedMapEntry) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	buff.WriteString(fmt.Sprintf("\"Name\": %q,", e.Name))
	buff.WriteString(fmt.Sprintf("\"OriginalSet\": %d,", e.OriginalSet))
	buff.WriteString(fmt.Sprintf("\"OriginalSlot\": %d,", e.OriginalSlot))
	buff.WriteString(fmt.Sprintf("\"CombinedIDs\": %s", jsonString(e.CombinedIDs)))
	buff.WriteString("}")
	return buff.Bytes(), nil
}

// add appends combinedID to id's entry, creating it on first use.
func (m *SeparateToCombinedMap) add(id uint32, name string, originalSet, originalSlot int, combinedID uint32) {
	e, ok := m.entries.Get(id)
	if !ok {
		e = &SeparateToCombinedMapEntry{Name: name, OriginalSet: originalSet, OriginalSlot: originalSlot}
		m.entries.Set(id, e)
	}
	e.CombinedIDs = append(e.CombinedIDs, combinedID)
}

// Lookup returns the recorded entry for a separate resource id, if any.
func (m *SeparateToCombinedMap) Lookup(id uint32) (*SeparateToCombinedMapEntry, bool) {
	return m.entries.Get(id)
}

// Entries returns (id, entry) pairs ordered by ascending separate id.
func (m *SeparateToCombinedMap) Entries() []struct {
	ID    uint32
	Entry *SeparateToCombinedMapEntry
} {
	out := make([]struct {
		ID    uint32
		Entry *SeparateToCombinedMapEntry
	}, 0, m.entries.Len())
	m.entries.Range(func(id uint32, e *SeparateToCombinedMapEntry) bool {
		out = append(out, struct {
			ID    uint32
			Entry *SeparateToCombinedMapEntry
		}{id, e})
		return true
	})
	return out
}

func (m *SeparateToCombinedMap) Len() int { return m.entries.Len() }

// MarshalJSON renders the map keyed by separate resource id, ascending.
func (m *SeparateToCombinedMap) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	for _, entry := range m.Entries() {
		buff.WriteString(fmt.Sprintf("%q: %s,", fmt.Sprintf("%d", entry.ID), jsonString(entry.Entry)))
	}
	if buff.Len() > 1 {
		buff.Truncate(buff.Len() - 1)
	}
	buff.WriteString("}")
	return buff.Bytes(), nil
}

// AUTOGEN_CIS_SET is the reserved descriptor-set index that holds
// auto-generated combined-image-samplers (spec.md §3, §4.6 "Auto-CIS set").
const AUTOGEN_CIS_SET = 0xFFFF

// ReflectedResource is one resource surfaced by a BackendCompiler's
// reflection, as returned in §4.5's ordered sequences.
type ReflectedResource struct {
	ID           uint32
	Name         string
	OriginalSet  int
	OriginalSlot int
}

// MarshalJSON renders a ReflectedResource's fields.
func (r ReflectedResource) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	buff.WriteString(fmt.Sprintf("\"ID\": %d,", r.ID))
	buff.WriteString(fmt.Sprintf("\"Name\": %q,", r.Name))
	buff.WriteString(fmt.Sprintf("\"OriginalSet\": %d,", r.OriginalSet))
	buff.WriteString(fmt.Sprintf("\"OriginalSlot\": %d", r.OriginalSlot))
	buff.WriteString("}")
	return buff.Bytes(), nil
}

// ReflectedResources is the unified view over one entry point's reflection
// data (§4.5), grouped by resource kind in the fixed processing order the
// layout builder requires (§4.6).
type ReflectedResources struct {
	UniformBuffers        []ReflectedResource
	StorageBuffers        []ReflectedResource
	SeparateSamplers      []ReflectedResource
	SeparateImages        []ReflectedResource
	CombinedImageSamplers []CombinedImageSampler
}

// MarshalJSON renders a ReflectedResources grouped by kind, matching the
// field order the layout builder processes them in (§4.6).
func (r *ReflectedResources) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	buff.WriteString(fmt.Sprintf("\"UniformBuffers\": %s,", jsonString(r.UniformBuffers)))
	buff.WriteString(fmt.Sprintf("\"StorageBuffers\": %s,", jsonString(r.StorageBuffers)))
	buff.WriteString(fmt.Sprintf("\"SeparateSamplers\": %s,", jsonString(r.SeparateSamplers)))
	buff.WriteString(fmt.Sprintf("\"SeparateImages\": %s,", jsonString(r.SeparateImages)))
	buff.WriteString(fmt.Sprintf("\"CombinedImageSamplers\": %s", jsonString(r.CombinedImageSamplers)))
	buff.WriteString("}")
	return buff.Bytes(), nil
}

// CombinedImageSampler is one `(separate_image, separate_sampler)` pairing
// actually used by the shader, as surfaced by reflection for GL/METAL
// targets (§4.5).
type CombinedImageSampler struct {
	ImageID    uint32
	SamplerID  uint32
	CombinedID uint32
}

// MarshalJSON renders a CombinedImageSampler's fields.
func (c CombinedImageSampler) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	buff.WriteString(fmt.Sprintf("\"ImageID\": %d,", c.ImageID))
	buff.WriteString(fmt.Sprintf("\"SamplerID\": %d,", c.SamplerID))
	buff.WriteString(fmt.Sprintf("\"CombinedID\": %d", c.CombinedID))
	buff.WriteString("}")
	return buff.Bytes(), nil
}
