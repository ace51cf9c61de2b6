//go:build !ngfxc_disable_spirvreflect
// +build !ngfxc_disable_spirvreflect

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

/*
	#cgo pkg-config: spirv-reflect

	#include <spirv_reflect.h>
*/
import "C"

import (
	"unsafe"

	"goarrg.com/debug"
)

// vulkanBackend implements BackendCompiler for VULKAN via SPIRV-Reflect.
// Reflection is read-only: SetName and SetBinding are no-ops and Compile
// passes the SPIR-V word stream through unchanged (§9 "Polymorphism over
// back-ends", §4.5 "Reflection for VULKAN is read-only").
type vulkanBackend struct {
	module C.SpvReflectShaderModule
	spirv  []uint32
}

func newVulkanBackend(target Target) (BackendCompiler, error) {
	return &vulkanBackend{}, nil
}

func descriptorTypeFromSPV(t C.SpvReflectDescriptorType) (DescriptorType, bool) {
	switch t {
	case C.SPV_REFLECT_DESCRIPTOR_TYPE_UNIFORM_BUFFER:
		return DescriptorTypeUniformBuffer, true
	case C.SPV_REFLECT_DESCRIPTOR_TYPE_STORAGE_BUFFER:
		return DescriptorTypeStorageBuffer, true
	case C.SPV_REFLECT_DESCRIPTOR_TYPE_SAMPLER:
		return DescriptorTypeSampler, true
	case C.SPV_REFLECT_DESCRIPTOR_TYPE_SAMPLED_IMAGE:
		return DescriptorTypeTexture, true
	case C.SPV_REFLECT_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER:
		return DescriptorTypeCombinedImageSampler, true
	default:
		return 0, false
	}
}

func (b *vulkanBackend) Reflect(spirv []uint32) (*ReflectedResources, error) {
	b.spirv = spirv

	rc := C.spvReflectCreateShaderModule(C.size_t(len(spirv))*4, unsafe.Pointer(&spirv[0]), &b.module)
	if rc != C.SPV_REFLECT_RESULT_SUCCESS {
		return nil, debug.Errorf("spirv-reflect: failed to create shader module: %d", rc)
	}

	var count C.uint32_t
	C.spvReflectEnumerateDescriptorBindings(&b.module, &count, nil)
	bindings := make([]*C.SpvReflectDescriptorBinding, count)
	if count > 0 {
		C.spvReflectEnumerateDescriptorBindings(&b.module, &count, &bindings[0])
	}

	refl := &ReflectedResources{}
	for _, binding := range bindings {
		kind, ok := descriptorTypeFromSPV(binding.descriptor_type)
		if !ok {
			continue
		}
		resource := ReflectedResource{
			ID:           uint32(binding.spirv_id),
			Name:         C.GoString(binding.name),
			OriginalSet:  int(binding.set),
			OriginalSlot: int(binding.binding),
		}
		switch kind {
		case DescriptorTypeUniformBuffer:
			refl.UniformBuffers = append(refl.UniformBuffers, resource)
		case DescriptorTypeStorageBuffer:
			refl.StorageBuffers = append(refl.StorageBuffers, resource)
		case DescriptorTypeSampler:
			refl.SeparateSamplers = append(refl.SeparateSamplers, resource)
		case DescriptorTypeTexture:
			refl.SeparateImages = append(refl.SeparateImages, resource)
		}
	}

	// VULKAN keeps images and samplers separate; combined image/samplers
	// are never synthesized for this backend (§4.5).
	return refl, nil
}

func (b *vulkanBackend) SetName(id uint32, name string) {}

func (b *vulkanBackend) SetBinding(id uint32, set, slot int) {}

func (b *vulkanBackend) Compile() ([]byte, error) {
	return spirvToBytes(b.spirv), nil
}

func (b *vulkanBackend) Close() error {
	C.spvReflectDestroyShaderModule(&b.module)
	return nil
}
