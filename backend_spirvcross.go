//go:build !ngfxc_disable_spirvcross
// +build !ngfxc_disable_spirvcross

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
	#cgo pkg-config: spirv-cross-c-shared

	#include <stdlib.h>
	#include <spirv_cross_c.h>
*/
import "C"

import (
	"unsafe"

	"goarrg.com/debug"
)

// spirvCrossBackend implements BackendCompiler for GL and METAL via
// SPIRV-Cross's C API, grounded on the original source's create_cross_compiler
// dispatch and its combined-image-sampler synthesis loop.
type spirvCrossBackend struct {
	target   Target
	ctx      C.spvc_context
	compiler C.spvc_compiler
}

func newSPIRVCrossBackend(target Target) (BackendCompiler, error) {
	b := &spirvCrossBackend{target: target}
	C.spvc_context_create(&b.ctx)
	return b, nil
}

func (b *spirvCrossBackend) Reflect(spirv []uint32) (*ReflectedResources, error) {
	if b.compiler != nil {
		C.spvc_context_release_allocations(b.ctx)
		b.compiler = nil
	}

	var ir C.spvc_parsed_ir
	rc := C.spvc_context_parse_spirv(b.ctx, (*C.SpvId)(unsafe.Pointer(&spirv[0])), C.size_t(len(spirv)), &ir)
	if rc != C.SPVC_SUCCESS {
		return nil, debug.Errorf("spirv-cross: parse failed: %s", C.GoString(C.spvc_context_get_last_error_string(b.ctx)))
	}

	backendKind := C.SPVC_BACKEND_GLSL
	if b.target.API == TargetAPIMetal {
		backendKind = C.SPVC_BACKEND_MSL
	}
	rc = C.spvc_context_create_compiler(b.ctx, backendKind, ir, C.SPVC_CAPTURE_MODE_TAKE_OWNERSHIP, &b.compiler)
	if rc != C.SPVC_SUCCESS {
		return nil, debug.Errorf("spirv-cross: create_compiler failed: %s", C.GoString(C.spvc_context_get_last_error_string(b.ctx)))
	}

	if b.target.API != TargetAPIVulkan {
		C.spvc_compiler_build_dummy_sampler_for_combined_images(b.compiler)
		C.spvc_compiler_build_combined_image_samplers(b.compiler)
	}

	var resources C.spvc_resources
	C.spvc_compiler_create_shader_resources(b.compiler, &resources)

	refl := &ReflectedResources{
		UniformBuffers:   b.collect(resources, C.SPVC_RESOURCE_TYPE_UNIFORM_BUFFER),
		StorageBuffers:   b.collect(resources, C.SPVC_RESOURCE_TYPE_STORAGE_BUFFER),
		SeparateSamplers: b.collect(resources, C.SPVC_RESOURCE_TYPE_SEPARATE_SAMPLERS),
		SeparateImages:   b.collect(resources, C.SPVC_RESOURCE_TYPE_SEPARATE_IMAGE),
	}

	if b.target.API != TargetAPIVulkan {
		var cis *C.spvc_combined_image_sampler
		var numCIS C.size_t
		C.spvc_compiler_get_combined_image_samplers(b.compiler, &cis, &numCIS)
		list := unsafe.Slice(cis, int(numCIS))
		for _, c := range list {
			refl.CombinedImageSamplers = append(refl.CombinedImageSamplers, CombinedImageSampler{
				ImageID:    uint32(c.image_id),
				SamplerID:  uint32(c.sampler_id),
				CombinedID: uint32(c.combined_id),
			})
		}
	}

	return refl, nil
}

func (b *spirvCrossBackend) collect(resources C.spvc_resources, kind C.spvc_resource_type) []ReflectedResource {
	var list *C.spvc_reflected_resource
	var count C.size_t
	C.spvc_resources_get_resource_list_for_type(resources, kind, &list, &count)

	out := make([]ReflectedResource, 0, int(count))
	for _, r := range unsafe.Slice(list, int(count)) {
		set := C.spvc_compiler_get_decoration(b.compiler, r.id, C.SpvDecorationDescriptorSet)
		slot := C.spvc_compiler_get_decoration(b.compiler, r.id, C.SpvDecorationBinding)
		out = append(out, ReflectedResource{
			ID:           uint32(r.id),
			Name:         C.GoString(r.name),
			OriginalSet:  int(set),
			OriginalSlot: int(slot),
		})
	}
	return out
}

func (b *spirvCrossBackend) SetName(id uint32, name string) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	C.spvc_compiler_set_name(b.compiler, C.SpvId(id), cName)
}

func (b *spirvCrossBackend) SetBinding(id uint32, set, slot int) {
	C.spvc_compiler_set_decoration(b.compiler, C.SpvId(id), C.SpvDecorationDescriptorSet, C.uint(set))
	C.spvc_compiler_set_decoration(b.compiler, C.SpvId(id), C.SpvDecorationBinding, C.uint(slot))
}

func (b *spirvCrossBackend) Compile() ([]byte, error) {
	var src *C.char
	rc := C.spvc_compiler_compile(b.compiler, &src)
	if rc != C.SPVC_SUCCESS {
		return nil, debug.Errorf("spirv-cross: compile failed: %s", C.GoString(C.spvc_context_get_last_error_string(b.ctx)))
	}
	return []byte(C.GoString(src)), nil
}

func (b *spirvCrossBackend) Close() error {
	C.spvc_context_destroy(b.ctx)
	return nil
}
