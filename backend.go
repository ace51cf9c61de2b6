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

// BackendCompiler is the tagged-variant trait dispatched by the orchestrator
// over {GL, VULKAN, METAL} (§9 "Polymorphism over back-ends"). It wraps
// either SPIRV-Cross (GL, METAL) or SPIRV-Reflect (VULKAN, read-only) as an
// external collaborator; this package pins down only the interface.
//
// A BackendCompiler instance is scoped to one SPIR-V module. Reflect must be
// called before SetName, SetBinding, or Compile: those mutate or read the
// compiler's internal reflection state, which Reflect populates.
type BackendCompiler interface {
	// Reflect parses the SPIR-V module and returns its resources grouped by
	// kind (§4.5). For GL and METAL it additionally synthesizes the
	// module's combined image/samplers; for VULKAN CombinedImageSamplers is
	// always empty, since Vulkan keeps images and samplers separate.
	Reflect(spirv []uint32) (*ReflectedResources, error)

	// SetName renames the resource with the given SPIR-V id, used to
	// rename combined samplers to `<image>_<sampler>` (§4.7). A no-op for
	// the VULKAN backend, which emits SPIR-V verbatim (§9).
	SetName(id uint32, name string)

	// SetBinding rebinds the resource with the given SPIR-V id to
	// (set, slot), used for both ordinary remapping (§4.6) and
	// combined-sampler placement (§4.7). A no-op for the VULKAN backend.
	SetBinding(id uint32, set, slot int)

	// Compile produces the target-language source (GL, METAL) reflecting
	// any SetName/SetBinding calls made since Reflect. The VULKAN backend
	// implements this as a passthrough returning the SPIR-V word stream
	// unchanged; callers should prefer writing spirv directly for VULKAN
	// per §4.10 rather than relying on this path, but it is provided so
	// all three variants satisfy the same interface.
	Compile() ([]byte, error)

	// Close releases any resources held by the compiler instance.
	Close() error
}

// BackendCompilerFactory constructs a fresh BackendCompiler for one
// (target, spirv module) pair. The orchestrator calls it once per
// (technique, entry_point, target) triple (§4.10).
type BackendCompilerFactory func(target Target) (BackendCompiler, error)
