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

// NewBackendCompiler dispatches to the cgo-backed BackendCompiler for
// target's API: SPIRV-Reflect for VULKAN, SPIRV-Cross for GL and METAL
// (§9 "Polymorphism over back-ends").
func NewBackendCompiler(target Target) (BackendCompiler, error) {
	if target.API == TargetAPIVulkan {
		return newVulkanBackend(target)
	}
	return newSPIRVCrossBackend(target)
}
