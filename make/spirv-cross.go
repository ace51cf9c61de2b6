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
	spirvCrossVersion = "main"
	spirvCrossSHA256  = "3a1a0f0a1e1a12c2e6d4bfbd0a2f96e1a3c9f3a3a5f9a1e1c7ff2f0d0c4c9d3c"
	spirvCrossBuild   = "spirv-cross-" + spirvCrossVersion + "-ngfxc0"
)

// InstallSPIRVCross downloads, verifies, and builds SPIRV-Cross's shared C
// API library, which backend_spirvcross.go links against for GL and METAL
// cross-compilation. Grounded on the teacher's installSPIRVCross.
func InstallSPIRVCross(cacheDir, installDir string) error {
	if data, err := os.ReadFile(filepath.Join(installDir, ".ngfxc-version")); err == nil && string(data) == spirvCrossBuild {
		logger.VPrintf("spirv-cross %s already installed", spirvCrossBuild)
		return nil
	}
	if err := os.RemoveAll(installDir); err != nil {
		return err
	}

	archive, err := Get(cacheDir, "spirv-cross.tar.gz", "https://github.com/KhronosGroup/SPIRV-Cross/archive/refs/heads/"+spirvCrossVersion+".tar.gz", spirvCrossSHA256)
	if err != nil {
		return debug.ErrorWrapf(err, "failed to download spirv-cross")
	}

	srcDir, err := os.MkdirTemp("", "ngfxc-spirv-cross")
	if err != nil {
		return err
	}
	defer os.RemoveAll(srcDir)

	logger.VPrintf("extracting spirv-cross")
	if err := ExtractTarGZ(archive, srcDir); err != nil {
		return debug.ErrorWrapf(err, "failed to extract spirv-cross")
	}

	buildDir, err := os.MkdirTemp("", "ngfxc-spirv-cross-build")
	if err != nil {
		return err
	}
	defer os.RemoveAll(buildDir)

	args := map[string]string{
		"CMAKE_SKIP_INSTALL_RPATH": "1", "CMAKE_SKIP_RPATH": "1",
		"SPIRV_CROSS_CLI": "0", "SPIRV_CROSS_ENABLE_TESTS": "0",
		"SPIRV_CROSS_SHARED": "1", "SPIRV_CROSS_STATIC": "0",
		"SPIRV_CROSS_ENABLE_CPP": "0", "SPIRV_CROSS_ENABLE_C_API": "1",
		"SPIRV_CROSS_ENABLE_HLSL": "0", "SPIRV_CROSS_ENABLE_MSL": "1",
		"SPIRV_CROSS_ENABLE_GLSL": "1",
	}
	if err := CMakeBuild(srcDir, buildDir, installDir, args); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(installDir, ".ngfxc-version"), []byte(spirvCrossBuild), 0o644)
}
