//go:build !ngfxc_disable_shaderc
// +build !ngfxc_disable_shaderc

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
	#cgo pkg-config: shaderc

	#include <stdlib.h>
	#include <string.h>
	#include <shaderc/shaderc.h>

	extern shaderc_include_result* goIncludeResolve(void*, const char*, int, const char*, size_t);
	extern void goIncludeRelease(void*, shaderc_include_result*);
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"goarrg.com/debug"
)

//export goIncludeResolve
func goIncludeResolve(userdata unsafe.Pointer, requestedSource *C.char, includeType C.int, requestingSource *C.char, includeDepth C.size_t) *C.shaderc_include_result {
	f := cgo.Handle(uintptr(unsafe.Pointer(userdata))).Value().(*shadercFrontEnd)

	target := C.GoString(requestedSource)
	requester := C.GoString(requestingSource)
	angled := includeType == C.shaderc_include_type_standard

	data, canonical, err := f.includes.Resolve(requester, target, angled)
	result := (*C.shaderc_include_result)(C.malloc(C.sizeof_shaderc_include_result))
	if err != nil {
		msg := err.Error()
		result.source_name = nil
		result.source_name_length = 0
		result.content = C.CString(msg)
		result.content_length = C.size_t(len(msg))
		result.user_data = nil
		return result
	}

	cName := C.CString(canonical)
	cContent := C.CString(string(data))
	*result = C.shaderc_include_result{
		source_name:        cName,
		source_name_length: C.size_t(len(canonical)),
		content:            cContent,
		content_length:     C.size_t(len(data)),
	}
	return result
}

//export goIncludeRelease
func goIncludeRelease(userdata unsafe.Pointer, result *C.shaderc_include_result) {
	if result == nil {
		return
	}
	if result.source_name != nil {
		C.free(unsafe.Pointer(result.source_name))
	}
	if result.content != nil {
		C.free(unsafe.Pointer(result.content))
	}
	C.free(unsafe.Pointer(result))
}

// shadercFrontEnd implements FrontEndCompiler on top of shaderc's HLSL
// front-end, grounded on the shared compiler/compile-options handle pattern
// other cgo shaderc wrappers use.
type shadercFrontEnd struct {
	compiler C.shaderc_compiler_t
	opts     FrontEndOptions
	includes IncludeResolver
	handle   cgo.Handle
}

// NewFrontEndCompiler constructs the shaderc-backed FrontEndCompiler used
// by the CLI. Instances are scoped to one orchestrator run (§5).
func NewFrontEndCompiler(opts FrontEndOptions) FrontEndCompiler {
	f := &shadercFrontEnd{
		compiler: C.shaderc_compiler_initialize(),
		opts:     opts,
	}
	f.handle = cgo.NewHandle(f)
	return f
}

func shaderKindFor(stage ShaderStage) C.shaderc_shader_kind {
	switch stage {
	case ShaderStageVertex:
		return C.shaderc_vertex_shader
	case ShaderStageFragment:
		return C.shaderc_fragment_shader
	default:
		return C.shaderc_glsl_infer_from_source
	}
}

func (f *shadercFrontEnd) Compile(opts CompileOptions) ([]uint32, error) {
	f.includes = opts.Includes

	cOpts := C.shaderc_compile_options_initialize()
	defer C.shaderc_compile_options_release(cOpts)

	C.shaderc_compile_options_set_source_language(cOpts, C.shaderc_source_language_hlsl)
	C.shaderc_compile_options_set_auto_bind_uniforms(cOpts, 1)
	C.shaderc_compile_options_set_auto_map_locations(cOpts, 1)
	C.shaderc_compile_options_set_warnings_as_errors(cOpts)
	C.shaderc_compile_options_set_include_callbacks(
		cOpts,
		C.shaderc_include_resolve_fn(C.goIncludeResolve),
		C.shaderc_include_result_release_fn(C.goIncludeRelease),
		unsafe.Pointer(uintptr(f.handle)),
	)

	if !f.opts.Strip {
		C.shaderc_compile_options_set_generate_debug_info(cOpts)
	}
	switch {
	case f.opts.OptimizeSize:
		C.shaderc_compile_options_set_optimization_level(cOpts, C.shaderc_optimization_level_size)
	case f.opts.OptimizePerformance:
		C.shaderc_compile_options_set_optimization_level(cOpts, C.shaderc_optimization_level_performance)
	}

	for _, m := range f.opts.ExtraMacros {
		addMacro(cOpts, m)
	}
	for _, m := range opts.Macros {
		addMacro(cOpts, m)
	}

	cSource := C.CString(string(opts.Source))
	defer C.free(unsafe.Pointer(cSource))
	cFilename := C.CString(opts.SourcePath)
	defer C.free(unsafe.Pointer(cFilename))
	cEntry := C.CString(opts.EntryPoint)
	defer C.free(unsafe.Pointer(cEntry))

	result := C.shaderc_compile_into_spv(
		f.compiler,
		cSource,
		C.size_t(len(opts.Source)),
		shaderKindFor(opts.Stage),
		cFilename,
		cEntry,
		cOpts,
	)
	defer C.shaderc_result_release(result)

	if C.shaderc_result_get_compilation_status(result) != C.shaderc_compilation_status_success {
		return nil, debug.Errorf("%s", C.GoString(C.shaderc_result_get_error_message(result)))
	}

	length := C.shaderc_result_get_length(result)
	ptr := unsafe.Pointer(C.shaderc_result_get_bytes(result))
	words := make([]uint32, length/4)
	copy(words, unsafe.Slice((*uint32)(ptr), length/4))
	return words, nil
}

func addMacro(cOpts C.shaderc_compile_options_t, m CompileMacro) {
	cName := C.CString(m.Name)
	defer C.free(unsafe.Pointer(cName))
	cValue := C.CString(m.Value)
	defer C.free(unsafe.Pointer(cValue))
	C.shaderc_compile_options_add_macro_definition(cOpts, cName, C.size_t(len(m.Name)), cValue, C.size_t(len(m.Value)))
}

func (f *shadercFrontEnd) Close() error {
	f.handle.Delete()
	C.shaderc_compiler_release(f.compiler)
	return nil
}
