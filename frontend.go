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

// CompileMacro is one preprocessor macro definition passed to the front-end
// compiler, order-preserved (§4.4).
type CompileMacro struct {
	Name  string
	Value string
}

// CompileOptions is the full set of inputs for a single (technique,
// entry_point) front-end compilation (§4.4).
type CompileOptions struct {
	// SourcePath is the absolute path of the HLSL file being compiled, used
	// as the base for relative #include resolution.
	SourcePath string
	Source     []byte
	EntryPoint string
	Stage      ShaderStage
	Macros     []CompileMacro
	Includes   IncludeResolver
}

// forceColumnMajorMacro documents an HLSL matrix-layout convention the core
// relies on; applied unconditionally to every compilation (§4.4).
var forceColumnMajorMacro = CompileMacro{Name: "force_column_major", Value: "row_major"}

// FrontEndOptions configures a FrontEndCompiler instance for the
// orchestrator's whole run (§5 "scoped to the orchestrator's lifetime").
type FrontEndOptions struct {
	Strip               bool
	OptimizePerformance bool
	OptimizeSize        bool
	// ExtraMacros are applied to every compilation before any
	// technique-level define: directive, so techniques can override them.
	ExtraMacros []CompileMacro
}

// FrontEndCompiler wraps the HLSL->SPIR-V compiler (§4.4). It is an external
// collaborator: this package pins down only the interface.
type FrontEndCompiler interface {
	// Compile translates one entry point to a SPIR-V module, an ordered
	// sequence of 32-bit words. Diagnostics on failure should be wrapped in
	// a *FrontendError by the caller.
	Compile(opts CompileOptions) ([]uint32, error)

	// Close releases any resources held by the compiler instance. Front-end
	// instances are scoped to the orchestrator's lifetime (§5).
	Close() error
}

// buildMacros returns the macro list passed to the front-end: the
// technique's own defines, in declaration order, followed by the
// unconditional force_column_major macro (§4.4).
func buildMacros(defines []defineEntry) []CompileMacro {
	macros := make([]CompileMacro, 0, len(defines)+1)
	for _, d := range defines {
		macros = append(macros, CompileMacro{Name: d.Macro, Value: d.Value})
	}
	macros = append(macros, forceColumnMajorMacro)
	return macros
}
