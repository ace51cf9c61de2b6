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
	"fmt"
	"os"
	"path/filepath"

	"goarrg.com/debug"
)

// Options configures one Run invocation (§4.10, §6.1).
type Options struct {
	InputPath     string
	OutDir        string
	Targets       []Target
	HeaderRelPath string
	Namespace     string

	FrontEnd       FrontEndCompiler
	NewBackend     BackendCompilerFactory
	IncludeSearch  []string
}

var logger = debug.NewLogger("ngfxc")

// Run implements the orchestrator pseudocode in §4.10: parse, compile every
// entry point once, then for each sorted target reflect/build-layout/
// translate/emit, writing the `.pipeline` artifact and header only on the
// first target.
func Run(opts Options) error {
	source, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return &IOError{Path: opts.InputPath, Err: err}
	}

	techniques, err := ParseTechniques(source)
	if err != nil {
		return err
	}
	if len(techniques) == 0 {
		return &InvalidTechniqueError{Line: 0, Msg: "no techniques found in " + opts.InputPath}
	}
	logger.IPrintf("parsed %d technique(s) from %s", len(techniques), opts.InputPath)

	includes := NewIncludeResolver(opts.IncludeSearch...)

	// spirv[technique][entryPoint] -> SPIR-V words, compiled once and reused
	// across every target (§4.10, §9 "Ownership of SPIR-V modules").
	spirv := make([]map[string][]uint32, len(techniques))
	for ti, tech := range techniques {
		spirv[ti] = make(map[string][]uint32, len(tech.EntryPoints))
		for _, ep := range tech.EntryPoints {
			logger.VPrintf("compiling %s:%s", tech.Name, ep.Name)
			words, err := opts.FrontEnd.Compile(CompileOptions{
				SourcePath: opts.InputPath,
				Source:     source,
				EntryPoint: ep.Name,
				Stage:      ep.Stage,
				Macros:     buildMacros(tech.Defines()),
				Includes:   includes,
			})
			if err != nil {
				return &FrontendError{Technique: tech.Name, EntryPoint: ep.Name, Diagnostic: err.Error()}
			}
			spirv[ti][ep.Name] = words
		}
	}

	sortedTargets := make([]Target, len(opts.Targets))
	copy(sortedTargets, opts.Targets)
	SortTargets(sortedTargets)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return &IOError{Path: opts.OutDir, Err: err}
	}

	var header *HeaderEmitter
	if opts.HeaderRelPath != "" {
		header = NewHeaderEmitter(opts.Namespace)
	}

	emitMetadata := true
	for _, target := range sortedTargets {
		logger.IPrintf("processing target %s", target.Name)
		for ti, tech := range techniques {
			layoutBuilder := NewLayoutBuilder(target.doRemapping())
			imageMap := &SeparateToCombinedMap{}
			samplerMap := &SeparateToCombinedMap{}
			synth := NewCombinedSamplerSynthesizer(layoutBuilder.Layout(), imageMap, samplerMap)

			translated := make(map[string][]byte, len(tech.EntryPoints))
			for _, ep := range tech.EntryPoints {
				backend, err := opts.NewBackend(target)
				if err != nil {
					return &BackendError{Target: target.Name, Technique: tech.Name, EntryPoint: ep.Name, Diagnostic: err.Error()}
				}

				words := spirv[ti][ep.Name]
				refl, err := backend.Reflect(words)
				if err != nil {
					backend.Close()
					return &BackendError{Target: target.Name, Technique: tech.Name, EntryPoint: ep.Name, Diagnostic: err.Error()}
				}

				if err := synth.Synthesize(refl, ep.Stage, backend); err != nil {
					backend.Close()
					return err
				}
				if target.API != TargetAPIVulkan || emitMetadata {
					if err := layoutBuilder.FeedReflection(refl, ep.Stage, backend); err != nil {
						backend.Close()
						return err
					}
				}

				if target.API == TargetAPIVulkan {
					translated[ep.Name] = spirvToBytes(words)
				} else {
					out, err := backend.Compile()
					if err != nil {
						backend.Close()
						return &BackendError{Target: target.Name, Technique: tech.Name, EntryPoint: ep.Name, Diagnostic: err.Error()}
					}
					translated[ep.Name] = out
				}
				backend.Close()
			}

			logger.VPrintf("%s/%s pipeline layout: %s", target.Name, tech.Name, prettyString(layoutBuilder.Layout()))
			logger.VPrintf("%s/%s image combine map: %s", target.Name, tech.Name, prettyString(imageMap))
			logger.VPrintf("%s/%s sampler combine map: %s", target.Name, tech.Name, prettyString(samplerMap))

			for _, ep := range tech.EntryPoints {
				outPath := filepath.Join(opts.OutDir, fmt.Sprintf("%s.%s.%s", tech.Name, ep.Stage, target.FileExt))
				if err := os.WriteFile(outPath, translated[ep.Name], 0o644); err != nil {
					return &IOError{Path: outPath, Err: err}
				}
			}

			if emitMetadata {
				pipelinePath := filepath.Join(opts.OutDir, tech.Name+".pipeline")
				f, err := os.Create(pipelinePath)
				if err != nil {
					return &IOError{Path: pipelinePath, Err: err}
				}
				writeErr := WritePipelineMetadata(f, layoutBuilder.Layout(), imageMap, samplerMap, tech.Metadata)
				closeErr := f.Close()
				if writeErr != nil {
					return &IOError{Path: pipelinePath, Err: writeErr}
				}
				if closeErr != nil {
					return &IOError{Path: pipelinePath, Err: closeErr}
				}
				if header != nil {
					header.AddTechnique(tech.Name, layoutBuilder.Layout())
				}
			}
		}
		emitMetadata = false
	}

	if header != nil {
		headerPath := filepath.Join(opts.OutDir, opts.HeaderRelPath)
		if err := os.MkdirAll(filepath.Dir(headerPath), 0o755); err != nil {
			return &IOError{Path: headerPath, Err: err}
		}
		f, err := os.Create(headerPath)
		if err != nil {
			return &IOError{Path: headerPath, Err: err}
		}
		writeErr := header.WriteTo(f)
		closeErr := f.Close()
		if writeErr != nil {
			return &IOError{Path: headerPath, Err: writeErr}
		}
		if closeErr != nil {
			return &IOError{Path: headerPath, Err: closeErr}
		}
	}

	return nil
}

// spirvToBytes renders a SPIR-V word stream as its raw little-endian byte
// encoding for the VULKAN output path (§6.3).
func spirvToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4+0] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}
