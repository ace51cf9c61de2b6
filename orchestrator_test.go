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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustTarget(t *testing.T, name string) Target {
	tg, ok := LookupTarget(name)
	if !ok {
		t.Fatalf("LookupTarget(%q) not found", name)
	}
	return tg
}

func writeSource(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// S1 - empty: input contains no //T: lines.
func TestOrchestratorEmptyInputFails(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "float4 main() : SV_Target { return 0; }\n")

	err := Run(Options{
		InputPath:  input,
		OutDir:     filepath.Join(dir, "out"),
		Targets:    []Target{mustTarget(t, "spv")},
		FrontEnd:   &fakeFrontEnd{},
		NewBackend: newFakeBackendFactory(nil),
	})
	if _, ok := err.(*InvalidTechniqueError); !ok {
		t.Fatalf("expected *InvalidTechniqueError, got %v", err)
	}
	if !strings.Contains(err.Error(), "techniques") {
		t.Fatalf("error %q does not mention techniques", err.Error())
	}
}

// S2 - single technique, VS+PS, one uniform buffer shared at (set=0,slot=0).
func TestOrchestratorSharedUBOMergesStageMask(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:vs:VSMain\n//T: entry_point:ps:PSMain\n")

	refl := fakeReflection{
		"VSMain": {UniformBuffers: []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}},
		"PSMain": {UniformBuffers: []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}},
	}

	outDir := filepath.Join(dir, "out")
	err := Run(Options{
		InputPath:  input,
		OutDir:     outDir,
		Targets:    []Target{mustTarget(t, "spv")},
		FrontEnd:   &fakeFrontEnd{},
		NewBackend: newFakeBackendFactory(refl),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "main.pipeline"))
	if err != nil {
		t.Fatalf("reading .pipeline: %v", err)
	}
	md, err := ReadPipelineMetadata(data)
	if err != nil {
		t.Fatalf("ReadPipelineMetadata: %v", err)
	}
	if len(md.Layout) != 1 || len(md.Layout[0]) != 1 {
		t.Fatalf("layout = %+v", md.Layout)
	}
	d := md.Layout[0][0]
	if d.StageMask != ShaderStageMaskVertex|ShaderStageMaskFragment {
		t.Fatalf("StageMask = %v, want VERTEX|FRAGMENT", d.StageMask)
	}
}

// S3 - remap to GL: a combined image/sampler pairing.
func TestOrchestratorCombinedSamplerToGL(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:ps:PSMain\n")

	refl := fakeReflection{
		"PSMain": {
			SeparateImages:   []ReflectedResource{{ID: 10, Name: "img", OriginalSet: 0, OriginalSlot: 0}},
			SeparateSamplers: []ReflectedResource{{ID: 20, Name: "smp", OriginalSet: 0, OriginalSlot: 1}},
			CombinedImageSamplers: []CombinedImageSampler{
				{ImageID: 10, SamplerID: 20, CombinedID: 99},
			},
		},
	}

	outDir := filepath.Join(dir, "out")
	err := Run(Options{
		InputPath:  input,
		OutDir:     outDir,
		Targets:    []Target{mustTarget(t, "gl430")},
		FrontEnd:   &fakeFrontEnd{},
		NewBackend: newFakeBackendFactory(refl),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "main.pipeline"))
	if err != nil {
		t.Fatalf("reading .pipeline: %v", err)
	}
	md, err := ReadPipelineMetadata(data)
	if err != nil {
		t.Fatalf("ReadPipelineMetadata: %v", err)
	}
	if len(md.ImageMap) != 1 || md.ImageMap[0].SeparateID != 10 || md.ImageMap[0].CombinedIDs[0] != 99 {
		t.Fatalf("ImageMap = %+v", md.ImageMap)
	}
	if len(md.SamplerMap) != 1 || md.SamplerMap[0].SeparateID != 20 || md.SamplerMap[0].CombinedIDs[0] != 99 {
		t.Fatalf("SamplerMap = %+v", md.SamplerMap)
	}
	found := false
	for _, set := range md.Layout {
		for _, d := range set {
			if d.Type == DescriptorTypeCombinedImageSampler && d.AssignedSlot == 0 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("no combined-sampler descriptor at slot 0 in layout: %+v", md.Layout)
	}
}

// S4 - multi-target parity: exactly one .pipeline written, byte-identical
// regardless of -t ordering.
func TestOrchestratorMultiTargetParity(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:ps:PSMain\n")

	refl := fakeReflection{
		"PSMain": {
			SeparateImages:   []ReflectedResource{{ID: 10, Name: "img", OriginalSet: 0, OriginalSlot: 0}},
			SeparateSamplers: []ReflectedResource{{ID: 20, Name: "smp", OriginalSet: 0, OriginalSlot: 1}},
			CombinedImageSamplers: []CombinedImageSampler{
				{ImageID: 10, SamplerID: 20, CombinedID: 99},
			},
		},
	}

	run := func(targets []Target) []byte {
		outDir := t.TempDir()
		err := Run(Options{
			InputPath:  input,
			OutDir:     outDir,
			Targets:    targets,
			FrontEnd:   &fakeFrontEnd{},
			NewBackend: newFakeBackendFactory(refl),
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		entries, err := os.ReadDir(outDir)
		if err != nil {
			t.Fatal(err)
		}
		var pipelineCount int
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".pipeline") {
				pipelineCount++
			}
		}
		if pipelineCount != 1 {
			t.Fatalf("got %d .pipeline files, want 1", pipelineCount)
		}
		data, err := os.ReadFile(filepath.Join(outDir, "main.pipeline"))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	a := run([]Target{mustTarget(t, "gl430"), mustTarget(t, "msl20"), mustTarget(t, "spv")})
	b := run([]Target{mustTarget(t, "spv"), mustTarget(t, "msl20"), mustTarget(t, "gl430")})
	if !bytes.Equal(a, b) {
		t.Fatalf(".pipeline differs by target order")
	}
}

// S5 - conflict: same slot used for UBO in VS and storage buffer in PS.
func TestOrchestratorLayoutConflictFails(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:vs:VSMain\n//T: entry_point:ps:PSMain\n")

	refl := fakeReflection{
		"VSMain": {UniformBuffers: []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}},
		"PSMain": {StorageBuffers: []ReflectedResource{{ID: 2, Name: "Particles", OriginalSet: 0, OriginalSlot: 0}}},
	}

	err := Run(Options{
		InputPath:  input,
		OutDir:     filepath.Join(dir, "out"),
		Targets:    []Target{mustTarget(t, "spv")},
		FrontEnd:   &fakeFrontEnd{},
		NewBackend: newFakeBackendFactory(refl),
	})
	if _, ok := err.(*LayoutConflictError); !ok {
		t.Fatalf("expected *LayoutConflictError, got %v", err)
	}
}

// S6 - header generation.
func TestOrchestratorHeaderGeneration(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:vs:VSMain\n")

	refl := fakeReflection{
		"VSMain": {UniformBuffers: []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}},
	}

	outDir := filepath.Join(dir, "out")
	err := Run(Options{
		InputPath:     input,
		OutDir:        outDir,
		Targets:       []Target{mustTarget(t, "spv")},
		HeaderRelPath: "bindings.h",
		Namespace:     "MYAPP",
		FrontEnd:      &fakeFrontEnd{},
		NewBackend:    newFakeBackendFactory(refl),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "bindings.h"))
	if err != nil {
		t.Fatalf("reading header: %v", err)
	}
	if !strings.Contains(string(data), "MYAPP_MAIN_GLOBALS_SET") {
		t.Fatalf("header missing expected define: %s", data)
	}
}

func TestOrchestratorNoHeaderWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:vs:VSMain\n")
	refl := fakeReflection{"VSMain": {}}

	outDir := filepath.Join(dir, "out")
	if err := Run(Options{
		InputPath:  input,
		OutDir:     outDir,
		Targets:    []Target{mustTarget(t, "spv")},
		FrontEnd:   &fakeFrontEnd{},
		NewBackend: newFakeBackendFactory(refl),
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "bindings.h")); !os.IsNotExist(err) {
		t.Fatalf("expected no header file, stat err = %v", err)
	}
}

func TestOrchestratorDeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "main.hlsl", "//T: name:main\n//T: entry_point:ps:PSMain\n")
	refl := fakeReflection{
		"PSMain": {UniformBuffers: []ReflectedResource{{ID: 1, Name: "Globals", OriginalSet: 0, OriginalSlot: 0}}},
	}

	run := func() []byte {
		outDir := t.TempDir()
		if err := Run(Options{
			InputPath:  input,
			OutDir:     outDir,
			Targets:    []Target{mustTarget(t, "gl430")},
			FrontEnd:   &fakeFrontEnd{},
			NewBackend: newFakeBackendFactory(refl),
		}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(outDir, "main.pipeline"))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	a := run()
	b := run()
	if !bytes.Equal(a, b) {
		t.Fatalf("two runs produced different .pipeline bytes")
	}
}
