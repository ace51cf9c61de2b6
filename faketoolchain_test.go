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

import "encoding/binary"

// fakeFrontEnd is a FrontEndCompiler double that never touches a real
// HLSL->SPIR-V compiler: it just encodes the entry point name as a SPIR-V
// word stream so fakeBackend can recover it in Reflect, letting tests drive
// the layout/combined-sampler/serialization logic without cgo.
type fakeFrontEnd struct {
	failEntryPoint string
}

func encodeWords(s string) []uint32 {
	padded := s
	for len(padded)%4 != 0 {
		padded += "\x00"
	}
	words := make([]uint32, len(padded)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32([]byte(padded[i*4 : i*4+4]))
	}
	return words
}

func decodeWords(words []uint32) string {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	for len(buf) > 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}

func (f *fakeFrontEnd) Compile(opts CompileOptions) ([]uint32, error) {
	if opts.EntryPoint == f.failEntryPoint {
		return nil, &FrontendError{EntryPoint: opts.EntryPoint, Diagnostic: "injected failure"}
	}
	return encodeWords(opts.EntryPoint), nil
}

func (f *fakeFrontEnd) Close() error { return nil }

// fakeReflection maps an entry point name to the resources it should report
// when reflected, independent of target.
type fakeReflection map[string]ReflectedResources

// fakeBackend is a BackendCompiler double. It records SetName/SetBinding
// calls for GL and METAL targets so tests can assert rebinding occurred, and
// ignores them for VULKAN targets;
// its Compile output is a deterministic placeholder derived from the
// reflected entry point's name and the backend's target, so cross-target
// byte-identity assertions stay meaningful without real cross-compilation.
type fakeBackend struct {
	target     Target
	reflection fakeReflection
	lastName   string

	renamed  map[uint32]string
	rebound  map[uint32][2]int
}

func newFakeBackendFactory(reflection fakeReflection) BackendCompilerFactory {
	return func(target Target) (BackendCompiler, error) {
		return &fakeBackend{
			target:     target,
			reflection: reflection,
			renamed:    map[uint32]string{},
			rebound:    map[uint32][2]int{},
		}, nil
	}
}

func (b *fakeBackend) Reflect(spirv []uint32) (*ReflectedResources, error) {
	name := decodeWords(spirv)
	b.lastName = name
	refl, ok := b.reflection[name]
	if !ok {
		return &ReflectedResources{}, nil
	}

	clone := refl
	if b.target.API == TargetAPIVulkan {
		clone.CombinedImageSamplers = nil
	}
	return &clone, nil
}

func (b *fakeBackend) SetName(id uint32, name string) {
	if b.target.API == TargetAPIVulkan {
		return
	}
	b.renamed[id] = name
}

func (b *fakeBackend) SetBinding(id uint32, set, slot int) {
	if b.target.API == TargetAPIVulkan {
		return
	}
	b.rebound[id] = [2]int{set, slot}
}

func (b *fakeBackend) Compile() ([]byte, error) {
	return []byte("// " + b.target.Name + ":" + b.lastName + "\n"), nil
}

func (b *fakeBackend) Close() error { return nil }
