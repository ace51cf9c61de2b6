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
	"strings"
	"testing"
)

func TestHeaderEmitterOneBlockPerTechnique(t *testing.T) {
	layout := buildSampleLayout()
	h := NewHeaderEmitter("MYAPP")
	h.AddTechnique("main", layout)

	var buf strings.Builder
	if err := h.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "#define MYAPP_MAIN_GLOBALS_SET 0") {
		t.Fatalf("missing Globals SET define, got:\n%s", out)
	}
	if !strings.Contains(out, "#define MYAPP_MAIN_GLOBALS_BINDING 0") {
		t.Fatalf("missing Globals BINDING define, got:\n%s", out)
	}
	if !strings.Contains(out, "#define MYAPP_MAIN_IMG_SET 1") {
		t.Fatalf("missing img SET define, got:\n%s", out)
	}
}

func TestHeaderEmitterMultipleTechniquesInCallOrder(t *testing.T) {
	h := NewHeaderEmitter("NS")
	h.AddTechnique("second", buildSampleLayout())
	h.AddTechnique("first", buildSampleLayout())

	var buf strings.Builder
	_ = h.WriteTo(&buf)
	out := buf.String()

	secondIdx := strings.Index(out, "NS_SECOND")
	firstIdx := strings.Index(out, "NS_FIRST")
	if secondIdx == -1 || firstIdx == -1 || secondIdx > firstIdx {
		t.Fatalf("blocks not in AddTechnique call order:\n%s", out)
	}
}

func TestHeaderEmitterEmptyWhenNoTechniques(t *testing.T) {
	h := NewHeaderEmitter("NS")
	var buf strings.Builder
	if err := h.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output, got %q", buf.String())
	}
}
