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
	"io"
	"strings"
)

// HeaderEmitter accumulates `#define` blocks across techniques and writes
// them out once, independent of target count (§4.9).
type HeaderEmitter struct {
	Namespace string
	blocks    []string
}

// NewHeaderEmitter returns an emitter that prefixes every identifier with
// namespace.
func NewHeaderEmitter(namespace string) *HeaderEmitter {
	return &HeaderEmitter{Namespace: namespace}
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.ToUpper(b.String())
}

// AddTechnique appends one technique's descriptor blocks, using resources
// in the order they appear in the pipeline layout's non-empty sets.
func (h *HeaderEmitter) AddTechnique(techniqueName string, layout *PipelineLayout) {
	var b strings.Builder
	for _, setIdx := range layout.SetIndices() {
		dsl := layout.SetAt(setIdx)
		for _, d := range dsl.Descriptors() {
			prefix := fmt.Sprintf("%s_%s_%s", sanitizeIdent(h.Namespace), sanitizeIdent(techniqueName), sanitizeIdent(d.Name))
			fmt.Fprintf(&b, "#define %s_SET %d\n", prefix, setIdx)
			fmt.Fprintf(&b, "#define %s_BINDING %d\n", prefix, d.AssignedSlot)
		}
	}
	h.blocks = append(h.blocks, b.String())
}

// WriteTo writes every accumulated technique block, in the order
// AddTechnique was called, to w.
func (h *HeaderEmitter) WriteTo(w io.Writer) error {
	for _, block := range h.blocks {
		if _, err := io.WriteString(w, block); err != nil {
			return err
		}
	}
	return nil
}
