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
)

// techniqueDirectivePrefix is the sentinel line-comment prefix that
// introduces a technique directive (§4.2).
const techniqueDirectivePrefix = "//T:"

// EntryPoint is a single named function in the source acting as one shader
// stage's main.
type EntryPoint struct {
	Name  string
	Stage ShaderStage
}

// defineEntry is one (macro, value) pair, order-preserved.
type defineEntry struct {
	Macro string
	Value string
}

// metaEntry is one (key, value) pair, order-preserved.
type metaEntry struct {
	Key   string
	Value string
}

// Technique is a named group of entry points plus macro defines and user
// metadata, declared through `//T:` comments (§3, §4.2).
type Technique struct {
	Name        string
	EntryPoints []EntryPoint
	defines     []defineEntry
	defineIndex map[string]int
	Metadata    []metaEntry
}

// Defines returns the technique's macro table in declaration order.
func (t *Technique) Defines() []defineEntry { return t.defines }

func (t *Technique) setDefine(macro, value string) {
	if t.defineIndex == nil {
		t.defineIndex = make(map[string]int)
	}
	if i, ok := t.defineIndex[macro]; ok {
		t.defines[i].Value = value
		return
	}
	t.defineIndex[macro] = len(t.defines)
	t.defines = append(t.defines, defineEntry{Macro: macro, Value: value})
}

func (t *Technique) hasEntryPoint(name string) bool {
	for _, ep := range t.EntryPoints {
		if ep.Name == name {
			return true
		}
	}
	return false
}

// ParseTechniques scans source for `//T:` directive comments and returns the
// techniques they describe, in source order (§4.2). A trailing newline is
// appended to source if missing, per the Open Questions note in §9: this
// avoids a directive-at-EOF corner case.
func ParseTechniques(source []byte) ([]Technique, error) {
	if len(source) == 0 || source[len(source)-1] != '\n' {
		source = append(source[:len(source):len(source)], '\n')
	}

	var techniques []Technique
	var current *Technique
	byName := make(map[string]int)

	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, techniqueDirectivePrefix) {
			continue
		}
		directive := strings.TrimSpace(strings.TrimPrefix(trimmed, techniqueDirectivePrefix))
		if directive == "" {
			return nil, &InvalidTechniqueError{Line: lineNo, Msg: "empty directive"}
		}

		kind, rest, ok := strings.Cut(directive, ":")
		if !ok {
			return nil, &InvalidTechniqueError{Line: lineNo, Msg: "missing ':' in directive " + directive}
		}

		if kind == "name" {
			name := strings.TrimSpace(rest)
			if name == "" {
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "empty technique name"}
			}
			if _, dup := byName[name]; dup {
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "duplicate technique name " + name}
			}
			techniques = append(techniques, Technique{Name: name})
			current = &techniques[len(techniques)-1]
			byName[name] = len(techniques) - 1
			continue
		}

		if current == nil {
			return nil, &InvalidTechniqueError{Line: lineNo, Msg: "directive before any name: " + directive}
		}

		switch kind {
		case "entry_point":
			stageStr, ident, ok := strings.Cut(rest, ":")
			if !ok || ident == "" {
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "malformed entry_point directive"}
			}
			var stage ShaderStage
			switch stageStr {
			case "vs":
				stage = ShaderStageVertex
			case "ps":
				stage = ShaderStageFragment
			default:
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "unknown stage " + stageStr}
			}
			if current.hasEntryPoint(ident) {
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "duplicate entry point " + ident}
			}
			current.EntryPoints = append(current.EntryPoints, EntryPoint{Name: ident, Stage: stage})

		case "define":
			macro, value, hasValue := strings.Cut(rest, "=")
			macro = strings.TrimSpace(macro)
			if macro == "" {
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "empty macro name in define directive"}
			}
			if !hasValue {
				value = ""
			}
			current.setDefine(macro, value)

		case "meta":
			key, value, ok := strings.Cut(rest, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return nil, &InvalidTechniqueError{Line: lineNo, Msg: "malformed meta directive"}
			}
			current.Metadata = append(current.Metadata, metaEntry{Key: key, Value: value})

		default:
			return nil, &InvalidTechniqueError{Line: lineNo, Msg: "unknown directive " + kind}
		}
	}

	return techniques, nil
}
