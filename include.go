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
	"os"
	"path/filepath"
)

// IncludeResolver resolves `#include` directives encountered by the
// front-end compiler while parsing the technique source (§4.3).
type IncludeResolver interface {
	// Resolve returns the contents of the requested include target plus a
	// canonical path suitable for diagnostics. requestingFile is the
	// absolute path of the file containing the #include. angled is true
	// for `#include <...>`, false for `#include "..."`.
	Resolve(requestingFile, target string, angled bool) (contents []byte, canonicalPath string, err error)
}

// fileIncludeResolver is the default IncludeResolver: quoted includes
// resolve relative to the including file's directory, angled includes
// against searchPaths (empty by default, per §4.3).
type fileIncludeResolver struct {
	searchPaths []string
}

// NewIncludeResolver builds the default filesystem-backed IncludeResolver.
// searchPaths is consulted, in order, for angle-bracket includes.
func NewIncludeResolver(searchPaths ...string) IncludeResolver {
	return &fileIncludeResolver{searchPaths: searchPaths}
}

func (r *fileIncludeResolver) Resolve(requestingFile, target string, angled bool) ([]byte, string, error) {
	var candidates []string
	if angled {
		for _, dir := range r.searchPaths {
			candidates = append(candidates, filepath.Join(dir, target))
		}
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(requestingFile), target))
		for _, dir := range r.searchPaths {
			candidates = append(candidates, filepath.Join(dir, target))
		}
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			canonical, err := filepath.Abs(candidate)
			if err != nil {
				canonical = candidate
			}
			return data, canonical, nil
		}
	}
	return nil, "", &IncludeNotFoundError{Target: target}
}
