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
	"encoding/json"
	"strings"

	"goarrg.com/debug"
)

// jsonString marshals target compactly. A marshal error is reported via
// debug.EPrintf and yields "". Grounded on the teacher's util.go jsonString.
func jsonString(target any) string {
	bytes, err := json.Marshal(target)
	if err != nil {
		debug.EPrintf("%s", err)
		return ""
	}
	return strings.TrimSpace(string(bytes))
}

// prettyString marshals target with indentation, for -vv diagnostic dumps.
// Grounded on the teacher's util.go prettyString.
func prettyString(target json.Marshaler) string {
	bytes, err := json.MarshalIndent(target, "", "    ")
	if err != nil {
		debug.EPrintf("%s", err)
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
