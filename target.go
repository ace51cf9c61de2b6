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

import "sort"

// TargetAPI identifies the shading language family a Target cross-compiles to.
type TargetAPI uint32

const (
	TargetAPIGL TargetAPI = iota
	TargetAPIVulkan
	TargetAPIMetal
)

func (a TargetAPI) String() string {
	switch a {
	case TargetAPIGL:
		return "GL"
	case TargetAPIVulkan:
		return "VULKAN"
	case TargetAPIMetal:
		return "METAL"
	default:
		return "UNKNOWN"
	}
}

// TargetPlatform narrows a TargetAPI to a device class.
type TargetPlatform uint32

const (
	TargetPlatformDesktop TargetPlatform = iota
	TargetPlatformMobile
)

func (p TargetPlatform) String() string {
	switch p {
	case TargetPlatformDesktop:
		return "DESKTOP"
	case TargetPlatformMobile:
		return "MOBILE"
	default:
		return "UNKNOWN"
	}
}

// Target is an immutable description of one supported back-end, as cataloged
// in targetCatalog.
type Target struct {
	Name         string
	API          TargetAPI
	Platform     TargetPlatform
	VersionMajor uint32
	VersionMinor uint32
	FileExt      string
}

// doRemapping reports whether this target requires fresh slot assignment
// (GL, METAL) as opposed to preserving the SPIR-V binding (VULKAN).
func (t Target) doRemapping() bool {
	return t.API != TargetAPIVulkan
}

// targetCatalog is the compile-time, process-wide, immutable table of
// supported back-ends. Grounded on the original source's TARGET_MAP.
var targetCatalog = []Target{
	{Name: "gl430", API: TargetAPIGL, Platform: TargetPlatformDesktop, VersionMajor: 4, VersionMinor: 3, FileExt: "glsl"},
	{Name: "gles310", API: TargetAPIGL, Platform: TargetPlatformMobile, VersionMajor: 3, VersionMinor: 1, FileExt: "glsl"},
	{Name: "gles300", API: TargetAPIGL, Platform: TargetPlatformMobile, VersionMajor: 3, VersionMinor: 0, FileExt: "glsl"},

	{Name: "msl10", API: TargetAPIMetal, Platform: TargetPlatformDesktop, VersionMajor: 1, VersionMinor: 0, FileExt: "metal"},
	{Name: "msl11", API: TargetAPIMetal, Platform: TargetPlatformDesktop, VersionMajor: 1, VersionMinor: 1, FileExt: "metal"},
	{Name: "msl12", API: TargetAPIMetal, Platform: TargetPlatformDesktop, VersionMajor: 1, VersionMinor: 2, FileExt: "metal"},
	{Name: "msl20", API: TargetAPIMetal, Platform: TargetPlatformDesktop, VersionMajor: 2, VersionMinor: 0, FileExt: "metal"},

	{Name: "msl10ios", API: TargetAPIMetal, Platform: TargetPlatformMobile, VersionMajor: 1, VersionMinor: 0, FileExt: "metal"},
	{Name: "msl11ios", API: TargetAPIMetal, Platform: TargetPlatformMobile, VersionMajor: 1, VersionMinor: 1, FileExt: "metal"},
	{Name: "msl12ios", API: TargetAPIMetal, Platform: TargetPlatformMobile, VersionMajor: 1, VersionMinor: 2, FileExt: "metal"},
	{Name: "msl20ios", API: TargetAPIMetal, Platform: TargetPlatformMobile, VersionMajor: 2, VersionMinor: 0, FileExt: "metal"},

	{Name: "spv", API: TargetAPIVulkan, Platform: TargetPlatformDesktop, VersionMajor: 1, VersionMinor: 0, FileExt: "spv"},
}

// LookupTarget finds a Target in the catalog by its exact name, e.g. "gl430".
func LookupTarget(name string) (Target, bool) {
	for _, t := range targetCatalog {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// SortTargets orders targets by API first (per spec.md §4.1), then by
// platform/version so that any two targets sharing an API are still ordered
// deterministically regardless of the order -t was given on the command line.
func SortTargets(targets []Target) {
	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if a.API != b.API {
			return a.API < b.API
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		if a.VersionMajor != b.VersionMajor {
			return a.VersionMajor < b.VersionMajor
		}
		return a.VersionMinor < b.VersionMinor
	})
}
