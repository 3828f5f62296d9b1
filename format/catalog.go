// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package format

// Well-known image formats referenced directly by spec scenarios and the
// IMAGE FORMAT directive. These are constructed eagerly so callers can
// compare by value without round-tripping through ParseImageFormat.
var (
	R8G8B8A8UNorm   = mustFormat("R8G8B8A8_UNORM")
	B8G8R8A8UNorm   = mustFormat("B8G8R8A8_UNORM")
	R32G32B32A32SFloat = mustFormat("R32G32B32A32_SFLOAT")
	R32SFloat       = mustFormat("R32_SFLOAT")
	D32SFloat       = mustFormat("D32_SFLOAT")
	D32SFloatS8UInt = mustFormat("D32_SFLOAT_S8_UINT")
	D24UNormS8UInt  = mustFormat("D24_UNORM_S8_UINT")
)

func mustFormat(name string) Format {
	f, err := ParseImageFormat(name)
	if err != nil {
		panic("format: " + name + ": " + err.Error())
	}
	return f
}

// LookupImageFormat parses name through the catalog, returning the
// canonical Format value and ok=false for unrecognized spellings.
func LookupImageFormat(name string) (Format, bool) {
	f, err := ParseImageFormat(name)
	if err != nil {
		return Format{}, false
	}
	return f, true
}

// ScalarKindOf returns the ScalarKind by its AmberScript bareword spelling.
func ScalarKindOf(name string) (ScalarKind, bool) {
	k, ok := scalarNames[name]
	return k, ok
}
