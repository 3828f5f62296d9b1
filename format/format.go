// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package format

import (
	"fmt"
	"strings"
)

// Layout selects a memory-layout rule for a structured buffer's container
// sizing. It affects only container sizing (array/struct alignment
// rounding), never per-element interpretation.
type Layout uint8

const (
	// Std430 is the tightly-packed GLSL/Vulkan storage-buffer layout.
	Std430 Layout = iota
	// Std140 is the uniform-buffer layout, which rounds array/struct
	// alignment up to 16 bytes.
	Std140
)

// String renders the layout as its AmberScript directive spelling.
func (l Layout) String() string {
	if l == Std140 {
		return "std140"
	}
	return "std430"
}

// ComponentMode is the numeric interpretation of an image format's
// components (Vulkan-style format suffix).
type ComponentMode uint8

const (
	// ModeUNorm interprets bits as an unsigned normalized value in [0,1].
	ModeUNorm ComponentMode = iota
	// ModeSNorm interprets bits as a signed normalized value in [-1,1].
	ModeSNorm
	// ModeUScaled interprets bits as an unsigned integer, scaled.
	ModeUScaled
	// ModeSScaled interprets bits as a signed integer, scaled.
	ModeSScaled
	// ModeUInt interprets bits as an unsigned integer.
	ModeUInt
	// ModeSInt interprets bits as a signed integer.
	ModeSInt
	// ModeSFloat interprets bits as a signed floating-point value.
	ModeSFloat
	// ModeSRGB interprets bits as sRGB-encoded unsigned normalized.
	ModeSRGB
)

var modeNames = map[string]ComponentMode{
	"UNORM":   ModeUNorm,
	"SNORM":   ModeSNorm,
	"USCALED": ModeUScaled,
	"SSCALED": ModeSScaled,
	"UINT":    ModeUInt,
	"SINT":    ModeSInt,
	"SFLOAT":  ModeSFloat,
	"SRGB":    ModeSRGB,
}

// Segment is one named, sized component of an image format, e.g. the "R8"
// in "R8G8B8A8_UNORM".
type Segment struct {
	// Component is the component letter: 'R', 'G', 'B', 'A', 'D' (depth),
	// or 'S' (stencil).
	Component byte
	// Bits is the bit width of this component.
	Bits int
	// Mode is the numeric interpretation applying to this component.
	Mode ComponentMode
}

// Format wraps a DatumType with a Layout and, for image formats, the
// ordered list of component Segments that make up one texel.
type Format struct {
	// Name is the catalog spelling, e.g. "R8G8B8A8_UNORM".
	Name string
	// Datum is the scalar/vector element type backing this format, used
	// for buffer (non-image) formats and by the layout engine.
	Datum DatumType
	// Layout is the container-sizing rule (meaningless for plain image
	// formats, relevant when a buffer with this format is DATA-filled as
	// a structured buffer).
	Layout Layout
	// Segments describes the per-component bit layout for image formats.
	// Empty for plain scalar/vector/matrix buffer formats.
	Segments []Segment
}

// FromDatumType builds a Format around a scalar/vector/matrix DatumType
// for a BUFFER's DATA_TYPE directive, with no image Segments.
func FromDatumType(d DatumType, lay Layout) Format {
	return Format{Name: d.String(), Datum: d, Layout: lay}
}

// BytesPerElement returns the total byte size of one texel/element,
// summing Segment bit widths (rounded up to whole bytes) when Segments is
// populated, or the DatumType's size otherwise.
func (f Format) BytesPerElement() int {
	if len(f.Segments) == 0 {
		return f.Datum.SizeInBytes()
	}
	bits := 0
	for _, seg := range f.Segments {
		bits += seg.Bits
	}
	return (bits + 7) / 8
}

// ParseImageFormat parses a Vulkan-style image/buffer format spelling such
// as "R8G8B8A8_UNORM", "B8G8R8_UNORM", "R32G32B32A32_SFLOAT", or the
// combined depth-stencil spelling "D32_SFLOAT_S8_UINT".
//
// The grammar is a sequence of (component-letter, bit-width) pairs,
// interspersed with "_MODE" suffixes; a mode suffix applies to every
// segment accumulated since the previous mode (or the start of the
// string), which is what lets "D32_SFLOAT_S8_UINT" assign SFLOAT to the
// depth segment and UINT to the stencil segment independently.
func ParseImageFormat(s string) (Format, error) {
	var segments []Segment
	pending := 0 // index into segments where the next mode suffix should start applying

	i := 0
	for i < len(s) {
		if s[i] == '_' {
			i++
			continue
		}

		if isComponentStart(s, i) {
			comp := s[i]
			i++
			start := i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			bits := 0
			for _, c := range s[start:i] {
				bits = bits*10 + int(c-'0')
			}
			segments = append(segments, Segment{Component: comp, Bits: bits})
			continue
		}

		start := i
		for i < len(s) && s[i] != '_' {
			i++
		}
		mode, ok := modeNames[s[start:i]]
		if !ok {
			return Format{}, fmt.Errorf("invalid BUFFER FORMAT")
		}
		for ; pending < len(segments); pending++ {
			segments[pending].Mode = mode
		}
	}
	if len(segments) == 0 || pending != len(segments) {
		return Format{}, fmt.Errorf("invalid BUFFER FORMAT")
	}

	datum, err := segmentsToDatum(segments)
	if err != nil {
		return Format{}, err
	}

	return Format{Name: s, Datum: datum, Segments: segments}, nil
}

// isComponentStart reports whether s[i:] begins a component-letter run
// (a component letter immediately followed by a digit), distinguishing
// e.g. the "S8" component in "D32_SFLOAT_S8_UINT" from the "SFLOAT" and
// "UINT" mode names either side of it.
func isComponentStart(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case 'R', 'G', 'B', 'A', 'D', 'S':
		return i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9'
	default:
		return false
	}
}

func segmentsToDatum(segments []Segment) (DatumType, error) {
	if len(segments) == 0 {
		return DatumType{}, fmt.Errorf("invalid BUFFER FORMAT")
	}
	kind, err := modeToScalarKind(segments[0].Mode, segments[0].Bits)
	if err != nil {
		return DatumType{}, err
	}
	return DatumType{Kind: kind, Rows: len(segments), Cols: 1}, nil
}

func modeToScalarKind(mode ComponentMode, bits int) (ScalarKind, error) {
	switch mode {
	case ModeSFloat:
		switch bits {
		case 16:
			return Float16, nil
		case 32:
			return Float32, nil
		case 64:
			return Float64, nil
		}
	case ModeSInt, ModeSScaled, ModeSNorm:
		switch bits {
		case 8:
			return Int8, nil
		case 16:
			return Int16, nil
		case 32:
			return Int32, nil
		case 64:
			return Int64, nil
		}
	default: // UNorm, UScaled, UInt, SRGB
		switch bits {
		case 8:
			return Uint8, nil
		case 16:
			return Uint16, nil
		case 24, 32: // a 24-bit component (D24) is held in a 32-bit word
			return Uint32, nil
		case 64:
			return Uint64, nil
		}
	}
	return 0, fmt.Errorf("invalid BUFFER FORMAT")
}

// IsDepthStencil reports whether the format carries both a 'D' and an 'S'
// segment.
func (f Format) IsDepthStencil() bool {
	hasD, hasS := false, false
	for _, seg := range f.Segments {
		hasD = hasD || seg.Component == 'D'
		hasS = hasS || seg.Component == 'S'
	}
	return hasD && hasS
}

// String renders the catalog name.
func (f Format) String() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Datum.String()
}

// Normalize trims surrounding whitespace from a format spelling, guarding
// against a badly-terminated token. Letter case is left unchanged.
func Normalize(s string) string { return strings.TrimSpace(s) }
