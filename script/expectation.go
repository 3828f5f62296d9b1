// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

import "github.com/gogpu/amber/format"

// ProbeKind distinguishes a framebuffer pixel probe from an SSBO
// (buffer-contents) probe.
type ProbeKind uint8

const (
	// ProbeFramebuffer checks pixel values of a color attachment.
	ProbeFramebuffer ProbeKind = iota
	// ProbeSSBO checks raw bytes of a storage buffer.
	ProbeSSBO
)

// Comparator names the comparison operator an EXPECT directive applies.
type Comparator uint8

const (
	// CompEQRGB compares RGB components for equality (framebuffer probes).
	CompEQRGB Comparator = iota
	// CompEQRGBA compares RGBA components for equality (framebuffer probes).
	CompEQRGBA
	// CompEQ is numeric equality (SSBO probes).
	CompEQ
	// CompNE is numeric inequality (SSBO probes).
	CompNE
	// CompLT is numeric less-than (SSBO probes).
	CompLT
	// CompLE is numeric less-than-or-equal (SSBO probes).
	CompLE
	// CompGT is numeric greater-than (SSBO probes).
	CompGT
	// CompGE is numeric greater-than-or-equal (SSBO probes).
	CompGE
	// CompEQBuffer compares against another buffer's contents (SSBO probes).
	CompEQBuffer
	// CompRMSEBuffer compares root-mean-square error against another
	// buffer's contents (SSBO probes).
	CompRMSEBuffer
)

// Tolerance is an absolute or percent-of-full-scale fuzz applied to a
// framebuffer color comparison (1 value for EQ_RGB, 4 for EQ_RGBA).
type Tolerance struct {
	Value   float32
	Percent bool
}

// Probe is the body of an EXPECT directive: either a framebuffer pixel
// check or an SSBO contents check.
type Probe struct {
	Kind       ProbeKind
	Buffer     BufferHandle
	Comparator Comparator

	// Framebuffer probe fields.
	Rect          Rect
	HasSize       bool
	R, G, B, A    float32
	Tolerances    []Tolerance

	// SSBO probe fields.
	Offset uint64
	Values []format.DatumType
	Raw    []byte

	// CompEQBuffer / CompRMSEBuffer comparison target.
	CompareBuffer BufferHandle

	DeclLine int
}
