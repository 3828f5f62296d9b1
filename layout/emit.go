// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import "github.com/gogpu/amber/format"

// EmitArray packs a sequence of tightly-packed element byte values into
// a stride-padded byte buffer, one stride-sized slot per element. This
// is where a vec3 element under std140 gets its trailing scalar
// zero-filled: its tight encoding is 3 scalars wide but its stride (from
// ArrayElementStride) is rounded up to a 4-scalar, 16-byte slot, and the
// gap is left at its zero value.
//
// overrideStride, when non-zero, is an explicit ARRAY_STRIDE from the
// STRUCT directive; otherwise the stride is derived from d and lay.
func EmitArray(elements [][]byte, d format.DatumType, lay format.Layout, overrideStride uint32) []byte {
	stride := ArrayElementStride(d, lay, overrideStride)
	out := make([]byte, uint32(len(elements))*stride)
	for i, tight := range elements {
		//nolint:gosec // i is bounded by elements length, never near 2^32
		base := uint32(i) * stride
		copy(out[base:base+stride], tight)
	}
	return out
}

// EmitStruct packs one instance of Struct s's fields into a byte buffer
// sized by Compute(s, lay), placing each field's tightly-packed value at
// its computed offset and leaving any padding gaps zero.
func EmitStruct(s *Struct, lay format.Layout, fieldValues [][]byte) []byte {
	result := Compute(s, lay)
	out := make([]byte, result.Size)
	for i, fl := range result.Fields {
		if i >= len(fieldValues) {
			break
		}
		tight := fieldValues[i]
		n := fl.Size
		if uint32(len(tight)) < n {
			n = uint32(len(tight))
		}
		copy(out[fl.Offset:fl.Offset+n], tight)
	}
	return out
}
