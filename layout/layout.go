// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package layout computes std140/std430 memory layout — sizes,
// alignments, and byte offsets — for the structured buffers and
// vector/matrix rows an AmberScript DATA block initializes.
//
// It depends only on package format, not on package script, so the
// amberscript parser converts a script.StructType into a layout.Struct
// at the point it needs sizing, keeping the layout rules reusable and
// independently testable.
package layout

import "github.com/gogpu/amber/format"

// roundUp16 rounds n up to the next multiple of 16, the std140 array/
// struct alignment floor.
func roundUp16(n uint32) uint32 {
	if rem := n % 16; rem != 0 {
		return n + (16 - rem)
	}
	return n
}

// ScalarAlignment returns a scalar's self-alignment: its width in bytes.
func ScalarAlignment(d format.DatumType) uint32 {
	//nolint:gosec // element widths are tiny, 1-8
	return uint32(d.ElementWidth())
}

// BaseAlignment returns the base alignment of a scalar or vector
// DatumType under the std140/std430 vector rule: scalar alignment is
// its width; vec2 is 2x that; vec3/vec4 is 4x that.
// Matrices use the alignment of one column vector (Rows-tall).
func BaseAlignment(d format.DatumType) uint32 {
	width := ScalarAlignment(d)
	rows := d.Rows
	if rows <= 1 {
		return width
	}
	if rows == 2 {
		return 2 * width
	}
	return 4 * width
}

// ArrayElementStride returns the byte stride between successive elements
// of an array of d under the given Layout, honoring an explicit
// ARRAY_STRIDE override when non-zero. Under std140, array element
// stride is the base alignment rounded up to 16 bytes; under std430, it
// is the base alignment unrounded.
func ArrayElementStride(d format.DatumType, lay format.Layout, override uint32) uint32 {
	if override != 0 {
		return override
	}
	base := BaseAlignment(d)
	if lay == format.Std140 {
		return roundUp16(base)
	}
	return base
}

// MatrixColumnStride returns the byte stride between successive columns
// of a matrix DatumType, honoring an explicit MATRIX_STRIDE override.
// Columns are laid out using the vector rule for a column of Rows
// scalars, and under std140 are additionally rounded up to 16 bytes —
// matrices are arrays of column vectors.
func MatrixColumnStride(d format.DatumType, lay format.Layout, override uint32) uint32 {
	if override != 0 {
		return override
	}
	col := format.DatumType{Kind: d.Kind, Rows: d.Rows, Cols: 1}
	return ArrayElementStride(col, lay, 0)
}

// Field is one member of a Struct to be laid out: a scalar/vector/
// matrix DatumType, or a nested Struct, optionally repeated as an array,
// with optional explicit overrides mirroring the STRUCT directive's
// OFFSET/ARRAY_STRIDE/MATRIX_STRIDE suffixes.
type Field struct {
	Name   string
	Datum  format.DatumType
	Nested *Struct

	// ArrayLength > 0 marks the field as an array of Datum/Nested.
	ArrayLength int

	Offset          uint32
	HasOffset       bool
	ArrayStride     uint32
	HasArrayStride  bool
	MatrixStride    uint32
	HasMatrixStride bool
}

// Struct is a STRUCT directive's body, ready for layout computation.
type Struct struct {
	Name      string
	Fields    []Field
	Stride    uint32
	HasStride bool
}

// FieldLayout is one Field's computed placement.
type FieldLayout struct {
	Offset uint32
	Size   uint32
}

// Result is a Struct's computed layout: each field's offset/size plus
// the struct's own total size and base alignment.
type Result struct {
	Fields    []FieldLayout
	Size      uint32
	Alignment uint32
}

// alignUp rounds offset up to the next multiple of alignment.
func alignUp(offset, alignment uint32) uint32 {
	if alignment == 0 {
		return offset
	}
	if rem := offset % alignment; rem != 0 {
		return offset + (alignment - rem)
	}
	return offset
}

// Compute lays out s under the given Layout, returning each field's
// offset and size, and the struct's own total size (the greatest member
// end rounded up to the struct's alignment, or the explicit Stride
// override when set).
func Compute(s *Struct, lay format.Layout) Result {
	var res Result
	offset := uint32(0)
	structAlignment := uint32(0)

	for _, f := range s.Fields {
		falign, fsize := fieldAlignAndSize(f, lay)
		if structAlignment < falign {
			structAlignment = falign
		}

		fieldOffset := alignUp(offset, falign)
		if f.HasOffset {
			fieldOffset = f.Offset
		}
		res.Fields = append(res.Fields, FieldLayout{Offset: fieldOffset, Size: fsize})
		offset = fieldOffset + fsize
	}

	if structAlignment == 0 {
		structAlignment = 1
	}
	if lay == format.Std140 {
		structAlignment = roundUp16(structAlignment)
	}

	total := alignUp(offset, structAlignment)
	if s.HasStride {
		total = s.Stride
	}

	res.Size = total
	res.Alignment = structAlignment
	return res
}

// fieldAlignAndSize computes one field's (alignment, size) pair,
// recursing for nested structs and expanding arrays by their element
// stride.
func fieldAlignAndSize(f Field, lay format.Layout) (uint32, uint32) {
	var align, elemSize uint32

	switch {
	case f.Nested != nil:
		nested := Compute(f.Nested, lay)
		align, elemSize = nested.Alignment, nested.Size
	case f.Datum.IsMatrix():
		stride := MatrixColumnStride(f.Datum, lay, f.MatrixStride)
		align = stride
		//nolint:gosec // matrix column counts are 2-4
		elemSize = stride * uint32(f.Datum.Cols)
	default:
		align = BaseAlignment(f.Datum)
		//nolint:gosec // element widths/row counts are tiny
		elemSize = uint32(f.Datum.SizeInBytes())
	}

	if f.ArrayLength > 0 {
		stride := f.ArrayStride
		if !f.HasArrayStride {
			if f.Nested != nil {
				stride = elemSize
				if lay == format.Std140 {
					stride = roundUp16(stride)
				}
			} else {
				stride = ArrayElementStride(f.Datum, lay, 0)
			}
		}
		//nolint:gosec // array lengths are script-declared, small
		return stride, stride * uint32(f.ArrayLength)
	}

	return align, elemSize
}
