// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"fmt"

	"github.com/gogpu/amber/format"
	layoutpkg "github.com/gogpu/amber/layout"
	"github.com/gogpu/amber/script"
)

// roundUp16 mirrors the std140 array/struct alignment floor (spec
// §4.D), needed here (in addition to package layout's own private copy)
// for the nested-struct-array stride the parser computes while
// consuming DATA tokens ahead of calling layout.EmitStruct.
func roundUp16(n uint32) uint32 {
	if rem := n % 16; rem != 0 {
		return n + (16 - rem)
	}
	return n
}

// layoutStructOf converts a script.StructType into a layout.Struct,
// resolving Nested members recursively so package layout never needs to
// know about package script.
func (p *Parser) layoutStructOf(st *script.StructType) (*layoutpkg.Struct, error) {
	ls := &layoutpkg.Struct{Name: st.Name, Stride: st.Stride, HasStride: st.HasStride}
	for _, m := range st.Members {
		f := layoutpkg.Field{
			Name:            m.Name,
			ArrayLength:     m.ArrayLength,
			Offset:          m.Offset,
			HasOffset:       m.HasOffset,
			ArrayStride:     m.ArrayStride,
			HasArrayStride:  m.HasArrayStride,
			MatrixStride:    m.MatrixStride,
			HasMatrixStride: m.HasMatrixStride,
		}
		if m.IsNested {
			nested, ok := p.script.Structs.Get(m.Nested)
			if !ok {
				return nil, fmt.Errorf("undefined nested struct")
			}
			nl, err := p.layoutStructOf(&nested)
			if err != nil {
				return nil, err
			}
			f.Nested = nl
		} else {
			f.Datum = m.Datum
		}
		ls.Fields = append(ls.Fields, f)
	}
	return ls, nil
}

// consumeStructInstance reads one struct instance's worth of DATA
// tokens and emits its padded byte representation under lay.
func (p *Parser) consumeStructInstance(st *script.StructType, lay format.Layout) ([]byte, error) {
	ls, err := p.layoutStructOf(st)
	if err != nil {
		return nil, err
	}
	fieldValues := make([][]byte, len(st.Members))
	for i, m := range st.Members {
		b, err := p.consumeMemberValue(m, lay)
		if err != nil {
			return nil, err
		}
		fieldValues[i] = b
	}
	return layoutpkg.EmitStruct(ls, lay, fieldValues), nil
}

// consumeMemberValue reads one Member's worth of DATA tokens (possibly
// an array, possibly a nested struct) and returns its tight-or-padded
// byte value ready to hand to layout.EmitStruct for this field's slot.
func (p *Parser) consumeMemberValue(m script.Member, lay format.Layout) ([]byte, error) {
	if m.IsNested {
		nested, ok := p.script.Structs.Get(m.Nested)
		if !ok {
			return nil, fmt.Errorf("undefined nested struct")
		}
		if m.ArrayLength > 0 {
			ls, err := p.layoutStructOf(&nested)
			if err != nil {
				return nil, err
			}
			nestedResult := layoutpkg.Compute(ls, lay)
			stride := m.ArrayStride
			if !m.HasArrayStride {
				stride = nestedResult.Size
				if lay == format.Std140 {
					stride = roundUp16(stride)
				}
			}
			//nolint:gosec // array lengths are script-declared, small
			out := make([]byte, uint32(m.ArrayLength)*stride)
			for i := 0; i < m.ArrayLength; i++ {
				b, err := p.consumeStructInstance(&nested, lay)
				if err != nil {
					return nil, err
				}
				//nolint:gosec // i is bounded by ArrayLength, never near 2^32
				base := uint32(i) * stride
				n := stride
				if uint32(len(b)) < n {
					n = uint32(len(b))
				}
				copy(out[base:base+n], b)
			}
			return out, nil
		}
		return p.consumeStructInstance(&nested, lay)
	}

	if m.Datum.IsMatrix() {
		if m.ArrayLength > 0 {
			return nil, fmt.Errorf("array of matrix struct members is not supported in DATA blocks")
		}
		return p.consumeMatrixValue(m.Datum, lay, m.MatrixStride)
	}

	if m.ArrayLength > 0 {
		elems := make([][]byte, m.ArrayLength)
		for i := range elems {
			v, err := p.consumeScalarVector(m.Datum)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return layoutpkg.EmitArray(elems, m.Datum, lay, m.ArrayStride), nil
	}
	return p.consumeScalarVector(m.Datum)
}

// consumeMatrixValue reads a matrix's columns as successive
// column-vectors, packing each column at its layout-derived (or
// overridden) stride.
func (p *Parser) consumeMatrixValue(d format.DatumType, lay format.Layout, strideOverride uint32) ([]byte, error) {
	colType := format.DatumType{Kind: d.Kind, Rows: d.Rows, Cols: 1}
	cols := make([][]byte, d.Cols)
	for c := 0; c < d.Cols; c++ {
		b, err := p.consumeScalarVector(colType)
		if err != nil {
			return nil, err
		}
		cols[c] = b
	}
	return layoutpkg.EmitArray(cols, colType, lay, strideOverride), nil
}

// consumeScalarVector reads d.ElementCount() scalar tokens and packs
// them tightly (no padding), used both for plain scalar/vector struct
// members and for one column of a matrix.
func (p *Parser) consumeScalarVector(d format.DatumType) ([]byte, error) {
	n := d.ElementCount()
	out := make([]byte, 0, n*d.Kind.Width())
	for i := 0; i < n; i++ {
		line := p.peekLine()
		t := p.advance()
		b, err := scalarBytesFromToken(d.Kind, t)
		if err != nil {
			return nil, newParseError(line, "%s", err.Error())
		}
		out = append(out, b...)
	}
	return out, nil
}
