// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package format holds the canonical catalog of scalar/vector/matrix
// element types and image/buffer formats used throughout an AmberScript
// document: buffer DATA_TYPE spellings, image FORMAT spellings, and the
// bit widths the layout engine needs.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// ScalarKind identifies the fundamental element kind of a DatumType.
type ScalarKind uint8

const (
	// Int8 is a signed 8-bit integer.
	Int8 ScalarKind = iota
	// Int16 is a signed 16-bit integer.
	Int16
	// Int32 is a signed 32-bit integer.
	Int32
	// Int64 is a signed 64-bit integer.
	Int64
	// Uint8 is an unsigned 8-bit integer.
	Uint8
	// Uint16 is an unsigned 16-bit integer.
	Uint16
	// Uint32 is an unsigned 32-bit integer.
	Uint32
	// Uint64 is an unsigned 64-bit integer.
	Uint64
	// Float16 is an IEEE-754 half-precision float.
	Float16
	// Float32 is an IEEE-754 single-precision float ("float" in AmberScript).
	Float32
	// Float64 is an IEEE-754 double-precision float ("double" in AmberScript).
	Float64
)

// String returns the AmberScript spelling of the scalar kind.
func (k ScalarKind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the scalar kind is a floating-point type.
func (k ScalarKind) IsFloat() bool {
	return k == Float16 || k == Float32 || k == Float64
}

// Width returns the size in bytes of one scalar of this kind.
func (k ScalarKind) Width() int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

var scalarNames = map[string]ScalarKind{
	"int8":    Int8,
	"int16":   Int16,
	"int32":   Int32,
	"int64":   Int64,
	"uint8":   Uint8,
	"uint16":  Uint16,
	"uint32":  Uint32,
	"uint64":  Uint64,
	"float16": Float16,
	"float":   Float32,
	"double":  Float64,
}

// DatumType is a scalar, vector, or matrix element type: a ScalarKind with
// a row count (vector/matrix height) and a column count (matrix width).
// A bare scalar has Rows == Cols == 1.
type DatumType struct {
	Kind ScalarKind
	Rows int
	Cols int
}

// IsScalar reports whether the type has no vector/matrix dimensions.
func (d DatumType) IsScalar() bool { return d.Rows <= 1 && d.Cols <= 1 }

// IsVector reports whether the type is a vector (Rows > 1, Cols == 1).
func (d DatumType) IsVector() bool { return d.Rows > 1 && d.Cols <= 1 }

// IsMatrix reports whether the type is a matrix (Cols > 1).
func (d DatumType) IsMatrix() bool { return d.Cols > 1 }

// ElementWidth returns the byte width of a single scalar component.
func (d DatumType) ElementWidth() int { return d.Kind.Width() }

// ElementCount returns Rows * Cols, the number of scalar components in one
// instance of the type (1 for a bare scalar).
func (d DatumType) ElementCount() int {
	rows, cols := d.Rows, d.Cols
	if rows == 0 {
		rows = 1
	}
	if cols == 0 {
		cols = 1
	}
	return rows * cols
}

// SizeInBytes returns the tightly-packed size of one instance, with no
// alignment padding; see package layout for std140/std430 padded sizes.
func (d DatumType) SizeInBytes() int { return d.ElementCount() * d.ElementWidth() }

// String renders the DatumType using AmberScript's vecN<t>/matRxC<t> syntax.
func (d DatumType) String() string {
	switch {
	case d.IsMatrix():
		return fmt.Sprintf("mat%dx%d<%s>", d.Rows, d.Cols, d.Kind)
	case d.IsVector():
		return fmt.Sprintf("vec%d<%s>", d.Rows, d.Kind)
	default:
		return d.Kind.String()
	}
}

// ParseDatumType parses an AmberScript data-type spelling: a bare scalar
// name ("int32", "float", …), "vecN<scalar>" (N in 2..4), or
// "matRxC<scalar>" (R, C in 2..4).
func ParseDatumType(s string) (DatumType, error) {
	if kind, ok := scalarNames[s]; ok {
		return DatumType{Kind: kind, Rows: 1, Cols: 1}, nil
	}

	if len(s) > 7 && strings.HasPrefix(s, "vec") {
		if s[4] != '<' || s[len(s)-1] != '>' {
			return DatumType{}, errInvalidDataType
		}
		rows, err := vecDigit(s[3])
		if err != nil {
			return DatumType{}, err
		}
		sub, err := ParseDatumType(s[5 : len(s)-1])
		if err != nil {
			return DatumType{}, err
		}
		if !sub.IsScalar() {
			return DatumType{}, errInvalidDataType
		}
		return DatumType{Kind: sub.Kind, Rows: rows, Cols: 1}, nil
	}

	if len(s) > 9 && strings.HasPrefix(s, "mat") {
		if len(s) < 7 || s[4] != 'x' || s[6] != '<' || s[len(s)-1] != '>' {
			return DatumType{}, errInvalidDataType
		}
		rows, err := vecDigit(s[3])
		if err != nil {
			return DatumType{}, err
		}
		cols, err := vecDigit(s[5])
		if err != nil {
			return DatumType{}, err
		}
		sub, err := ParseDatumType(s[7 : len(s)-1])
		if err != nil {
			return DatumType{}, err
		}
		if !sub.IsScalar() {
			return DatumType{}, errInvalidDataType
		}
		return DatumType{Kind: sub.Kind, Rows: rows, Cols: cols}, nil
	}

	return DatumType{}, errInvalidDataType
}

func vecDigit(b byte) (int, error) {
	switch b {
	case '2':
		return 2, nil
	case '3':
		return 3, nil
	case '4':
		return 4, nil
	default:
		return 0, errInvalidDataType
	}
}

var errInvalidDataType = fmt.Errorf("invalid data type provided")

// ErrInvalidDataType is returned by ParseDatumType for unrecognized
// spellings.
var ErrInvalidDataType = errInvalidDataType

// MustParseDatumType is a convenience for catalog construction with known-
// good spellings; it panics on error.
func MustParseDatumType(s string) DatumType {
	d, err := ParseDatumType(s)
	if err != nil {
		panic("format: " + s + ": " + err.Error())
	}
	return d
}

// ParseUint parses a decimal unsigned 64-bit integer.
func ParseUint(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }
