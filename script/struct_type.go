// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

import "github.com/gogpu/amber/format"

// Member is one field of a StructType, as declared by
// "<type> <member_name> [OFFSET k] [ARRAY_STRIDE k] [MATRIX_STRIDE k]".
type Member struct {
	Name string

	// Datum is set when the member's type is a scalar/vector/matrix
	// DatumType; zero-valued when Nested is set instead.
	Datum format.DatumType

	// Nested is set when the member's type names a previously declared
	// STRUCT; self-reference (a struct naming itself, directly or
	// transitively) is rejected at declaration time.
	Nested StructHandle
	IsNested bool

	// ArrayLength is > 0 when the member is an array of Datum/Nested,
	// i.e. declared with a trailing array-length token; 0 for a scalar
	// member.
	ArrayLength int

	// Offset, ArrayStride, MatrixStride are explicit overrides; zero
	// means "let the layout engine derive it". ARRAY_STRIDE requires
	// ArrayLength > 0; MATRIX_STRIDE requires the member's Datum to be a
	// matrix.
	Offset       uint32
	HasOffset    bool
	ArrayStride  uint32
	HasArrayStride bool
	MatrixStride   uint32
	HasMatrixStride bool

	DeclLine int
}

// StructType is a named member layout declared by the STRUCT directive.
type StructType struct {
	Name    string
	Members []Member

	// Stride is an explicit STRIDE override for the struct's overall
	// size; zero means "derive from the layout engine".
	Stride    uint32
	HasStride bool

	DeclLine int
}

// hasMember reports whether name is already used by a member of s,
// enforcing the "names unique within a struct" rule.
func (s *StructType) hasMember(name string) bool {
	for _, m := range s.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}
