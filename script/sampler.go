// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

// FilterMode selects nearest- or linear-neighbor sampling.
type FilterMode uint8

const (
	// FilterNearest samples the nearest texel.
	FilterNearest FilterMode = iota
	// FilterLinear interpolates between neighboring texels.
	FilterLinear
)

// AddressMode selects how out-of-range texture coordinates are resolved.
type AddressMode uint8

const (
	// AddressRepeat tiles the texture.
	AddressRepeat AddressMode = iota
	// AddressMirroredRepeat tiles with alternating mirroring.
	AddressMirroredRepeat
	// AddressClampToEdge clamps to the edge texel.
	AddressClampToEdge
	// AddressClampToBorder clamps to BorderColor.
	AddressClampToBorder
)

// BorderColor names one of the fixed Vulkan-style border colors, in
// either the float or the int component representation.
type BorderColor uint8

const (
	// BorderFloatTransparentBlack is (0,0,0,0) as floats.
	BorderFloatTransparentBlack BorderColor = iota
	// BorderFloatOpaqueBlack is (0,0,0,1) as floats.
	BorderFloatOpaqueBlack
	// BorderFloatOpaqueWhite is (1,1,1,1) as floats.
	BorderFloatOpaqueWhite
	// BorderIntTransparentBlack is (0,0,0,0) as ints.
	BorderIntTransparentBlack
	// BorderIntOpaqueBlack is (0,0,0,1) as ints.
	BorderIntOpaqueBlack
	// BorderIntOpaqueWhite is (1,1,1,1) as ints.
	BorderIntOpaqueWhite
)

// CompareOp names a depth-compare operator for comparison sampling.
type CompareOp uint8

const (
	// CompareNever never passes.
	CompareNever CompareOp = iota
	// CompareLess passes when the sampled value is less than the reference.
	CompareLess
	// CompareEqual passes when equal.
	CompareEqual
	// CompareLessOrEqual passes when less than or equal.
	CompareLessOrEqual
	// CompareGreater passes when greater.
	CompareGreater
	// CompareNotEqual passes when not equal.
	CompareNotEqual
	// CompareGreaterOrEqual passes when greater than or equal.
	CompareGreaterOrEqual
	// CompareAlways always passes.
	CompareAlways
)

// Sampler is a named texture sampler declared by the SAMPLER directive.
type Sampler struct {
	Name string

	MinFilter, MagFilter FilterMode
	MipmapMode           FilterMode

	AddressModeU, AddressModeV, AddressModeW AddressMode
	BorderColor                              BorderColor

	MinLOD, MaxLOD float32

	// NormalizedCoords selects normalized [0,1) texture coordinates.
	// UNNORMALIZED_COORDS clears it and resets both LODs to 0 at parse
	// time, since unnormalized sampling has no mip chain to select from.
	NormalizedCoords bool

	CompareEnable bool
	CompareOp     CompareOp

	DeclLine int
}

// Validate checks that MaxLOD >= MinLOD.
func (s *Sampler) Validate() error {
	if s.MaxLOD < s.MinLOD {
		return NewValidationErrorf(s.DeclLine, "Sampler",
			"MAX_LOD must be greater than or equal to MIN_LOD")
	}
	return nil
}
