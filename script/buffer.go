// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

import "github.com/gogpu/amber/format"

// BufferKind identifies how a Buffer is used when bound to a pipeline.
type BufferKind uint8

const (
	// BufferUniform is a uniform buffer.
	BufferUniform BufferKind = iota
	// BufferStorage is a storage buffer.
	BufferStorage
	// BufferUniformDynamic is a uniform buffer bound with a dynamic offset.
	BufferUniformDynamic
	// BufferStorageDynamic is a storage buffer bound with a dynamic offset.
	BufferStorageDynamic
	// BufferVertex supplies VERTEX_DATA.
	BufferVertex
	// BufferIndex supplies INDEX_DATA.
	BufferIndex
	// BufferPushConstant is a push-constant block.
	BufferPushConstant
	// BufferColor is a color attachment.
	BufferColor
	// BufferDepthStencil is a depth-stencil attachment.
	BufferDepthStencil
	// BufferSampled is a sampled image.
	BufferSampled
	// BufferStorageImage is a storage image.
	BufferStorageImage
	// BufferSampledImage is a sampled-image descriptor (image without a
	// combined sampler).
	BufferSampledImage
	// BufferCombinedImageSampler is an image bound together with a
	// sampler reference.
	BufferCombinedImageSampler
	// BufferUniformTexelBuffer is a uniform texel buffer.
	BufferUniformTexelBuffer
	// BufferStorageTexelBuffer is a storage texel buffer.
	BufferStorageTexelBuffer
)

// IsDynamic reports whether the kind requires an OFFSET at bind time.
func (k BufferKind) IsDynamic() bool {
	return k == BufferUniformDynamic || k == BufferStorageDynamic
}

// String renders the AmberScript bareword spelling of the kind.
func (k BufferKind) String() string {
	switch k {
	case BufferUniform:
		return "uniform"
	case BufferStorage:
		return "storage"
	case BufferUniformDynamic:
		return "uniform_dynamic"
	case BufferStorageDynamic:
		return "storage_dynamic"
	case BufferVertex:
		return "vertex"
	case BufferIndex:
		return "index"
	case BufferPushConstant:
		return "push_constant"
	case BufferColor:
		return "color"
	case BufferDepthStencil:
		return "depth_stencil"
	case BufferSampled:
		return "sampled"
	case BufferStorageImage:
		return "storage_image"
	case BufferSampledImage:
		return "sampled_image"
	case BufferCombinedImageSampler:
		return "combined_image_sampler"
	case BufferUniformTexelBuffer:
		return "uniform_texel_buffer"
	case BufferStorageTexelBuffer:
		return "storage_texel_buffer"
	default:
		return "unknown"
	}
}

// ImageDimension identifies the dimensionality of a Buffer used as an
// image-backed attachment.
type ImageDimension uint8

const (
	// Dimension1D is a 1-dimensional image.
	Dimension1D ImageDimension = iota
	// Dimension2D is a 2-dimensional image.
	Dimension2D
	// Dimension3D is a 3-dimensional image.
	Dimension3D
)

// Buffer is a named data or attachment resource, as declared by BUFFER.
type Buffer struct {
	Name   string
	Kind   BufferKind
	Format format.Format

	// ElementCount is the number of Format-sized elements stored.
	ElementCount uint64

	// Data holds the raw element bytes, laid out per package layout's
	// std140/std430 rules for structured (DATA_TYPE struct) buffers, or
	// tightly packed for scalar/vector element types.
	Data []byte

	// MipLevels is the declared mip-level count; 1 if never specified.
	MipLevels uint32

	// Image-backed attachment fields; zero values for plain data buffers.
	Width, Height, Depth uint32
	Samples              uint32
	Dimension            ImageDimension

	// StructType is set when the buffer's DATA_TYPE names a previously
	// declared STRUCT rather than a scalar/vector/matrix type.
	StructType StructHandle

	DeclLine int
}

// BytesPerElement returns the byte size of one element.
func (b *Buffer) BytesPerElement() int { return b.Format.BytesPerElement() }

// TotalBytes returns the total uncompressed byte size the buffer
// should occupy: ElementCount * BytesPerElement.
func (b *Buffer) TotalBytes() uint64 {
	return b.ElementCount * uint64(b.BytesPerElement())
}

// IsImageBacked reports whether the buffer carries image dimensions
// (used as a color/depth-stencil/sampled attachment).
func (b *Buffer) IsImageBacked() bool {
	switch b.Kind {
	case BufferColor, BufferDepthStencil, BufferSampled, BufferStorageImage,
		BufferSampledImage, BufferCombinedImageSampler:
		return true
	default:
		return false
	}
}
