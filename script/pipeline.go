// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

import "github.com/gogpu/amber/format"

// PipelineKind identifies the broad shape of a Pipeline.
type PipelineKind uint8

const (
	// PipelineGraphics is a graphics (vertex/fragment, …) pipeline.
	PipelineGraphics PipelineKind = iota
	// PipelineCompute is a single-compute-shader pipeline.
	PipelineCompute
	// PipelineRaytracing is a raytracing pipeline.
	PipelineRaytracing
)

// String renders the AmberScript bareword spelling of the kind.
func (k PipelineKind) String() string {
	switch k {
	case PipelineGraphics:
		return "graphics"
	case PipelineCompute:
		return "compute"
	case PipelineRaytracing:
		return "raytracing"
	default:
		return "unknown"
	}
}

// VertexRate selects per-vertex or per-instance advance for a vertex
// binding.
type VertexRate uint8

const (
	// RateVertex advances the binding once per vertex.
	RateVertex VertexRate = iota
	// RateInstance advances the binding once per instance.
	RateInstance
)

// SpecializationConstant is one SPECIALIZE entry on an ATTACH. Kind is
// restricted to 32-bit scalar types.
type SpecializationConstant struct {
	ID   uint32
	Kind format.ScalarKind
	// Bits holds the constant's value reinterpreted as its 4-byte
	// native representation (IEEE-754 for float, two's complement
	// otherwise).
	Bits uint32
}

// Attachment is one ATTACH entry on a Pipeline.
type Attachment struct {
	Shader     ShaderHandle
	EntryPoint string

	// StageOverride is read when the attached shader's Stage is
	// StageMulti, via an explicit "TYPE <stage>" suffix.
	StageOverride    ShaderStage
	HasStageOverride bool

	Specializations []SpecializationConstant

	DeclLine int
}

// ColorAttachment binds a color-kind Buffer to a LOCATION.
type ColorAttachment struct {
	Buffer   BufferHandle
	Location uint32
	DeclLine int
}

// ResolveTarget binds a resolve-kind Buffer to a LOCATION.
type ResolveTarget struct {
	Buffer   BufferHandle
	Location uint32
}

// VertexBinding is one VERTEX_DATA entry.
type VertexBinding struct {
	Buffer   BufferHandle
	Location uint32
	Offset   uint32
	Stride   uint32
	Rate     VertexRate
	Format   format.Format
}

// DescriptorLocator is the terminator of a BIND directive: either a
// Vulkan-style descriptor-set/binding pair, or, for OpenCL-C kernels, a
// named or numbered kernel argument.
type DescriptorLocator struct {
	IsKernelArg bool

	// Vulkan-style locator.
	Set     uint32
	Binding uint32

	// OpenCL-C kernel-argument locator.
	ArgName   string
	ArgNumber uint32
	HasArgName bool
}

// DescriptorBinding is one non-attachment BIND entry: a buffer, buffer
// array, sampler, sampler array, or acceleration-structure bound to a
// descriptor locator.
type DescriptorBinding struct {
	Kind     BufferKind
	Locator  DescriptorLocator
	Buffers  []BufferHandle
	Samplers []SamplerHandle
	BLAS     []BLASHandle
	TLAS     TLASHandle

	// CombinedSampler is set for BufferCombinedImageSampler.
	CombinedSampler    SamplerHandle
	HasCombinedSampler bool

	// DynamicOffsets carries one OFFSET value per Buffers entry, required
	// on dynamic buffer kinds and forbidden otherwise.
	DynamicOffsets []uint64

	// DescriptorOffsets/DescriptorRanges carry one value per Buffers
	// entry when supplied; forbidden on texel/image kinds.
	DescriptorOffsets []uint64
	DescriptorRanges  []uint64

	BaseMipLevel    uint32
	HasBaseMipLevel bool

	DeclLine int
}

// BlendState is the PIPELINE BLEND … END body.
type BlendState struct {
	Enabled                                         bool
	SrcColorFactor, DstColorFactor, ColorOp          string
	SrcAlphaFactor, DstAlphaFactor, AlphaOp          string
}

// DepthState is the PIPELINE DEPTH … END body.
type DepthState struct {
	TestEnable, WriteEnable, ClampEnable bool
	Compare                              CompareOp
	Bounds                               bool
	MinBound, MaxBound                   float32
	BiasConstant, BiasClamp, BiasSlope   float32
}

// StencilFaceState is one face (front/back) of the PIPELINE STENCIL body.
type StencilFaceState struct {
	Compare            CompareOp
	Fail, Pass, DepthFail string
	CompareMask, WriteMask, Reference uint32
}

// Viewport is the PIPELINE VIEWPORT body.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// KernelArg is one OpenCL-C "SET KERNEL ARG_NAME|ARG_NUMBER … AS type
// value" entry: a literal scalar passed directly to a kernel argument
// rather than bound through a descriptor.
type KernelArg struct {
	Locator  DescriptorLocator
	Kind     format.ScalarKind
	Bits     uint64
	DeclLine int
}

// Pipeline is a named graphics/compute/raytracing pipeline declared by
// PIPELINE or DERIVE_PIPELINE.
type Pipeline struct {
	Name string
	Kind PipelineKind

	Attachments []Attachment

	ColorAttachments []ColorAttachment
	DepthStencil     BufferHandle
	HasDepthStencil  bool
	ResolveTargets   []ResolveTarget

	VertexBindings []VertexBinding
	IndexBuffer    BufferHandle
	HasIndexBuffer bool
	PushConstant   BufferHandle
	HasPushConstant bool

	Descriptors []DescriptorBinding
	KernelArgs  []KernelArg

	Blend BlendState
	Depth DepthState
	// StencilTestEnable is set by TEST on|off in either STENCIL front or
	// STENCIL back; the two faces share one pipeline-wide test enable.
	StencilTestEnable bool
	Stencil           [2]StencilFaceState // index by front=0, back=1
	Viewport          Viewport

	// FramebufferWidth/Height default to 250x250
	// when FRAMEBUFFER_SIZE is never specified.
	FramebufferWidth, FramebufferHeight uint32

	// Raytracing-only fields.
	ShaderGroups          []ShaderGroup
	ShaderBindingTables   map[string]ShaderBindingTable
	MaxPayloadSize        uint32
	MaxHitAttributeSize   uint32
	MaxRecursionDepth     uint32
	Flags                 []string
	Libraries             []PipelineHandle

	DeclLine int
}

// ShaderGroup is one SHADER_GROUP entry of a raytracing Pipeline.
type ShaderGroup struct {
	Name      string
	General   ShaderHandle
	HasGeneral bool
	ClosestHit ShaderHandle
	HasClosestHit bool
	AnyHit ShaderHandle
	HasAnyHit bool
	Intersection ShaderHandle
	HasIntersection bool
}

// ShaderBindingTable is one SHADER_BINDING_TABLE entry, referencing a
// list of previously declared ShaderGroups by index.
type ShaderBindingTable struct {
	Name   string
	Groups []int
}

// DefaultFramebufferSize is the hard-coded default attachment size used
// when FRAMEBUFFER_SIZE is never specified.
const DefaultFramebufferSize = 250

// EffectiveFramebufferWidth returns p.FramebufferWidth, or
// DefaultFramebufferSize if it was never set.
func (p *Pipeline) EffectiveFramebufferWidth() uint32 {
	if p.FramebufferWidth == 0 {
		return DefaultFramebufferSize
	}
	return p.FramebufferWidth
}

// EffectiveFramebufferHeight returns p.FramebufferHeight, or
// DefaultFramebufferSize if it was never set.
func (p *Pipeline) EffectiveFramebufferHeight() uint32 {
	if p.FramebufferHeight == 0 {
		return DefaultFramebufferSize
	}
	return p.FramebufferHeight
}
