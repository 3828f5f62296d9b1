// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

// ShaderStage identifies the pipeline stage a Shader is written for.
type ShaderStage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex ShaderStage = iota
	// StageFragment is the fragment stage.
	StageFragment
	// StageGeometry is the geometry stage.
	StageGeometry
	// StageTessellationControl is the tessellation-control stage.
	StageTessellationControl
	// StageTessellationEvaluation is the tessellation-evaluation stage.
	StageTessellationEvaluation
	// StageCompute is the compute stage.
	StageCompute
	// StageRayGeneration is a raytracing ray-generation stage.
	StageRayGeneration
	// StageAnyHit is a raytracing any-hit stage.
	StageAnyHit
	// StageClosestHit is a raytracing closest-hit stage.
	StageClosestHit
	// StageMiss is a raytracing miss stage.
	StageMiss
	// StageIntersection is a raytracing intersection stage.
	StageIntersection
	// StageCallable is a raytracing callable stage.
	StageCallable
	// StageMulti marks a shader whose stage is decided per ATTACH via an
	// explicit TYPE override.
	StageMulti
)

// String renders the AmberScript spelling of the stage.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageGeometry:
		return "geometry"
	case StageTessellationControl:
		return "tessellation_control"
	case StageTessellationEvaluation:
		return "tessellation_evaluation"
	case StageCompute:
		return "compute"
	case StageRayGeneration:
		return "ray_generation"
	case StageAnyHit:
		return "any_hit"
	case StageClosestHit:
		return "closest_hit"
	case StageMiss:
		return "miss"
	case StageIntersection:
		return "intersection"
	case StageCallable:
		return "callable"
	case StageMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// IsRaytracing reports whether the stage belongs to the raytracing
// pipeline kind.
func (s ShaderStage) IsRaytracing() bool {
	switch s {
	case StageRayGeneration, StageAnyHit, StageClosestHit, StageMiss, StageIntersection, StageCallable:
		return true
	default:
		return false
	}
}

// ShaderFormat identifies the source-text dialect of a Shader.
type ShaderFormat uint8

const (
	// FormatDefault leaves the source dialect unspecified.
	FormatDefault ShaderFormat = iota
	// FormatGlsl is GLSL source text.
	FormatGlsl
	// FormatHlsl is HLSL source text.
	FormatHlsl
	// FormatOpenCLC is OpenCL C kernel source text.
	FormatOpenCLC
	// FormatSpirvAsm is SPIR-V disassembly text.
	FormatSpirvAsm
	// FormatSpirvHex is whitespace-separated "0x"-prefixed SPIR-V words.
	FormatSpirvHex
)

// String renders the AmberScript spelling of the format.
func (f ShaderFormat) String() string {
	switch f {
	case FormatGlsl:
		return "GLSL"
	case FormatHlsl:
		return "HLSL"
	case FormatOpenCLC:
		return "OPENCL-C"
	case FormatSpirvAsm:
		return "SPIRV-ASM"
	case FormatSpirvHex:
		return "SPIRV-HEX"
	default:
		return "DEFAULT"
	}
}

// Shader is a named shader-stage source, as declared by the SHADER
// directive. Source is either embedded verbatim (captured by
// ExtractToNext("END")), looked up from a virtual file, or, for
// PASSTHROUGH vertex shaders, left empty.
type Shader struct {
	Name string
	Stage ShaderStage
	Format ShaderFormat
	Source string

	// TargetEnv is an opaque tag (e.g. "vulkan1.1") retained verbatim for
	// the backend, set by an optional TARGET_ENV suffix.
	TargetEnv string

	// VirtualFilePath is set when the shader's source was loaded via
	// VIRTUAL_FILE rather than an inline body.
	VirtualFilePath string

	// Passthrough marks a vertex shader declared with PASSTHROUGH. The
	// parser leaves its Source empty and synthesizes no SPIR-V for it.
	Passthrough bool

	// DeclLine is the source line of the opening SHADER directive, used
	// for diagnostics that reference the shader after parsing.
	DeclLine int
}
