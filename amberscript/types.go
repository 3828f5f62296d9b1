// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"fmt"

	"github.com/gogpu/amber/format"
	"github.com/gogpu/amber/script"
)

func toShaderStage(s string) (script.ShaderStage, bool) {
	switch s {
	case "vertex":
		return script.StageVertex, true
	case "fragment":
		return script.StageFragment, true
	case "geometry":
		return script.StageGeometry, true
	case "tessellation_control":
		return script.StageTessellationControl, true
	case "tessellation_evaluation":
		return script.StageTessellationEvaluation, true
	case "compute":
		return script.StageCompute, true
	case "ray_generation":
		return script.StageRayGeneration, true
	case "any_hit":
		return script.StageAnyHit, true
	case "closest_hit":
		return script.StageClosestHit, true
	case "miss":
		return script.StageMiss, true
	case "intersection":
		return script.StageIntersection, true
	case "callable":
		return script.StageCallable, true
	case "multi":
		return script.StageMulti, true
	default:
		return 0, false
	}
}

func toShaderFormat(s string) (script.ShaderFormat, bool) {
	switch s {
	case "GLSL":
		return script.FormatGlsl, true
	case "HLSL":
		return script.FormatHlsl, true
	case "OPENCL-C":
		return script.FormatOpenCLC, true
	case "SPIRV-ASM":
		return script.FormatSpirvAsm, true
	case "SPIRV-HEX":
		return script.FormatSpirvHex, true
	case "DEFAULT":
		return script.FormatDefault, true
	default:
		return 0, false
	}
}

func toBufferKind(s string) (script.BufferKind, bool) {
	switch s {
	case "uniform":
		return script.BufferUniform, true
	case "storage":
		return script.BufferStorage, true
	case "uniform_dynamic":
		return script.BufferUniformDynamic, true
	case "storage_dynamic":
		return script.BufferStorageDynamic, true
	case "push_constant":
		return script.BufferPushConstant, true
	case "color":
		return script.BufferColor, true
	case "depth_stencil":
		return script.BufferDepthStencil, true
	case "sampled":
		return script.BufferSampled, true
	case "storage_image":
		return script.BufferStorageImage, true
	case "sampled_image":
		return script.BufferSampledImage, true
	case "combined_image_sampler":
		return script.BufferCombinedImageSampler, true
	case "uniform_texel_buffer":
		return script.BufferUniformTexelBuffer, true
	case "storage_texel_buffer":
		return script.BufferStorageTexelBuffer, true
	default:
		return 0, false
	}
}

func toPipelineKind(s string) (script.PipelineKind, bool) {
	switch s {
	case "graphics":
		return script.PipelineGraphics, true
	case "compute":
		return script.PipelineCompute, true
	case "raytracing":
		return script.PipelineRaytracing, true
	default:
		return 0, false
	}
}

func toVertexRate(s string) (script.VertexRate, bool) {
	switch s {
	case "vertex":
		return script.RateVertex, true
	case "instance":
		return script.RateInstance, true
	default:
		return 0, false
	}
}

func toTopology(s string) (script.Topology, bool) {
	switch s {
	case "POINT_LIST":
		return script.TopologyPointList, true
	case "LINE_LIST":
		return script.TopologyLineList, true
	case "LINE_STRIP":
		return script.TopologyLineStrip, true
	case "TRIANGLE_LIST":
		return script.TopologyTriangleList, true
	case "TRIANGLE_STRIP":
		return script.TopologyTriangleStrip, true
	case "TRIANGLE_FAN":
		return script.TopologyTriangleFan, true
	default:
		return 0, false
	}
}

func toComparator(s string, ssbo bool) (script.Comparator, bool) {
	if !ssbo {
		switch s {
		case "EQ_RGB":
			return script.CompEQRGB, true
		case "EQ_RGBA":
			return script.CompEQRGBA, true
		default:
			return 0, false
		}
	}
	switch s {
	case "EQ":
		return script.CompEQ, true
	case "NE":
		return script.CompNE, true
	case "LT":
		return script.CompLT, true
	case "LE":
		return script.CompLE, true
	case "GT":
		return script.CompGT, true
	case "GE":
		return script.CompGE, true
	case "EQ_BUFFER":
		return script.CompEQBuffer, true
	case "RMSE_BUFFER":
		return script.CompRMSEBuffer, true
	default:
		return 0, false
	}
}

// parseDatumType wraps format.ParseDatumType with the exact diagnostic
// message an invalid data type must produce.
func parseDatumType(s string) (format.DatumType, error) {
	d, err := format.ParseDatumType(s)
	if err != nil {
		return format.DatumType{}, fmt.Errorf("invalid data type '%s' provided", s)
	}
	return d, nil
}

func toFilterMode(s string) (script.FilterMode, bool) {
	switch s {
	case "nearest":
		return script.FilterNearest, true
	case "linear":
		return script.FilterLinear, true
	default:
		return 0, false
	}
}

func toAddressMode(s string) (script.AddressMode, bool) {
	switch s {
	case "repeat":
		return script.AddressRepeat, true
	case "mirrored_repeat":
		return script.AddressMirroredRepeat, true
	case "clamp_to_edge":
		return script.AddressClampToEdge, true
	case "clamp_to_border":
		return script.AddressClampToBorder, true
	default:
		return 0, false
	}
}

func toBorderColor(s string) (script.BorderColor, bool) {
	switch s {
	case "float_transparent_black":
		return script.BorderFloatTransparentBlack, true
	case "float_opaque_black":
		return script.BorderFloatOpaqueBlack, true
	case "float_opaque_white":
		return script.BorderFloatOpaqueWhite, true
	case "int_transparent_black":
		return script.BorderIntTransparentBlack, true
	case "int_opaque_black":
		return script.BorderIntOpaqueBlack, true
	case "int_opaque_white":
		return script.BorderIntOpaqueWhite, true
	default:
		return 0, false
	}
}

func toCompareOp(s string) (script.CompareOp, bool) {
	switch s {
	case "never":
		return script.CompareNever, true
	case "less":
		return script.CompareLess, true
	case "equal":
		return script.CompareEqual, true
	case "less_or_equal":
		return script.CompareLessOrEqual, true
	case "greater":
		return script.CompareGreater, true
	case "not_equal":
		return script.CompareNotEqual, true
	case "greater_or_equal":
		return script.CompareGreaterOrEqual, true
	case "always":
		return script.CompareAlways, true
	default:
		return 0, false
	}
}
