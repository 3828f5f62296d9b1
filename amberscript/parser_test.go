// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/amber/script"
)

func float32FromBytes(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func uint32FromBytes(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func mustParse(t *testing.T, src string) *script.Script {
	t.Helper()
	s, err := Parse(src, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

// S1: compute dispatch.
func TestParseComputeDispatch(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n ATTACH s\nEND\n" +
		"RUN p 2 4 5\n"
	s := mustParse(t, src)
	if len(s.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(s.Commands))
	}
	cmd := s.Commands[0]
	if cmd.Kind != script.CmdCompute || cmd.X != 2 || cmd.Y != 4 || cmd.Z != 5 || cmd.Timed {
		t.Fatalf("got %+v", cmd)
	}
}

// S2: graphics basics, color attachment inherits the default framebuffer size.
func TestParseGraphicsColorAttachment(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"BUFFER fb FORMAT R32G32B32A32_SFLOAT\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" BIND BUFFER fb AS color LOCATION 0\n" +
		"END\n"
	s := mustParse(t, src)
	ph, ok := s.Pipelines.Lookup("p")
	if !ok {
		t.Fatal("pipeline p not found")
	}
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.ColorAttachments) != 1 || pipe.ColorAttachments[0].Location != 0 {
		t.Fatalf("got %+v", pipe.ColorAttachments)
	}
	bh, _ := s.Buffers.Lookup("fb")
	buf, _ := s.Buffers.Get(bh)
	if buf.ElementCount != 250*250 {
		t.Fatalf("expected 62500 elements, got %d", buf.ElementCount)
	}
	if got := buf.TotalBytes(); got != 250*250*4*4 {
		t.Fatalf("expected %d bytes, got %d", 250*250*4*4, got)
	}
}

// S3: duplicate LOCATION across color attachments is rejected.
func TestParseDuplicateColorLocation(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"BUFFER fb1 FORMAT R32G32B32A32_SFLOAT\n" +
		"BUFFER fb2 FORMAT R32G32B32A32_SFLOAT\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" BIND BUFFER fb1 AS color LOCATION 0\n" +
		" BIND BUFFER fb2 AS color LOCATION 0\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "can not bind two color buffers to the same LOCATION") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// S4: std140 struct layout.
func TestParseStd140Struct(t *testing.T) {
	src := "STRUCT inner\n uint32 d\n uint32 e\nEND\n" +
		"STRUCT outer\n float a\n uint32 b\n inner c\nEND\n" +
		"BUFFER buf DATA_TYPE outer STD140 DATA 1 64 128 220 END\n"
	s := mustParse(t, src)
	bh, _ := s.Buffers.Lookup("buf")
	buf, _ := s.Buffers.Get(bh)
	if len(buf.Data) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(buf.Data))
	}
	// a@0 (float 1.0), b@4 (uint32 64), c.d@16 (uint32 128), c.e@20 (uint32 220)
	if got := float32FromBytes(buf.Data[0:4]); got != 1 {
		t.Fatalf("a: got %v", got)
	}
	if got := uint32FromBytes(buf.Data[4:8]); got != 64 {
		t.Fatalf("b: got %v", got)
	}
	if got := uint32FromBytes(buf.Data[16:20]); got != 128 {
		t.Fatalf("c.d: got %v", got)
	}
	if got := uint32FromBytes(buf.Data[20:24]); got != 220 {
		t.Fatalf("c.e: got %v", got)
	}
}

// S5: SERIES_FROM fill.
func TestParseSeriesFrom(t *testing.T) {
	src := "BUFFER b DATA_TYPE uint8 SIZE 5 SERIES_FROM 2 INC_BY 1\n"
	s := mustParse(t, src)
	bh, _ := s.Buffers.Lookup("b")
	buf, _ := s.Buffers.Get(bh)
	want := []byte{2, 3, 4, 5, 6}
	if len(buf.Data) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(buf.Data))
	}
	for i, v := range want {
		if buf.Data[i] != v {
			t.Fatalf("byte %d: want %d got %d", i, v, buf.Data[i])
		}
	}
}

// S6: specialization constants are restricted to 32-bit types.
func TestParseSpecializationWidthRestriction(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s SPECIALIZE 1 AS uint8 1\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "only 32-bit types are currently accepted for specialization values") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseDuplicateShaderName(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "duplicate shader name") {
		t.Fatalf("got %v", err)
	}
}

func TestParseUnknownToken(t *testing.T) {
	_, err := Parse("BOGUS foo\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown token: BOGUS") {
		t.Fatalf("got %v", err)
	}
}

func TestParseShaderMissingEnd(t *testing.T) {
	_, err := Parse("SHADER compute s GLSL\nvoid main(){}\n", Options{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseRepeatRejectsNonPositiveCount(t *testing.T) {
	_, err := Parse("REPEAT 0\nEND\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "REPEAT count must be greater than 0") {
		t.Fatalf("got %v", err)
	}
}

func TestParseRepeatCollectsInnerCommands(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n ATTACH s\nEND\n" +
		"REPEAT 3\n RUN p 1 1 1\nEND\n"
	s := mustParse(t, src)
	if len(s.Commands) != 1 || s.Commands[0].Kind != script.CmdRepeat {
		t.Fatalf("got %+v", s.Commands)
	}
	rep := s.Commands[0]
	if rep.RepeatCount != 3 || len(rep.Inner) != 1 {
		t.Fatalf("got %+v", rep)
	}
	if rep.Inner[0].Kind != script.CmdCompute {
		t.Fatalf("got %+v", rep.Inner[0])
	}
}

func TestParseSamplerValidation(t *testing.T) {
	src := "SAMPLER samp MIN_LOD 2.0 MAX_LOD 1.0\n"
	_, err := Parse(src, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "MAX_LOD must be greater than or equal to MIN_LOD") {
		t.Fatalf("got %v", err)
	}
}

// UNNORMALIZED_COORDS silently resets both LODs to 0, even when set
// beforehand, rather than rejecting the script.
func TestParseSamplerUnnormalizedCoordsResetsLOD(t *testing.T) {
	src := "SAMPLER samp MIN_LOD 2.0 MAX_LOD 3.0 UNNORMALIZED_COORDS\n"
	s := mustParse(t, src)
	sh, ok := s.Samplers.Lookup("samp")
	if !ok {
		t.Fatal("expected sampler")
	}
	samp, _ := s.Samplers.Get(sh)
	if samp.NormalizedCoords || samp.MinLOD != 0 || samp.MaxLOD != 0 {
		t.Fatalf("got %+v", samp)
	}
}

func TestParseSamplerDefaults(t *testing.T) {
	src := "SAMPLER samp\n"
	s := mustParse(t, src)
	sh, _ := s.Samplers.Lookup("samp")
	samp, _ := s.Samplers.Get(sh)
	if samp.MinLOD != 0 || samp.MaxLOD != 1 || !samp.NormalizedCoords || samp.CompareEnable {
		t.Fatalf("got %+v", samp)
	}
}

func TestParseSamplerCustomValues(t *testing.T) {
	src := "SAMPLER samp MAG_FILTER linear MIN_FILTER linear " +
		"ADDRESS_MODE_U clamp_to_edge ADDRESS_MODE_V clamp_to_border " +
		"ADDRESS_MODE_W mirrored_repeat BORDER_COLOR float_opaque_white " +
		"MIN_LOD 2.5 MAX_LOD 5.0 NORMALIZED_COORDS COMPARE on COMPARE_OP greater\n"
	s := mustParse(t, src)
	sh, _ := s.Samplers.Lookup("samp")
	samp, _ := s.Samplers.Get(sh)
	if samp.MagFilter != script.FilterLinear || samp.MinFilter != script.FilterLinear {
		t.Fatalf("got %+v", samp)
	}
	if samp.AddressModeU != script.AddressClampToEdge || samp.AddressModeV != script.AddressClampToBorder ||
		samp.AddressModeW != script.AddressMirroredRepeat {
		t.Fatalf("got %+v", samp)
	}
	if samp.BorderColor != script.BorderFloatOpaqueWhite || samp.MinLOD != 2.5 || samp.MaxLOD != 5.0 {
		t.Fatalf("got %+v", samp)
	}
	if !samp.NormalizedCoords || !samp.CompareEnable || samp.CompareOp != script.CompareGreater {
		t.Fatalf("got %+v", samp)
	}
}

func TestParseVirtualFileReuseRejected(t *testing.T) {
	src := "VIRTUAL_FILE a.glsl\nvoid main(){}\nEND\n" +
		"VIRTUAL_FILE a.glsl\nvoid main(){}\nEND\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "reuse of VIRTUAL_FILE path") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBufferArrayRequiresTwoBuffers(t *testing.T) {
	src := "BUFFER b1 FORMAT R32_SFLOAT\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER_ARRAY b1 AS storage DESCRIPTOR_SET 0 BINDING 0\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "requires at least two buffers") {
		t.Fatalf("got %v", err)
	}
}

// SHADER_BINDING_TABLE is a block body of shader-group names closed by
// END, not a single-line list.
func TestParseShaderBindingTableBlock(t *testing.T) {
	src := "SHADER ray_generation raygen1 GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP g1 raygen1\n" +
		" SHADER_BINDING_TABLE sbt1\n" +
		"  g1\n" +
		" END\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	sbt, ok := pipe.ShaderBindingTables["sbt1"]
	if !ok || len(sbt.Groups) != 1 || sbt.Groups[0] != 0 {
		t.Fatalf("got %+v, ok=%v", sbt, ok)
	}
}

func TestParseShaderBindingTableRejectsDuplicate(t *testing.T) {
	src := "SHADER ray_generation raygen1 GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP g1 raygen1\n" +
		" SHADER_BINDING_TABLE sbt1\n" +
		"  g1\n" +
		" END\n" +
		" SHADER_BINDING_TABLE sbt1\n" +
		"  g1\n" +
		" END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "already defined") {
		t.Fatalf("got %v", err)
	}
}

// SHADER_GROUP takes a group name followed by a flat list of shader
// references with no role keyword; each shader's own declared stage
// classifies it into the group's general/any-hit/closest-hit/
// intersection slot.
func TestParseShaderGroupClassifiesByStage(t *testing.T) {
	src := "SHADER ray_generation raygen1 GLSL\nvoid main(){}\nEND\n" +
		"SHADER closest_hit chit1 GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP gen_group raygen1\n" +
		" SHADER_GROUP hit_group chit1\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.ShaderGroups) != 2 {
		t.Fatalf("got %+v", pipe.ShaderGroups)
	}
	if !pipe.ShaderGroups[0].HasGeneral || pipe.ShaderGroups[0].HasClosestHit {
		t.Fatalf("gen_group: got %+v", pipe.ShaderGroups[0])
	}
	if !pipe.ShaderGroups[1].HasClosestHit || pipe.ShaderGroups[1].HasGeneral {
		t.Fatalf("hit_group: got %+v", pipe.ShaderGroups[1])
	}
}

func TestParseShaderGroupRejectsTwoGeneral(t *testing.T) {
	src := "SHADER ray_generation raygen1 GLSL\nvoid main(){}\nEND\n" +
		"SHADER ray_generation raygen2 GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP group raygen1 raygen2\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "two general shaders cannot be in one group") {
		t.Fatalf("got %v", err)
	}
}

func TestParseShaderGroupRejectsMixedGeneralAndHit(t *testing.T) {
	src := "SHADER ray_generation raygen1 GLSL\nvoid main(){}\nEND\n" +
		"SHADER any_hit ahit1 GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP group raygen1 ahit1\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "general group cannot contain any hit shaders") {
		t.Fatalf("got %v", err)
	}
}

func TestParseShaderGroupRejectsNonRaytracingShader(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP group v\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "shader must be of raytracing type") {
		t.Fatalf("got %v", err)
	}
}

func TestParseShaderGroupRejectsDuplicateName(t *testing.T) {
	src := "SHADER ray_generation raygen1 GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE raytracing p\n" +
		" SHADER_GROUP group raygen1\n" +
		" SHADER_GROUP group raygen1\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "group name already exists") {
		t.Fatalf("got %v", err)
	}
}

// DEPTH's TEST/WRITE/CLAMP keywords each take an "on"/"off" operand, and
// BOUNDS/BIAS take their "min/max"/"constant/clamp/slope" sub-keywords.
func TestParseDepthAllValues(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"BUFFER fb FORMAT R32G32B32A32_SFLOAT\n" +
		"BUFFER ds FORMAT D32_SFLOAT_S8_UINT\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" BIND BUFFER fb AS color LOCATION 0\n" +
		" BIND BUFFER ds AS depth_stencil\n" +
		" DEPTH\n" +
		"  TEST on\n" +
		"  WRITE on\n" +
		"  COMPARE_OP less_or_equal\n" +
		"  CLAMP on\n" +
		"  BOUNDS min 1.5 max 6.7\n" +
		"  BIAS constant 2.1 clamp 3.5 slope 5.5\n" +
		" END\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	d := pipe.Depth
	if !d.TestEnable || !d.WriteEnable || !d.ClampEnable {
		t.Fatalf("got %+v", d)
	}
	if d.MinBound != 1.5 || d.MaxBound != 6.7 {
		t.Fatalf("bounds: got %+v", d)
	}
	if d.BiasConstant != 2.1 || d.BiasClamp != 3.5 || d.BiasSlope != 5.5 {
		t.Fatalf("bias: got %+v", d)
	}
}

func TestParseDepthTestInvalidValue(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" DEPTH\n" +
		"  TEST foo\n" +
		" END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "invalid value for TEST: foo") {
		t.Fatalf("got %v", err)
	}
}

// STENCIL front/back each accept their own comparison state, but TEST
// on|off enables a single pipeline-wide stencil test.
func TestParseStencilBothFaces(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"BUFFER fb FORMAT R32G32B32A32_SFLOAT\n" +
		"BUFFER ds FORMAT D32_SFLOAT_S8_UINT\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" BIND BUFFER fb AS color LOCATION 0\n" +
		" BIND BUFFER ds AS depth_stencil\n" +
		" STENCIL front\n" +
		"  TEST on\n" +
		"  FAIL_OP increment_and_clamp\n" +
		"  PASS_OP invert\n" +
		"  DEPTH_FAIL_OP keep\n" +
		"  COMPARE_OP equal\n" +
		"  COMPARE_MASK 1\n" +
		"  WRITE_MASK 2\n" +
		"  REFERENCE 3\n" +
		" END\n" +
		" STENCIL back\n" +
		"  FAIL_OP zero\n" +
		"  PASS_OP increment_and_wrap\n" +
		"  DEPTH_FAIL_OP replace\n" +
		"  COMPARE_OP greater\n" +
		"  COMPARE_MASK 4\n" +
		"  WRITE_MASK 5\n" +
		"  REFERENCE 6\n" +
		" END\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	if !pipe.StencilTestEnable {
		t.Fatal("expected stencil test enabled")
	}
	if pipe.Stencil[0].Fail != "increment_and_clamp" || pipe.Stencil[0].CompareMask != 1 {
		t.Fatalf("front: got %+v", pipe.Stencil[0])
	}
	if pipe.Stencil[1].Fail != "zero" || pipe.Stencil[1].Reference != 6 {
		t.Fatalf("back: got %+v", pipe.Stencil[1])
	}
}

func TestParseStencilInvalidTestValue(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" STENCIL front\n" +
		"  TEST foo\n" +
		" END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "invalid value for TEST: foo") {
		t.Fatalf("got %v", err)
	}
}

// OFFSET on a dynamic buffer kind carries one integer per buffer, exactly
// like DESCRIPTOR_OFFSET and DESCRIPTOR_RANGE.
func TestParseBindDynamicOffsetArray(t *testing.T) {
	src := "BUFFER b1 FORMAT R32_SFLOAT\n" +
		"BUFFER b2 FORMAT R32_SFLOAT\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER_ARRAY b1 b2 AS uniform_dynamic DESCRIPTOR_SET 1 BINDING 2 OFFSET 8 16\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.Descriptors) != 1 {
		t.Fatalf("got %+v", pipe.Descriptors)
	}
	off := pipe.Descriptors[0].DynamicOffsets
	if len(off) != 2 || off[0] != 8 || off[1] != 16 {
		t.Fatalf("got %+v", off)
	}
}

// A dynamic buffer kind without OFFSET is rejected.
func TestParseBindDynamicOffsetRequired(t *testing.T) {
	src := "BUFFER b1 FORMAT R32_SFLOAT\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER b1 AS uniform_dynamic DESCRIPTOR_SET 1 BINDING 2\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "requires OFFSET") {
		t.Fatalf("got %v", err)
	}
}

// BUFFER_ARRAY requires one OFFSET value per buffer; a short list fails
// when the parser tries to read the missing value.
func TestParseBindDynamicOffsetArrayArityMismatch(t *testing.T) {
	src := "BUFFER b1 FORMAT R32_SFLOAT\n" +
		"BUFFER b2 FORMAT R32_SFLOAT\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER_ARRAY b1 b2 AS uniform_dynamic DESCRIPTOR_SET 1 BINDING 2 OFFSET 8\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
}

// The OpenCL-C typeless kernel binding form omits "AS <kind>" entirely.
func TestParseBindBufferOpenCLTypeless(t *testing.T) {
	src := "SHADER compute s OPENCL-C\nvoid main(){}\nEND\n" +
		"BUFFER b DATA_TYPE uint32 DATA 1 END\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER b KERNEL ARG_NAME arg\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.Descriptors) != 1 {
		t.Fatalf("got %+v", pipe.Descriptors)
	}
	loc := pipe.Descriptors[0].Locator
	if !loc.IsKernelArg || loc.ArgName != "arg" {
		t.Fatalf("got %+v", loc)
	}
}

// IMAGE declares a Buffer, reachable by name from BIND like any other buffer.
func TestParseImageProducesBuffer(t *testing.T) {
	src := "IMAGE img FORMAT R8G8B8A8_UNORM DIM_2D WIDTH 4 HEIGHT 4\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER img AS storage_image DESCRIPTOR_SET 0 BINDING 0\n" +
		"END\n"
	s := mustParse(t, src)
	bh, ok := s.Buffers.Lookup("img")
	if !ok {
		t.Fatal("expected img to be registered as a Buffer")
	}
	buf, _ := s.Buffers.Get(bh)
	if buf.Width != 4 || buf.Height != 4 || buf.Depth != 1 || buf.Dimension != script.Dimension2D {
		t.Fatalf("got %+v", buf)
	}

	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.Descriptors) != 1 || pipe.Descriptors[0].Buffers[0] != bh {
		t.Fatalf("got %+v", pipe.Descriptors)
	}
}

func TestParseImageDataType(t *testing.T) {
	src := "IMAGE img DATA_TYPE uint32 DIM_1D WIDTH 4\n"
	s := mustParse(t, src)
	bh, ok := s.Buffers.Lookup("img")
	if !ok {
		t.Fatal("expected img to be registered as a Buffer")
	}
	buf, _ := s.Buffers.Get(bh)
	if buf.Width != 4 || buf.Height != 1 || buf.Depth != 1 || buf.Dimension != script.Dimension1D {
		t.Fatalf("got %+v", buf)
	}
}

func TestParseImageDim3DRequiresDepth(t *testing.T) {
	src := "IMAGE img FORMAT R8G8B8A8_UNORM DIM_3D WIDTH 4 HEIGHT 4 DEPTH 2\n"
	s := mustParse(t, src)
	bh, _ := s.Buffers.Lookup("img")
	buf, _ := s.Buffers.Get(bh)
	if buf.Width != 4 || buf.Height != 4 || buf.Depth != 2 {
		t.Fatalf("got %+v", buf)
	}
}

func TestParseImageDim3DMissingDepthErrors(t *testing.T) {
	src := "IMAGE img FORMAT R8G8B8A8_UNORM DIM_3D WIDTH 4 HEIGHT 4\n"
	_, err := Parse(src, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseImageUnknownDimensionErrors(t *testing.T) {
	src := "IMAGE img FORMAT R8G8B8A8_UNORM DIM_WRONG WIDTH 4\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown IMAGE command provided") {
		t.Fatalf("got %v", err)
	}
}

func TestParseRunComputeRejectsGraphicsPipeline(t *testing.T) {
	src := "SHADER vertex v GLSL PASSTHROUGH\n" +
		"SHADER fragment f GLSL\nvoid main(){}\nEND\n" +
		"BUFFER fb FORMAT R32G32B32A32_SFLOAT\n" +
		"PIPELINE graphics p\n" +
		" ATTACH v\n ATTACH f\n" +
		" BIND BUFFER fb AS color LOCATION 0\n" +
		"END\n" +
		"RUN p 1 1 1\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "RUN command requires compute pipeline") {
		t.Fatalf("got %v", err)
	}
}

func TestParseRunDrawRectRejectsComputePipeline(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n ATTACH s\nEND\n" +
		"RUN p DRAW_RECT POS 0 0 SIZE 1 1\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "RUN command requires graphics pipeline") {
		t.Fatalf("got %v", err)
	}
}

func TestParseRunRaygenRejectsComputePipeline(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n ATTACH s\nEND\n" +
		"RUN p RAYGEN sbt\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "RUN command requires raytracing pipeline") {
		t.Fatalf("got %v", err)
	}
}

func TestParseRunComputeMissingParams(t *testing.T) {
	src := "SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n ATTACH s\nEND\n" +
		"RUN p\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "RUN command requires parameters") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBLASTriangles(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n" +
		"  0 0 0 1 0 0 0 1 0\n" +
		" END\n" +
		"END\n"
	s := mustParse(t, src)
	h, ok := s.BLASes.Lookup("blas")
	if !ok {
		t.Fatal("blas not registered")
	}
	blas, _ := s.BLASes.Get(h)
	if len(blas.Geometries) != 1 {
		t.Fatalf("got %d geometries", len(blas.Geometries))
	}
	g := blas.Geometries[0]
	if g.Kind != script.GeometryTriangles {
		t.Fatalf("got kind %v", g.Kind)
	}
	if len(g.Vertices) != 9 {
		t.Fatalf("got %d vertex floats", len(g.Vertices))
	}
}

func TestParseBLASAABBs(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY AABBS\n" +
		"  -1 -1 -1 1 1 1\n" +
		" END\n" +
		"END\n"
	s := mustParse(t, src)
	h, _ := s.BLASes.Lookup("blas")
	blas, _ := s.BLASes.Get(h)
	g := blas.Geometries[0]
	if g.Kind != script.GeometryAABBs {
		t.Fatalf("got kind %v", g.Kind)
	}
	if len(g.AABBs) != 1 {
		t.Fatalf("got %d aabbs", len(g.AABBs))
	}
}

func TestParseBLASMixedGeometryKindErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n END\n" +
		" GEOMETRY AABBS\n  -1 -1 -1 1 1 1\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Only one type of geometry is allowed within a BLAS") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBLASTriangleNotMultipleOfThreeErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Each vertex consists of three float coordinates.") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBLASTriangleNotMultipleOfThreeVerticesErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Each triangle should include three vertices.") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBLASAABBNotMultipleOfSixErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY AABBS\n  -1 -1 -1 1 1\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Each AABB should include two vertices.") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBLASEmptyTrianglesErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "No triangles have been specified.") {
		t.Fatalf("got %v", err)
	}
}

func TestParseGeometryFlagsRejectsRawInteger(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n FLAGS 1\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Identifier expected") {
		t.Fatalf("got %v", err)
	}
}

func TestParseGeometryFlagsNamed(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n FLAGS OPAQUE\n END\n" +
		"END\n"
	s := mustParse(t, src)
	h, _ := s.BLASes.Lookup("blas")
	blas, _ := s.BLASes.Get(h)
	if len(blas.Geometries[0].Flags) != 1 || blas.Geometries[0].Flags[0] != "OPAQUE" {
		t.Fatalf("got flags %v", blas.Geometries[0].Flags)
	}
}

func TestParseTLASInstanceDefaultTransform(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n END\n" +
		"END\n" +
		"ACCELERATION_STRUCTURE TOP_LEVEL tlas\n" +
		" BOTTOM_LEVEL_INSTANCE blas\n END\n" +
		"END\n"
	s := mustParse(t, src)
	h, ok := s.TLASes.Lookup("tlas")
	if !ok {
		t.Fatal("tlas not registered")
	}
	tlas, _ := s.TLASes.Get(h)
	if len(tlas.Instances) != 1 {
		t.Fatalf("got %d instances", len(tlas.Instances))
	}
	want := [12]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}
	if tlas.Instances[0].Transform != want {
		t.Fatalf("got transform %v", tlas.Instances[0].Transform)
	}
}

func TestParseTLASInstanceTransformMaskFlags(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n END\n" +
		"END\n" +
		"ACCELERATION_STRUCTURE TOP_LEVEL tlas\n" +
		" BOTTOM_LEVEL_INSTANCE blas\n" +
		"  TRANSFORM\n   1 0 0 0  0 1 0 0  0 0 1 5\n  END\n" +
		"  MASK 0xFF\n  OFFSET 2\n  INDEX 1\n" +
		"  FLAGS 16 0x0F\n" +
		" END\n" +
		"END\n"
	s := mustParse(t, src)
	h, _ := s.TLASes.Lookup("tlas")
	tlas, _ := s.TLASes.Get(h)
	inst := tlas.Instances[0]
	if inst.Transform[11] != 5 {
		t.Fatalf("got transform %v", inst.Transform)
	}
	if inst.Mask != 0xFF || inst.Offset != 2 || inst.Index != 1 {
		t.Fatalf("got mask=%d offset=%d index=%d", inst.Mask, inst.Offset, inst.Index)
	}
	if len(inst.Flags) != 2 {
		t.Fatalf("got flags %v", inst.Flags)
	}
}

func TestParseTLASInstanceFlagsRejectsUnknownName(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n END\n" +
		"END\n" +
		"ACCELERATION_STRUCTURE TOP_LEVEL tlas\n" +
		" BOTTOM_LEVEL_INSTANCE blas\n  FLAGS 16 0x0F NO_SUCH_FLAG\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Unknown flag") {
		t.Fatalf("got %v", err)
	}
}

func TestParseTLASInstanceTransformWrongCountErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n END\n" +
		"END\n" +
		"ACCELERATION_STRUCTURE TOP_LEVEL tlas\n" +
		" BOTTOM_LEVEL_INSTANCE blas\n  TRANSFORM\n   1 0 0\n  END\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "Transform matrix expected to have 12 numbers") {
		t.Fatalf("got %v", err)
	}
}

func TestParseTLASUnknownBLASErrors(t *testing.T) {
	src := "ACCELERATION_STRUCTURE TOP_LEVEL tlas\n" +
		" BOTTOM_LEVEL_INSTANCE no_such_blas\n END\n" +
		"END\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBindAccelerationStructure(t *testing.T) {
	src := "SHADER ray_generation rg GLSL\nvoid main(){}\nEND\n" +
		"ACCELERATION_STRUCTURE BOTTOM_LEVEL blas\n" +
		" GEOMETRY TRIANGLES\n  0 0 0 1 0 0 0 1 0\n END\n" +
		"END\n" +
		"ACCELERATION_STRUCTURE TOP_LEVEL tlas\n" +
		" BOTTOM_LEVEL_INSTANCE blas\n END\n" +
		"END\n" +
		"PIPELINE raytracing p\n" +
		" ATTACH rg\n" +
		" BIND ACCELERATION_STRUCTURE tlas DESCRIPTOR_SET 0 BINDING 0\n" +
		"END\n"
	s := mustParse(t, src)
	ph, ok := s.Pipelines.Lookup("p")
	if !ok {
		t.Fatal("pipeline not registered")
	}
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.Descriptors) != 1 {
		t.Fatalf("got %d descriptors", len(pipe.Descriptors))
	}
	if pipe.Descriptors[0].TLAS.IsZero() {
		t.Fatal("expected TLAS handle to be set")
	}
}

func TestParseBufferNameCollidesWithFormatKeyword(t *testing.T) {
	src := "BUFFER DATA_TYPE uint8 SIZE 5 FILL 5\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "missing BUFFER name") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBufferDataInvalidValueReportsTokenLine(t *testing.T) {
	src := "BUFFER my_index_buffer DATA_TYPE int32 DATA\n1.234\nEND\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "2: invalid BUFFER data value: 1.234") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBufferDataInvalidNonNumericValue(t *testing.T) {
	src := "BUFFER my_index_buffer DATA_TYPE int32 DATA\nINVALID\nEND\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "2: invalid BUFFER data value: INVALID") {
		t.Fatalf("got %v", err)
	}
}

func TestParseBufferDataInvalidValueSameLineAsDATA(t *testing.T) {
	src := "BUFFER my_index_buffer DATA_TYPE int32 DATA INVALID\n123\nEND\n"
	_, err := Parse(src, Options{})
	if err == nil || !strings.Contains(err.Error(), "1: invalid BUFFER data value: INVALID") {
		t.Fatalf("got %v", err)
	}
}

// DESCRIPTOR_OFFSET/DESCRIPTOR_RANGE/BASE_MIP_LEVEL/OFFSET may follow
// DESCRIPTOR_SET ... BINDING ..., the canonical order real scripts use.
func TestParseBindDescriptorOffsetAfterDescriptorSet(t *testing.T) {
	src := "BUFFER b1 FORMAT R32_SFLOAT\n" +
		"BUFFER b2 FORMAT R32_SFLOAT\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER_ARRAY b1 b2 AS storage DESCRIPTOR_SET 1 BINDING 2 DESCRIPTOR_OFFSET 4 8 DESCRIPTOR_RANGE 16 32\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	if len(pipe.Descriptors) != 1 {
		t.Fatalf("got %+v", pipe.Descriptors)
	}
	db := pipe.Descriptors[0]
	if len(db.DescriptorOffsets) != 2 || db.DescriptorOffsets[0] != 4 || db.DescriptorOffsets[1] != 8 {
		t.Fatalf("got offsets %+v", db.DescriptorOffsets)
	}
	if len(db.DescriptorRanges) != 2 || db.DescriptorRanges[0] != 16 || db.DescriptorRanges[1] != 32 {
		t.Fatalf("got ranges %+v", db.DescriptorRanges)
	}
}

// The dynamic-OFFSET form parses with DESCRIPTOR_SET first, the same
// clause order TestParseBindDynamicOffsetArray uses; this test also
// checks the parsed locator.
func TestParseBindDynamicOffsetAfterDescriptorSet(t *testing.T) {
	src := "BUFFER b1 FORMAT R32_SFLOAT\n" +
		"BUFFER b2 FORMAT R32_SFLOAT\n" +
		"SHADER compute s GLSL\nvoid main(){}\nEND\n" +
		"PIPELINE compute p\n" +
		" ATTACH s\n" +
		" BIND BUFFER_ARRAY b1 b2 AS uniform_dynamic DESCRIPTOR_SET 1 BINDING 2 OFFSET 8 16\n" +
		"END\n"
	s := mustParse(t, src)
	ph, _ := s.Pipelines.Lookup("p")
	pipe, _ := s.Pipelines.Get(ph)
	off := pipe.Descriptors[0].DynamicOffsets
	if len(off) != 2 || off[0] != 8 || off[1] != 16 {
		t.Fatalf("got %+v", off)
	}
	if db := pipe.Descriptors[0]; db.Locator.Set != 1 || db.Locator.Binding != 2 {
		t.Fatalf("got locator %+v", db.Locator)
	}
}

func TestParseDeviceFeatureKnown(t *testing.T) {
	src := "DEVICE_FEATURE vertexPipelineStoresAndAtomics\n" +
		"DEVICE_FEATURE VariablePointerFeatures.variablePointersStorageBuffer\n"
	s := mustParse(t, src)
	if len(s.RequiredFeatures) != 2 ||
		s.RequiredFeatures[0] != "vertexPipelineStoresAndAtomics" ||
		s.RequiredFeatures[1] != "VariablePointerFeatures.variablePointersStorageBuffer" {
		t.Fatalf("got %+v", s.RequiredFeatures)
	}
}

func TestParseDeviceFeatureMissingName(t *testing.T) {
	_, err := Parse("DEVICE_FEATURE\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "missing feature name for DEVICE_FEATURE command") {
		t.Fatalf("got %v", err)
	}
}

func TestParseDeviceFeatureUnknown(t *testing.T) {
	_, err := Parse("DEVICE_FEATURE unknown\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown feature name for DEVICE_FEATURE command") {
		t.Fatalf("got %v", err)
	}
}

func TestParseDeviceFeatureInvalid(t *testing.T) {
	_, err := Parse("DEVICE_FEATURE 12345\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "invalid feature name for DEVICE_FEATURE command") {
		t.Fatalf("got %v", err)
	}
}

func TestParseDevicePropertyKnown(t *testing.T) {
	src := "DEVICE_PROPERTY FloatControlsProperties.shaderDenormPreserveFloat16\n"
	s := mustParse(t, src)
	if len(s.RequiredProperties) != 1 ||
		s.RequiredProperties[0] != "FloatControlsProperties.shaderDenormPreserveFloat16" {
		t.Fatalf("got %+v", s.RequiredProperties)
	}
}

func TestParseDevicePropertyUnknown(t *testing.T) {
	_, err := Parse("DEVICE_PROPERTY unknown\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown property name for DEVICE_PROPERTY command") {
		t.Fatalf("got %v", err)
	}
}

func TestParseDeviceExtensionAcceptsAnyName(t *testing.T) {
	src := "DEVICE_EXTENSION VK_KHR_get_physical_device_properties2\n" +
		"INSTANCE_EXTENSION VK_KHR_storage_buffer_storage_class\n"
	s := mustParse(t, src)
	if len(s.RequiredDeviceExtensions) != 1 || s.RequiredDeviceExtensions[0] != "VK_KHR_get_physical_device_properties2" {
		t.Fatalf("got %+v", s.RequiredDeviceExtensions)
	}
	if len(s.RequiredInstanceExtensions) != 1 || s.RequiredInstanceExtensions[0] != "VK_KHR_storage_buffer_storage_class" {
		t.Fatalf("got %+v", s.RequiredInstanceExtensions)
	}
}

func TestParseDeviceExtensionMissingName(t *testing.T) {
	_, err := Parse("DEVICE_EXTENSION\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "DEVICE_EXTENSION missing name") {
		t.Fatalf("got %v", err)
	}
}

func TestParseInstanceExtensionInvalidName(t *testing.T) {
	_, err := Parse("INSTANCE_EXTENSION 1234\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "INSTANCE_EXTENSION invalid name: 1234") {
		t.Fatalf("got %v", err)
	}
}
