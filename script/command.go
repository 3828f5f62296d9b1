// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

// CommandKind tags the variant held by a Command. Commands are modeled
// as a tagged sum rather than an interface hierarchy: the execution backend switches on Kind instead of relying on
// virtual dispatch.
type CommandKind uint8

const (
	// CmdClear clears the bound color and depth-stencil attachments.
	CmdClear CommandKind = iota
	// CmdClearColor sets the clear color used by a subsequent CmdClear.
	CmdClearColor
	// CmdClearDepth sets the clear depth used by a subsequent CmdClear.
	CmdClearDepth
	// CmdClearStencil sets the clear stencil used by a subsequent CmdClear.
	CmdClearStencil
	// CmdCompute dispatches a compute pipeline.
	CmdCompute
	// CmdDrawArrays issues a vertex draw.
	CmdDrawArrays
	// CmdDrawRect draws a full-screen (or sub-rect) quad.
	CmdDrawRect
	// CmdDrawGrid draws a grid of cells over a rect.
	CmdDrawGrid
	// CmdCopy copies one buffer's contents to another.
	CmdCopy
	// CmdRepeat replays its Inner commands Count times.
	CmdRepeat
	// CmdProbe checks framebuffer pixel values against an expectation.
	CmdProbe
	// CmdProbeSSBO checks buffer contents against an expectation.
	CmdProbeSSBO
	// CmdRayGen dispatches a raytracing pipeline.
	CmdRayGen
)

// Topology names a primitive-assembly topology for CmdDrawArrays.
type Topology uint8

const (
	// TopologyPointList draws isolated points.
	TopologyPointList Topology = iota
	// TopologyLineList draws isolated line segments.
	TopologyLineList
	// TopologyLineStrip draws a connected line strip.
	TopologyLineStrip
	// TopologyTriangleList draws isolated triangles.
	TopologyTriangleList
	// TopologyTriangleStrip draws a connected triangle strip.
	TopologyTriangleStrip
	// TopologyTriangleFan draws a triangle fan.
	TopologyTriangleFan
)

// Rect is a 2D integer rectangle used by DRAW_RECT/DRAW_GRID/EXPECT.
type Rect struct {
	X, Y          int32
	Width, Height uint32
}

// Command is a single RUN/CLEAR/COPY/REPEAT/EXPECT step, carrying only
// the fields relevant to Kind.
type Command struct {
	Kind     CommandKind
	Pipeline PipelineHandle
	Timed    bool
	DeclLine int

	// CmdClearColor
	R, G, B, A float32

	// CmdClearDepth
	Depth float32
	// CmdClearStencil
	Stencil uint32

	// CmdCompute
	X, Y, Z uint32

	// CmdDrawRect / CmdDrawGrid
	Rect Rect
	// CmdDrawGrid
	Columns, Rows uint32

	// CmdDrawArrays
	DrawTopology    Topology
	Indexed         bool
	Instanced       bool
	FirstVertex     uint32
	VertexCount     uint32
	HasVertexCount  bool
	FirstInstance   uint32
	InstanceCount   uint32

	// CmdCopy
	CopySrc, CopyDst BufferHandle

	// CmdRepeat
	RepeatCount int
	Inner       []Command

	// CmdProbe / CmdProbeSSBO
	Probe Probe

	// CmdRayGen
	RayGenSBT, MissSBT, HitSBT, CallSBT string
	HasMissSBT, HasHitSBT, HasCallSBT   bool
}
