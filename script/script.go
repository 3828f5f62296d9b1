// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

// EngineData holds engine-level tuning values that are not part of the
// AmberScript grammar proper but are read by the execution backend.
type EngineData struct {
	// FenceTimeoutMs is the GPU fence wait timeout; defaults to 1000.
	FenceTimeoutMs uint32
}

// NewEngineData returns EngineData with its documented defaults.
func NewEngineData() EngineData {
	return EngineData{FenceTimeoutMs: 1000}
}

// Script is the parsed, validated in-memory representation of an
// AmberScript document. It is built exclusively by the
// amberscript parser and is read-only once Parse returns.
type Script struct {
	Shaders   Table[Shader, shaderMarker]
	Buffers   Table[Buffer, bufferMarker]
	Samplers  Table[Sampler, samplerMarker]
	Structs   Table[StructType, structMarker]
	Pipelines Table[Pipeline, pipelineMarker]
	BLASes    Table[BLAS, blasMarker]
	TLASes    Table[TLAS, tlasMarker]

	Commands []Command

	RequiredInstanceExtensions []string
	RequiredDeviceExtensions   []string
	RequiredFeatures           []string
	RequiredProperties         []string

	EngineData EngineData

	// VirtualFiles maps a declared VIRTUAL_FILE path to its UTF-8
	// contents, seeded from the parser's Options and grown by VIRTUAL_FILE
	// directives.
	VirtualFiles map[string]string
}

// New creates an empty Script with its tables initialized and
// EngineData defaults applied.
func New() *Script {
	return &Script{
		Shaders:      *NewTable[Shader, shaderMarker](),
		Buffers:      *NewTable[Buffer, bufferMarker](),
		Samplers:     *NewTable[Sampler, samplerMarker](),
		Structs:      *NewTable[StructType, structMarker](),
		Pipelines:    *NewTable[Pipeline, pipelineMarker](),
		BLASes:       *NewTable[BLAS, blasMarker](),
		TLASes:       *NewTable[TLAS, tlasMarker](),
		EngineData:   NewEngineData(),
		VirtualFiles: make(map[string]string),
	}
}
