// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/amber/script"
)

// NagaCompiler compiles WGSL source through the real naga toolchain.
// It is the one shader format the front-end can compile without a host
// embedder supplying its own compiler: GLSL, HLSL, and OpenCL-C all
// return ErrUnsupportedFormat, exactly as a host that wants them would
// register a compiler of its own under the same ShaderCompiler
// interface.
type NagaCompiler struct{}

// Compile implements ShaderCompiler.
func (NagaCompiler) Compile(name string, stage script.ShaderStage, format script.ShaderFormat, source, targetEnv string, opts Options) ([]uint32, error) {
	if words, ok := opts.Precompiled[name]; ok {
		return words, nil
	}
	if targetEnv != "" && targetEnv != "wgsl" {
		return nil, fmt.Errorf("%w: naga only targets wgsl, got target_env %q", ErrUnsupportedFormat, targetEnv)
	}
	if format != script.FormatDefault {
		return nil, fmt.Errorf("%w: naga does not compile %s", ErrUnsupportedFormat, format)
	}

	spirvBytes, err := naga.CompileWithOptions(source, naga.CompileOptions{
		Debug:    opts.Debug,
		Validate: opts.Validate,
	})
	if err != nil {
		return nil, err
	}
	return packSpirvBytesLE(spirvBytes)
}

// packSpirvBytesLE repacks a little-endian SPIR-V byte stream, as
// returned by naga, into the []uint32 word vector the ShaderCompiler
// contract requires.
func packSpirvBytesLE(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V byte stream length %d not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return words, nil
}
