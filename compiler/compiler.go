// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package compiler is the pluggable shader-compiler boundary: the one
// external collaborator the front-end invokes synchronously, wrapping
// any error it returns with the current source line.
package compiler

import (
	"errors"

	"github.com/gogpu/amber/script"
)

// Common compiler errors.
var (
	// ErrUnsupportedFormat indicates a ShaderCompiler was asked to
	// compile a source dialect it does not implement.
	ErrUnsupportedFormat = errors.New("compiler: unsupported shader format")

	// ErrCompilerNotFound indicates Registry has no compiler registered
	// for the requested format.
	ErrCompilerNotFound = errors.New("compiler: no compiler registered for format")
)

// Options configures a single Compile call: debug-info retention,
// IR validation, and the optional short-circuits (a virtual-file
// table already resolved into source text by the caller, and a
// pre-compiled-shader map keyed by shader name).
type Options struct {
	// Debug requests debug info (names, source mapping) in the output.
	Debug bool

	// Validate requests IR validation before code generation.
	Validate bool

	// Precompiled maps a shader name directly to a SPIR-V word vector,
	// short-circuiting compilation entirely when present.
	Precompiled map[string][]uint32
}

// ShaderCompiler turns shader source text into a SPIR-V word vector.
// Implementations are synchronous: a ShaderCompiler must not block on
// anything but the compilation itself.
type ShaderCompiler interface {
	// Compile translates source in the given stage/format/TARGET_ENV
	// into SPIR-V words. name identifies the shader for Options.
	// Precompiled lookups and compiler diagnostics; it does not appear
	// in the output.
	Compile(name string, stage script.ShaderStage, format script.ShaderFormat, source, targetEnv string, opts Options) ([]uint32, error)
}

// CompileWithPrecompiled consults opts.Precompiled for name before
// delegating to c.
func CompileWithPrecompiled(c ShaderCompiler, name string, stage script.ShaderStage, format script.ShaderFormat, source, targetEnv string, opts Options) ([]uint32, error) {
	if words, ok := opts.Precompiled[name]; ok {
		return words, nil
	}
	return c.Compile(name, stage, format, source, targetEnv, opts)
}
