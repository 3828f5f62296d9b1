// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/compiler"

// Options configures a single Parse call.
type Options struct {
	// VirtualFiles seeds the script's virtual-file table, consulted by
	// SHADER … VIRTUAL_FILE and grown by VIRTUAL_FILE directives.
	VirtualFiles map[string]string

	// Precompiled maps a shader name to an already-compiled SPIR-V word
	// vector. Parse does not compile shaders and does not read this field.
	Precompiled map[string][]uint32

	// TargetEnv is a default target environment for shaders that do not
	// declare their own TARGET_ENV. Parse does not read it; such shaders
	// keep an empty Shader.TargetEnv.
	TargetEnv string

	// Compiler is a ShaderCompiler to use in place of a compiler.Registry
	// lookup. Parse does not read it.
	Compiler compiler.ShaderCompiler
}
