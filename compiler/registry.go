// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

import (
	"sync"

	"github.com/gogpu/amber/script"
)

// registryMu protects compilers.
var registryMu sync.RWMutex

// compilers stores registered compiler implementations by format.
var compilers = make(map[script.ShaderFormat]ShaderCompiler)

func init() {
	pt := PassthroughCompiler{}
	RegisterCompiler(script.FormatSpirvHex, pt)
	RegisterCompiler(script.FormatSpirvAsm, pt)
	RegisterCompiler(script.FormatDefault, NagaCompiler{})
}

// RegisterCompiler registers a ShaderCompiler for the given format.
// Registering the same format twice replaces the previous registration,
// which is how a host overrides the default GLSL/HLSL-less NagaCompiler
// or swaps in a real GLSL front end.
func RegisterCompiler(format script.ShaderFormat, c ShaderCompiler) {
	registryMu.Lock()
	defer registryMu.Unlock()
	compilers[format] = c
}

// CompilerFor returns the registered compiler for format.
// Returns (nil, false) if none is registered.
func CompilerFor(format script.ShaderFormat) (ShaderCompiler, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := compilers[format]
	return c, ok
}

// AvailableFormats returns all formats with a registered compiler.
// The order is non-deterministic.
func AvailableFormats() []script.ShaderFormat {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]script.ShaderFormat, 0, len(compilers))
	for f := range compilers {
		result = append(result, f)
	}
	return result
}
