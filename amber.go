// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package amber is the root entry point of the AmberScript front-end: a
// tokenizer, recursive-descent parser, script object model, and semantic
// validator for the AmberScript shader-test DSL.
//
// It sits atop the leaf packages token, format and layout, and the
// mid-level script and amberscript packages, mirroring how wgpu.CreateInstance
// sits atop core and hal in github.com/gogpu/wgpu.
package amber

import (
	"github.com/gogpu/amber/amberscript"
	"github.com/gogpu/amber/script"
)

// Options configures a single Parse call.
type Options = amberscript.Options

// Parse parses an AmberScript document into a fully validated Script, or
// returns the first error encountered as a single error whose Error() is
// the "<line>: <message>" diagnostic string.
func Parse(source string, opts Options) (*script.Script, error) {
	return amberscript.Parse(source, opts)
}
