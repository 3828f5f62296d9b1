// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/script"

// parseRepeat handles:
//
//	REPEAT n
//	  <commands…>
//	END
//
// Nested commands are collected independently of p.script.Commands and
// returned as the CmdRepeat's Inner list, since REPEAT bodies are not
// themselves top-level script commands.
func (p *Parser) parseRepeat(line int) (script.Command, error) {
	count, err := p.readInt()
	if err != nil {
		return script.Command{}, err
	}
	if count <= 0 {
		return script.Command{}, newParseError(line, "REPEAT count must be greater than 0")
	}

	saved := p.script.Commands
	p.script.Commands = nil
	err = p.parseBlock(line, "REPEAT", func(kw string, kwLine int) error {
		return p.dispatchTopLevel(kw, kwLine)
	})
	inner := p.script.Commands
	p.script.Commands = saved
	if err != nil {
		return script.Command{}, err
	}

	if err := p.validateEndOfStatement("REPEAT"); err != nil {
		return script.Command{}, err
	}
	return script.Command{Kind: script.CmdRepeat, RepeatCount: count, Inner: inner, DeclLine: line}, nil
}
