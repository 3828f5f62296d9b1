// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"strings"

	"github.com/gogpu/amber/script"
)

// parseShader handles:
//
//	SHADER <stage> <name> <format> [PASSTHROUGH | VIRTUAL_FILE path | body… END] [TARGET_ENV env]
func (p *Parser) parseShader(line int) error {
	stageWord, stageLine, err := p.readWord()
	if err != nil {
		return err
	}
	stage, ok := toShaderStage(stageWord)
	if !ok {
		return newParseError(stageLine, "unknown shader stage: %s", stageWord)
	}

	name, nameLine, err := p.readWord()
	if err != nil {
		return err
	}

	formatWord, formatLine, err := p.readWord()
	if err != nil {
		return err
	}
	shaderFormat, ok := toShaderFormat(formatWord)
	if !ok {
		return newParseError(formatLine, "unknown shader format: %s", formatWord)
	}

	sh := script.Shader{Name: name, Stage: stage, Format: shaderFormat, DeclLine: line}

	next := p.peek()
	switch {
	case next.IsString() && next.Text == "PASSTHROUGH":
		p.advance()
		if stage != script.StageVertex {
			return newParseError(line, "PASSTHROUGH is only legal for vertex shaders")
		}
		sh.Passthrough = true
	case next.IsString() && next.Text == "VIRTUAL_FILE":
		p.advance()
		path, pathLine, err := p.readWord()
		if err != nil {
			return err
		}
		contents, ok := p.script.VirtualFiles[path]
		if !ok {
			return newParseError(pathLine, "Shader file not found")
		}
		sh.VirtualFilePath = path
		sh.Source = contents
	default:
		body := p.tok.ExtractToNext("END")
		if strings.TrimSpace(body) == "" {
			return newParseError(line, "SHADER must not be empty")
		}
		sh.Source = body
		if err := p.expectWord("END"); err != nil {
			return err
		}
	}

	if t := p.peek(); t.IsString() && t.Text == "TARGET_ENV" {
		p.advance()
		env, _, err := p.readWord()
		if err != nil {
			return err
		}
		sh.TargetEnv = env
	}

	if _, ok := p.script.Shaders.Insert(name, sh); !ok {
		return newParseError(nameLine, "duplicate shader name: %s", name)
	}
	return p.validateEndOfStatement("SHADER")
}
