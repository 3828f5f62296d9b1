// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/script"

// parseRun handles:
//
//	RUN [TIMED_EXECUTION] <pipeline> …
func (p *Parser) parseRun(line int) error {
	timed := false
	if t := p.peek(); t.IsString() && t.Text == "TIMED_EXECUTION" {
		p.advance()
		timed = true
	}

	pipeWord, pipeLine, err := p.readWord()
	if err != nil {
		return err
	}
	ph, ok := p.script.Pipelines.Lookup(pipeWord)
	if !ok {
		return newParseError(pipeLine, "unknown pipeline: %s", pipeWord)
	}
	pipe, _ := p.script.Pipelines.Get(ph)
	cmd := script.Command{Pipeline: ph, Timed: timed, DeclLine: line}

	next := p.peek()
	switch {
	case next.IsString() && next.Text == "DRAW_RECT":
		if pipe.Kind != script.PipelineGraphics {
			return newParseError(line, "RUN command requires graphics pipeline")
		}
		p.advance()
		cmd.Kind = script.CmdDrawRect
		if err := p.parseRect(&cmd.Rect); err != nil {
			return err
		}
	case next.IsString() && next.Text == "DRAW_GRID":
		if pipe.Kind != script.PipelineGraphics {
			return newParseError(line, "RUN command requires graphics pipeline")
		}
		p.advance()
		cmd.Kind = script.CmdDrawGrid
		if err := p.parseRect(&cmd.Rect); err != nil {
			return err
		}
		if err := p.expectWord("CELLS"); err != nil {
			return err
		}
		cols, err := p.readUint32()
		if err != nil {
			return err
		}
		rows, err := p.readUint32()
		if err != nil {
			return err
		}
		cmd.Columns, cmd.Rows = cols, rows
	case next.IsString() && next.Text == "DRAW_ARRAY":
		if pipe.Kind != script.PipelineGraphics {
			return newParseError(line, "RUN command requires graphics pipeline")
		}
		p.advance()
		cmd.Kind = script.CmdDrawArrays
		if err := p.parseDrawArrays(&cmd); err != nil {
			return err
		}
	case next.IsString() && next.Text == "RAYGEN":
		if pipe.Kind != script.PipelineRaytracing {
			return newParseError(line, "RUN command requires raytracing pipeline")
		}
		p.advance()
		cmd.Kind = script.CmdRayGen
		if err := p.parseRayGen(&cmd); err != nil {
			return err
		}
	case next.IsInteger():
		if pipe.Kind != script.PipelineCompute {
			return newParseError(line, "RUN command requires compute pipeline")
		}
		cmd.Kind = script.CmdCompute
		x, err := p.readUint32()
		if err != nil {
			return err
		}
		y, err := p.readUint32()
		if err != nil {
			return err
		}
		z, err := p.readUint32()
		if err != nil {
			return err
		}
		cmd.X, cmd.Y, cmd.Z = x, y, z
	case next.IsEOL() || next.IsEOS():
		return newParseError(line, "RUN command requires parameters")
	default:
		return newParseError(line, "expected RUN command form, got %s", next.AsString())
	}

	p.script.Commands = append(p.script.Commands, cmd)
	return p.validateEndOfStatement("RUN")
}

// parseRect handles "POS x y SIZE w h".
func (p *Parser) parseRect(r *script.Rect) error {
	if err := p.expectWord("POS"); err != nil {
		return err
	}
	x, err := p.readInt()
	if err != nil {
		return err
	}
	y, err := p.readInt()
	if err != nil {
		return err
	}
	if err := p.expectWord("SIZE"); err != nil {
		return err
	}
	w, err := p.readUint32()
	if err != nil {
		return err
	}
	h, err := p.readUint32()
	if err != nil {
		return err
	}
	//nolint:gosec // rect coordinates are script-declared, never near int32 overflow
	r.X, r.Y, r.Width, r.Height = int32(x), int32(y), w, h
	return nil
}

// parseDrawArrays handles:
//
//	DRAW_ARRAY AS <topology> [INDEXED] [INSTANCED] [START_IDX i] [COUNT n]
//	  [START_INSTANCE i] [INSTANCE_COUNT n]
func (p *Parser) parseDrawArrays(cmd *script.Command) error {
	if err := p.expectWord("AS"); err != nil {
		return err
	}
	topoWord, topoLine, err := p.readWord()
	if err != nil {
		return err
	}
	topo, ok := toTopology(topoWord)
	if !ok {
		return newParseError(topoLine, "unknown topology: %s", topoWord)
	}
	cmd.DrawTopology = topo

	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		switch t.Text {
		case "INDEXED":
			p.advance()
			cmd.Indexed = true
		case "INSTANCED":
			p.advance()
			cmd.Instanced = true
		case "START_IDX":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			cmd.FirstVertex = v
		case "COUNT":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			cmd.VertexCount, cmd.HasVertexCount = v, true
		case "START_INSTANCE":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			cmd.FirstInstance = v
		case "INSTANCE_COUNT":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			cmd.InstanceCount = v
		default:
			return nil
		}
	}
	return nil
}

// parseRayGen handles "RAYGEN sbt [MISS sbt] [HIT sbt] [CALL sbt] [x y z]".
func (p *Parser) parseRayGen(cmd *script.Command) error {
	sbt, _, err := p.readWord()
	if err != nil {
		return err
	}
	cmd.RayGenSBT = sbt

	for {
		t := p.peek()
		switch {
		case t.IsString() && t.Text == "MISS":
			p.advance()
			v, _, err := p.readWord()
			if err != nil {
				return err
			}
			cmd.MissSBT, cmd.HasMissSBT = v, true
		case t.IsString() && t.Text == "HIT":
			p.advance()
			v, _, err := p.readWord()
			if err != nil {
				return err
			}
			cmd.HitSBT, cmd.HasHitSBT = v, true
		case t.IsString() && t.Text == "CALL":
			p.advance()
			v, _, err := p.readWord()
			if err != nil {
				return err
			}
			cmd.CallSBT, cmd.HasCallSBT = v, true
		case t.IsInteger():
			x, err := p.readUint32()
			if err != nil {
				return err
			}
			y, err := p.readUint32()
			if err != nil {
				return err
			}
			z, err := p.readUint32()
			if err != nil {
				return err
			}
			cmd.X, cmd.Y, cmd.Z = x, y, z
			return nil
		default:
			return nil
		}
	}
}

func (p *Parser) parseClear(line int) error {
	pipeWord, pipeLine, err := p.readWord()
	if err != nil {
		return err
	}
	ph, ok := p.script.Pipelines.Lookup(pipeWord)
	if !ok {
		return newParseError(pipeLine, "unknown pipeline: %s", pipeWord)
	}
	p.script.Commands = append(p.script.Commands, script.Command{Kind: script.CmdClear, Pipeline: ph, DeclLine: line})
	return p.validateEndOfStatement("CLEAR")
}

func (p *Parser) parseClearColor(line int) error {
	pipeWord, pipeLine, err := p.readWord()
	if err != nil {
		return err
	}
	ph, ok := p.script.Pipelines.Lookup(pipeWord)
	if !ok {
		return newParseError(pipeLine, "unknown pipeline: %s", pipeWord)
	}
	r, err := p.readFloat32()
	if err != nil {
		return err
	}
	g, err := p.readFloat32()
	if err != nil {
		return err
	}
	b, err := p.readFloat32()
	if err != nil {
		return err
	}
	a, err := p.readFloat32()
	if err != nil {
		return err
	}
	p.script.Commands = append(p.script.Commands, script.Command{
		Kind: script.CmdClearColor, Pipeline: ph, R: r, G: g, B: b, A: a, DeclLine: line,
	})
	return p.validateEndOfStatement("CLEAR_COLOR")
}

func (p *Parser) parseClearDepth(line int) error {
	pipeWord, pipeLine, err := p.readWord()
	if err != nil {
		return err
	}
	ph, ok := p.script.Pipelines.Lookup(pipeWord)
	if !ok {
		return newParseError(pipeLine, "unknown pipeline: %s", pipeWord)
	}
	d, err := p.readFloat32()
	if err != nil {
		return err
	}
	p.script.Commands = append(p.script.Commands, script.Command{Kind: script.CmdClearDepth, Pipeline: ph, Depth: d, DeclLine: line})
	return p.validateEndOfStatement("CLEAR_DEPTH")
}

func (p *Parser) parseClearStencil(line int) error {
	pipeWord, pipeLine, err := p.readWord()
	if err != nil {
		return err
	}
	ph, ok := p.script.Pipelines.Lookup(pipeWord)
	if !ok {
		return newParseError(pipeLine, "unknown pipeline: %s", pipeWord)
	}
	s, err := p.readUint32()
	if err != nil {
		return err
	}
	p.script.Commands = append(p.script.Commands, script.Command{Kind: script.CmdClearStencil, Pipeline: ph, Stencil: s, DeclLine: line})
	return p.validateEndOfStatement("CLEAR_STENCIL")
}

func (p *Parser) parseCopy(line int) error {
	if err := p.expectWord("BUFFER"); err != nil {
		return err
	}
	if err := p.expectWord("FROM"); err != nil {
		return err
	}
	srcWord, srcLine, err := p.readWord()
	if err != nil {
		return err
	}
	src, ok := p.script.Buffers.Lookup(srcWord)
	if !ok {
		return newParseError(srcLine, "unknown buffer: %s", srcWord)
	}
	if err := p.expectWord("TO"); err != nil {
		return err
	}
	dstWord, dstLine, err := p.readWord()
	if err != nil {
		return err
	}
	dst, ok := p.script.Buffers.Lookup(dstWord)
	if !ok {
		return newParseError(dstLine, "unknown buffer: %s", dstWord)
	}
	p.script.Commands = append(p.script.Commands, script.Command{Kind: script.CmdCopy, CopySrc: src, CopyDst: dst, DeclLine: line})
	return p.validateEndOfStatement("COPY")
}
