// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/script"

// parseExpect handles:
//
//	EXPECT <buffer> IDX x y [SIZE w h] (EQ_RGB|EQ_RGBA) r g b [a] [TOLERANCE …]
//	EXPECT <buffer> IDX offset (EQ|NE|LT|LE|GT|GE|EQ_BUFFER|RMSE_BUFFER) values…
func (p *Parser) parseExpect(line int) error {
	bufWord, bufLine, err := p.readWord()
	if err != nil {
		return err
	}
	bh, ok := p.script.Buffers.Lookup(bufWord)
	if !ok {
		return newParseError(bufLine, "unknown buffer: %s", bufWord)
	}
	buf, _ := p.script.Buffers.Get(bh)

	if err := p.expectWord("IDX"); err != nil {
		return err
	}

	if buf.IsImageBacked() {
		return p.parseFramebufferProbe(bh, line)
	}
	return p.parseSSBOProbe(bh, &buf, line)
}

func (p *Parser) parseFramebufferProbe(bh script.BufferHandle, line int) error {
	x, err := p.readInt()
	if err != nil {
		return err
	}
	y, err := p.readInt()
	if err != nil {
		return err
	}
	probe := script.Probe{Kind: script.ProbeFramebuffer, Buffer: bh, DeclLine: line}
	//nolint:gosec // pixel coordinates are script-declared, never near int32 overflow
	probe.Rect.X, probe.Rect.Y = int32(x), int32(y)

	if t := p.peek(); t.IsString() && t.Text == "SIZE" {
		p.advance()
		w, err := p.readUint32()
		if err != nil {
			return err
		}
		h, err := p.readUint32()
		if err != nil {
			return err
		}
		probe.Rect.Width, probe.Rect.Height = w, h
		probe.HasSize = true
	}

	compWord, compLine, err := p.readWord()
	if err != nil {
		return err
	}
	comp, ok := toComparator(compWord, false)
	if !ok {
		return newParseError(compLine, "unknown comparator: %s", compWord)
	}
	probe.Comparator = comp

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
	probe.R, probe.G, probe.B = r, g, b
	if comp == script.CompEQRGBA {
		a, err := p.readFloat32()
		if err != nil {
			return err
		}
		probe.A = a
	}

	for {
		t := p.peek()
		if !t.IsString() || t.Text != "TOLERANCE" {
			break
		}
		p.advance()
		n := 1
		if comp == script.CompEQRGBA {
			n = 4
		}
		for i := 0; i < n; i++ {
			v, err := p.readFloat32()
			if err != nil {
				return err
			}
			percent := false
			if pt := p.peek(); pt.IsString() && pt.Text == "%" {
				p.advance()
				percent = true
			}
			probe.Tolerances = append(probe.Tolerances, script.Tolerance{Value: v, Percent: percent})
		}
	}

	p.script.Commands = append(p.script.Commands, script.Command{Kind: script.CmdProbe, Probe: probe, DeclLine: line})
	return p.validateEndOfStatement("EXPECT")
}

func (p *Parser) parseSSBOProbe(bh script.BufferHandle, buf *script.Buffer, line int) error {
	offset, err := p.readUint64()
	if err != nil {
		return err
	}
	probe := script.Probe{Kind: script.ProbeSSBO, Buffer: bh, Offset: offset, DeclLine: line}

	compWord, compLine, err := p.readWord()
	if err != nil {
		return err
	}
	comp, ok := toComparator(compWord, true)
	if !ok {
		return newParseError(compLine, "unknown comparator: %s", compWord)
	}
	probe.Comparator = comp

	if comp == script.CompEQBuffer || comp == script.CompRMSEBuffer {
		cmpWord, cmpLine, err := p.readWord()
		if err != nil {
			return err
		}
		cbh, ok := p.script.Buffers.Lookup(cmpWord)
		if !ok {
			return newParseError(cmpLine, "unknown buffer: %s", cmpWord)
		}
		probe.CompareBuffer = cbh
	} else {
		datum := buf.Format.Datum
		n := datum.ElementCount()
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			vl := p.peekLine()
			t := p.advance()
			b, err := scalarBytesFromToken(datum.Kind, t)
			if err != nil {
				return newParseError(vl, "%s", err.Error())
			}
			probe.Raw = append(probe.Raw, b...)
		}
	}

	p.script.Commands = append(p.script.Commands, script.Command{Kind: script.CmdProbeSSBO, Probe: probe, DeclLine: line})
	return p.validateEndOfStatement("EXPECT")
}
