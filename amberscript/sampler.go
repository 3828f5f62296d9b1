// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/script"

// parseSampler handles:
//
//	SAMPLER <name> [MAG_FILTER nearest|linear] [MIN_FILTER nearest|linear]
//	  [MIN_LOD f] [MAX_LOD f] [ADDRESS_MODE_U|V|W mode] [BORDER_COLOR color]
//	  [NORMALIZED_COORDS|UNNORMALIZED_COORDS] [COMPARE on|off] [COMPARE_OP op]
//
// UNNORMALIZED_COORDS resets MIN_LOD/MAX_LOD to 0 at the point it is
// parsed, since unnormalized sampling has no mip chain to select from.
func (p *Parser) parseSampler(line int) error {
	name, nameLine, err := p.readWord()
	if err != nil {
		return err
	}

	s := script.Sampler{Name: name, NormalizedCoords: true, MaxLOD: 1, DeclLine: line}

	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		switch t.Text {
		case "MAG_FILTER":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			m, ok := toFilterMode(w)
			if !ok {
				return newParseError(wLine, "unknown filter mode: %s", w)
			}
			s.MagFilter = m
		case "MIN_FILTER":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			m, ok := toFilterMode(w)
			if !ok {
				return newParseError(wLine, "unknown filter mode: %s", w)
			}
			s.MinFilter = m
		case "MIPMAP_FILTER":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			m, ok := toFilterMode(w)
			if !ok {
				return newParseError(wLine, "unknown filter mode: %s", w)
			}
			s.MipmapMode = m
		case "ADDRESS_MODE_U":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			m, ok := toAddressMode(w)
			if !ok {
				return newParseError(wLine, "unknown address mode: %s", w)
			}
			s.AddressModeU = m
		case "ADDRESS_MODE_V":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			m, ok := toAddressMode(w)
			if !ok {
				return newParseError(wLine, "unknown address mode: %s", w)
			}
			s.AddressModeV = m
		case "ADDRESS_MODE_W":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			m, ok := toAddressMode(w)
			if !ok {
				return newParseError(wLine, "unknown address mode: %s", w)
			}
			s.AddressModeW = m
		case "BORDER_COLOR":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			c, ok := toBorderColor(w)
			if !ok {
				return newParseError(wLine, "unknown border color: %s", w)
			}
			s.BorderColor = c
		case "MIN_LOD":
			p.advance()
			v, err := p.readFloat32()
			if err != nil {
				return err
			}
			s.MinLOD = v
		case "MAX_LOD":
			p.advance()
			v, err := p.readFloat32()
			if err != nil {
				return err
			}
			s.MaxLOD = v
		case "NORMALIZED_COORDS":
			p.advance()
			s.NormalizedCoords = true
		case "UNNORMALIZED_COORDS":
			p.advance()
			s.NormalizedCoords = false
			s.MinLOD, s.MaxLOD = 0, 0
		case "COMPARE":
			kwLine := p.peekLine()
			p.advance()
			v, err := p.parseOnOff("COMPARE", kwLine)
			if err != nil {
				return err
			}
			s.CompareEnable = v
		case "COMPARE_OP":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			op, ok := toCompareOp(w)
			if !ok {
				return newParseError(wLine, "unknown compare op: %s", w)
			}
			s.CompareOp = op
		default:
			goto done
		}
	}
done:
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := p.script.Samplers.Insert(name, s); !ok {
		return newParseError(nameLine, "duplicate sampler name: %s", name)
	}
	return p.validateEndOfStatement("SAMPLER")
}
