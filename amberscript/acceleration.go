// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/script"

var geometryFlagNames = map[string]bool{
	"OPAQUE":               true,
	"NO_DUPLICATE_ANY_HIT": true,
}

// parseAccelerationStructure handles:
//
//	ACCELERATION_STRUCTURE BOTTOM_LEVEL <name> … END
//	ACCELERATION_STRUCTURE TOP_LEVEL <name> … END
func (p *Parser) parseAccelerationStructure(line int) error {
	kindWord, kindLine, err := p.readWord()
	if err != nil {
		return err
	}
	switch kindWord {
	case "BOTTOM_LEVEL":
		return p.parseBLAS(line)
	case "TOP_LEVEL":
		return p.parseTLAS(line)
	default:
		return newParseError(kindLine, "expected BOTTOM_LEVEL or TOP_LEVEL, got %s", kindWord)
	}
}

func (p *Parser) parseBLAS(line int) error {
	name, nameLine, err := p.readWord()
	if err != nil {
		return newParseError(line, "Bottom level acceleration structure requires a name")
	}
	blas := script.BLAS{Name: name, DeclLine: line}

	err = p.parseBlock(line, "ACCELERATION_STRUCTURE", func(kw string, kwLine int) error {
		if kw != "GEOMETRY" {
			return newParseError(kwLine, "Unexpected identifier")
		}
		g, err := p.parseGeometry(kwLine)
		if err != nil {
			return err
		}
		if len(blas.Geometries) > 0 && blas.Geometries[0].Kind != g.Kind {
			return newParseError(kwLine, "Only one type of geometry is allowed within a BLAS")
		}
		blas.Geometries = append(blas.Geometries, g)
		return nil
	})
	if err != nil {
		return err
	}

	if _, ok := p.script.BLASes.Insert(name, blas); !ok {
		return newParseError(nameLine, "Bottom level acceleration structure with this name already defined")
	}
	return p.validateEndOfStatement("ACCELERATION_STRUCTURE")
}

// parseGeometry handles "GEOMETRY (TRIANGLES|AABBS) [v…] [FLAGS f…] END".
func (p *Parser) parseGeometry(line int) (script.Geometry, error) {
	kindWord, kindLine, err := p.readWord()
	if err != nil {
		return script.Geometry{}, err
	}

	g := script.Geometry{}
	switch kindWord {
	case "TRIANGLES":
		g.Kind = script.GeometryTriangles
	case "AABBS":
		g.Kind = script.GeometryAABBs
	default:
		return script.Geometry{}, newParseError(kindLine, "Unexpected geometry type")
	}

	floats, err := p.readFloatsUntilEndOrFlags(line)
	if err != nil {
		return script.Geometry{}, err
	}
	if t := p.peek(); t.IsString() && t.Text == "FLAGS" {
		p.advance()
		flags, ferr := p.parseFlagList(p.peekLine(), false)
		if ferr != nil {
			return script.Geometry{}, ferr
		}
		g.Flags = flags
		for {
			t := p.peek()
			if t.IsEOL() {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectWord("END"); err != nil {
			return script.Geometry{}, newParseError(line, "END expected")
		}
	}

	switch g.Kind {
	case script.GeometryTriangles:
		if len(floats) == 0 {
			return script.Geometry{}, newParseError(line, "No triangles have been specified.")
		}
		if len(floats)%3 != 0 {
			return script.Geometry{}, newParseError(line, "Each vertex consists of three float coordinates.")
		}
		if (len(floats)/3)%3 != 0 {
			return script.Geometry{}, newParseError(line, "Each triangle should include three vertices.")
		}
		g.Vertices = floats
	case script.GeometryAABBs:
		if len(floats) == 0 {
			return script.Geometry{}, newParseError(line, "No AABBs have been specified.")
		}
		if len(floats)%6 != 0 {
			return script.Geometry{}, newParseError(line,
				"Each vertex consists of three float coordinates. Each AABB should include two vertices.")
		}
		for i := 0; i < len(floats); i += 6 {
			var box [6]float32
			copy(box[:], floats[i:i+6])
			g.AABBs = append(g.AABBs, box)
		}
	}
	return g, nil
}

// readFloatsUntilEndOrFlags reads a run of numeric literals until it sees
// "END", "FLAGS", or end-of-stream, consuming "END" if that is what
// stopped it.
func (p *Parser) readFloatsUntilEndOrFlags(openLine int) ([]float32, error) {
	var out []float32
	for {
		t := p.peek()
		switch {
		case t.IsEOL():
			p.advance()
			continue
		case t.IsEOS():
			return nil, newParseError(openLine, "END expected")
		case t.IsString() && t.Text == "END":
			p.advance()
			return out, nil
		case t.IsString() && t.Text == "FLAGS":
			return out, nil
		case t.IsString():
			return nil, newParseError(p.peekLine(), "Unexpected data type")
		}
		v, err := p.readFloat32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// parseFlagList reads a whitespace-separated run of flag tokens up to end
// of line or a closing "END". GEOMETRY's FLAGS only accepts named
// identifier flags; BOTTOM_LEVEL_INSTANCE's FLAGS additionally accepts
// raw integer/hex mask literals, so allowRaw widens acceptance to those.
func (p *Parser) parseFlagList(declLine int, allowRaw bool) ([]string, error) {
	var flags []string
	for {
		t := p.peek()
		switch {
		case t.IsEOL() || t.IsEOS():
			return flags, nil
		case t.IsString() && t.Text == "END":
			return flags, nil
		case t.IsString():
			p.advance()
			if !geometryFlagNames[t.Text] {
				return nil, newParseError(declLine, "Unknown flag: %s", t.Text)
			}
			flags = append(flags, t.Text)
		case allowRaw && (t.IsInteger() || t.IsHex()):
			p.advance()
			flags = append(flags, t.AsString())
		default:
			return nil, newParseError(declLine, "Identifier expected")
		}
	}
}

func (p *Parser) parseTLAS(line int) error {
	name, nameLine, err := p.readWord()
	if err != nil {
		return newParseError(line, "invalid TLAS name provided")
	}
	tlas := script.TLAS{Name: name, DeclLine: line}

	err = p.parseBlock(line, "ACCELERATION_STRUCTURE", func(kw string, kwLine int) error {
		if kw != "BOTTOM_LEVEL_INSTANCE" {
			return newParseError(kwLine, "unknown token: %s", kw)
		}
		inst, err := p.parseBottomLevelInstance(kwLine)
		if err != nil {
			return err
		}
		tlas.Instances = append(tlas.Instances, inst)
		return nil
	})
	if err != nil {
		return err
	}

	if _, ok := p.script.TLASes.Insert(name, tlas); !ok {
		return newParseError(nameLine, "duplicate TLAS name provided")
	}
	return p.validateEndOfStatement("ACCELERATION_STRUCTURE")
}

// parseBottomLevelInstance handles:
//
//	BOTTOM_LEVEL_INSTANCE <blas> [TRANSFORM f…(12) END] [MASK n] [OFFSET n]
//	  [INDEX n] [FLAGS f…] END
func (p *Parser) parseBottomLevelInstance(line int) (script.Instance, error) {
	blasWord, blasLine, err := p.readWord()
	if err != nil {
		return script.Instance{}, newParseError(line, "Bottom level acceleration structure name expected")
	}
	blasHandle, ok := p.script.BLASes.Lookup(blasWord)
	if !ok {
		return script.Instance{}, newParseError(blasLine, "Bottom level acceleration structure with given name not found")
	}
	inst := script.Instance{BLAS: blasHandle}
	inst.Transform = [12]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}

	err = p.parseBlock(line, "BOTTOM_LEVEL_INSTANCE", func(kw string, kwLine int) error {
		switch kw {
		case "TRANSFORM":
			vals, terr := p.readFloatsUntilEnd(kwLine)
			if terr != nil {
				return terr
			}
			if len(vals) != 12 {
				return newParseError(kwLine, "Transform matrix expected to have 12 numbers")
			}
			copy(inst.Transform[:], vals)
			return nil
		case "MASK":
			v, err := p.readUint32()
			if err != nil {
				return newParseError(kwLine, "Integer or hex value expected")
			}
			inst.Mask = v
			return nil
		case "OFFSET":
			v, err := p.readUint32()
			if err != nil {
				return newParseError(kwLine, "Integer or hex value expected")
			}
			inst.Offset = v
			return nil
		case "INDEX":
			v, err := p.readUint32()
			if err != nil {
				return newParseError(kwLine, "Integer or hex value expected")
			}
			inst.Index = v
			return nil
		case "FLAGS":
			flags, err := p.parseFlagList(kwLine, true)
			if err != nil {
				return err
			}
			inst.Flags = flags
			return nil
		default:
			return newParseError(kwLine, "Unknown token in BOTTOM_LEVEL_INSTANCE block: %s", kw)
		}
	})
	if err != nil {
		return script.Instance{}, err
	}
	return inst, nil
}

// readFloatsUntilEnd reads a run of numeric literals up to a closing
// "END", used by TRANSFORM's flat 12-number body.
func (p *Parser) readFloatsUntilEnd(openLine int) ([]float32, error) {
	var out []float32
	for {
		t := p.peek()
		switch {
		case t.IsEOL():
			p.advance()
			continue
		case t.IsEOS():
			return nil, newParseError(openLine, "END command missing")
		case t.IsString() && t.Text == "END":
			p.advance()
			return out, nil
		case t.IsString():
			return nil, newParseError(p.peekLine(), "Unknown token: %s", t.Text)
		}
		v, err := p.readFloat32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
