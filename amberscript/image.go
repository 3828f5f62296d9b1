// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"github.com/gogpu/amber/format"
	"github.com/gogpu/amber/script"
)

// parseImage handles:
//
//	IMAGE <name> (DATA_TYPE type | FORMAT fmt) DIM_1D|DIM_2D|DIM_3D
//	  WIDTH w [HEIGHT h] [DEPTH d] [MIP_LEVELS k] [SAMPLES n] [DATA … END]
//
// IMAGE declares a Buffer, same as BUFFER: the directive only differs in
// requiring a dimensionality and matching size keywords, since an image
// resource is always bound later as sampled/storage via BIND AS.
func (p *Parser) parseImage(line int) error {
	name, nameLine, err := p.readWord()
	if err != nil {
		return err
	}

	buf := script.Buffer{Name: name, MipLevels: 1, DeclLine: line}

	kwWord, kwLine, err := p.readWord()
	if err != nil {
		return err
	}

	var datum format.DatumType
	switch kwWord {
	case "DATA_TYPE":
		typeWord, typeLine, err := p.readWord()
		if err != nil {
			return err
		}
		d, perr := parseDatumType(typeWord)
		if perr != nil {
			return newParseError(typeLine, "%s", perr.Error())
		}
		datum = d
		buf.Format = format.FromDatumType(datum, format.Std430)
	case "FORMAT":
		fmtWord, fmtLine, err := p.readWord()
		if err != nil {
			return err
		}
		f, ferr := format.ParseImageFormat(fmtWord)
		if ferr != nil {
			return newParseError(fmtLine, "invalid IMAGE FORMAT")
		}
		buf.Format = f
		datum = f.Datum
	default:
		return newParseError(kwLine, "expected DATA_TYPE or FORMAT, got %s", kwWord)
	}

	dimWord, dimLine, err := p.readWord()
	if err != nil {
		return err
	}
	switch dimWord {
	case "DIM_1D":
		buf.Dimension = script.Dimension1D
	case "DIM_2D":
		buf.Dimension = script.Dimension2D
	case "DIM_3D":
		buf.Dimension = script.Dimension3D
	default:
		return newParseError(dimLine, "unknown IMAGE command provided: %s", dimWord)
	}
	buf.Height, buf.Depth = 1, 1

	if err := p.expectWord("WIDTH"); err != nil {
		return newParseError(dimLine, "expected IMAGE WIDTH")
	}
	w, err := p.readUint32()
	if err != nil {
		return newParseError(dimLine, "expected positive IMAGE WIDTH")
	}
	buf.Width = w

	if buf.Dimension == script.Dimension2D || buf.Dimension == script.Dimension3D {
		if err := p.expectWord("HEIGHT"); err != nil {
			return newParseError(dimLine, "expected IMAGE HEIGHT")
		}
		h, err := p.readUint32()
		if err != nil {
			return newParseError(dimLine, "expected positive IMAGE HEIGHT")
		}
		buf.Height = h
	}

	if buf.Dimension == script.Dimension3D {
		if err := p.expectWord("DEPTH"); err != nil {
			return newParseError(dimLine, "expected IMAGE DEPTH")
		}
		d, err := p.readUint32()
		if err != nil {
			return newParseError(dimLine, "expected positive IMAGE DEPTH")
		}
		buf.Depth = d
	}

	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		switch t.Text {
		case "MIP_LEVELS":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return newParseError(dimLine, "invalid value for MIP_LEVELS")
			}
			buf.MipLevels = v
		case "SAMPLES":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return newParseError(dimLine, "invalid value for SAMPLES")
			}
			buf.Samples = v
		case "DATA":
			p.advance()
			data, err := p.parseTightDataUntilEnd(datum, line)
			if err != nil {
				return err
			}
			buf.Data = data
			elemSize := datum.ElementCount()
			if elemSize > 0 {
				buf.ElementCount = uint64(len(data)) / uint64(elemSize*datum.Kind.Width())
			}
		default:
			goto done
		}
	}
done:
	if _, ok := p.script.Buffers.Insert(name, buf); !ok {
		return newParseError(nameLine, "duplicate buffer name: %s", name)
	}
	return p.validateEndOfStatement("IMAGE")
}

// parseTightDataUntilEnd reads numeric tokens up to "END" and packs them
// tightly under datum's scalar kind, used by IMAGE's DATA body.
func (p *Parser) parseTightDataUntilEnd(datum format.DatumType, declLine int) ([]byte, error) {
	var out []byte
	for {
		t := p.peek()
		switch {
		case t.IsEOL():
			p.advance()
			continue
		case t.IsEOS():
			return nil, newParseError(declLine, "IMAGE missing END command")
		case t.IsString() && t.Text == "END":
			p.advance()
			return out, nil
		}
		line := p.peekLine()
		tok := p.advance()
		b, err := scalarBytesFromToken(datum.Kind, tok)
		if err != nil {
			return nil, newParseError(line, "%s", err.Error())
		}
		out = append(out, b...)
	}
}
