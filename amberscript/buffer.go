// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"github.com/gogpu/amber/format"
	layoutpkg "github.com/gogpu/amber/layout"
	"github.com/gogpu/amber/script"
	"github.com/gogpu/amber/token"
)

// parseBuffer handles:
//
//	BUFFER <name> (FORMAT fmt | DATA_TYPE type) [STD140|STD430]
//	  [DATA … END | SIZE n (FILL v | SERIES_FROM a INC_BY b)]
//	  [MIP_LEVELS k]
func (p *Parser) parseBuffer(line int) error {
	name, nameLine, err := p.readWord()
	if err != nil {
		return err
	}
	if name == "FORMAT" || name == "DATA_TYPE" {
		return newParseError(line, "missing BUFFER name")
	}

	buf := script.Buffer{Name: name, MipLevels: 1, DeclLine: line}

	kwWord, kwLine, err := p.readWord()
	if err != nil {
		return err
	}

	var datum format.DatumType
	var structHandle script.StructHandle
	hasStruct := false

	switch kwWord {
	case "FORMAT":
		fmtWord, fmtLine, err := p.readWord()
		if err != nil {
			return err
		}
		f, ferr := format.ParseImageFormat(fmtWord)
		if ferr != nil {
			return newParseError(fmtLine, "invalid BUFFER FORMAT")
		}
		buf.Format = f
		datum = f.Datum
	case "DATA_TYPE":
		typeWord, typeLine, err := p.readWord()
		if err != nil {
			return err
		}
		if sh, ok := p.script.Structs.Lookup(typeWord); ok {
			structHandle = sh
			hasStruct = true
		} else {
			d, perr := parseDatumType(typeWord)
			if perr != nil {
				return newParseError(typeLine, "%s", perr.Error())
			}
			datum = d
		}
	default:
		return newParseError(kwLine, "expected FORMAT or DATA_TYPE, got %s", kwWord)
	}

	lay := format.Std430
	if w := p.peek(); w.IsString() && (w.Text == "STD140" || w.Text == "STD430") {
		p.advance()
		if w.Text == "STD140" {
			lay = format.Std140
		}
	}

	if t := p.peek(); t.IsString() && t.Text == "DATA" {
		p.advance()
		if err := p.parseBufferData(&buf, datum, hasStruct, structHandle, lay); err != nil {
			return err
		}
	} else if t.IsString() && t.Text == "SIZE" {
		p.advance()
		count, err := p.readUint64()
		if err != nil {
			return err
		}
		buf.ElementCount = count
		sizeKw, sizeKwLine, err := p.readWord()
		if err != nil {
			return err
		}
		switch sizeKw {
		case "FILL":
			if err := p.parseBufferFill(&buf, datum, count); err != nil {
				return err
			}
		case "SERIES_FROM":
			if err := p.parseBufferSeries(&buf, datum, count); err != nil {
				return err
			}
		default:
			return newParseError(sizeKwLine, "expected FILL or SERIES_FROM, got %s", sizeKw)
		}
	}

	if hasStruct {
		buf.StructType = structHandle
		st, _ := p.script.Structs.Get(structHandle)
		ls, lerr := p.layoutStructOf(&st)
		if lerr != nil {
			return newParseError(line, "%s", lerr.Error())
		}
		result := layoutpkg.Compute(ls, lay)
		// Buffer.Format has no dedicated "struct" representation; a
		// synthetic byte-wide DatumType of the struct's computed size
		// lets BytesPerElement/TotalBytes report the right totals
		// without package format needing to know about structs.
		//nolint:gosec // struct layout sizes are script-declared, never near 2^31
		buf.Format = format.Format{Name: st.Name, Datum: format.DatumType{Kind: format.Uint8, Rows: int(result.Size), Cols: 1}, Layout: lay}
	} else if buf.Format.Name == "" && buf.Format.Segments == nil {
		buf.Format = format.FromDatumType(datum, lay)
	} else {
		buf.Format.Layout = lay
	}

	if w := p.peek(); w.IsString() && w.Text == "MIP_LEVELS" {
		p.advance()
		n, err := p.readUint32()
		if err != nil {
			return err
		}
		buf.MipLevels = n
	}

	if _, ok := p.script.Buffers.Insert(name, buf); !ok {
		return newParseError(nameLine, "duplicate buffer name: %s", name)
	}
	return p.validateEndOfStatement("BUFFER")
}

func (p *Parser) parseBufferData(buf *script.Buffer, datum format.DatumType, hasStruct bool, sh script.StructHandle, lay format.Layout) error {
	if hasStruct {
		st, _ := p.script.Structs.Get(sh)
		var out []byte
		count := uint64(0)
		for {
			t := p.peek()
			switch {
			case t.IsEOL():
				p.advance()
				continue
			case t.IsEOS():
				return newParseError(buf.DeclLine, "BUFFER missing END command")
			case t.IsString() && t.Text == "END":
				p.advance()
				buf.Data = out
				buf.ElementCount = count
				return nil
			}
			inst, err := p.consumeStructInstance(&st, lay)
			if err != nil {
				return err
			}
			out = append(out, inst...)
			count++
		}
	}

	var values []token.Token
	var valueLines []int
	for {
		t := p.peek()
		switch {
		case t.IsEOL():
			p.advance()
			continue
		case t.IsEOS():
			return newParseError(buf.DeclLine, "BUFFER missing END command")
		case t.IsString() && t.Text == "END":
			p.advance()
			goto packed
		}
		valueLines = append(valueLines, p.peekLine())
		values = append(values, p.advance())
	}
packed:
	elemSize := datum.ElementCount()
	if elemSize == 0 || len(values)%elemSize != 0 {
		return newParseError(buf.DeclLine, "BUFFER DATA block does not contain a whole number of elements")
	}
	out := make([]byte, 0, len(values)*datum.Kind.Width())
	for i, t := range values {
		b, err := scalarBytesFromToken(datum.Kind, t)
		if err != nil {
			return newParseError(valueLines[i], "invalid BUFFER data value: %s", t.AsString())
		}
		out = append(out, b...)
	}
	buf.Data = out
	buf.ElementCount = uint64(len(values) / elemSize)
	return nil
}

func (p *Parser) parseBufferFill(buf *script.Buffer, datum format.DatumType, count uint64) error {
	line := p.peekLine()
	t := p.advance()
	elemBytes, err := scalarBytesFromToken(datum.Kind, t)
	if err != nil {
		return newParseError(line, "%s", err.Error())
	}
	n := datum.ElementCount()
	full := make([]byte, 0, n*len(elemBytes))
	for i := 0; i < n; i++ {
		full = append(full, elemBytes...)
	}
	out := make([]byte, 0, int(count)*len(full))
	for i := uint64(0); i < count; i++ {
		out = append(out, full...)
	}
	buf.Data = out
	return nil
}

func (p *Parser) parseBufferSeries(buf *script.Buffer, datum format.DatumType, count uint64) error {
	if !datum.IsScalar() {
		return newParseError(buf.DeclLine, "SERIES_FROM requires a scalar data type")
	}
	startTok := p.advance()
	if err := p.expectWord("INC_BY"); err != nil {
		return err
	}
	incTok := p.advance()

	out := make([]byte, 0, int(count)*datum.Kind.Width())
	if datum.Kind.IsFloat() {
		start, err := numericValue(startTok)
		if err != nil {
			return newParseError(buf.DeclLine, "%s", err.Error())
		}
		inc, err := numericValue(incTok)
		if err != nil {
			return newParseError(buf.DeclLine, "%s", err.Error())
		}
		for i := uint64(0); i < count; i++ {
			v := start + float64(i)*inc
			b, err := floatBytesFor(datum.Kind, v)
			if err != nil {
				return newParseError(buf.DeclLine, "%s", err.Error())
			}
			out = append(out, b...)
		}
	} else {
		start, err := integerValue(startTok)
		if err != nil {
			return newParseError(buf.DeclLine, "%s", err.Error())
		}
		inc, err := integerValue(incTok)
		if err != nil {
			return newParseError(buf.DeclLine, "%s", err.Error())
		}
		for i := uint64(0); i < count; i++ {
			//nolint:gosec // series index is bounded by the declared SIZE
			v := start + int64(i)*inc
			b, err := intBytesFor(datum.Kind, uint64(v))
			if err != nil {
				return newParseError(buf.DeclLine, "%s", err.Error())
			}
			out = append(out, b...)
		}
	}
	buf.Data = out
	return nil
}
