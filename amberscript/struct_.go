// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import "github.com/gogpu/amber/script"

// parseStruct handles:
//
//	STRUCT <name> [STRIDE n]
//	  <type> <member> [OFFSET k] [ARRAY_STRIDE k] [MATRIX_STRIDE k]
//	  …
//	END
func (p *Parser) parseStruct(line int) error {
	name, nameLine, err := p.readWord()
	if err != nil {
		return err
	}

	st := script.StructType{Name: name, DeclLine: line}

	if t := p.peek(); t.IsString() && t.Text == "STRIDE" {
		p.advance()
		n, err := p.readUint32()
		if err != nil {
			return err
		}
		st.Stride = n
		st.HasStride = true
	}

	err = p.parseBlock(line, "STRUCT", func(kw string, kwLine int) error {
		return p.parseStructMember(&st, kw, kwLine)
	})
	if err != nil {
		return err
	}

	if _, ok := p.script.Structs.Insert(name, st); !ok {
		return newParseError(nameLine, "duplicate struct name: %s", name)
	}
	return p.validateEndOfStatement("STRUCT")
}

// parseStructMember parses one "<type> <member> […]" line, where kw is
// the already-consumed leading type token.
func (p *Parser) parseStructMember(st *script.StructType, typeWord string, typeLine int) error {
	memberName, memberLine, err := p.readWord()
	if err != nil {
		return err
	}
	for _, existing := range st.Members {
		if existing.Name == memberName {
			return newParseError(memberLine, "duplicate member name: %s", memberName)
		}
	}

	m := script.Member{Name: memberName, DeclLine: typeLine}

	if nested, ok := p.script.Structs.Lookup(typeWord); ok {
		if typeWord == st.Name {
			return newParseError(typeLine, "struct %q cannot embed itself", st.Name)
		}
		if nestedStruct, ok := p.script.Structs.Get(nested); ok && structEmbeds(&nestedStruct, st.Name, p.script) {
			return newParseError(typeLine, "struct %q cannot recursively embed %q", st.Name, typeWord)
		}
		m.Nested = nested
		m.IsNested = true
	} else {
		d, perr := parseDatumType(typeWord)
		if perr != nil {
			return newParseError(typeLine, "%s", perr.Error())
		}
		m.Datum = d
	}

	// Optional trailing array length: a bare integer before any
	// OFFSET/ARRAY_STRIDE/MATRIX_STRIDE suffix.
	if t := p.peek(); t.IsInteger() {
		n, err := p.readInt()
		if err != nil {
			return err
		}
		m.ArrayLength = n
	}

loop:
	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		switch t.Text {
		case "OFFSET":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			m.Offset, m.HasOffset = v, true
		case "ARRAY_STRIDE":
			p.advance()
			if m.ArrayLength <= 0 {
				return newParseError(typeLine, "ARRAY_STRIDE requires an array member")
			}
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			m.ArrayStride, m.HasArrayStride = v, true
		case "MATRIX_STRIDE":
			p.advance()
			if !m.Datum.IsMatrix() {
				return newParseError(typeLine, "MATRIX_STRIDE requires a matrix member")
			}
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			m.MatrixStride, m.HasMatrixStride = v, true
		default:
			break loop
		}
	}
	st.Members = append(st.Members, m)
	return p.validateEndOfStatement("STRUCT member")
}

// structEmbeds reports whether candidate (or any struct it itself
// embeds, transitively) embeds a struct named target, guarding against
// indirect as well as direct self-reference.
func structEmbeds(candidate *script.StructType, target string, s *script.Script) bool {
	for _, m := range candidate.Members {
		if !m.IsNested {
			continue
		}
		nested, ok := s.Structs.Get(m.Nested)
		if !ok {
			continue
		}
		if nested.Name == target {
			return true
		}
		if structEmbeds(&nested, target, s) {
			return true
		}
	}
	return false
}
