// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/amber/format"
	"github.com/gogpu/amber/token"
)

// intBytesFor packs an already-computed bit pattern into kind's native
// little-endian width. Negative values arrive pre-converted to two's
// complement in u (the tokenizer does this for negative Integer tokens).
func intBytesFor(kind format.ScalarKind, u uint64) ([]byte, error) {
	buf := make([]byte, kind.Width())
	switch kind {
	case format.Int8, format.Uint8:
		buf[0] = byte(u)
	case format.Int16, format.Uint16:
		binary.LittleEndian.PutUint16(buf, uint16(u))
	case format.Int32, format.Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(u))
	case format.Int64, format.Uint64:
		binary.LittleEndian.PutUint64(buf, u)
	default:
		return nil, fmt.Errorf("%s is not an integer type", kind)
	}
	return buf, nil
}

func floatBytesFor(kind format.ScalarKind, v float64) ([]byte, error) {
	buf := make([]byte, kind.Width())
	switch kind {
	case format.Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	case format.Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	default:
		return nil, fmt.Errorf("%s literals are not supported in DATA blocks", kind)
	}
	return buf, nil
}

// scalarBytesFromToken converts one numeric token to kind's native byte
// representation, rejecting a floating-point literal where an integer
// type is expected while permitting hex for both integer and floating
// targets.
func scalarBytesFromToken(kind format.ScalarKind, t token.Token) ([]byte, error) {
	if kind.IsFloat() {
		switch t.Kind {
		case token.Double:
			return floatBytesFor(kind, t.Double)
		case token.Integer:
			return floatBytesFor(kind, float64(int64(t.Uint)))
		case token.Hex:
			v, err := t.AsHex()
			if err != nil {
				return nil, err
			}
			return floatBytesFor(kind, float64(v))
		default:
			return nil, fmt.Errorf("expected a numeric literal, got %s", t.Kind)
		}
	}
	switch t.Kind {
	case token.Double:
		return nil, fmt.Errorf("floating-point literal not allowed for %s", kind)
	case token.Integer:
		return intBytesFor(kind, t.Uint)
	case token.Hex:
		v, err := t.AsHex()
		if err != nil {
			return nil, err
		}
		return intBytesFor(kind, v)
	default:
		return nil, fmt.Errorf("expected a numeric literal, got %s", t.Kind)
	}
}

// numericValue widens any numeric token to a float64, for SERIES_FROM's
// floating-point path.
func numericValue(t token.Token) (float64, error) {
	switch t.Kind {
	case token.Double:
		return t.Double, nil
	case token.Integer:
		return float64(int64(t.Uint)), nil
	case token.Hex:
		v, err := t.AsHex()
		return float64(v), err
	default:
		return 0, fmt.Errorf("expected a number, got %s", t.Kind)
	}
}

// integerValue widens an Integer or Hex token to an int64, for
// SERIES_FROM's integer path.
func integerValue(t token.Token) (int64, error) {
	switch t.Kind {
	case token.Integer:
		return int64(t.Uint), nil
	case token.Hex:
		v, err := t.AsHex()
		return int64(v), err
	default:
		return 0, fmt.Errorf("expected an integer, got %s", t.Kind)
	}
}

// scalarBitsU32 packs a literal token into a 4-byte little-endian word,
// used by SPECIALIZE and SET KERNEL ARG. Kinds narrower than 4 bytes are
// zero-extended; Pipeline.Validate rejects non-32-bit specialization
// kinds after the fact, so the padding here only needs to keep the
// value available for that check, not be itself authoritative.
func scalarBitsU32(kind format.ScalarKind, t token.Token) (uint32, error) {
	b, err := scalarBytesFromToken(kind, t)
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint32(buf[:]), nil
}
