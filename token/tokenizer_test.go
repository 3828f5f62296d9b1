// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package token

import (
	"math"
	"testing"
)

func collect(data string) []Token {
	tz := NewTokenizer(data)
	var toks []Token
	for {
		tok := tz.Next()
		toks = append(toks, tok)
		if tok.IsEOS() {
			return toks
		}
	}
}

func TestTokenizerBasics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Kind
	}{
		{"empty", "", []Kind{EndOfStream}},
		{"comment", "# hello\nBUFFER", []Kind{EndOfLine, String, EndOfStream}},
		{"punctuation", "(1,2)", []Kind{String, Integer, String, Integer, String, EndOfStream}},
		{"words", "SHADER vertex s GLSL", []Kind{String, String, String, String, EndOfStream}},
		{"negative integer", "-5", []Kind{Integer, EndOfStream}},
		{"double", "1.5", []Kind{Double, EndOfStream}},
		{"leading dot double", ".5", []Kind{Double, EndOfStream}},
		{"nan", "NaN", []Kind{Double, EndOfStream}},
		{"hex", "0x1F", []Kind{Hex, EndOfStream}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks := collect(tc.in)
			if len(toks) != len(tc.want) {
				t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(tc.want))
			}
			for i, k := range tc.want {
				if toks[i].Kind != k {
					t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
				}
			}
		})
	}
}

func TestTokenizerRoundTripsIntegerLexeme(t *testing.T) {
	tz := NewTokenizer("12345 rest")
	tok := tz.Next()
	if tok.Kind != Integer || tok.Text != "12345" || tok.Uint != 12345 {
		t.Fatalf("got %+v", tok)
	}
}

func TestTokenizerNumericRewindsTrailingGarbage(t *testing.T) {
	// "2x" is not a valid hex/number spelling past the leading digit; the
	// tokenizer must stop scanning at the first non-numeric byte and
	// rewind so "x" becomes its own token.
	tz := NewTokenizer("2x")
	tok := tz.Next()
	if tok.Kind != Integer || tok.Uint != 2 {
		t.Fatalf("got %+v", tok)
	}
	next := tz.Next()
	if next.Kind != String || next.Text != "x" {
		t.Fatalf("got %+v", next)
	}
}

func TestTokenizerLineContinuation(t *testing.T) {
	tz := NewTokenizer("a \\\nb")
	first := tz.Next()
	if first.Kind != String || first.Text != "a" {
		t.Fatalf("got %+v", first)
	}
	second := tz.Next()
	if second.Kind != String || second.Text != "b" {
		t.Fatalf("got %+v", second)
	}
	if tz.CurrentLine() != 2 {
		t.Fatalf("got line %d, want 2", tz.CurrentLine())
	}
}

func TestTokenizerLineCounting(t *testing.T) {
	tz := NewTokenizer("a\nb\nc")
	// a, EOL, b, EOL: each EOL advances the line, so "c" is on line 3.
	for i := 0; i < 4; i++ {
		tz.Next()
	}
	if tz.CurrentLine() != 3 {
		t.Fatalf("got line %d, want 3", tz.CurrentLine())
	}
}

func TestExtractToNext(t *testing.T) {
	tz := NewTokenizer("void main() {}\nEND\nPIPELINE")
	body := tz.ExtractToNext("END")
	if body != "void main() {}\n" {
		t.Fatalf("got %q", body)
	}
	if tz.CurrentLine() != 2 {
		t.Fatalf("got line %d, want 2", tz.CurrentLine())
	}
	tok := tz.Next()
	if tok.Kind != String || tok.Text != "END" {
		t.Fatalf("got %+v", tok)
	}
}

func TestConvertToDouble(t *testing.T) {
	tok := Token{Kind: Integer, Uint: 42}
	if err := tok.ConvertToDouble(); err != nil {
		t.Fatal(err)
	}
	if tok.Kind != Double || tok.Double != 42 {
		t.Fatalf("got %+v", tok)
	}

	hexTok := Token{Kind: Hex, Text: "0x10"}
	if err := hexTok.ConvertToDouble(); err != nil {
		t.Fatal(err)
	}
	if hexTok.Double != 16 {
		t.Fatalf("got %v", hexTok.Double)
	}

	overflow := Token{Kind: Integer, Uint: math.MaxUint64, Negative: false}
	if err := overflow.ConvertToDouble(); err != ErrUint64TooLarge {
		t.Fatalf("got %v", err)
	}

	str := Token{Kind: String, Text: "x"}
	if err := str.ConvertToDouble(); err != ErrInvalidDoubleConversion {
		t.Fatalf("got %v", err)
	}
}

func TestTokenPredicates(t *testing.T) {
	comma := Token{Kind: String, Text: ","}
	if !comma.IsComma() {
		t.Fatal("expected comma")
	}
	open := Token{Kind: String, Text: "("}
	if !open.IsOpenBracket() {
		t.Fatal("expected open bracket")
	}
	close_ := Token{Kind: String, Text: ")"}
	if !close_.IsCloseBracket() {
		t.Fatal("expected close bracket")
	}
}
