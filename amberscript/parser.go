// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package amberscript implements the recursive-descent parser for
// AmberScript: tokenizer-driven directive dispatch that populates a
// script.Script and runs semantic validation as each block closes.
package amberscript

import (
	"github.com/gogpu/amber/script"
	"github.com/gogpu/amber/token"
)

// Parser drives a single Parse call: one Tokenizer, one Script under
// construction, and a one-token lookahead buffer. A fresh Parser is
// created per call and never reused.
type Parser struct {
	tok    *token.Tokenizer
	script *script.Script
	opts   Options

	hasBuffer    bool
	bufferedTok  token.Token
	bufferedLine int
	curLine      int
}

func newParser(source string, opts Options) *Parser {
	if opts.VirtualFiles == nil {
		opts.VirtualFiles = make(map[string]string)
	}
	s := script.New()
	for path, contents := range opts.VirtualFiles {
		s.VirtualFiles[path] = contents
	}
	return &Parser{tok: token.NewTokenizer(source), script: s, opts: opts}
}

// Parse parses source into a fully validated Script, or returns the
// first error encountered: the top-level loop aborts on the first
// error and returns it verbatim.
func Parse(source string, opts Options) (*script.Script, error) {
	return newParser(source, opts).parse()
}

// peek returns the next token without consuming it.
func (p *Parser) peek() token.Token {
	if !p.hasBuffer {
		p.bufferedLine = p.tok.CurrentLine()
		p.bufferedTok = p.tok.Next()
		p.hasBuffer = true
	}
	return p.bufferedTok
}

// peekLine returns the line the next token (not yet consumed) starts on.
func (p *Parser) peekLine() int {
	p.peek()
	return p.bufferedLine
}

// advance consumes and returns the next token, updating curLine to its
// line.
func (p *Parser) advance() token.Token {
	if p.hasBuffer {
		p.hasBuffer = false
		p.curLine = p.bufferedLine
		return p.bufferedTok
	}
	p.curLine = p.tok.CurrentLine()
	return p.tok.Next()
}

// readWord consumes the next token, requiring it to be a String token
// (AmberScript has no distinct keyword lexical class; barewords and
// keywords are the same token kind).
func (p *Parser) readWord() (string, int, error) {
	line := p.peekLine()
	t := p.advance()
	if !t.IsString() {
		return "", line, newParseError(line, "expected identifier, got %s", t.Kind)
	}
	return t.Text, line, nil
}

func (p *Parser) expectWord(expected string) error {
	line := p.peekLine()
	w, _, err := p.readWord()
	if err != nil {
		return err
	}
	if w != expected {
		return newParseError(line, "expected %s, got %s", expected, w)
	}
	return nil
}

func (p *Parser) readUint64() (uint64, error) {
	line := p.peekLine()
	t := p.advance()
	switch {
	case t.IsInteger():
		return t.Uint, nil
	case t.IsHex():
		v, err := t.AsHex()
		if err != nil {
			return 0, newParseError(line, "invalid hex literal %q", t.Text)
		}
		return v, nil
	default:
		return 0, newParseError(line, "expected integer, got %s", t.Kind)
	}
}

func (p *Parser) readUint32() (uint32, error) {
	v, err := p.readUint64()
	//nolint:gosec // AmberScript integer fields are all small, script-declared counts
	return uint32(v), err
}

func (p *Parser) readInt() (int, error) {
	line := p.peekLine()
	t := p.advance()
	if !t.IsInteger() {
		return 0, newParseError(line, "expected integer, got %s", t.Kind)
	}
	// Negative values are already two's complement in t.Uint.
	return int(int64(t.Uint)), nil
}

func (p *Parser) readFloat32() (float32, error) {
	line := p.peekLine()
	t := p.advance()
	switch t.Kind {
	case token.Double:
		return float32(t.Double), nil
	case token.Integer:
		v := int64(t.Uint)
		return float32(v), nil
	case token.Hex:
		h, err := t.AsHex()
		if err != nil {
			return 0, newParseError(line, "invalid hex literal %q", t.Text)
		}
		return float32(h), nil
	default:
		return 0, newParseError(line, "expected number, got %s", t.Kind)
	}
}

// validateEndOfStatement peeks the next token and requires it be
// EndOfLine or EndOfStream, consuming a trailing EOL. Otherwise it
// reports the extra-parameters diagnostic.
func (p *Parser) validateEndOfStatement(name string) error {
	t := p.peek()
	if t.IsEOL() {
		p.advance()
		return nil
	}
	if t.IsEOS() {
		return nil
	}
	return newParseError(p.peekLine(), "extra parameters after %s command: %s", name, t.Text)
}

// parseBlock reads a block body by invoking handle for each leading
// keyword until "END" closes it. Reaching end-of-stream first reports
// "<name> missing END command" pinned to the line of the opening
// directive.
func (p *Parser) parseBlock(openLine int, name string, handle func(keyword string, kwLine int) error) error {
	for {
		t := p.peek()
		if t.IsEOS() {
			return newParseError(openLine, "%s missing END command", name)
		}
		if t.IsEOL() {
			p.advance()
			continue
		}
		kwLine := p.peekLine()
		kw := p.advance().Text
		if kw == "END" {
			return nil
		}
		if err := handle(kw, kwLine); err != nil {
			return err
		}
	}
}

func (p *Parser) parse() (*script.Script, error) {
	for {
		t := p.peek()
		if t.IsEOS() {
			break
		}
		if t.IsEOL() {
			p.advance()
			continue
		}
		line := p.peekLine()
		word := p.advance().Text
		if err := p.dispatchTopLevel(word, line); err != nil {
			return nil, err
		}
	}
	if err := p.script.Validate(); err != nil {
		return nil, err
	}
	return p.script, nil
}

func (p *Parser) dispatchTopLevel(word string, line int) error {
	switch word {
	case "SHADER":
		return p.parseShader(line)
	case "BUFFER":
		return p.parseBuffer(line)
	case "IMAGE":
		return p.parseImage(line)
	case "SAMPLER":
		return p.parseSampler(line)
	case "STRUCT":
		return p.parseStruct(line)
	case "PIPELINE":
		return p.parsePipeline(line, false)
	case "DERIVE_PIPELINE":
		return p.parsePipeline(line, true)
	case "ACCELERATION_STRUCTURE":
		return p.parseAccelerationStructure(line)
	case "RUN":
		return p.parseRun(line)
	case "CLEAR":
		return p.parseClear(line)
	case "CLEAR_COLOR":
		return p.parseClearColor(line)
	case "CLEAR_DEPTH":
		return p.parseClearDepth(line)
	case "CLEAR_STENCIL":
		return p.parseClearStencil(line)
	case "COPY":
		return p.parseCopy(line)
	case "EXPECT":
		return p.parseExpect(line)
	case "REPEAT":
		cmd, err := p.parseRepeat(line)
		if err != nil {
			return err
		}
		p.script.Commands = append(p.script.Commands, cmd)
		return nil
	case "DEVICE_FEATURE":
		return p.parseRequirementList("DEVICE_FEATURE", &p.script.RequiredFeatures)
	case "DEVICE_PROPERTY":
		return p.parseRequirementList("DEVICE_PROPERTY", &p.script.RequiredProperties)
	case "DEVICE_EXTENSION":
		return p.parseRequirementList("DEVICE_EXTENSION", &p.script.RequiredDeviceExtensions)
	case "INSTANCE_EXTENSION":
		return p.parseRequirementList("INSTANCE_EXTENSION", &p.script.RequiredInstanceExtensions)
	case "SET":
		return p.parseSet(line)
	case "VIRTUAL_FILE":
		return p.parseVirtualFile(line)
	case "DEBUG":
		return p.parseDebug(line)
	default:
		return newParseError(line, "unknown token: %s", word)
	}
}

// parseRequirementList handles DEVICE_FEATURE, DEVICE_PROPERTY,
// DEVICE_EXTENSION and INSTANCE_EXTENSION, which all share the shape
// "<directive> <name>". DEVICE_FEATURE/DEVICE_PROPERTY are checked
// against a closed vocabulary of real Vulkan feature/property names;
// the two extension directives accept any identifier-shaped name since
// extension strings are open-ended.
func (p *Parser) parseRequirementList(directive string, into *[]string) error {
	switch directive {
	case "DEVICE_FEATURE":
		return p.parseVocabRequirement(directive, "feature", knownDeviceFeatures, into)
	case "DEVICE_PROPERTY":
		return p.parseVocabRequirement(directive, "property", knownDeviceProperties, into)
	default:
		return p.parseExtensionName(directive, into)
	}
}

func (p *Parser) parseVocabRequirement(directive, noun string, known map[string]bool, into *[]string) error {
	line := p.peekLine()
	t := p.peek()
	if t.IsEOL() || t.IsEOS() {
		return newParseError(line, "missing %s name for %s command", noun, directive)
	}
	if !t.IsString() {
		return newParseError(line, "invalid %s name for %s command", noun, directive)
	}
	name := t.Text
	p.advance()
	if !known[name] {
		return newParseError(line, "unknown %s name for %s command", noun, directive)
	}
	*into = append(*into, name)
	return p.validateEndOfStatement(directive)
}

func (p *Parser) parseExtensionName(directive string, into *[]string) error {
	line := p.peekLine()
	t := p.peek()
	if t.IsEOL() || t.IsEOS() {
		return newParseError(line, "%s missing name", directive)
	}
	if !t.IsString() {
		p.advance()
		return newParseError(line, "%s invalid name: %s", directive, t.AsString())
	}
	name := t.Text
	p.advance()
	*into = append(*into, name)
	return p.validateEndOfStatement(directive)
}

func (p *Parser) parseSet(line int) error {
	if err := p.expectWord("ENGINE_DATA"); err != nil {
		return err
	}
	if err := p.expectWord("fence_timeout_ms"); err != nil {
		return err
	}
	v, err := p.readUint32()
	if err != nil {
		return err
	}
	p.script.EngineData.FenceTimeoutMs = v
	_ = line
	return p.validateEndOfStatement("SET")
}

func (p *Parser) parseDebug(line int) error {
	// DEBUG toggles backend-side diagnostic verbosity; it carries no
	// script-model state, so the parser only validates and discards it.
	_ = line
	t := p.peek()
	if t.IsString() {
		p.advance()
	}
	return p.validateEndOfStatement("DEBUG")
}

func (p *Parser) parseVirtualFile(line int) error {
	path, pathLine, err := p.readWord()
	if err != nil {
		return err
	}
	if _, exists := p.script.VirtualFiles[path]; exists {
		return newParseError(pathLine, "reuse of VIRTUAL_FILE path %q", path)
	}
	contents := p.tok.ExtractToNext("END")
	if err := p.expectWord("END"); err != nil {
		return err
	}
	p.script.VirtualFiles[path] = contents
	_ = line
	return p.validateEndOfStatement("VIRTUAL_FILE")
}
