// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

import (
	"github.com/gogpu/amber/format"
	"github.com/gogpu/amber/script"
)

// parsePipeline handles both PIPELINE and DERIVE_PIPELINE:
//
//	PIPELINE <graphics|compute|raytracing> <name> … END
//	DERIVE_PIPELINE <name> FROM <parent> … END
func (p *Parser) parsePipeline(line int, derive bool) error {
	var kind script.PipelineKind
	if !derive {
		kindWord, kindLine, err := p.readWord()
		if err != nil {
			return err
		}
		k, ok := toPipelineKind(kindWord)
		if !ok {
			return newParseError(kindLine, "unknown pipeline kind: %s", kindWord)
		}
		kind = k
	}

	name, nameLine, err := p.readWord()
	if err != nil {
		return err
	}

	pipe := script.Pipeline{Name: name, Kind: kind, DeclLine: line}

	if derive {
		if err := p.expectWord("FROM"); err != nil {
			return err
		}
		parentWord, parentLine, err := p.readWord()
		if err != nil {
			return err
		}
		parentHandle, ok := p.script.Pipelines.Lookup(parentWord)
		if !ok {
			return newParseError(parentLine, "unknown parent pipeline: %s", parentWord)
		}
		parent, _ := p.script.Pipelines.Get(parentHandle)
		pipe = clonePipeline(&parent)
		pipe.Name = name
		pipe.DeclLine = line
	}

	err = p.parseBlock(line, "PIPELINE", func(kw string, kwLine int) error {
		return p.parsePipelineBody(&pipe, kw, kwLine)
	})
	if err != nil {
		return err
	}

	if err := pipe.Validate(p.script); err != nil {
		return err
	}
	p.applyDefaultFramebufferSize(&pipe)
	if _, ok := p.script.Pipelines.Insert(name, pipe); !ok {
		return newParseError(nameLine, "duplicate pipeline name: %s", name)
	}
	return p.validateEndOfStatement("PIPELINE")
}

// applyDefaultFramebufferSize fills in width/height/element-count for any
// color or depth-stencil buffer bound to pipe that never received
// explicit dimensions from its own BUFFER declaration, using pipe's
// effective (possibly default 250x250) framebuffer size.
func (p *Parser) applyDefaultFramebufferSize(pipe *script.Pipeline) {
	w, h := pipe.EffectiveFramebufferWidth(), pipe.EffectiveFramebufferHeight()
	fill := func(bh script.BufferHandle) {
		buf, ok := p.script.Buffers.GetMut(bh)
		if !ok || buf.Width != 0 || buf.Height != 0 {
			return
		}
		buf.Width, buf.Height, buf.Dimension = w, h, script.Dimension2D
		buf.ElementCount = uint64(w) * uint64(h)
	}
	for _, c := range pipe.ColorAttachments {
		fill(c.Buffer)
	}
	if pipe.HasDepthStencil {
		fill(pipe.DepthStencil)
	}
}

// clonePipeline deep-copies a Pipeline's slice-valued fields so a
// DERIVE_PIPELINE's overrides never mutate the parent it was cloned from.
func clonePipeline(parent *script.Pipeline) script.Pipeline {
	child := *parent
	child.Attachments = append([]script.Attachment(nil), parent.Attachments...)
	child.ColorAttachments = append([]script.ColorAttachment(nil), parent.ColorAttachments...)
	child.ResolveTargets = append([]script.ResolveTarget(nil), parent.ResolveTargets...)
	child.VertexBindings = append([]script.VertexBinding(nil), parent.VertexBindings...)
	child.Descriptors = append([]script.DescriptorBinding(nil), parent.Descriptors...)
	child.KernelArgs = append([]script.KernelArg(nil), parent.KernelArgs...)
	child.ShaderGroups = append([]script.ShaderGroup(nil), parent.ShaderGroups...)
	child.Flags = append([]string(nil), parent.Flags...)
	child.Libraries = append([]script.PipelineHandle(nil), parent.Libraries...)
	if parent.ShaderBindingTables != nil {
		child.ShaderBindingTables = make(map[string]script.ShaderBindingTable, len(parent.ShaderBindingTables))
		for k, v := range parent.ShaderBindingTables {
			child.ShaderBindingTables[k] = v
		}
	}
	return child
}

func (p *Parser) parsePipelineBody(pipe *script.Pipeline, kw string, kwLine int) error {
	switch kw {
	case "ATTACH":
		return p.parseAttach(pipe, kwLine)
	case "FRAMEBUFFER_SIZE":
		w, err := p.readUint32()
		if err != nil {
			return err
		}
		h, err := p.readUint32()
		if err != nil {
			return err
		}
		pipe.FramebufferWidth, pipe.FramebufferHeight = w, h
		return p.validateEndOfStatement("FRAMEBUFFER_SIZE")
	case "BIND":
		return p.parseBind(pipe, kwLine)
	case "VERTEX_DATA":
		return p.parseVertexData(pipe, kwLine)
	case "INDEX_DATA":
		return p.parseIndexData(pipe, kwLine)
	case "SET":
		return p.parseKernelArgSet(pipe, kwLine)
	case "BLEND":
		return p.parseBlendBlock(pipe, kwLine)
	case "DEPTH":
		return p.parseDepthBlock(pipe, kwLine)
	case "STENCIL":
		return p.parseStencilBlock(pipe, kwLine)
	case "VIEWPORT":
		return p.parseViewport(pipe, kwLine)
	case "MAX_RAY_PAYLOAD_SIZE":
		v, err := p.readUint32()
		if err != nil {
			return err
		}
		pipe.MaxPayloadSize = v
		return p.validateEndOfStatement(kw)
	case "MAX_RAY_HIT_ATTRIBUTE_SIZE":
		v, err := p.readUint32()
		if err != nil {
			return err
		}
		pipe.MaxHitAttributeSize = v
		return p.validateEndOfStatement(kw)
	case "MAX_RAY_RECURSION_DEPTH":
		v, err := p.readUint32()
		if err != nil {
			return err
		}
		pipe.MaxRecursionDepth = v
		return p.validateEndOfStatement(kw)
	case "FLAGS":
		for {
			t := p.peek()
			if !t.IsString() {
				break
			}
			p.advance()
			pipe.Flags = append(pipe.Flags, t.Text)
		}
		return p.validateEndOfStatement(kw)
	case "USE_LIBRARY":
		libWord, libLine, err := p.readWord()
		if err != nil {
			return err
		}
		lib, ok := p.script.Pipelines.Lookup(libWord)
		if !ok {
			return newParseError(libLine, "unknown pipeline library: %s", libWord)
		}
		pipe.Libraries = append(pipe.Libraries, lib)
		return p.validateEndOfStatement(kw)
	case "SHADER_GROUP":
		return p.parseShaderGroup(pipe, kwLine)
	case "SHADER_BINDING_TABLE":
		return p.parseShaderBindingTable(pipe, kwLine)
	case "SHADER_OPTIMIZATION", "COMPILE_OPTIONS", "SUBGROUP":
		// Compiler hint blocks: a shader name followed by a flag list.
		// No Pipeline field models compiler tuning hints, so the block is
		// accepted and discarded rather than rejected as unknown syntax.
		if _, _, err := p.readWord(); err != nil {
			return err
		}
		return p.parseBlock(kwLine, kw, func(string, int) error { return nil })
	default:
		return newParseError(kwLine, "unknown token: %s", kw)
	}
}

func (p *Parser) parseAttach(pipe *script.Pipeline, line int) error {
	shaderWord, shaderLine, err := p.readWord()
	if err != nil {
		return err
	}
	sh, ok := p.script.Shaders.Lookup(shaderWord)
	if !ok {
		return newParseError(shaderLine, "unknown shader: %s", shaderWord)
	}
	att := script.Attachment{Shader: sh, DeclLine: line}

	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		switch t.Text {
		case "TYPE":
			p.advance()
			stageWord, stageLine, err := p.readWord()
			if err != nil {
				return err
			}
			stage, ok := toShaderStage(stageWord)
			if !ok {
				return newParseError(stageLine, "unknown shader stage: %s", stageWord)
			}
			att.StageOverride, att.HasStageOverride = stage, true
		case "ENTRY_POINT":
			p.advance()
			ep, _, err := p.readWord()
			if err != nil {
				return err
			}
			att.EntryPoint = ep
		case "SPECIALIZE":
			p.advance()
			id, err := p.readUint32()
			if err != nil {
				return err
			}
			if err := p.expectWord("AS"); err != nil {
				return err
			}
			typeWord, typeLine, err := p.readWord()
			if err != nil {
				return err
			}
			d, perr := parseDatumType(typeWord)
			if perr != nil || !d.IsScalar() {
				return newParseError(typeLine, "invalid specialization type '%s'", typeWord)
			}
			valLine := p.peekLine()
			valTok := p.advance()
			bits, err := scalarBitsU32(d.Kind, valTok)
			if err != nil {
				return newParseError(valLine, "%s", err.Error())
			}
			att.Specializations = append(att.Specializations, script.SpecializationConstant{
				ID: id, Kind: d.Kind, Bits: bits,
			})
		default:
			goto done
		}
	}
done:
	pipe.Attachments = append(pipe.Attachments, att)
	return p.validateEndOfStatement("ATTACH")
}

func (p *Parser) readUint64List(n int) ([]uint64, error) {
	out := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		v, err := p.readUint64()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if i < n-1 {
			if t := p.peek(); t.IsComma() {
				p.advance()
			}
		}
	}
	return out, nil
}

func (p *Parser) parseBind(pipe *script.Pipeline, line int) error {
	form, formLine, err := p.readWord()
	if err != nil {
		return err
	}

	switch form {
	case "BUFFER":
		bufWord, bufLine, err := p.readWord()
		if err != nil {
			return err
		}
		bh, ok := p.script.Buffers.Lookup(bufWord)
		if !ok {
			return newParseError(bufLine, "unknown buffer: %s", bufWord)
		}
		return p.parseBindBufferForm(pipe, line, []script.BufferHandle{bh})
	case "BUFFER_ARRAY":
		var buffers []script.BufferHandle
		for {
			t := p.peek()
			if !t.IsString() || t.Text == "AS" || t.Text == "KERNEL" {
				break
			}
			bh, ok := p.script.Buffers.Lookup(t.Text)
			if !ok {
				break
			}
			p.advance()
			buffers = append(buffers, bh)
		}
		if len(buffers) < 2 {
			return newParseError(line, "BIND BUFFER_ARRAY requires at least two buffers")
		}
		return p.parseBindBufferForm(pipe, line, buffers)
	case "SAMPLER":
		samplerWord, samplerLine, err := p.readWord()
		if err != nil {
			return err
		}
		sh, ok := p.script.Samplers.Lookup(samplerWord)
		if !ok {
			return newParseError(samplerLine, "unknown sampler: %s", samplerWord)
		}
		db := script.DescriptorBinding{Samplers: []script.SamplerHandle{sh}, DeclLine: line}
		if err := p.parseDescriptorLocator(&db); err != nil {
			return err
		}
		pipe.Descriptors = append(pipe.Descriptors, db)
		return p.validateEndOfStatement("BIND")
	case "SAMPLER_ARRAY":
		var samplers []script.SamplerHandle
		for {
			t := p.peek()
			if !t.IsString() {
				break
			}
			sh, ok := p.script.Samplers.Lookup(t.Text)
			if !ok {
				break
			}
			p.advance()
			samplers = append(samplers, sh)
		}
		if len(samplers) < 2 {
			return newParseError(line, "BIND SAMPLER_ARRAY requires at least two samplers")
		}
		db := script.DescriptorBinding{Samplers: samplers, DeclLine: line}
		if err := p.parseDescriptorLocator(&db); err != nil {
			return err
		}
		pipe.Descriptors = append(pipe.Descriptors, db)
		return p.validateEndOfStatement("BIND")
	case "ACCELERATION_STRUCTURE":
		name, nameLine, err := p.readWord()
		if err != nil {
			return err
		}
		th, ok := p.script.TLASes.Lookup(name)
		if !ok {
			return newParseError(nameLine, "unknown acceleration structure: %s", name)
		}
		db := script.DescriptorBinding{TLAS: th, DeclLine: line}
		if err := p.parseDescriptorLocator(&db); err != nil {
			return err
		}
		pipe.Descriptors = append(pipe.Descriptors, db)
		return p.validateEndOfStatement("BIND")
	default:
		return newParseError(formLine, "unknown BIND form: %s", form)
	}
}

// parseBindBufferForm dispatches on the token following the buffer
// name(s): "AS <kind> …" for every typed form, or a bare "KERNEL …" for
// the OpenCL-C typeless kernel-argument binding, which carries no
// buffer-kind keyword at all.
func (p *Parser) parseBindBufferForm(pipe *script.Pipeline, line int, buffers []script.BufferHandle) error {
	if t := p.peek(); t.IsString() && t.Text == "KERNEL" {
		db := script.DescriptorBinding{Buffers: buffers, DeclLine: line}
		if err := p.parseDescriptorLocator(&db); err != nil {
			return err
		}
		pipe.Descriptors = append(pipe.Descriptors, db)
		return p.validateEndOfStatement("BIND")
	}
	if err := p.expectWord("AS"); err != nil {
		return err
	}
	return p.parseBindBufferKind(pipe, line, buffers)
}

// parseBindBufferKind parses the buffer-kind keyword and everything that
// follows it, for both BUFFER and BUFFER_ARRAY forms. Callers consume the
// mandatory "AS" keyword that precedes the kind before calling this.
func (p *Parser) parseBindBufferKind(pipe *script.Pipeline, line int, buffers []script.BufferHandle) error {
	kindWord, kindLine, err := p.readWord()
	if err != nil {
		return err
	}

	switch kindWord {
	case "resolve":
		if err := p.expectWord("LOCATION"); err != nil {
			return err
		}
		loc, err := p.readUint32()
		if err != nil {
			return err
		}
		for _, bh := range buffers {
			pipe.ResolveTargets = append(pipe.ResolveTargets, script.ResolveTarget{Buffer: bh, Location: loc})
		}
		return p.validateEndOfStatement("BIND")
	case "color":
		if err := p.expectWord("LOCATION"); err != nil {
			return err
		}
		loc, err := p.readUint32()
		if err != nil {
			return err
		}
		for _, bh := range buffers {
			pipe.ColorAttachments = append(pipe.ColorAttachments, script.ColorAttachment{Buffer: bh, Location: loc, DeclLine: line})
		}
		return p.validateEndOfStatement("BIND")
	case "depth_stencil":
		pipe.DepthStencil, pipe.HasDepthStencil = buffers[0], true
		return p.validateEndOfStatement("BIND")
	case "push_constant":
		pipe.PushConstant, pipe.HasPushConstant = buffers[0], true
		return p.validateEndOfStatement("BIND")
	}

	bk, ok := toBufferKind(kindWord)
	if !ok {
		return newParseError(kindLine, "unknown buffer-kind: %s", kindWord)
	}
	db := script.DescriptorBinding{Kind: bk, Buffers: buffers, DeclLine: line}

	if bk == script.BufferCombinedImageSampler {
		if err := p.expectWord("SAMPLER"); err != nil {
			return err
		}
		samplerWord, samplerLine, err := p.readWord()
		if err != nil {
			return err
		}
		sh, ok := p.script.Samplers.Lookup(samplerWord)
		if !ok {
			return newParseError(samplerLine, "unknown sampler: %s", samplerWord)
		}
		db.CombinedSampler, db.HasCombinedSampler = sh, true
	}

	isImageKind := bk == script.BufferSampled || bk == script.BufferStorageImage ||
		bk == script.BufferSampledImage || bk == script.BufferCombinedImageSampler
	isTexelKind := bk == script.BufferUniformTexelBuffer || bk == script.BufferStorageTexelBuffer

	// The OFFSET/BASE_MIP_LEVEL/DESCRIPTOR_OFFSET/DESCRIPTOR_RANGE clauses
	// may appear either before or after DESCRIPTOR_SET ... BINDING ..., so
	// this is run once on each side of parseDescriptorLocator.
	if err := p.parseBindBufferModifiers(&db, bk, kindLine, len(buffers), isImageKind, isTexelKind); err != nil {
		return err
	}

	if err := p.parseDescriptorLocator(&db); err != nil {
		return err
	}

	if err := p.parseBindBufferModifiers(&db, bk, kindLine, len(buffers), isImageKind, isTexelKind); err != nil {
		return err
	}

	if bk.IsDynamic() && db.DynamicOffsets == nil {
		return newParseError(kindLine, "dynamic buffer kind %q requires OFFSET", bk)
	}

	pipe.Descriptors = append(pipe.Descriptors, db)
	return p.validateEndOfStatement("BIND")
}

// parseBindBufferModifiers consumes a run of leading OFFSET/BASE_MIP_LEVEL/
// DESCRIPTOR_OFFSET/DESCRIPTOR_RANGE clauses, stopping at the first
// unrecognized token (typically DESCRIPTOR_SET or END).
func (p *Parser) parseBindBufferModifiers(db *script.DescriptorBinding, bk script.BufferKind, kindLine, numBuffers int, isImageKind, isTexelKind bool) error {
	for {
		t := p.peek()
		if !t.IsString() {
			return nil
		}
		switch t.Text {
		case "OFFSET":
			if !bk.IsDynamic() {
				return newParseError(kindLine, "OFFSET is only valid on dynamic buffer kinds")
			}
			p.advance()
			vals, err := p.readUint64List(numBuffers)
			if err != nil {
				return err
			}
			db.DynamicOffsets = vals
		case "BASE_MIP_LEVEL":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			db.BaseMipLevel, db.HasBaseMipLevel = v, true
		case "DESCRIPTOR_OFFSET":
			if isImageKind || isTexelKind {
				return newParseError(kindLine, "DESCRIPTOR_OFFSET is forbidden on texel and image buffer kinds")
			}
			p.advance()
			vals, err := p.readUint64List(numBuffers)
			if err != nil {
				return err
			}
			db.DescriptorOffsets = vals
		case "DESCRIPTOR_RANGE":
			if isImageKind || isTexelKind {
				return newParseError(kindLine, "DESCRIPTOR_RANGE is forbidden on texel and image buffer kinds")
			}
			p.advance()
			vals, err := p.readUint64List(numBuffers)
			if err != nil {
				return err
			}
			db.DescriptorRanges = vals
		default:
			return nil
		}
	}
}

// parseDescriptorLocator consumes the mandatory terminator of a BIND
// directive: either "DESCRIPTOR_SET s BINDING b" or, for OpenCL-C
// kernels, "KERNEL (ARG_NAME name | ARG_NUMBER n)".
func (p *Parser) parseDescriptorLocator(db *script.DescriptorBinding) error {
	word, line, err := p.readWord()
	if err != nil {
		return err
	}
	switch word {
	case "DESCRIPTOR_SET":
		s, err := p.readUint32()
		if err != nil {
			return err
		}
		if err := p.expectWord("BINDING"); err != nil {
			return err
		}
		b, err := p.readUint32()
		if err != nil {
			return err
		}
		db.Locator = script.DescriptorLocator{Set: s, Binding: b}
		return nil
	case "KERNEL":
		argWord, argLine, err := p.readWord()
		if err != nil {
			return err
		}
		switch argWord {
		case "ARG_NAME":
			name, _, err := p.readWord()
			if err != nil {
				return err
			}
			db.Locator = script.DescriptorLocator{IsKernelArg: true, ArgName: name, HasArgName: true}
		case "ARG_NUMBER":
			n, err := p.readUint32()
			if err != nil {
				return err
			}
			db.Locator = script.DescriptorLocator{IsKernelArg: true, ArgNumber: n}
		default:
			return newParseError(argLine, "expected ARG_NAME or ARG_NUMBER, got %s", argWord)
		}
		return nil
	default:
		return newParseError(line, "expected DESCRIPTOR_SET or KERNEL, got %s", word)
	}
}

func (p *Parser) parseVertexData(pipe *script.Pipeline, line int) error {
	bufWord, bufLine, err := p.readWord()
	if err != nil {
		return err
	}
	bh, ok := p.script.Buffers.Lookup(bufWord)
	if !ok {
		return newParseError(bufLine, "unknown buffer: %s", bufWord)
	}
	if err := p.expectWord("LOCATION"); err != nil {
		return err
	}
	loc, err := p.readUint32()
	if err != nil {
		return err
	}
	vb := script.VertexBinding{Buffer: bh, Location: loc, Rate: script.RateVertex}

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
			vb.Offset = v
		case "STRIDE":
			p.advance()
			v, err := p.readUint32()
			if err != nil {
				return err
			}
			vb.Stride = v
		case "RATE":
			p.advance()
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			r, ok := toVertexRate(w)
			if !ok {
				return newParseError(wLine, "unknown vertex rate: %s", w)
			}
			vb.Rate = r
		case "FORMAT":
			p.advance()
			fw, fLine, err := p.readWord()
			if err != nil {
				return err
			}
			f, ferr := format.ParseImageFormat(fw)
			if ferr != nil {
				return newParseError(fLine, "invalid VERTEX_DATA FORMAT")
			}
			vb.Format = f
		default:
			goto done
		}
	}
done:
	pipe.VertexBindings = append(pipe.VertexBindings, vb)
	_ = line
	return p.validateEndOfStatement("VERTEX_DATA")
}

func (p *Parser) parseIndexData(pipe *script.Pipeline, line int) error {
	bufWord, bufLine, err := p.readWord()
	if err != nil {
		return err
	}
	bh, ok := p.script.Buffers.Lookup(bufWord)
	if !ok {
		return newParseError(bufLine, "unknown buffer: %s", bufWord)
	}
	pipe.IndexBuffer, pipe.HasIndexBuffer = bh, true
	_ = line
	return p.validateEndOfStatement("INDEX_DATA")
}

// parseKernelArgSet handles OpenCL-C's "SET KERNEL ARG_NAME|ARG_NUMBER x
// AS type value", a literal value set directly on a kernel argument
// rather than bound through a descriptor.
func (p *Parser) parseKernelArgSet(pipe *script.Pipeline, line int) error {
	if err := p.expectWord("KERNEL"); err != nil {
		return err
	}
	ka := script.KernelArg{DeclLine: line}
	argWord, argLine, err := p.readWord()
	if err != nil {
		return err
	}
	switch argWord {
	case "ARG_NAME":
		name, _, err := p.readWord()
		if err != nil {
			return err
		}
		ka.Locator = script.DescriptorLocator{IsKernelArg: true, ArgName: name, HasArgName: true}
	case "ARG_NUMBER":
		n, err := p.readUint32()
		if err != nil {
			return err
		}
		ka.Locator = script.DescriptorLocator{IsKernelArg: true, ArgNumber: n}
	default:
		return newParseError(argLine, "expected ARG_NAME or ARG_NUMBER, got %s", argWord)
	}
	if err := p.expectWord("AS"); err != nil {
		return err
	}
	typeWord, typeLine, err := p.readWord()
	if err != nil {
		return err
	}
	d, perr := parseDatumType(typeWord)
	if perr != nil || !d.IsScalar() {
		return newParseError(typeLine, "invalid kernel argument type '%s'", typeWord)
	}
	valLine := p.peekLine()
	valTok := p.advance()
	b, err := scalarBytesFromToken(d.Kind, valTok)
	if err != nil {
		return newParseError(valLine, "%s", err.Error())
	}
	var bits uint64
	for i, by := range b {
		bits |= uint64(by) << (8 * i)
	}
	ka.Kind, ka.Bits = d.Kind, bits
	pipe.KernelArgs = append(pipe.KernelArgs, ka)
	return p.validateEndOfStatement("SET")
}

func (p *Parser) parseBlendBlock(pipe *script.Pipeline, line int) error {
	b := script.BlendState{Enabled: true}
	err := p.parseBlock(line, "BLEND", func(kw string, kwLine int) error {
		switch kw {
		case "SRC_COLOR":
			v, _, err := p.readWord()
			b.SrcColorFactor = v
			return err
		case "DST_COLOR":
			v, _, err := p.readWord()
			b.DstColorFactor = v
			return err
		case "COLOR_OP":
			v, _, err := p.readWord()
			b.ColorOp = v
			return err
		case "SRC_ALPHA":
			v, _, err := p.readWord()
			b.SrcAlphaFactor = v
			return err
		case "DST_ALPHA":
			v, _, err := p.readWord()
			b.DstAlphaFactor = v
			return err
		case "ALPHA_OP":
			v, _, err := p.readWord()
			b.AlphaOp = v
			return err
		default:
			return newParseError(kwLine, "unknown token: %s", kw)
		}
	})
	if err != nil {
		return err
	}
	pipe.Blend = b
	return p.validateEndOfStatement("BLEND")
}

// parseOnOff reads the "on"/"off" operand of a boolean DEPTH/STENCIL
// keyword, pinning the error to kwLine when the value is missing or
// unrecognized.
func (p *Parser) parseOnOff(kw string, kwLine int) (bool, error) {
	t := p.peek()
	if !t.IsString() {
		return false, newParseError(kwLine, "invalid value for %s", kw)
	}
	w := p.advance().Text
	switch w {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, newParseError(kwLine, "invalid value for %s: %s", kw, w)
	}
}

func (p *Parser) parseDepthBlock(pipe *script.Pipeline, line int) error {
	d := script.DepthState{}
	err := p.parseBlock(line, "DEPTH", func(kw string, kwLine int) error {
		switch kw {
		case "TEST":
			v, err := p.parseOnOff(kw, kwLine)
			d.TestEnable = v
			return err
		case "WRITE":
			v, err := p.parseOnOff(kw, kwLine)
			d.WriteEnable = v
			return err
		case "CLAMP":
			v, err := p.parseOnOff(kw, kwLine)
			d.ClampEnable = v
			return err
		case "COMPARE_OP":
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			op, ok := toCompareOp(w)
			if !ok {
				return newParseError(wLine, "unknown compare op: %s", w)
			}
			d.Compare = op
			return nil
		case "BOUNDS":
			if err := p.expectWord("min"); err != nil {
				return err
			}
			min, err := p.readFloat32()
			if err != nil {
				return err
			}
			if err := p.expectWord("max"); err != nil {
				return err
			}
			max, err := p.readFloat32()
			if err != nil {
				return err
			}
			d.Bounds = true
			d.MinBound, d.MaxBound = min, max
			return nil
		case "BIAS":
			if err := p.expectWord("constant"); err != nil {
				return err
			}
			c, err := p.readFloat32()
			if err != nil {
				return err
			}
			if err := p.expectWord("clamp"); err != nil {
				return err
			}
			cl, err := p.readFloat32()
			if err != nil {
				return err
			}
			if err := p.expectWord("slope"); err != nil {
				return err
			}
			sl, err := p.readFloat32()
			if err != nil {
				return err
			}
			d.BiasConstant, d.BiasClamp, d.BiasSlope = c, cl, sl
			return nil
		default:
			return newParseError(kwLine, "unknown token: %s", kw)
		}
	})
	if err != nil {
		return err
	}
	pipe.Depth = d
	return p.validateEndOfStatement("DEPTH")
}

func (p *Parser) parseStencilBlock(pipe *script.Pipeline, line int) error {
	faceWord, faceLine, err := p.readWord()
	if err != nil {
		return err
	}
	var idx int
	switch faceWord {
	case "front":
		idx = 0
	case "back":
		idx = 1
	default:
		return newParseError(faceLine, "expected front or back, got %s", faceWord)
	}

	f := script.StencilFaceState{}
	err = p.parseBlock(line, "STENCIL", func(kw string, kwLine int) error {
		switch kw {
		case "TEST":
			v, err := p.parseOnOff(kw, kwLine)
			pipe.StencilTestEnable = v
			return err
		case "COMPARE_OP":
			w, wLine, err := p.readWord()
			if err != nil {
				return err
			}
			op, ok := toCompareOp(w)
			if !ok {
				return newParseError(wLine, "unknown compare op: %s", w)
			}
			f.Compare = op
			return nil
		case "FAIL_OP":
			v, _, err := p.readWord()
			f.Fail = v
			return err
		case "PASS_OP":
			v, _, err := p.readWord()
			f.Pass = v
			return err
		case "DEPTH_FAIL_OP":
			v, _, err := p.readWord()
			f.DepthFail = v
			return err
		case "COMPARE_MASK":
			v, err := p.readUint32()
			f.CompareMask = v
			return err
		case "WRITE_MASK":
			v, err := p.readUint32()
			f.WriteMask = v
			return err
		case "REFERENCE":
			v, err := p.readUint32()
			f.Reference = v
			return err
		default:
			return newParseError(kwLine, "unknown token: %s", kw)
		}
	})
	if err != nil {
		return err
	}
	pipe.Stencil[idx] = f
	return p.validateEndOfStatement("STENCIL")
}

func (p *Parser) parseViewport(pipe *script.Pipeline, line int) error {
	x, err := p.readFloat32()
	if err != nil {
		return err
	}
	y, err := p.readFloat32()
	if err != nil {
		return err
	}
	if err := p.expectWord("SIZE"); err != nil {
		return err
	}
	w, err := p.readFloat32()
	if err != nil {
		return err
	}
	h, err := p.readFloat32()
	if err != nil {
		return err
	}
	v := script.Viewport{X: x, Y: y, Width: w, Height: h, MaxDepth: 1}

	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		switch t.Text {
		case "MIN_DEPTH":
			p.advance()
			d, err := p.readFloat32()
			if err != nil {
				return err
			}
			v.MinDepth = d
		case "MAX_DEPTH":
			p.advance()
			d, err := p.readFloat32()
			if err != nil {
				return err
			}
			v.MaxDepth = d
		default:
			goto done
		}
	}
done:
	pipe.Viewport = v
	_ = line
	return p.validateEndOfStatement("VIEWPORT")
}

// parseShaderGroup reads "SHADER_GROUP <name> <shader>...": a group name
// followed by zero or more shader references with no role keyword at
// all. Each shader's own declared stage classifies it into the group's
// general/any-hit/closest-hit/intersection slot; ray-generation, miss,
// and callable shaders all fill the single "general" slot, matching the
// Vulkan shader-group model.
func (p *Parser) parseShaderGroup(pipe *script.Pipeline, line int) error {
	if !p.peek().IsString() {
		return newParseError(p.peekLine(), "group name expected")
	}
	name := p.advance().Text
	for _, existing := range pipe.ShaderGroups {
		if existing.Name == name {
			return newParseError(line, "group name already exists")
		}
	}

	g := script.ShaderGroup{Name: name}
	for {
		t := p.peek()
		if !t.IsString() {
			break
		}
		shLine := p.peekLine()
		shWord := p.advance().Text
		sh, ok := p.script.Shaders.Lookup(shWord)
		if !ok {
			return newParseError(shLine, "shader not found: %s", shWord)
		}
		shader, _ := p.script.Shaders.Get(sh)
		if !shader.Stage.IsRaytracing() {
			return newParseError(shLine, "shader must be of raytracing type")
		}
		hasHit := g.HasAnyHit || g.HasClosestHit || g.HasIntersection
		switch shader.Stage {
		case script.StageRayGeneration, script.StageMiss, script.StageCallable:
			if hasHit {
				return newParseError(shLine, "hit group cannot contain general shaders")
			}
			if g.HasGeneral {
				return newParseError(shLine, "two general shaders cannot be in one group")
			}
			g.General, g.HasGeneral = sh, true
		case script.StageAnyHit:
			if g.HasGeneral {
				return newParseError(shLine, "general group cannot contain any hit shaders")
			}
			if g.HasAnyHit {
				return newParseError(shLine, "two any hit shaders cannot be in one group")
			}
			g.AnyHit, g.HasAnyHit = sh, true
		case script.StageClosestHit:
			if g.HasGeneral {
				return newParseError(shLine, "general group cannot contain closest hit shaders")
			}
			if g.HasClosestHit {
				return newParseError(shLine, "two closest hit shaders cannot be in one group")
			}
			g.ClosestHit, g.HasClosestHit = sh, true
		case script.StageIntersection:
			if g.HasGeneral {
				return newParseError(shLine, "general group cannot contain intersection shaders")
			}
			if g.HasIntersection {
				return newParseError(shLine, "two intersection shaders cannot be in one group")
			}
			g.Intersection, g.HasIntersection = sh, true
		}
	}
	pipe.ShaderGroups = append(pipe.ShaderGroups, g)
	return p.validateEndOfStatement("SHADER_GROUP")
}

// parseShaderBindingTable reads "SHADER_BINDING_TABLE <name>" followed by
// a block body listing previously declared SHADER_GROUP names, one per
// line, closed by END.
func (p *Parser) parseShaderBindingTable(pipe *script.Pipeline, line int) error {
	name, _, err := p.readWord()
	if err != nil {
		return err
	}
	if err := p.validateEndOfStatement("SHADER_BINDING_TABLE"); err != nil {
		return err
	}
	if _, exists := pipe.ShaderBindingTables[name]; exists {
		return newParseError(line, "shader binding table %q already defined", name)
	}

	sbt := script.ShaderBindingTable{Name: name}
	err = p.parseBlock(line, "SHADER_BINDING_TABLE", func(kw string, kwLine int) error {
		idx := -1
		for i, g := range pipe.ShaderGroups {
			if g.Name == kw {
				idx = i
				break
			}
		}
		if idx < 0 {
			return newParseError(kwLine, "unknown shader group: %s", kw)
		}
		sbt.Groups = append(sbt.Groups, idx)
		return nil
	})
	if err != nil {
		return err
	}

	if pipe.ShaderBindingTables == nil {
		pipe.ShaderBindingTables = make(map[string]script.ShaderBindingTable)
	}
	pipe.ShaderBindingTables[name] = sbt
	return nil
}
