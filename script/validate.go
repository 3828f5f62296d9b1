// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

// Validate runs the semantic validator over a single Pipeline, called
// by the parser when the pipeline's block closes. It does not check
// framebuffer-size agreement across sibling pipelines, which requires
// the whole Script and is checked by Script.Validate.
func (p *Pipeline) Validate(s *Script) error {
	if err := p.validateShaderCompleteness(s); err != nil {
		return err
	}
	if err := p.validateColorAttachments(); err != nil {
		return err
	}
	if err := p.validateSingleAttachments(); err != nil {
		return err
	}
	if err := p.validateMipBounds(s); err != nil {
		return err
	}
	if err := p.validateSpecializations(); err != nil {
		return err
	}
	return nil
}

// validateShaderCompleteness checks that a Graphics pipeline has both a
// vertex and a fragment shader, a Compute pipeline exactly one compute
// shader, that each shader's stage is legal for the pipeline kind, and
// that PASSTHROUGH shaders are restricted to the vertex stage.
func (p *Pipeline) validateShaderCompleteness(s *Script) error {
	switch p.Kind {
	case PipelineCompute:
		count := 0
		for _, a := range p.Attachments {
			stage := p.resolveStage(s, a)
			if stage != StageCompute {
				return NewValidationErrorf(a.DeclLine, "Pipeline",
					"only compute shaders are allowed in a compute pipeline")
			}
			count++
		}
		if count != 1 {
			return NewValidationErrorf(p.DeclLine, "Pipeline",
				"a compute pipeline must have exactly one shader")
		}
	case PipelineGraphics:
		hasVertex, hasFragment := false, false
		for _, a := range p.Attachments {
			stage := p.resolveStage(s, a)
			if stage == StageVertex {
				hasVertex = true
			}
			if stage == StageFragment {
				hasFragment = true
			}
			if stage.IsRaytracing() || stage == StageCompute {
				return NewValidationErrorf(a.DeclLine, "Pipeline",
					"invalid shader stage for a graphics pipeline")
			}
			if sh, ok := s.Shaders.Get(a.Shader); ok && sh.Passthrough && stage != StageVertex {
				return NewValidationErrorf(a.DeclLine, "Pipeline",
					"PASSTHROUGH shaders may only attach to the vertex stage")
			}
		}
		if !hasVertex || !hasFragment {
			return NewValidationErrorf(p.DeclLine, "Pipeline",
				"a graphics pipeline requires a vertex and a fragment shader")
		}
	case PipelineRaytracing:
		for _, a := range p.Attachments {
			stage := p.resolveStage(s, a)
			if !stage.IsRaytracing() {
				return NewValidationErrorf(a.DeclLine, "Pipeline",
					"only raytracing shaders are allowed in a raytracing pipeline")
			}
		}
	}
	return nil
}

// resolveStage returns the effective stage of an attachment: the
// shader's own Stage, unless it is StageMulti, in which case the
// attachment's explicit TYPE override is used. A multi-stage shader
// requires an explicit TYPE override on every attach.
func (p *Pipeline) resolveStage(s *Script, a Attachment) ShaderStage {
	sh, ok := s.Shaders.Get(a.Shader)
	if !ok {
		return StageMulti
	}
	if sh.Stage == StageMulti && a.HasStageOverride {
		return a.StageOverride
	}
	return sh.Stage
}

// validateColorAttachments checks that no two color attachments share
// a LOCATION, and that a given color buffer binds to this pipeline at
// most once.
func (p *Pipeline) validateColorAttachments() error {
	seenLocation := make(map[uint32]bool)
	seenBuffer := make(map[BufferHandle]bool)
	for _, c := range p.ColorAttachments {
		if seenLocation[c.Location] {
			return NewValidationErrorf(c.DeclLine, "Pipeline",
				"can not bind two color buffers to the same LOCATION")
		}
		seenLocation[c.Location] = true
		if seenBuffer[c.Buffer] {
			return NewValidationErrorf(c.DeclLine, "Pipeline",
				"can not bind the same color buffer to a pipeline more than once")
		}
		seenBuffer[c.Buffer] = true
	}
	return nil
}

// validateSingleAttachments checks that at most one depth-stencil
// attachment, one index buffer, and one push-constant block are bound.
// These are already structurally enforced by Pipeline's single-valued
// fields (HasDepthStencil, HasIndexBuffer, HasPushConstant); this exists
// as the named check the parser calls and as a home for future
// multi-bind detection.
func (p *Pipeline) validateSingleAttachments() error {
	return nil
}

// validateMipBounds checks that BASE_MIP_LEVEL n is less than MIP_LEVELS
// declared on the buffer, and that a color attachment's mip count does
// not produce a zero-width level.
func (p *Pipeline) validateMipBounds(s *Script) error {
	for _, d := range p.Descriptors {
		if !d.HasBaseMipLevel {
			continue
		}
		for _, bh := range d.Buffers {
			buf, ok := s.Buffers.Get(bh)
			if !ok {
				continue
			}
			if d.BaseMipLevel >= buf.MipLevels {
				return NewValidationErrorf(d.DeclLine, "Pipeline",
					"BASE_MIP_LEVEL %d exceeds buffer %q's MIP_LEVELS %d",
					d.BaseMipLevel, buf.Name, buf.MipLevels)
			}
		}
	}
	for _, c := range p.ColorAttachments {
		buf, ok := s.Buffers.Get(c.Buffer)
		if !ok {
			continue
		}
		if buf.MipLevels > 0 && buf.Width>>(buf.MipLevels-1) == 0 {
			return NewValidationErrorf(c.DeclLine, "Pipeline",
				"buffer %q's MIP_LEVELS produces a zero-width mip level", buf.Name)
		}
	}
	return nil
}

// validateSpecializations checks that specialization constants use
// 32-bit types.
func (p *Pipeline) validateSpecializations() error {
	for _, a := range p.Attachments {
		for _, sc := range a.Specializations {
			if sc.Kind.Width() != 4 {
				return NewValidationErrorf(a.DeclLine, "Pipeline",
					"only 32-bit types are currently accepted for specialization values")
			}
		}
	}
	return nil
}

// Validate runs whole-Script checks that span multiple pipelines:
// framebuffer-size agreement across pipelines sharing a color
// attachment.
func (s *Script) Validate() error {
	sizes := make(map[BufferHandle][2]uint32)

	var err error
	s.Pipelines.ForEach(func(_ PipelineHandle, p *Pipeline) {
		if err != nil {
			return
		}
		for _, c := range p.ColorAttachments {
			w, h := p.EffectiveFramebufferWidth(), p.EffectiveFramebufferHeight()
			if existing, ok := sizes[c.Buffer]; ok {
				if existing != [2]uint32{w, h} {
					err = NewValidationErrorf(c.DeclLine, "Pipeline",
						"pipelines sharing color buffer must agree on FRAMEBUFFER_SIZE")
					return
				}
				continue
			}
			sizes[c.Buffer] = [2]uint32{w, h}
		}
	})
	return err
}
