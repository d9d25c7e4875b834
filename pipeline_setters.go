package pipegraph

// SetColor sets the pipeline's inline color. This is the one group
// with its own exception in the copy-on-write protocol's journal-flush
// step: if the change wouldn't flip real_blend_enable, the journal is
// not flushed (color is logged per-vertex). Returns ErrNilPipeline
// instead of panicking when p is nil.
func (p *Pipeline) SetColor(c RGBA) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateColor, &c, func(target *Pipeline) {
		target.color = c
	})
	revertIfMatchesParent(p, StateColor, p.n.parent != nil && authority(p.n.parent, StateColor).color.Equal(c))
	return nil
}

// Color returns the color of p's StateColor authority.
func (p *Pipeline) Color() (RGBA, error) {
	if p == nil {
		return RGBA{}, ErrNilPipeline
	}
	return authority(p, StateColor).color, nil
}

// SetBlendEnable sets the pipeline's blend-enable tri-state.
func (p *Pipeline) SetBlendEnable(mode BlendEnableMode) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateBlendEnable, nil, func(target *Pipeline) {
		target.blendEnableMode = mode
	})
	revertIfMatchesParent(p, StateBlendEnable, p.n.parent != nil && authority(p.n.parent, StateBlendEnable).blendEnableMode == mode)
	return nil
}

// BlendEnable returns p's blend-enable tri-state, as configured (not
// the derived RealBlendEnable).
func (p *Pipeline) BlendEnable() (BlendEnableMode, error) {
	if p == nil {
		return BlendAutomatic, ErrNilPipeline
	}
	return authority(p, StateBlendEnable).blendEnableMode, nil
}

// RealBlendEnable returns the cached, non-sparse derived blend-enable
// answer (spec §4.2).
func (p *Pipeline) RealBlendEnable() (bool, error) {
	if p == nil {
		return false, ErrNilPipeline
	}
	return p.realBlendEnable, nil
}

// SetBlend sets the pipeline's blend equation and factors.
func (p *Pipeline) SetBlend(b BlendState) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateBlend, nil, func(target *Pipeline) {
		target.big.blend = b
	})
	revertIfMatchesParent(p, StateBlend, p.n.parent != nil && authority(p.n.parent, StateBlend).big.blend.equal(b))
	return nil
}

// Blend returns the blend state of p's StateBlend authority.
func (p *Pipeline) Blend() (BlendState, error) {
	if p == nil {
		return BlendState{}, ErrNilPipeline
	}
	return authority(p, StateBlend).big.blend, nil
}

// SetAlphaFunc sets the pipeline's alpha-test comparison function.
func (p *Pipeline) SetAlphaFunc(f CompareFunc) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateAlphaFunc, nil, func(target *Pipeline) {
		target.alphaFunc = f
	})
	revertIfMatchesParent(p, StateAlphaFunc, p.n.parent != nil && authority(p.n.parent, StateAlphaFunc).alphaFunc == f)
	return nil
}

// AlphaFunc returns p's alpha-test comparison function.
func (p *Pipeline) AlphaFunc() (CompareFunc, error) {
	if p == nil {
		return CompareAlways, ErrNilPipeline
	}
	return authority(p, StateAlphaFunc).alphaFunc, nil
}

// SetAlphaRef sets the pipeline's alpha-test reference value.
func (p *Pipeline) SetAlphaRef(ref float64) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateAlphaRef, nil, func(target *Pipeline) {
		target.alphaRef = ref
	})
	revertIfMatchesParent(p, StateAlphaRef, p.n.parent != nil && authority(p.n.parent, StateAlphaRef).alphaRef == ref)
	return nil
}

// AlphaRef returns p's alpha-test reference value.
func (p *Pipeline) AlphaRef() (float64, error) {
	if p == nil {
		return 0, ErrNilPipeline
	}
	return authority(p, StateAlphaRef).alphaRef, nil
}

// SetLighting sets the pipeline's lighting material. Per the Open
// Question in spec §9, lighting does not participate in
// AffectsBlending.
func (p *Pipeline) SetLighting(l LightingState) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateLighting, nil, func(target *Pipeline) {
		target.big.lighting = l
	})
	revertIfMatchesParent(p, StateLighting, p.n.parent != nil && authority(p.n.parent, StateLighting).big.lighting == l)
	return nil
}

// Lighting returns the lighting material of p's StateLighting authority.
func (p *Pipeline) Lighting() (LightingState, error) {
	if p == nil {
		return LightingState{}, ErrNilPipeline
	}
	return authority(p, StateLighting).big.lighting, nil
}

// SetDepth sets the pipeline's depth-test state.
func (p *Pipeline) SetDepth(d DepthState) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateDepth, nil, func(target *Pipeline) {
		target.big.depth = d
	})
	revertIfMatchesParent(p, StateDepth, p.n.parent != nil && authority(p.n.parent, StateDepth).big.depth == d)
	return nil
}

// Depth returns the depth state of p's StateDepth authority.
func (p *Pipeline) Depth() (DepthState, error) {
	if p == nil {
		return DepthState{}, ErrNilPipeline
	}
	return authority(p, StateDepth).big.depth, nil
}

// SetFog sets the pipeline's fog state.
func (p *Pipeline) SetFog(f FogState) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateFog, nil, func(target *Pipeline) {
		target.big.fog = f
	})
	revertIfMatchesParent(p, StateFog, p.n.parent != nil && authority(p.n.parent, StateFog).big.fog == f)
	return nil
}

// Fog returns the fog state of p's StateFog authority.
func (p *Pipeline) Fog() (FogState, error) {
	if p == nil {
		return FogState{}, ErrNilPipeline
	}
	return authority(p, StateFog).big.fog, nil
}

// SetCullFace sets the pipeline's cull-face mode.
func (p *Pipeline) SetCullFace(c CullFaceMode) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateCullFace, nil, func(target *Pipeline) {
		target.big.cullFace = c
	})
	revertIfMatchesParent(p, StateCullFace, p.n.parent != nil && authority(p.n.parent, StateCullFace).big.cullFace == c)
	return nil
}

// CullFace returns the cull-face mode of p's StateCullFace authority.
func (p *Pipeline) CullFace() (CullFaceMode, error) {
	if p == nil {
		return CullFaceNone, ErrNilPipeline
	}
	return authority(p, StateCullFace).big.cullFace, nil
}

// SetLogicOp sets the pipeline's logic-op.
func (p *Pipeline) SetLogicOp(op LogicOp) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateLogicOps, nil, func(target *Pipeline) {
		target.big.logicOp = op
	})
	revertIfMatchesParent(p, StateLogicOps, p.n.parent != nil && authority(p.n.parent, StateLogicOps).big.logicOp == op)
	return nil
}

// LogicOp returns the logic-op of p's StateLogicOps authority.
func (p *Pipeline) LogicOp() (LogicOp, error) {
	if p == nil {
		return LogicOpCopy, ErrNilPipeline
	}
	return authority(p, StateLogicOps).big.logicOp, nil
}

// SetPointSize sets the pipeline's rasterized point size.
func (p *Pipeline) SetPointSize(size float64) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StatePointSize, nil, func(target *Pipeline) {
		target.big.pointSize = size
	})
	revertIfMatchesParent(p, StatePointSize, p.n.parent != nil && authority(p.n.parent, StatePointSize).big.pointSize == size)
	return nil
}

// PointSize returns the point size of p's StatePointSize authority.
func (p *Pipeline) PointSize() (float64, error) {
	if p == nil {
		return 0, ErrNilPipeline
	}
	return authority(p, StatePointSize).big.pointSize, nil
}

// SetUserShader attaches an opaque, externally-supplied shader handle
// to the pipeline. A nil shader reverts to "no user shader", which
// also disables blend-enable derivation rule (d).
func (p *Pipeline) SetUserShader(shader UserShader) error {
	if p == nil {
		return ErrNilPipeline
	}
	mutatePipeline(p, StateUserShader, nil, func(target *Pipeline) {
		target.big.shader = shader
	})
	revertIfMatchesParent(p, StateUserShader, p.n.parent != nil && authority(p.n.parent, StateUserShader).big.shader == shader)
	return nil
}

// UserShader returns the user shader of p's StateUserShader authority.
func (p *Pipeline) UserShader() (UserShader, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	return authority(p, StateUserShader).big.shader, nil
}
