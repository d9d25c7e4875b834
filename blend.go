package pipegraph

// deriveRealBlendEnable implements the blend-enable predicate of spec
// §4.2. real_blend_enable is not sparse: every pipeline carries its own
// copy, recomputed whenever a group in AffectsBlending changes.
func deriveRealBlendEnable(p *Pipeline) bool {
	return blendEnabledForColor(p, authority(p, StateColor).color)
}

// blendEnabledForColor evaluates the blend-enable predicate as if p's
// color authority held color instead of its current value, without
// mutating anything. Used both by deriveRealBlendEnable and by cow.go
// to decide whether a pending color change can skip the journal flush
// (step 1's exception: a COLOR change that wouldn't flip the derived
// value is logged per-vertex instead).
func blendEnabledForColor(p *Pipeline, color RGBA) bool {
	mode := authority(p, StateBlendEnable).blendEnableMode
	switch mode {
	case BlendEnabled:
		return true
	case BlendDisabled:
		return false
	}

	// BlendAutomatic: enabled iff any of (a)-(e) may yield an alpha < 1
	// or a non-identity blend equation. Short-circuit in this order.
	blend := authority(p, StateBlend).big.blend

	if !(blend.RGBEquation == BlendEquationAdd && blend.AlphaEquation == BlendEquationAdd) {
		return true // (a)
	}
	if !blend.isDefaultAdditive() {
		return true // (b)
	}
	if color.A < 1 {
		return true // (c)
	}
	if authority(p, StateUserShader).big.shader != nil {
		return true // (d)
	}

	// (e) any effective layer produces alpha: the default layer-combine
	// is modulate-previous-by-texture; a non-default combine function or
	// an authoritative texture with an alpha channel can make the
	// accumulator go non-opaque.
	for _, l := range resolveLayers(p) {
		cf := layerAuthority(l, LayerStateCombine).big.combineFunc
		if cf != CombineModulate {
			return true
		}
		tl := layerAuthority(l, LayerStateTextureData)
		if tl.texture != nil && tl.texture.HasAlpha() {
			return true
		}
	}

	return false
}

// colorChangeFlipsBlend reports whether replacing p's color authority
// value with newColor would flip real_blend_enable. A nil newColor is
// treated conservatively as "yes, it might flip".
func colorChangeFlipsBlend(p *Pipeline, newColor *RGBA) bool {
	if newColor == nil {
		return true
	}
	before := blendEnabledForColor(p, authority(p, StateColor).color)
	after := blendEnabledForColor(p, *newColor)
	return before != after
}

// reevaluateBlendEnable recomputes real_blend_enable for p after a
// mutation that intersects AffectsBlending (spec §4.3 step 9). If the
// value flipped, it dispatches back-ends' PipelinePreChangeNotify with
// an empty change mask (no Differences bit names real_blend_enable)
// before storing the new value; the journal is not flushed.
func reevaluateBlendEnable(p *Pipeline) {
	next := deriveRealBlendEnable(p)
	if next == p.realBlendEnable {
		return
	}
	notifyPipelinePreChange(p, ChangeMask(0), nil)
	p.realBlendEnable = next
}
