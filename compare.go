package pipegraph

// CompareFlags lets callers request stricter or looser comparator
// semantics for the handful of groups where that distinction matters
// (spec §4.4: "fragment-equality comparators accept a flags value").
// The core defines no flag bits of its own; they exist for back-ends
// that layer stricter float-tolerance or texture-identity rules on
// top of the default comparators.
type CompareFlags uint32

// ancestorChain returns h's leaf-first ancestor chain. If scratch is
// non-nil, its backing array is reused (truncated to length zero
// first) instead of allocating a fresh slice, the way Context.Equal
// reuses its two scratch arrays across repeated comparisons against
// the current pipeline.
func ancestorChain[T nodeHandle[T]](h T, scratch *[]T) []T {
	var chain []T
	if scratch != nil {
		chain = (*scratch)[:0]
	} else {
		chain = make([]T, 0, 8)
	}
	for cur := h; !isNilHandle(cur); cur = cur.treeNode().parent {
		chain = append(chain, cur)
	}
	if scratch != nil {
		*scratch = chain
	}
	return chain
}

// commonAncestorDepth returns how many trailing (root-side) entries
// the two leaf-first ancestor chains share.
func commonAncestorDepth[T nodeHandle[T]](aChain, bChain []T) int {
	i, j := len(aChain)-1, len(bChain)-1
	common := 0
	for i >= 0 && j >= 0 && aChain[i] == bChain[j] {
		common++
		i--
		j--
	}
	return common
}

// comparePipelineDifferences implements compare_differences (spec
// §4.4): the union of differences on every node from a and from b up
// to, but excluding, their lowest common ancestor. scratchA/scratchB
// are optional reusable ancestor-chain buffers; pass nil for both to
// always allocate fresh ones.
func comparePipelineDifferences(a, b *Pipeline, scratchA, scratchB *[]*Pipeline) Differences {
	if a == b {
		return 0
	}
	aChain := ancestorChain[*Pipeline](a, scratchA)
	bChain := ancestorChain[*Pipeline](b, scratchB)
	common := commonAncestorDepth[*Pipeline](aChain, bChain)

	var d Differences
	for _, n := range aChain[:len(aChain)-common] {
		d |= n.differences
	}
	for _, n := range bChain[:len(bChain)-common] {
		d |= n.differences
	}
	return d
}

func compareLayerDifferences(a, b *Layer) LayerDifferences {
	if a == b {
		return 0
	}
	aChain := ancestorChain[*Layer](a, nil)
	bChain := ancestorChain[*Layer](b, nil)
	common := commonAncestorDepth[*Layer](aChain, bChain)

	var d LayerDifferences
	for _, n := range aChain[:len(aChain)-common] {
		d |= n.differences
	}
	for _, n := range bChain[:len(bChain)-common] {
		d |= n.differences
	}
	return d
}

// Equal reports whether a and b are structurally equal modulo mask
// (pipeline groups) and layerMask (layer groups), per spec §4.4.
func Equal(a, b *Pipeline, mask Differences, layerMask LayerDifferences, flags CompareFlags) bool {
	return equalWithScratch(a, b, mask, layerMask, flags, nil, nil)
}

// Equal reports whether a and b are structurally equal modulo mask and
// layerMask, reusing ctx's two ancestor-walk scratch arrays instead of
// allocating fresh ones. Intended for the repeated a-vs-current-pipeline
// comparisons a back-end runs once per draw call.
func (ctx *Context) Equal(a, b *Pipeline, mask Differences, layerMask LayerDifferences, flags CompareFlags) bool {
	return equalWithScratch(a, b, mask, layerMask, flags, &ctx.scratchA, &ctx.scratchB)
}

func equalWithScratch(a, b *Pipeline, mask Differences, layerMask LayerDifferences, flags CompareFlags, scratchA, scratchB *[]*Pipeline) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.realBlendEnable != b.realBlendEnable {
		return false
	}

	d := comparePipelineDifferences(a, b, scratchA, scratchB) & mask
	for bit := Differences(1); d != 0; bit <<= 1 {
		if d&bit == 0 {
			continue
		}
		d &^= bit
		aa := authority(a, bit)
		bb := authority(b, bit)
		if !comparePipelineGroup(aa, bb, bit, layerMask, flags) {
			return false
		}
	}
	return true
}

func comparePipelineGroup(a, b *Pipeline, g Differences, layerMask LayerDifferences, flags CompareFlags) bool {
	switch g {
	case StateColor:
		return a.color.Equal(b.color)
	case StateBlendEnable:
		return a.blendEnableMode == b.blendEnableMode
	case StateBlend:
		return a.big.blend.equal(b.big.blend)
	case StateAlphaFunc:
		return a.alphaFunc == b.alphaFunc
	case StateAlphaRef:
		return a.alphaRef == b.alphaRef
	case StateLighting:
		return a.big.lighting == b.big.lighting
	case StateDepth:
		return a.big.depth == b.big.depth
	case StateFog:
		return a.big.fog == b.big.fog
	case StateCullFace:
		return a.big.cullFace == b.big.cullFace
	case StateLogicOps:
		return a.big.logicOp == b.big.logicOp
	case StateUserShader:
		return a.big.shader == b.big.shader
	case StatePointSize:
		return a.big.pointSize == b.big.pointSize
	case StateLayers:
		return compareLayerArrays(a, b, layerMask, flags)
	}
	return true
}

func compareLayerArrays(a, b *Pipeline, layerMask LayerDifferences, flags CompareFlags) bool {
	la := resolveLayers(a)
	lb := resolveLayers(b)
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if !equalLayer(la[i], lb[i], layerMask, flags) {
			return false
		}
	}
	return true
}

// equalLayer compares two layers modulo mask, the layer-tree analogue
// of Equal.
func equalLayer(a, b *Layer, mask LayerDifferences, flags CompareFlags) bool {
	if a == b {
		return true
	}
	d := compareLayerDifferences(a, b) & mask
	for bit := LayerDifferences(1); d != 0; bit <<= 1 {
		if d&bit == 0 {
			continue
		}
		d &^= bit
		if bit == LayerStateCombineConstant &&
			!layerAuthority(a, LayerStateCombine).big.combineFunc.UsesConstant() &&
			!layerAuthority(b, LayerStateCombine).big.combineFunc.UsesConstant() {
			// Neither side's combine function reads the constant, so a
			// difference in its stored value is not observable; matches
			// hash.go's treatment of the same bit.
			continue
		}
		aa := layerAuthority(a, bit)
		bb := layerAuthority(b, bit)
		if !compareLayerGroup(aa, bb, bit, flags) {
			return false
		}
	}
	return true
}

func compareLayerGroup(a, b *Layer, g LayerDifferences, flags CompareFlags) bool {
	switch g {
	case LayerStateUnitIndex:
		return a.unitIndex == b.unitIndex
	case LayerStateTextureTarget:
		return a.big.textureTarget == b.big.textureTarget
	case LayerStateTextureData:
		return textureEqual(a.texture, b.texture)
	case LayerStateFilters:
		return a.big.minFilter == b.big.minFilter && a.big.magFilter == b.big.magFilter
	case LayerStateWrapModes:
		return wrapEqual(a.big.wrapS, b.big.wrapS) &&
			wrapEqual(a.big.wrapT, b.big.wrapT) &&
			wrapEqual(a.big.wrapR, b.big.wrapR)
	case LayerStateCombine:
		return a.big.combineFunc == b.big.combineFunc
	case LayerStateCombineConstant:
		return a.big.combineConstant.Equal(b.big.combineConstant)
	case LayerStateUserMatrix:
		return a.big.userMatrix.Equal(b.big.userMatrix)
	case LayerStatePointSpriteCoords:
		return a.big.pointSpriteEnabled == b.big.pointSpriteEnabled
	}
	return true
}

// textureEqual compares two textures by their underlying handle, not
// wrapper identity, per spec §4.4.
func textureEqual(a, b Texture) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Handle() == b.Handle()
}
