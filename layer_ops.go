package pipegraph

// GetLayer looks up the layer at index in p's effective layer array
// and returns it, creating one if none exists yet (spec §4.6). A
// freshly-created layer copies layer 0's defaults if it becomes the
// lowest-indexed layer, or the layer-n template otherwise, and bumps
// the unit index of every later-indexed layer by one. Returns
// ErrNilPipeline instead of panicking when p is nil.
func (p *Pipeline) GetLayer(index int) (*Layer, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	if l := findLayerByIndex(p, index); l != nil {
		return l, nil
	}
	return createLayer(p, index), nil
}

func findLayerByIndex(p *Pipeline, index int) *Layer {
	for _, l := range resolveLayers(p) {
		if l.index == index {
			return l
		}
	}
	return nil
}

func createLayer(p *Pipeline, index int) *Layer {
	layers := resolveLayers(p)

	unit := 0
	for _, l := range layers {
		if l.index < index {
			unit++
		}
	}

	template := p.ctx.defaultLayerN
	if unit == 0 {
		template = p.ctx.defaultLayer0
	}

	newLayer := newLayerChild(template, false)
	newLayer.index = index
	newLayer.unitIndex = unit
	newLayer.differences |= LayerStateUnitIndex

	mutatePipeline(p, StateLayers, nil, func(target *Pipeline) {
		for _, l := range layers {
			if unitIndexAuthority(l) >= unit {
				shifted := ownLayerForMutation(target, l)
				shifted.unitIndex++
				shifted.differences |= LayerStateUnitIndex
			}
		}
		newLayer.owner = target
		target.layerDifferences = append(target.layerDifferences, newLayer)
		ref[*Layer](newLayer)
		target.nLayers++
	})

	return newLayer
}

// RemoveLayer removes the layer at index from p's effective layer
// array, decrements the unit index of every layer positioned after it,
// and tries to revert the LAYERS authority back to the parent. Returns
// ErrIndexOutOfRange if no layer exists at index.
func (p *Pipeline) RemoveLayer(index int) error {
	if p == nil {
		return ErrNilPipeline
	}
	l := findLayerByIndex(p, index)
	if l == nil {
		return ErrIndexOutOfRange
	}
	removedUnit := unitIndexAuthority(l)
	layers := resolveLayers(p)

	mutatePipeline(p, StateLayers, nil, func(target *Pipeline) {
		for _, x := range layers {
			if x == l {
				continue
			}
			if unitIndexAuthority(x) > removedUnit {
				shifted := ownLayerForMutation(target, x)
				shifted.unitIndex--
				shifted.differences |= LayerStateUnitIndex
			}
		}
		if l.owner == target {
			removeFromLayerDifferences(target, l)
		}
		target.nLayers--
	})

	revertIfMatchesParent(p, StateLayers,
		p.n.parent != nil && len(p.layerDifferences) == 0 && authority(p.n.parent, StateLayers).nLayers == p.nLayers)
	return nil
}

// PruneToNLayers clamps p's authoritative layer count to n, dropping
// any owned layer-difference whose index exceeds the n-th remaining
// effective index. A no-op if p already has n or fewer layers. Returns
// ErrNilPipeline instead of panicking when p is nil.
func (p *Pipeline) PruneToNLayers(n int) error {
	if p == nil {
		return ErrNilPipeline
	}
	if authority(p, StateLayers).nLayers <= n {
		return nil
	}
	layers := resolveLayers(p)

	mutatePipeline(p, StateLayers, nil, func(target *Pipeline) {
		kept := make(map[*Layer]bool, n)
		for _, l := range layers[:n] {
			kept[l] = true
		}
		for i := len(target.layerDifferences) - 1; i >= 0; i-- {
			l := target.layerDifferences[i]
			if !kept[l] {
				target.layerDifferences = append(target.layerDifferences[:i], target.layerDifferences[i+1:]...)
				l.owner = nil
				unref[*Layer](l)
			}
		}
		target.nLayers = n
	})
	return nil
}

func removeFromLayerDifferences(owner *Pipeline, l *Layer) {
	for i, x := range owner.layerDifferences {
		if x == l {
			owner.layerDifferences = append(owner.layerDifferences[:i], owner.layerDifferences[i+1:]...)
			l.owner = nil
			unref[*Layer](l)
			return
		}
	}
}

// ownLayerForMutation returns a layer owned by owner and free of
// strong children that l's current state can be written through: l
// itself if it already qualifies, otherwise a fresh owned copy (spec
// §4.6: "if the layer has any child or its owner is not the required
// owner, copy the layer... before mutating").
func ownLayerForMutation(owner *Pipeline, l *Layer) *Layer {
	destroyWeakChildren[*Layer](l)
	if l.owner == owner && !hasStrongChildren[*Layer](l) {
		return l
	}

	nl := newLayerChild(l, false)
	nl.index = l.index
	nl.unitIndex = l.unitIndex

	if l.owner == owner {
		removeFromLayerDifferences(owner, l)
	}
	nl.owner = owner
	owner.layerDifferences = append(owner.layerDifferences, nl)
	ref[*Layer](nl)
	return nl
}

func isMultiPropertyLayerGroup(g LayerDifferences) bool {
	switch g {
	case LayerStateFilters, LayerStateWrapModes:
		return true
	default:
		return false
	}
}

func takeoverLayerGroup(l *Layer, g LayerDifferences) {
	a := layerAuthority(l, g)
	if a == l {
		return
	}
	switch g {
	case LayerStateFilters:
		l.big.minFilter = a.big.minFilter
		l.big.magFilter = a.big.magFilter
	case LayerStateWrapModes:
		l.big.wrapS = a.big.wrapS
		l.big.wrapT = a.big.wrapT
		l.big.wrapR = a.big.wrapR
	}
}

// mutateLayerGroup runs the layer-level pre-change protocol of spec
// §4.6 for a change to group on the layer at index owned by owner,
// then invokes apply to write the new value. The owned layer is
// obtained inside a StateLayers mutation of owner, so owner runs
// copy-on-write first and becomes the LAYERS authority whose effective
// layers include the written copy. Texture and combine
// changes additionally re-derive owner's real_blend_enable, since
// layer state feeds the blend-enable predicate's rule (e). Returns
// ErrNilPipeline instead of panicking when owner is nil.
func mutateLayerGroup(owner *Pipeline, index int, group LayerDifferences, apply func(*Layer)) (*Layer, error) {
	if owner == nil {
		return nil, ErrNilPipeline
	}
	l, err := owner.GetLayer(index)
	if err != nil {
		return nil, err
	}
	mutatePipeline(owner, StateLayers, nil, func(target *Pipeline) {
		l = ownLayerForMutation(target, l)
	})

	notifyLayerPreChange(owner, l, ChangeMask(group))

	if group&LayerNeedsBigState != 0 && l.big == nil {
		l.big = defaultLayerBigState()
	}
	if !l.differences.Intersects(group) && isMultiPropertyLayerGroup(group) {
		takeoverLayerGroup(l, group)
	}
	l.differences |= group

	apply(l)

	if group == LayerStateTextureData || group == LayerStateCombine {
		reevaluateBlendEnable(owner)
	}
	return l, nil
}

// SetLayerTexture sets the texture bound to the layer at index.
func (p *Pipeline) SetLayerTexture(index int, tex Texture) error {
	_, err := mutateLayerGroup(p, index, LayerStateTextureData, func(l *Layer) {
		l.texture = tex
	})
	return err
}

// LayerTexture returns the texture of the layer at index's
// LayerStateTextureData authority. Returns ErrNilPipeline or
// ErrIndexOutOfRange if p is nil or no such layer exists.
func (p *Pipeline) LayerTexture(index int) (Texture, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	l := findLayerByIndex(p, index)
	if l == nil {
		return nil, ErrIndexOutOfRange
	}
	return layerAuthority(l, LayerStateTextureData).texture, nil
}

// SetLayerTextureTarget sets the texture binding point of the layer at
// index.
func (p *Pipeline) SetLayerTextureTarget(index int, target TextureTarget) error {
	_, err := mutateLayerGroup(p, index, LayerStateTextureTarget, func(l *Layer) {
		l.big.textureTarget = target
	})
	return err
}

// SetLayerFilters sets the minification/magnification filters of the
// layer at index.
func (p *Pipeline) SetLayerFilters(index int, minFilter, magFilter FilterMode) error {
	_, err := mutateLayerGroup(p, index, LayerStateFilters, func(l *Layer) {
		l.big.minFilter = minFilter
		l.big.magFilter = magFilter
	})
	return err
}

// LayerFilters returns the filters of the layer at index's
// LayerStateFilters authority. Returns ErrNilPipeline or
// ErrIndexOutOfRange if p is nil or no such layer exists.
func (p *Pipeline) LayerFilters(index int) (minFilter, magFilter FilterMode, err error) {
	if p == nil {
		return FilterLinear, FilterLinear, ErrNilPipeline
	}
	l := findLayerByIndex(p, index)
	if l == nil {
		return FilterLinear, FilterLinear, ErrIndexOutOfRange
	}
	a := layerAuthority(l, LayerStateFilters)
	return a.big.minFilter, a.big.magFilter, nil
}

// SetLayerWrapModes sets the wrap modes of the layer at index.
func (p *Pipeline) SetLayerWrapModes(index int, s, t, r WrapMode) error {
	_, err := mutateLayerGroup(p, index, LayerStateWrapModes, func(l *Layer) {
		l.big.wrapS = s
		l.big.wrapT = t
		l.big.wrapR = r
	})
	return err
}

// SetLayerCombine sets the texture-environment combine function of the
// layer at index.
func (p *Pipeline) SetLayerCombine(index int, f CombineFunc) error {
	_, err := mutateLayerGroup(p, index, LayerStateCombine, func(l *Layer) {
		l.big.combineFunc = f
	})
	return err
}

// LayerCombine returns the combine function of the layer at index's
// LayerStateCombine authority. Returns ErrNilPipeline or
// ErrIndexOutOfRange if p is nil or no such layer exists.
func (p *Pipeline) LayerCombine(index int) (CombineFunc, error) {
	if p == nil {
		return CombineModulate, ErrNilPipeline
	}
	l := findLayerByIndex(p, index)
	if l == nil {
		return CombineModulate, ErrIndexOutOfRange
	}
	return layerAuthority(l, LayerStateCombine).big.combineFunc, nil
}

// SetLayerCombineConstant sets the combine-constant color of the layer
// at index. Only consulted by the combine function when
// CombineFunc.UsesConstant reports true.
func (p *Pipeline) SetLayerCombineConstant(index int, c RGBA) error {
	_, err := mutateLayerGroup(p, index, LayerStateCombineConstant, func(l *Layer) {
		l.big.combineConstant = c
	})
	return err
}

// SetLayerUserMatrix sets the layer's user matrix (big-state).
func (p *Pipeline) SetLayerUserMatrix(index int, m Matrix) error {
	_, err := mutateLayerGroup(p, index, LayerStateUserMatrix, func(l *Layer) {
		l.big.userMatrix = m
	})
	return err
}

// LayerUserMatrix returns the user matrix of the layer at index's
// LayerStateUserMatrix authority. Returns ErrNilPipeline or
// ErrIndexOutOfRange if p is nil or no such layer exists.
func (p *Pipeline) LayerUserMatrix(index int) (Matrix, error) {
	if p == nil {
		return Identity(), ErrNilPipeline
	}
	l := findLayerByIndex(p, index)
	if l == nil {
		return Identity(), ErrIndexOutOfRange
	}
	return layerAuthority(l, LayerStateUserMatrix).big.userMatrix, nil
}

// SetLayerPointSpriteCoords enables or disables point-sprite
// coordinate generation on the layer at index.
func (p *Pipeline) SetLayerPointSpriteCoords(index int, enabled bool) error {
	_, err := mutateLayerGroup(p, index, LayerStatePointSpriteCoords, func(l *Layer) {
		l.big.pointSpriteEnabled = enabled
	})
	return err
}

// Index returns the layer's stable logical index.
func (l *Layer) Index() int {
	return l.index
}

// UnitIndex returns the layer's current positional unit, resolved
// through its LayerStateUnitIndex authority.
func (l *Layer) UnitIndex() int {
	return unitIndexAuthority(l)
}

// Owner returns the single pipeline whose layerDifferences list
// contains this layer, or nil.
func (l *Layer) Owner() *Pipeline {
	return l.owner
}
