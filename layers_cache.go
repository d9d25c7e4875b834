package pipegraph

// resolveLayers returns p's effective, unit-sorted layer array,
// rebuilding it if p.layersCacheDirty is set. This is the only way to
// obtain the ordered layer array; foreach_layer and every other
// iteration API route through it (spec §4.2).
func resolveLayers(p *Pipeline) []*Layer {
	if !p.layersCacheDirty {
		return p.layersCache
	}

	a := authority(p, StateLayers)
	n := a.nLayers
	slots := make([]*Layer, n)

	for c := a; c != nil; c = c.n.parent {
		if !c.differences.Intersects(StateLayers) {
			continue
		}
		filled := 0
		for _, l := range c.layerDifferences {
			u := unitIndexAuthority(l)
			if u < n && slots[u] == nil {
				slots[u] = l
			}
		}
		for _, s := range slots {
			if s != nil {
				filled++
			}
		}
		if filled == n {
			break
		}
	}

	p.layersCache = slots
	p.layersCacheDirty = false
	return slots
}

// invalidateLayersCache marks p's cache dirty and recurses into every
// descendant, stopping wherever a descendant is already dirty (spec
// §4.3 step 7 / invariant 8).
func invalidateLayersCache(p *Pipeline) {
	p.layersCacheDirty = true
	foreachChildNode[*Pipeline](p, func(child *Pipeline) {
		if !child.layersCacheDirty {
			invalidateLayersCache(child)
		}
	})
}

// ForeachLayer invokes fn with (pipeline, layerIndex) for each
// effective layer of p in unit order. The set of indices visited is
// snapshotted before iteration begins, so fn may add or remove layers
// without perturbing the current traversal (spec §4.2).
func (p *Pipeline) ForeachLayer(fn func(pipeline *Pipeline, layerIndex int)) error {
	if p == nil {
		return ErrNilPipeline
	}
	layers := resolveLayers(p)
	indices := make([]int, len(layers))
	for i, l := range layers {
		indices[i] = l.index
	}
	for _, idx := range indices {
		fn(p, idx)
	}
	return nil
}

// NLayers returns the effective number of layers bound to units
// 0..n-1 after resolving through ancestors.
func (p *Pipeline) NLayers() int {
	return authority(p, StateLayers).nLayers
}
