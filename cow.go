package pipegraph

import "log/slog"

// mutatePipeline runs the full copy-on-write mutation protocol of spec
// §4.3 for a change to group on p, then invokes apply to actually
// write the new value and re-derives real_blend_enable where group
// affects it. Redundant-ancestry pruning is not part of it: setters run
// revertIfMatchesParent afterwards. newColor is only meaningful when group == StateColor (it feeds the
// journal-flush exception in step 1); pass nil otherwise.
//
// The numbered comments below follow the spec's own step numbering.
func mutatePipeline(p *Pipeline, group Differences, newColor *RGBA, apply func(*Pipeline)) {
	preChangeNotify(p, group, newColor)

	// 5. Lazy big-state.
	if NeedsBigState.Intersects(group) && p.big == nil {
		p.big = defaultPipelineBigState()
	}

	// 6. Sparse-group takeover.
	if !p.differences.Intersects(group) && isMultiPropertyGroup(group) {
		takeoverGroup(p, group)
	}
	p.differences |= group

	// 7. Layer cache invalidation.
	if group == StateLayers {
		invalidateLayersCache(p)
	}

	// 8. Age + write.
	p.age++
	apply(p)

	// 9. Blend-enable re-evaluation.
	if AffectsBlending.Intersects(group) {
		reevaluateBlendEnable(p)
	}

	if p.ctx != nil && p.ctx.current == p {
		p.ctx.changesSinceFlush |= group
	}
}

// preChangeNotify runs steps 1-4: journal flush, back-end invalidation,
// weak-child destruction, and (if strong children remain) the
// copy-on-write snapshot-and-reparent.
func preChangeNotify(p *Pipeline, group Differences, newColor *RGBA) {
	// 1. Journal flush.
	skipFlush := group == StateColor && !colorChangeFlipsBlend(p, newColor)
	if p.journalRefCount > 0 && !skipFlush {
		flushJournal(p)
	}

	// 2. Back-end invalidation. A back-end that has claimed fragend or
	// vertend may refuse the reset, e.g. because it can patch its
	// generated code in place instead of regenerating it from scratch.
	refused := notifyPipelinePreChange(p, ChangeMask(group), newColor)
	if !refused {
		if p.fragend != BackendUndefined {
			p.fragend = BackendUndefined
		}
		if p.vertend != BackendUndefined {
			p.vertend = BackendUndefined
		}
	} else {
		Logger().Warn("pipegraph: back-end refused fragend/vertend reset",
			slog.String("pipeline", p.String()), slog.Any("change", ChangeMask(group)))
	}

	// 3. Destroy weak children. Weak children never force a copy.
	destroyWeakChildren[*Pipeline](p)

	// 4. Copy-on-write.
	if hasStrongChildren[*Pipeline](p) {
		copyOnWrite(p)
	}
}

// copyOnWrite implements step 4: it creates a fresh strong copy of
// p.parent holding an exact snapshot of p's current state, reparents
// every remaining (strong) child of p onto that snapshot, then
// releases the snapshot's own construction reference. After this, p
// has no children and is free to mutate in place.
func copyOnWrite(p *Pipeline) *Pipeline {
	parent := p.n.parent

	np := &Pipeline{
		ctx:              p.ctx,
		blendEnableMode:  BlendAutomatic,
		layersCacheDirty: true,
		fragend:          BackendUndefined,
		vertend:          BackendUndefined,
	}
	np.n.refCount = 1
	setParentNode[*Pipeline](np, parent, false)
	promoteWeakAncestors[*Pipeline](np)

	copyStateInto(np, p, p.differences)
	if p.differences.Intersects(StateLayers) {
		deriveLayerDifferences(np, p)
	}
	np.realBlendEnable = p.realBlendEnable
	notifyPipelineSetParent(np)

	reparentChildren(p, np)
	// The moved children now resolve layers through np's own copies, so
	// any layer array they cached while under p is stale.
	if p.differences.Intersects(StateLayers) {
		invalidateLayersCache(np)
	}

	unref[*Pipeline](np)
	return np
}

// reparentChildren moves every child of oldParent onto newParent,
// preserving each edge's strength.
func reparentChildren(oldParent, newParent *Pipeline) {
	child := oldParent.n.firstChild
	for child != nil {
		next := child.n.nextSibling
		weak := !child.n.hasParentReference
		setParentNode[*Pipeline](child, newParent, weak)
		notifyPipelineSetParent(child)
		child = next
	}
}

// copyStateInto copies every group set in mask from src into dst, so
// dst becomes observationally equal to src for those groups. It only
// copies nLayers for the LAYERS group: a layer can only be owned by
// one pipeline at a time, so callers that need dst to actually own
// src's layer differences must additionally call
// deriveLayerDifferences (full copy-on-write snapshot) or leave
// dst.layerDifferences empty (bare sparse-group takeover, where dst's
// reads fall through to src for every layer).
func copyStateInto(dst, src *Pipeline, mask Differences) {
	if mask.Intersects(StateColor) {
		dst.color = src.color
	}
	if mask.Intersects(StateBlendEnable) {
		dst.blendEnableMode = src.blendEnableMode
	}
	if mask.Intersects(StateAlphaFunc) {
		dst.alphaFunc = src.alphaFunc
	}
	if mask.Intersects(StateAlphaRef) {
		dst.alphaRef = src.alphaRef
	}
	if mask&NeedsBigState != 0 && src.big != nil {
		if dst.big == nil {
			dst.big = defaultPipelineBigState()
		}
		if mask.Intersects(StateBlend) {
			dst.big.blend = src.big.blend
		}
		if mask.Intersects(StateLighting) {
			dst.big.lighting = src.big.lighting
		}
		if mask.Intersects(StateDepth) {
			dst.big.depth = src.big.depth
		}
		if mask.Intersects(StateFog) {
			dst.big.fog = src.big.fog
		}
		if mask.Intersects(StateCullFace) {
			dst.big.cullFace = src.big.cullFace
		}
		if mask.Intersects(StateLogicOps) {
			dst.big.logicOp = src.big.logicOp
		}
		if mask.Intersects(StateUserShader) {
			dst.big.shader = src.big.shader
		}
		if mask.Intersects(StatePointSize) {
			dst.big.pointSize = src.big.pointSize
		}
	}
	if mask.Intersects(StateLayers) {
		dst.nLayers = src.nLayers
	}
	dst.differences |= mask & AllSparse
}

// deriveLayerDifferences gives dst its own owned child copy of each of
// src's layer differences. Each copy is a fresh strong child of the
// original layer (sparse: it inherits every field until something
// overwrites it) rather than a reassignment of the original, since a
// *Layer can only be referenced from one pipeline's layerDifferences
// list at a time. src's own layerDifferences and nLayers are left
// untouched; both src and dst end up independently authoritative for
// the same logical set of layers.
func deriveLayerDifferences(dst, src *Pipeline) {
	for _, l := range src.layerDifferences {
		cp := newLayerChild(l, false)
		cp.index = l.index
		cp.owner = dst
		dst.layerDifferences = append(dst.layerDifferences, cp)
		ref[*Layer](cp)
	}
}

// isMultiPropertyGroup reports whether g is represented by more than
// one field, and therefore needs the sparse-group-takeover copy of
// step 6 before a setter can safely write just one of its fields.
func isMultiPropertyGroup(g Differences) bool {
	switch g {
	case StateBlend, StateLighting, StateDepth, StateFog, StateCullFace, StateLogicOps, StateLayers:
		return true
	default:
		return false
	}
}

// takeoverGroup copies g's entire current values from its current
// authority into p, preserving companion fields' integrity before p
// becomes the new authority and one of them is overwritten.
//
// LAYERS is a bare initialization rather than a copy: p.layerDifferences
// stays empty and p.nLayers mirrors the authority's, so resolveLayers
// keeps falling through to the authority for every unit until a setter
// (GetLayer, RemoveLayer, ...) actually gives p its own owned layer.
func takeoverGroup(p *Pipeline, g Differences) {
	a := authority(p, g)
	if a == p {
		return
	}
	if g == StateLayers {
		p.nLayers = a.nLayers
		p.layerDifferences = nil
		return
	}
	copyStateInto(p, a, g)
}

// pruneRedundantAncestry implements step 10's second half: after a
// setter clears bits in p.differences (because the new value reverted
// to the parent authority's value), walk upward through ancestors that
// no longer differ in any group relevant to p, and reparent p past
// them. Refuses to do so when p is itself a LAYERS authority that
// still depends on an ancestor for some of its layers (n_layers !=
// len(layer_differences)) — the conservative guard from spec §9.
func pruneRedundantAncestry(p *Pipeline) {
	if p.differences.Intersects(StateLayers) && p.nLayers != len(p.layerDifferences) {
		return
	}

	for {
		parent := p.n.parent
		if parent == nil {
			return
		}
		if (parent.differences | p.differences) != p.differences {
			return
		}
		grandparent := parent.n.parent
		if grandparent == nil {
			return
		}
		weak := !p.n.hasParentReference
		setParentNode[*Pipeline](p, grandparent, weak)
		notifyPipelineSetParent(p)
	}
}

// revertIfMatchesParent clears g from p.differences when p's current
// value for g equals the value its parent authority would resolve to,
// then runs pruneRedundantAncestry. Setters call this after writing a
// new value that might have reverted authority to the parent.
func revertIfMatchesParent(p *Pipeline, g Differences, matchesParent bool) {
	if !matchesParent {
		pruneRedundantAncestry(p)
		return
	}
	p.differences &^= g
	if g == StateLayers && len(p.layerDifferences) == 0 {
		parentAuthority := authority(p, StateLayers)
		if parentAuthority.nLayers == p.nLayers {
			p.differences &^= StateLayers
		}
	}
	pruneRedundantAncestry(p)
}
