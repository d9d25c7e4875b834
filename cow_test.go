package pipegraph

import "testing"

// TestCopyOnWriteIsolatesStrongChildren verifies the core observational
// guarantee: mutating a pipeline that already has strong children must
// not change what those children observe.
func TestCopyOnWriteIsolatesStrongChildren(t *testing.T) {
	_, p := newTestPipeline(t)
	if err := p.SetColor(RGBA{R: 1, G: 0, B: 0, A: 1}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}

	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	beforeChildColor, err := child.Color()
	if err != nil {
		t.Fatalf("Color() error = %v", err)
	}

	if err := p.SetColor(RGBA{R: 0, G: 1, B: 0, A: 1}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}

	childColor, _ := child.Color()
	if !childColor.Equal(beforeChildColor) {
		t.Errorf("child observed color change after parent mutated, got %v want %v", childColor, beforeChildColor)
	}
	pColor, _ := p.Color()
	if pColor.Equal(beforeChildColor) {
		t.Error("p's own color did not actually change")
	}
}

// TestCopyOnWriteDoesNotAffectOwnLayersOnUnrelatedMutation grounds the
// cow.go fix: a pipeline that owns layers of its own must keep
// resolving them correctly after an unrelated group mutation forces a
// copy-on-write snapshot of its pre-mutation state onto a sibling.
func TestCopyOnWriteDoesNotAffectOwnLayersOnUnrelatedMutation(t *testing.T) {
	_, p := newTestPipeline(t)
	l, err := p.GetLayer(0)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if err := p.SetLayerTexture(0, &fakeTexture{handle: 7}); err != nil {
		t.Fatalf("SetLayerTexture() error = %v", err)
	}

	child, err := p.Copy() // p now has a strong child
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	// An unrelated mutation (color, not layers) forces copyOnWrite.
	if err := p.SetColor(RGBA{R: 1, A: 1}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}

	got, err := p.LayerTexture(0)
	if err != nil {
		t.Fatalf("LayerTexture() error = %v", err)
	}
	if got == nil || got.Handle() != 7 {
		t.Fatalf("p's own layer texture after COW = %v, want handle 7", got)
	}
	if resolveLayers(p)[0] != l {
		t.Error("p's resolved layer 0 changed identity after an unrelated mutation")
	}
	// child must still resolve its own (snapshotted) layer 0 independently.
	childTex, err := child.LayerTexture(0)
	if err != nil {
		t.Fatalf("LayerTexture() error = %v", err)
	}
	if childTex == nil || childTex.Handle() != 7 {
		t.Fatalf("child's layer texture = %v, want handle 7 (derived copy)", childTex)
	}
	if child.resolveLayerOwner(0) == p.resolveLayerOwner(0) {
		t.Error("child and p's layer 0 are still the same *Layer object, violating owner uniqueness")
	}
}

// resolveLayerOwner is a small test helper exposing which *Layer backs
// unit 0, so the test above can assert distinct identities.
func (p *Pipeline) resolveLayerOwner(unit int) *Layer {
	layers := resolveLayers(p)
	if unit >= len(layers) {
		return nil
	}
	return layers[unit]
}

func TestSparseGroupTakeoverCopiesAllFields(t *testing.T) {
	_, p := newTestPipeline(t)
	custom := defaultBlendState()
	custom.SrcRGB = BlendFactorDstColor
	if err := p.SetBlend(custom); err != nil {
		t.Fatalf("SetBlend() error = %v", err)
	}

	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	// Changing only DstRGB on child must not disturb the SrcRGB it
	// took over from p at sparse-group-takeover time.
	takenOver, err := child.Blend()
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	takenOver.DstRGB = BlendFactorZero
	if err := child.SetBlend(takenOver); err != nil {
		t.Fatalf("SetBlend() error = %v", err)
	}

	childBlend, _ := child.Blend()
	if childBlend.SrcRGB != BlendFactorDstColor {
		t.Errorf("child.Blend().SrcRGB = %v, want %v (taken over from parent authority)", childBlend.SrcRGB, BlendFactorDstColor)
	}
}

func TestSparseGroupTakeoverForLayersIsBareInitialization(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.GetLayer(0); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if _, err := p.GetLayer(1); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	// Adding a layer on child should not duplicate p's existing layers
	// into child's own layerDifferences (the takeover for StateLayers is
	// a bare nLayers mirror, not a copy).
	if _, err := child.GetLayer(2); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	if len(child.layerDifferences) != 1 {
		t.Errorf("child.layerDifferences has %d entries, want 1 (only the newly added layer)", len(child.layerDifferences))
	}
	if child.NLayers() != 3 {
		t.Errorf("child.NLayers() = %d, want 3", child.NLayers())
	}
}

func TestPruneRedundantAncestryStopsAtColorAuthority(t *testing.T) {
	_, p := newTestPipeline(t)
	if err := p.SetColor(RGBA{R: 1, A: 1}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if err := child.SetColor(RGBA{R: 1, A: 1}); err != nil { // same value as p's authority
		t.Fatalf("SetColor() error = %v", err)
	}
	// revertIfMatchesParent clears child's own StateColor authority, but
	// p still holds the color child inherits, so pruning stops at p.
	if child.differences.Intersects(StateColor) {
		t.Error("child kept its own StateColor authority after setting its parent's value")
	}
	if child.n.parent != p {
		t.Errorf("child was pruned past its color authority; parent = %v", child.n.parent)
	}
}

// TestWeakAncestorPromotionSymmetry grounds spec §8's "weak-ancestor
// promotion symmetry" invariant: a strong Copy() descending through a
// chain of weak ancestors bumps each weak ancestor's parent's refCount
// once, and unreffing that copy back to zero must restore it exactly.
func TestWeakAncestorPromotionSymmetry(t *testing.T) {
	ctx := NewContext()
	root, err := New(ctx)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	weak, err := root.WeakCopy(nil)
	if err != nil {
		t.Fatalf("WeakCopy() error = %v", err)
	}
	before := root.n.refCount

	strongCopy, err := weak.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got := root.n.refCount; got != before+1 {
		t.Fatalf("refCount after promoting strong copy = %d, want %d", got, before+1)
	}

	strongCopy.Unref()
	if got := root.n.refCount; got != before {
		t.Errorf("refCount after freeing strong copy = %d, want restored %d", got, before)
	}
}

func TestPruneRedundantAncestryRefusesPartialLayerAuthority(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.GetLayer(0); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if _, err := p.GetLayer(1); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if _, err := child.GetLayer(2); err != nil { // child becomes a partial LAYERS authority: 3 != len(ownLayers)=1
		t.Fatalf("GetLayer() error = %v", err)
	}

	// p's differences (LAYERS) are a subset of child's, but child still
	// takes layers 0 and 1 from p, so the guard must keep it under p.
	pruneRedundantAncestry(child)
	if child.n.parent != p {
		t.Errorf("child was pruned past p while depending on it for layers; parent = %v", child.n.parent)
	}

	// Removing the added layer leaves child with p's two layers.
	if err := child.RemoveLayer(2); err != nil {
		t.Fatalf("RemoveLayer() error = %v", err)
	}

	if got := child.NLayers(); got != 2 {
		t.Errorf("NLayers() after removing the added layer = %d, want 2", got)
	}
}
