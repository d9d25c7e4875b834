package pipegraph

import "testing"

func TestGetLayerCreatesOnFirstAccess(t *testing.T) {
	_, p := newTestPipeline(t)

	l, err := p.GetLayer(0)
	if err != nil {
		t.Fatalf("GetLayer(0) error = %v", err)
	}
	if l == nil {
		t.Fatal("GetLayer(0) returned nil")
	}
	if l.Index() != 0 || l.UnitIndex() != 0 {
		t.Errorf("new layer index/unit = %d/%d, want 0/0", l.Index(), l.UnitIndex())
	}
	if l.Owner() != p {
		t.Error("new layer's owner is not p")
	}
}

func TestGetLayerIsIdempotent(t *testing.T) {
	_, p := newTestPipeline(t)

	a, err := p.GetLayer(0)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	b, err := p.GetLayer(0)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if a != b {
		t.Error("GetLayer called twice with the same index returned distinct layers")
	}
}

func TestGetLayerAssignsUnitByIndexOrder(t *testing.T) {
	_, p := newTestPipeline(t)

	l5, err := p.GetLayer(5)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	l1, err := p.GetLayer(1)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	l3, err := p.GetLayer(3)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	if l1.UnitIndex() != 0 {
		t.Errorf("l1.UnitIndex() = %d, want 0", l1.UnitIndex())
	}
	if l3.UnitIndex() != 1 {
		t.Errorf("l3.UnitIndex() = %d, want 1", l3.UnitIndex())
	}
	if l5.UnitIndex() != 2 {
		t.Errorf("l5.UnitIndex() = %d, want 2", l5.UnitIndex())
	}
}

func TestRemoveLayerShiftsLaterUnits(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.GetLayer(0); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	l1, err := p.GetLayer(1)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	l2, err := p.GetLayer(2)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	if err := p.RemoveLayer(0); err != nil {
		t.Fatalf("RemoveLayer() error = %v", err)
	}

	if l1.UnitIndex() != 0 {
		t.Errorf("l1.UnitIndex() after removal = %d, want 0", l1.UnitIndex())
	}
	if l2.UnitIndex() != 1 {
		t.Errorf("l2.UnitIndex() after removal = %d, want 1", l2.UnitIndex())
	}
	if p.NLayers() != 2 {
		t.Errorf("NLayers() after removal = %d, want 2", p.NLayers())
	}
}

func TestRemoveLayerMissingIndexReturnsErrIndexOutOfRange(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.GetLayer(0); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	if err := p.RemoveLayer(99); err != ErrIndexOutOfRange { // no such index
		t.Errorf("RemoveLayer(99) error = %v, want ErrIndexOutOfRange", err)
	}

	if p.NLayers() != 1 {
		t.Errorf("NLayers() after removing a missing index = %d, want 1", p.NLayers())
	}
}

func TestPruneToNLayersDropsExcessOwnedLayers(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.GetLayer(0); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if _, err := p.GetLayer(1); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if _, err := p.GetLayer(2); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	if err := p.PruneToNLayers(1); err != nil {
		t.Fatalf("PruneToNLayers() error = %v", err)
	}

	if p.NLayers() != 1 {
		t.Errorf("NLayers() after PruneToNLayers(1) = %d, want 1", p.NLayers())
	}
}

func TestPruneToNLayersNoopWhenAlreadyWithinLimit(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.GetLayer(0); err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	if err := p.PruneToNLayers(5); err != nil {
		t.Fatalf("PruneToNLayers() error = %v", err)
	}

	if p.NLayers() != 1 {
		t.Errorf("NLayers() after a no-op prune = %d, want 1", p.NLayers())
	}
}

func TestOwnLayerForMutationReusesOwnedChildlessLayer(t *testing.T) {
	_, p := newTestPipeline(t)
	l, err := p.GetLayer(0)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}

	owned := ownLayerForMutation(p, l)
	if owned != l {
		t.Error("ownLayerForMutation copied a layer that was already owned and childless")
	}
}

func TestOwnLayerForMutationCopiesWhenNotOwner(t *testing.T) {
	_, p := newTestPipeline(t)
	l, err := p.GetLayer(0)
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	owned := ownLayerForMutation(child, l)
	if owned == l {
		t.Error("ownLayerForMutation should have made a fresh copy when owner differs")
	}
	if owned.Owner() != child {
		t.Error("ownLayerForMutation's result is not owned by the requested owner")
	}
}

func TestSetLayerFiltersLeavesWrapModesUnchanged(t *testing.T) {
	_, p := newTestPipeline(t)
	if err := p.SetLayerWrapModes(0, WrapRepeat, WrapRepeat, WrapRepeat); err != nil {
		t.Fatalf("SetLayerWrapModes() error = %v", err)
	}

	child, err := p.Copy()
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if err := child.SetLayerFilters(0, FilterNearest, FilterNearest); err != nil {
		t.Fatalf("SetLayerFilters() error = %v", err)
	}

	s, tt, r, err := func() (WrapMode, WrapMode, WrapMode, error) {
		a, err := child.GetLayer(0)
		if err != nil {
			return 0, 0, 0, err
		}
		w := layerAuthority(a, LayerStateWrapModes).big
		return w.wrapS, w.wrapT, w.wrapR, nil
	}()
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if s != WrapRepeat || tt != WrapRepeat || r != WrapRepeat {
		t.Errorf("wrap modes after an unrelated filter change = %v %v %v, want all WrapRepeat (unchanged)", s, tt, r)
	}
}

func TestSetLayerCombineTriggersBlendReevaluation(t *testing.T) {
	_, p := newTestPipeline(t)
	if realBlendEnable(t, p) {
		t.Fatal("setup: fresh pipeline should have blend disabled")
	}

	if err := p.SetLayerCombine(0, CombineInterpolate); err != nil {
		t.Fatalf("SetLayerCombine() error = %v", err)
	}

	if !realBlendEnable(t, p) {
		t.Error("a non-modulate combine function should enable blend per rule (e)")
	}
}
