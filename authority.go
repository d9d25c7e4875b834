package pipegraph

import "math/bits"

// authority walks parents from p until the first node whose
// differences contains g, and returns it. The root default pipeline
// has every sparse bit set (see newRootPipeline), so the search always
// terminates.
func authority(p *Pipeline, g Differences) *Pipeline {
	for cur := p; cur != nil; cur = cur.n.parent {
		if cur.differences.Intersects(g) {
			return cur
		}
	}
	panic("pipegraph: no authority found for state group (root pipeline missing a sparse bit)")
}

// multiAuthority resolves the authority for every bit set in remaining
// in a single upward walk, returning a map from each requested bit to
// its authority. This is the "remaining bitmask" algorithm of spec
// §4.2: at each node, intersect its differences with what's still
// unresolved, record that node as authority for every matching bit,
// and clear those bits; stop once nothing remains.
func multiAuthority(p *Pipeline, remaining Differences) map[Differences]*Pipeline {
	result := make(map[Differences]*Pipeline, bits.OnesCount32(uint32(remaining)))
	for cur := p; cur != nil && remaining != 0; cur = cur.n.parent {
		hit := cur.differences & remaining
		if hit == 0 {
			continue
		}
		for bit := Differences(1); hit != 0; bit <<= 1 {
			if hit&bit != 0 {
				result[bit] = cur
				hit &^= bit
				remaining &^= bit
			}
		}
	}
	return result
}

// layerAuthority is the layer-tree analogue of authority.
func layerAuthority(l *Layer, g LayerDifferences) *Layer {
	for cur := l; cur != nil; cur = cur.n.parent {
		if cur.differences.Intersects(g) {
			return cur
		}
	}
	panic("pipegraph: no authority found for layer state group (root layer missing a sparse bit)")
}

// unitIndexAuthority resolves the authority for a layer's unit-index
// group and returns its resolved unit index.
func unitIndexAuthority(l *Layer) int {
	return layerAuthority(l, LayerStateUnitIndex).unitIndex
}
