package pipegraph

// RGBA is the color value a pipeline carries inline as its sparse
// StateColor group. Spec-wise, color management (parsing, blending,
// color spaces) belongs to an external collaborator; this module only
// needs the byte-component accessors and structural equality that
// collaborator is expected to expose (see the Texture/Color interfaces
// in §6 of the design). Components are in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Opaque reports whether the color's alpha channel is fully opaque
// (A == 1).
func (c RGBA) Opaque() bool {
	return c.A >= 1
}

// Bytes returns the color as four 8-bit components, the representation
// an authority comparison or a back-end's shader constant upload uses.
func (c RGBA) Bytes() (r, g, b, a uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

// Equal reports whether two colors are byte-identical once quantized,
// matching the structural-equality contract spec.md §4.4 requires of
// the color comparator ("color byte-equal").
func (c RGBA) Equal(other RGBA) bool {
	r0, g0, b0, a0 := c.Bytes()
	r1, g1, b1, a1 := other.Bytes()
	return r0 == r1 && g0 == g1 && b0 == b1 && a0 == a1
}

func toByte(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// White and Black are the default colors used by the root pipeline and
// by tests.
var (
	White = RGBA{R: 1, G: 1, B: 1, A: 1}
	Black = RGBA{R: 0, G: 0, B: 0, A: 1}
)
