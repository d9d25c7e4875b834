package pipegraph

import "testing"

func TestRGBA_Bytes(t *testing.T) {
	tests := []struct {
		name                   string
		c                      RGBA
		wantR, wantG, wantB, wantA uint8
	}{
		{name: "opaque black", c: Black, wantR: 0, wantG: 0, wantB: 0, wantA: 255},
		{name: "opaque white", c: White, wantR: 255, wantG: 255, wantB: 255, wantA: 255},
		{name: "transparent", c: RGBA{R: 0, G: 0, B: 0, A: 0}, wantR: 0, wantG: 0, wantB: 0, wantA: 0},
		{name: "50% alpha red", c: RGBA{R: 1, G: 0, B: 0, A: 0.5}, wantR: 255, wantG: 0, wantB: 0, wantA: 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.Bytes()
			if r != tt.wantR || g != tt.wantG || b != tt.wantB || a != tt.wantA {
				t.Errorf("Bytes() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					r, g, b, a, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestRGBA_Equal(t *testing.T) {
	a := RGBA{R: 1, G: 0, B: 0, A: 1}
	b := RGBA{R: 0.999, G: 0.001, B: 0, A: 1} // quantizes to the same bytes
	if !a.Equal(b) {
		t.Error("Equal() = false for colors that quantize identically")
	}

	c := RGBA{R: 0, G: 1, B: 0, A: 1}
	if a.Equal(c) {
		t.Error("Equal() = true for visibly different colors")
	}
}

func TestRGBA_Opaque(t *testing.T) {
	if !White.Opaque() {
		t.Error("White should be opaque")
	}
	transparent := RGBA{R: 1, G: 1, B: 1, A: 0.5}
	if transparent.Opaque() {
		t.Error("half-alpha color should not be opaque")
	}
}
