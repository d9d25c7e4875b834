package pipegraph

import "testing"

func TestTextureEqualByHandle(t *testing.T) {
	a := &fakeTexture{handle: 5}
	b := &fakeTexture{handle: 5}
	c := &fakeTexture{handle: 6}

	if !textureEqual(a, b) {
		t.Error("textures sharing a handle should compare equal")
	}
	if textureEqual(a, c) {
		t.Error("textures with different handles should not compare equal")
	}
}

func TestTextureEqualNilHandling(t *testing.T) {
	a := &fakeTexture{handle: 5}

	if !textureEqual(nil, nil) {
		t.Error("textureEqual(nil, nil) should be true")
	}
	if textureEqual(a, nil) || textureEqual(nil, a) {
		t.Error("textureEqual should be false when exactly one side is nil")
	}
}

func TestLayerTextureRoundTrip(t *testing.T) {
	_, p := newTestPipeline(t)
	tex := &fakeTexture{handle: 42, hasAlpha: true}

	if err := p.SetLayerTexture(0, tex); err != nil {
		t.Fatalf("SetLayerTexture() error = %v", err)
	}
	got, err := p.LayerTexture(0)
	if err != nil {
		t.Fatalf("LayerTexture() error = %v", err)
	}
	if got != tex {
		t.Errorf("LayerTexture(0) = %v, want %v", got, tex)
	}
}

func TestLayerTextureMissingLayerReturnsErrIndexOutOfRange(t *testing.T) {
	_, p := newTestPipeline(t)

	got, err := p.LayerTexture(3)
	if err != ErrIndexOutOfRange {
		t.Errorf("LayerTexture on a missing layer error = %v, want ErrIndexOutOfRange", err)
	}
	if got != nil {
		t.Errorf("LayerTexture on a missing layer = %v, want nil", got)
	}
}

func TestFallbackTexturesDistinctFromLayerTexture(t *testing.T) {
	fallback := &fakeTexture{handle: 1}
	alphaFallback := &fakeTexture{handle: 2, hasAlpha: true}
	ctx := NewContext(WithFallbackTexture(fallback), WithFallbackAlphaTexture(alphaFallback))
	p, err := New(ctx)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := p.LayerTexture(0)
	if err != ErrIndexOutOfRange {
		t.Errorf("LayerTexture with no bound layer error = %v, want ErrIndexOutOfRange", err)
	}
	if got != nil {
		t.Error("a pipeline with no bound layer texture should not report the context's fallback as its own")
	}
	if ctx.FallbackTexture() != fallback || ctx.FallbackAlphaTexture() != alphaFallback {
		t.Error("context fallback textures not wired correctly")
	}
}
