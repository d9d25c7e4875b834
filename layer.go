package pipegraph

// Layer is a node in the layer tree: texture-unit state (unit index,
// texture handle, filters, wrap modes, combine function, user matrix,
// point-sprite coordinates). A layer has a stable logical Index, the
// key applications address it by, independent of its UnitIndex, the
// contiguous position it currently occupies in an owning pipeline's
// effective layer array.
type Layer struct {
	n node[*Layer]

	ctx *Context

	differences LayerDifferences
	big         *layerBigState

	// index is the logical key; stable across reparenting and
	// unit-index renumbering.
	index int

	// unitIndex is the positional unit this layer binds to, contiguous
	// across 0..n_layers-1 of its owning pipeline.
	unitIndex int

	// owner is the single pipeline whose layerDifferences list contains
	// this node, or nil for a shared default root or an unowned
	// temporary.
	owner *Pipeline

	texture Texture

	debugLabel string
}

// layerBigState holds every layer state group whose representation is
// larger than a machine word.
type layerBigState struct {
	textureTarget TextureTarget

	minFilter, magFilter FilterMode
	wrapS, wrapT, wrapR  WrapMode

	combineFunc     CombineFunc
	combineConstant RGBA

	userMatrix Matrix

	pointSpriteEnabled bool
}

func (l *Layer) treeNode() *node[*Layer] { return &l.n }

// onDestroy releases this layer's owned resources. Called by the
// generic node teardown once refCount reaches zero.
func (l *Layer) onDestroy() {
	l.big = nil
	l.texture = nil
	l.owner = nil
}

// TextureTarget names the texture binding point a layer samples from.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
	TextureRectangle
)

// FilterMode is a texture minification/magnification filter.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapLinear
)

// WrapMode is a texture coordinate wrap mode.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
	// WrapAutomatic lets the renderer pick, per spec §9 treated as
	// equivalent to WrapClampToEdge by the equality comparator because
	// the journal handles them identically downstream.
	WrapAutomatic
)

// wrapEqual implements the WRAP_MODE_AUTOMATIC / CLAMP_TO_EDGE
// equivalence documented in spec §9.
func wrapEqual(a, b WrapMode) bool {
	norm := func(w WrapMode) WrapMode {
		if w == WrapAutomatic {
			return WrapClampToEdge
		}
		return w
	}
	return norm(a) == norm(b)
}

// CombineFunc is a texture-environment combine function. CombineModulate
// ("modulate previous stage by texture") is the default every layer
// starts with; the blend-enable predicate treats any other function as
// potentially alpha-producing.
type CombineFunc int

const (
	CombineModulate CombineFunc = iota
	CombineReplace
	CombineAdd
	CombineAddSigned
	CombineInterpolate
	CombineSubtract
	CombineDot3RGB
	CombineDot3RGBA
)

// UsesConstant reports whether f reads the layer's combine-constant
// color, the detail hash.go needs to decide whether to fold the
// constant into the structural hash.
func (f CombineFunc) UsesConstant() bool {
	return f == CombineInterpolate
}

func defaultLayerBigState() *layerBigState {
	return &layerBigState{
		textureTarget: Texture2D,
		minFilter:     FilterLinear,
		magFilter:     FilterLinear,
		wrapS:         WrapRepeat,
		wrapT:         WrapRepeat,
		wrapR:         WrapRepeat,
		combineFunc:   CombineModulate,
		userMatrix:    Identity(),
	}
}

// newRootLayer allocates an unparented layer used only to seed a
// Context's default-layer roots: authority for every layer sparse
// group, mirroring newRootPipeline.
func newRootLayer(ctx *Context, index int) *Layer {
	l := &Layer{
		ctx:         ctx,
		index:       index,
		differences: LayerAllSparse,
		big:         defaultLayerBigState(),
	}
	l.n.refCount = 1
	return l
}

// newLayerChild creates a strong child layer of parent, copying no
// state of its own (it inherits everything sparsely).
func newLayerChild(parent *Layer, weak bool) *Layer {
	l := &Layer{ctx: parent.ctx}
	setParentNode[*Layer](l, parent, weak)
	l.n.refCount = 1
	return l
}
