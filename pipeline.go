package pipegraph

// Pipeline is a node in the pipeline tree: the rasterization-state
// descriptor applications construct, mutate, copy and compare. Only
// state that differs from its parent is stored on the node itself —
// see Differences and authority.go — which is what makes the tree
// "sparse".
type Pipeline struct {
	n node[*Pipeline]

	ctx *Context

	differences Differences
	big         *pipelineBigState

	color           RGBA
	blendEnableMode BlendEnableMode
	realBlendEnable bool

	alphaFunc AlphaFunc
	alphaRef  float64

	nLayers int
	// layerDifferences is the unordered list of layers this pipeline
	// owns, i.e. redefines relative to its parent. Each listed layer's
	// owner points back here.
	layerDifferences []*Layer

	layersCache      []*Layer
	layersCacheDirty bool

	journalRefCount int

	// isWeak records whether p was created as a weak copy; IsWeak
	// reports it.
	isWeak bool

	age uint64

	fragend, vertend BackendID

	debugLabel string
}

func (p *Pipeline) treeNode() *node[*Pipeline] { return &p.n }

// onDestroy releases this pipeline's owned resources once its
// reference count reaches zero. Weak children were already destroyed
// by the generic teardown before this runs; strong children must not
// remain (spec §3 Lifecycle). demoteWeakAncestors runs here, while
// p.n.parent is still intact, as the symmetric release for whichever
// promoteWeakAncestors call (Copy or copyOnWrite) brought p into being.
func (p *Pipeline) onDestroy() {
	if hasStrongChildren[*Pipeline](p) {
		panic("pipegraph: pipeline destroyed while strong children remain")
	}
	demoteWeakAncestors[*Pipeline](p)
	for _, l := range p.layerDifferences {
		l.owner = nil
		unref[*Layer](l)
	}
	p.layerDifferences = nil
	p.layersCache = nil
	p.big = nil
}

// pipelineBigState holds every pipeline state group whose
// representation is larger than a machine word.
type pipelineBigState struct {
	blend    BlendState
	lighting LightingState
	depth    DepthState
	fog      FogState
	cullFace CullFaceMode
	logicOp  LogicOp
	shader   UserShader
	pointSize float64
}

// BlendEnableMode is the pipeline's blend-enable tri-state.
type BlendEnableMode int

const (
	BlendAutomatic BlendEnableMode = iota
	BlendEnabled
	BlendDisabled
)

// AlphaFunc/CompareFunc share the same comparison enumeration used by
// both the alpha test and the depth test.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLequal
	CompareGreater
	CompareNotequal
	CompareGequal
	CompareAlways
)

type AlphaFunc = CompareFunc

type BlendEquation int

const (
	BlendEquationAdd BlendEquation = iota
	BlendEquationSubtract
	BlendEquationReverseSubtract
)

type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorConstantColor
	BlendFactorOneMinusConstantColor
	BlendFactorConstantAlpha
	BlendFactorOneMinusConstantAlpha
)

// BlendState is the pipeline's blend-equation/factor group.
type BlendState struct {
	RGBEquation, AlphaEquation     BlendEquation
	SrcRGB, DstRGB                 BlendFactor
	SrcAlpha, DstAlpha             BlendFactor
	ConstantColor                  RGBA
}

func defaultBlendState() BlendState {
	return BlendState{
		RGBEquation:   BlendEquationAdd,
		AlphaEquation: BlendEquationAdd,
		SrcRGB:        BlendFactorOne,
		DstRGB:        BlendFactorOneMinusSrcAlpha,
		SrcAlpha:      BlendFactorOne,
		DstAlpha:      BlendFactorOneMinusSrcAlpha,
	}
}

// isDefaultAdditive reports whether the blend state matches the
// blend-enable predicate's "both ADD, (ONE, ONE_MINUS_SRC_ALPHA)" case.
func (b BlendState) isDefaultAdditive() bool {
	return b.RGBEquation == BlendEquationAdd && b.AlphaEquation == BlendEquationAdd &&
		b.SrcRGB == BlendFactorOne && b.DstRGB == BlendFactorOneMinusSrcAlpha &&
		b.SrcAlpha == BlendFactorOne && b.DstAlpha == BlendFactorOneMinusSrcAlpha
}

func (b BlendState) equal(o BlendState) bool {
	return b.RGBEquation == o.RGBEquation && b.AlphaEquation == o.AlphaEquation &&
		b.SrcRGB == o.SrcRGB && b.DstRGB == o.DstRGB &&
		b.SrcAlpha == o.SrcAlpha && b.DstAlpha == o.DstAlpha &&
		b.ConstantColor.Equal(o.ConstantColor)
}

// LightingState is the pipeline's lighting-material group.
type LightingState struct {
	Ambient, Diffuse, Specular, Emission RGBA
	Shininess                           float64
}

func defaultLightingState() LightingState {
	return LightingState{
		Ambient:   RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1},
		Diffuse:   RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1},
		Specular:  RGBA{R: 0, G: 0, B: 0, A: 1},
		Emission:  RGBA{R: 0, G: 0, B: 0, A: 1},
		Shininess: 0,
	}
}

// DepthState is the pipeline's depth-test group.
type DepthState struct {
	TestEnabled  bool
	WriteEnabled bool
	Func         CompareFunc
	RangeNear    float64
	RangeFar     float64
}

func defaultDepthState() DepthState {
	return DepthState{
		WriteEnabled: true,
		Func:         CompareLess,
		RangeNear:    0,
		RangeFar:     1,
	}
}

// FogState is the pipeline's fog group.
type FogMode int

const (
	FogLinear FogMode = iota
	FogExponential
	FogExponentialSquared
)

type FogState struct {
	Enabled bool
	Mode    FogMode
	Color   RGBA
	Density float64
	Start   float64
	End     float64
}

// CullFaceMode is the pipeline's cull-face group.
type CullFaceMode int

const (
	CullFaceNone CullFaceMode = iota
	CullFaceFront
	CullFaceBack
	CullFaceBoth
)

// LogicOp is the pipeline's logic-ops group.
type LogicOp int

const (
	LogicOpCopy LogicOp = iota
	LogicOpXor
	LogicOpAnd
	LogicOpOr
	LogicOpInvert
	LogicOpClear
	LogicOpSet
)

// UserShader is the opaque, externally-supplied shader handle a
// pipeline may carry. The core never inspects it, only stores it by
// reference and compares it by identity.
type UserShader interface {
	ShaderID() uint64
}

// BackendID names a currently-selected back-end, or BackendUndefined
// when none is selected (forcing re-selection on the next flush).
type BackendID int

const BackendUndefined BackendID = -1

func defaultPipelineBigState() *pipelineBigState {
	return &pipelineBigState{
		blend:     defaultBlendState(),
		lighting:  defaultLightingState(),
		depth:     defaultDepthState(),
		cullFace:  CullFaceNone,
		logicOp:   LogicOpCopy,
		pointSize: 1,
	}
}

// newRootPipeline builds the single default-pipeline root of a
// Context: authority for every sparse group, with inline defaults.
func newRootPipeline(ctx *Context) *Pipeline {
	p := &Pipeline{
		ctx:              ctx,
		differences:      AllSparse,
		big:              defaultPipelineBigState(),
		color:            White,
		blendEnableMode:  BlendAutomatic,
		alphaFunc:        CompareAlways,
		nLayers:          0,
		layersCacheDirty: true,
		fragend:          BackendUndefined,
		vertend:          BackendUndefined,
	}
	p.n.refCount = 1
	p.realBlendEnable = deriveRealBlendEnable(p)
	return p
}

// New returns a fresh pipeline: a strong child of ctx's default
// pipeline, inheriting all state sparsely. Returns ErrNilContext
// instead of panicking when ctx is nil, matching the teacher's
// preference for returned errors over panics at the public boundary
// (SPEC_FULL.md §2).
func New(ctx *Context) (*Pipeline, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return newPipelineChild(ctx.defaultPipeline, false, nil), nil
}

// Copy returns a strong child of p, inheriting all state. Weak
// ancestors of the result, if any, are promoted for the copy's
// lifetime. Returns ErrNilPipeline instead of panicking when p is nil.
func (p *Pipeline) Copy() (*Pipeline, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	c := newPipelineChild(p, false, nil)
	promoteWeakAncestors[*Pipeline](c)
	return c, nil
}

// WeakCopy returns a weak child of p. onDestroy, if non-nil, is
// invoked when the core decides to destroy the returned pipeline
// (typically because p is about to mutate or be destroyed itself).
// Returns ErrNilPipeline instead of panicking when p is nil.
func (p *Pipeline) WeakCopy(onDestroy func(*Pipeline)) (*Pipeline, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	return newPipelineChild(p, true, onDestroy), nil
}

func newPipelineChild(parent *Pipeline, weak bool, onDestroy func(*Pipeline)) *Pipeline {
	c := &Pipeline{
		ctx:              parent.ctx,
		blendEnableMode:  BlendAutomatic,
		layersCacheDirty: true,
		fragend:          BackendUndefined,
		vertend:          BackendUndefined,
		isWeak:           weak,
	}
	c.n.refCount = 1
	c.n.destroyCallback = onDestroy
	setParentNode[*Pipeline](c, parent, weak)
	c.realBlendEnable = deriveRealBlendEnable(c)
	notifyPipelineSetParent(c)
	return c
}

// Parent returns p's parent pipeline, or nil if p is a root.
func (p *Pipeline) Parent() *Pipeline {
	return p.n.parent
}

// IsWeak reports whether p's edge to its parent is weak.
func (p *Pipeline) IsWeak() bool {
	return p.isWeak
}

// Age returns p's monotonically increasing revision counter.
func (p *Pipeline) Age() uint64 {
	return p.age
}

// DebugLabel returns the optional diagnostic breadcrumb set via
// SetDebugLabel. It participates in neither comparison nor hashing.
func (p *Pipeline) DebugLabel() string {
	return p.debugLabel
}

// SetDebugLabel attaches a diagnostic breadcrumb to p, used only by
// String and logging.
func (p *Pipeline) SetDebugLabel(label string) {
	p.debugLabel = label
}

func (p *Pipeline) String() string {
	if p.debugLabel != "" {
		return p.debugLabel
	}
	return "pipeline"
}

// Ref increments p's reference count. External holders (journal,
// texture-unit flush cache, application code) use this to keep a
// pipeline alive.
func (p *Pipeline) Ref() { ref[*Pipeline](p) }

// Unref decrements p's reference count, destroying p once it reaches
// zero.
func (p *Pipeline) Unref() { unref[*Pipeline](p) }

// JournalRef increments the count of outstanding journal references
// bracketing a period in which the journal holds geometry referencing
// p's exact state.
func (p *Pipeline) JournalRef() {
	p.journalRefCount++
}

// JournalUnref decrements the journal reference count.
func (p *Pipeline) JournalUnref() {
	if p.journalRefCount > 0 {
		p.journalRefCount--
	}
}

// SetFragend claims id as the fragment back-end currently caching
// generated code for p. The core clears this back to BackendUndefined
// on the next mutation unless the back-end's PipelinePreChangeNotify
// refuses the reset (spec §7.3).
func (p *Pipeline) SetFragend(id BackendID) error {
	if p == nil {
		return ErrNilPipeline
	}
	p.fragend = id
	return nil
}

// Fragend returns the fragment back-end currently claiming p, or
// BackendUndefined if none has.
func (p *Pipeline) Fragend() (BackendID, error) {
	if p == nil {
		return BackendUndefined, ErrNilPipeline
	}
	return p.fragend, nil
}

// SetVertend claims id as the vertex back-end currently caching
// generated code for p. See SetFragend.
func (p *Pipeline) SetVertend(id BackendID) error {
	if p == nil {
		return ErrNilPipeline
	}
	p.vertend = id
	return nil
}

// Vertend returns the vertex back-end currently claiming p, or
// BackendUndefined if none has.
func (p *Pipeline) Vertend() (BackendID, error) {
	if p == nil {
		return BackendUndefined, ErrNilPipeline
	}
	return p.vertend, nil
}
