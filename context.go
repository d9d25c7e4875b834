package pipegraph

import "github.com/gogpu/pipegraph/internal/intern"

// Context bundles the per-application globals the sharing tree is
// rooted in: the default pipeline and default layers every fresh
// Pipeline/Layer inherits from, plus the optional journal and
// interning table a back-end wires in (spec §5's "per-context
// globals", scaled down from the teacher's drawing-surface Context to
// a bundle of default nodes and scratch state).
//
// A Context is not safe for concurrent use by itself: the sharing tree
// it roots follows the single-threaded cooperative model of spec §5.
// Only SetLogger and the back-end registry (process-wide, not
// per-context) are safe to touch from other goroutines.
type Context struct {
	defaultPipeline *Pipeline

	// defaultLayer0 is the template a freshly created layer 0 copies
	// (texturing semantics differ slightly between the first layer and
	// later ones per spec §4.6); defaultLayerN is the template for every
	// later layer.
	defaultLayer0 *Layer
	defaultLayerN *Layer

	journal Journal

	fallbackTexture      Texture
	fallbackAlphaTexture Texture

	pipelines *intern.Table[*Pipeline]

	// current is the pipeline a caller has most recently selected for
	// drawing through this Context, and changesSinceFlush accumulates
	// the groups mutated on it since the last Flush (spec §5's
	// "current pipeline" / "changes since last flush" pair).
	current           *Pipeline
	changesSinceFlush Differences

	// scratchA and scratchB are reusable ancestor-walk buffers for
	// Equal: two chains are walked per comparison, and reusing their
	// backing arrays across calls avoids an allocation pair on every
	// draw-time pipeline comparison (spec §5's "two scratch arrays").
	scratchA, scratchB []*Pipeline
}

// NewContext creates a Context with fresh default pipeline and default
// layers, applying the given options in order.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{}
	ctx.defaultPipeline = newRootPipeline(ctx)
	ctx.defaultLayer0 = newRootLayer(ctx, 0)
	ctx.defaultLayerN = newRootLayer(ctx, 0)

	for _, opt := range opts {
		opt(ctx)
	}

	if ctx.pipelines == nil {
		ctx.pipelines = intern.New[*Pipeline](256, func(a, b *Pipeline) bool {
			return Equal(a, b, AllSparse, LayerAllSparse, 0)
		})
	}

	return ctx
}

// DefaultPipeline returns the context's root pipeline: the ultimate
// ancestor of every pipeline created against ctx, and the authority of
// last resort for every sparse group.
func (ctx *Context) DefaultPipeline() *Pipeline {
	return ctx.defaultPipeline
}

// Journal returns the journal currently wired to ctx, or nil.
func (ctx *Context) Journal() Journal {
	return ctx.journal
}

// FallbackTexture returns the texture substituted for a layer with no
// texture bound, used by back-ends when building a complete texture
// unit array.
func (ctx *Context) FallbackTexture() Texture {
	return ctx.fallbackTexture
}

// FallbackAlphaTexture returns the alpha-only fallback texture, used in
// place of FallbackTexture when a layer's combine mode only consults
// the alpha channel.
func (ctx *Context) FallbackAlphaTexture() Texture {
	return ctx.fallbackAlphaTexture
}

// Intern collapses p onto a previously-interned pipeline structurally
// Equal to it under the full sparse mask, if one exists, releasing p
// and returning the existing node with an added reference. Otherwise it
// registers p as the canonical representative of its hash bucket and
// returns p unchanged. Returns ErrNilPipeline if p is nil, or
// ErrCrossContext if p was not created against ctx.
//
// Intern is an optional extension of the sharing tree (spec §9 is
// silent on caching); nothing else in the core calls it.
func (ctx *Context) Intern(p *Pipeline) (*Pipeline, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	if p.ctx != ctx {
		return nil, ErrCrossContext
	}
	h := Hash(p, AllSparse, LayerAllSparse, 0)
	canonical := ctx.pipelines.Intern(h, p)
	if canonical != p {
		canonical.Ref()
		p.Unref()
	}
	return canonical, nil
}

// CurrentPipeline returns the pipeline most recently selected via
// SetCurrentPipeline, or nil if none has been.
func (ctx *Context) CurrentPipeline() *Pipeline {
	return ctx.current
}

// ChangesSinceFlush returns the union of state groups mutated on the
// current pipeline since the last Flush.
func (ctx *Context) ChangesSinceFlush() Differences {
	return ctx.changesSinceFlush
}

// SetCurrentPipeline selects p as ctx's current pipeline for drawing,
// resetting the accumulated changes-since-flush mask. Returns
// ErrNilPipeline if p is nil, or ErrCrossContext if p was not created
// against ctx.
func (ctx *Context) SetCurrentPipeline(p *Pipeline) error {
	if p == nil {
		return ErrNilPipeline
	}
	if p.ctx != ctx {
		return ErrCrossContext
	}
	ctx.current = p
	ctx.changesSinceFlush = 0
	return nil
}

// Flush clears the changes-since-flush mask, marking every group
// mutated on the current pipeline as seen by a caller (typically a
// back-end) tracking incremental state for a render pass.
func (ctx *Context) Flush() {
	ctx.changesSinceFlush = 0
}
