package pipegraph

import "github.com/gogpu/pipegraph/internal/intern"

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx := pipegraph.NewContext(
//		pipegraph.WithJournal(myJournal),
//		pipegraph.WithFallbackTexture(whitePixel),
//	)
type ContextOption func(*Context)

// WithJournal wires a journal into the context. The core flushes it
// (spec §4.3 step 1) before a mutation that would otherwise corrupt
// geometry the journal still holds against the pipeline being changed.
func WithJournal(j Journal) ContextOption {
	return func(ctx *Context) {
		ctx.journal = j
	}
}

// WithFallbackTexture sets the texture substituted for a layer with no
// texture bound.
func WithFallbackTexture(tex Texture) ContextOption {
	return func(ctx *Context) {
		ctx.fallbackTexture = tex
	}
}

// WithFallbackAlphaTexture sets the alpha-only fallback texture, used
// in place of the general fallback when a layer's combine mode only
// consults the alpha channel.
func WithFallbackAlphaTexture(tex Texture) ContextOption {
	return func(ctx *Context) {
		ctx.fallbackAlphaTexture = tex
	}
}

// WithInterning overrides the default pipeline-interning table's soft
// limit and equality comparator. Passing a softLimit of 0 disables the
// 25%-eviction behavior (unbounded growth); equal may be nil to accept
// the default full-sparse-mask Equal comparator.
func WithInterning(softLimit int, equal func(a, b *Pipeline) bool) ContextOption {
	return func(ctx *Context) {
		if equal == nil {
			equal = func(a, b *Pipeline) bool {
				return Equal(a, b, AllSparse, LayerAllSparse, 0)
			}
		}
		ctx.pipelines = intern.New[*Pipeline](softLimit, equal)
	}
}
