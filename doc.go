// Package pipegraph implements a sparse pipeline state graph for a
// retained-mode graphics state library.
//
// # Overview
//
// Applications build up "pipelines" — descriptors of the rasterization
// state used to draw geometry (color, blend, depth test, fog, cull face,
// point size, logic ops, a shader handle, and an ordered set of texture
// layers). Pipelines are arranged in a sharing tree: each pipeline stores
// only the state that differs from its parent, and copy-on-write keeps
// every pipeline looking mutable to its owner while leaving every other
// reference to it (and its descendants) untouched.
//
// # Quick start
//
//	ctx := pipegraph.NewContext()
//	p, err := pipegraph.New(ctx)
//	p.SetColor(pipegraph.RGBA{R: 1, G: 1, B: 1, A: 1})
//
//	c, err := p.Copy()
//	c.SetColor(pipegraph.RGBA{R: 1, G: 0, B: 0, A: 1})
//	// p's color is untouched; c has its own color authority.
//
// # Architecture
//
// Three layers compose the core:
//   - node.go: a generic tree-node substrate (parent link, intrusive
//     child list, reference count, weak/strong edge).
//   - Layer tree ([Layer]): texture-unit state, addressed by a stable
//     logical index independent of its positional unit index.
//   - Pipeline tree ([Pipeline]): rasterization state plus a sparse set
//     of layer differences.
//
// Reads walk parent links to find the nearest "authority" for a state
// group. Writes run a copy-on-write protocol: weak descendants are
// destroyed, strong descendants are reparented onto a fresh snapshot,
// and only then does the pipeline mutate in place.
//
// # Scope
//
// This package is the state graph only. It does not render, dispatch to
// a GPU, or touch a window system — those are external collaborators
// reached through the [BackEnd], [Journal], and [Texture] interfaces.
package pipegraph
