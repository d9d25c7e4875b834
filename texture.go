package pipegraph

// Texture is the external collaborator a layer's texture-data group
// refers to. The core stores it by reference, compares it by
// identity/handle, and asks it exactly two questions of its own: does
// it carry an alpha channel (used by the blend-enable predicate), and
// what is its underlying handle (used by structural equality/hash, so
// two layers bound to the same GPU texture through different wrapper
// values still compare equal, per spec §4.4).
type Texture interface {
	HasAlpha() bool
	Handle() uintptr
	PrePaint(flags int)
}
