package pipegraph

import "errors"

// Sentinel errors returned at the library's public boundary, where a
// caller can hand back a bad handle. Internal invariant violations
// (states the public contract already rules out) panic instead,
// mirroring the source design's assertion failures.
var (
	// ErrNilPipeline is returned when a nil *Pipeline is passed to an
	// operation that requires one.
	ErrNilPipeline = errors.New("pipegraph: nil pipeline")

	// ErrNilContext is returned when a nil *Context is passed to New.
	ErrNilContext = errors.New("pipegraph: nil context")

	// ErrIndexOutOfRange is returned by layer operations addressed by a
	// logical index that doesn't resolve to an effective layer.
	ErrIndexOutOfRange = errors.New("pipegraph: layer index out of range")

	// ErrCrossContext is returned by Context.Intern and
	// Context.SetCurrentPipeline when the pipeline was created under a
	// different Context.
	ErrCrossContext = errors.New("pipegraph: pipeline or layer belongs to a different context")
)
