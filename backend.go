package pipegraph

import (
	"log/slog"
	"sync"
)

// ChangeMask is an opaque bitmask describing which state groups changed
// in a pipeline or layer mutation. Back-ends interpret it; the core only
// passes it through.
type ChangeMask Differences

// BackEnd is a code generator (fragment/vertex/program back-end) that
// wants to observe pipeline and layer mutations so it can invalidate or
// re-emit generated shader code.
//
// A back-end implements only the hooks it needs — each is an optional
// interface probed with a type assertion, the same pattern the teacher
// library uses for GPU-accelerator capability detection
// ([PipelinePreChangeNotifier], [PipelineSetParentNotifier],
// [LayerPreChangeNotifier]).
type BackEnd interface {
	// Name identifies the back-end for logging and diagnostics.
	Name() string
}

// PipelinePreChangeNotifier is implemented by back-ends that need to
// invalidate cached shader code before a pipeline-level state change
// lands. newColor is non-nil only when change intersects StateColor.
//
// PipelinePreChangeNotify returns refuse=true to keep p's claimed
// Fragend/Vertend instead of having the core reset them to
// BackendUndefined (spec §7.3: a back-end that can patch its generated
// code in place, rather than regenerate it, refuses the reset).
type PipelinePreChangeNotifier interface {
	BackEnd
	PipelinePreChangeNotify(p *Pipeline, change ChangeMask, newColor *RGBA) (refuse bool)
}

// PipelineSetParentNotifier is implemented by back-ends that want to
// know when a pipeline is reparented (for example after a
// copy-on-write snapshot insertion).
type PipelineSetParentNotifier interface {
	BackEnd
	PipelineSetParentNotify(p *Pipeline)
}

// LayerPreChangeNotifier is implemented by back-ends that need to
// invalidate cached shader code before a layer-level state change
// lands.
type LayerPreChangeNotifier interface {
	BackEnd
	LayerPreChangeNotify(owner *Pipeline, layer *Layer, change ChangeMask)
}

var (
	backendsMu sync.RWMutex
	backends   []BackEnd
)

// RegisterBackEnd adds a back-end to the process-wide notification
// table. Back-ends are notified in registration order. Registering the
// same back-end twice notifies it twice; callers that want to replace a
// back-end should call UnregisterBackEnd first.
func RegisterBackEnd(b BackEnd) {
	if b == nil {
		return
	}
	backendsMu.Lock()
	backends = append(backends, b)
	backendsMu.Unlock()

	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(Logger())
	}
	Logger().Info("pipegraph: back-end registered", slog.String("backend", b.Name()))
}

// UnregisterBackEnd removes a previously registered back-end. It is a
// no-op if the back-end was never registered.
func UnregisterBackEnd(b BackEnd) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	for i, existing := range backends {
		if existing == b {
			backends = append(backends[:i], backends[i+1:]...)
			return
		}
	}
}

// BackEnds returns a snapshot of the currently registered back-ends.
func BackEnds() []BackEnd {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	out := make([]BackEnd, len(backends))
	copy(out, backends)
	return out
}

// resetBackEnds clears the registry. Exposed for tests only.
func resetBackEnds() {
	backendsMu.Lock()
	backends = nil
	backendsMu.Unlock()
}

// notifyPipelinePreChange invokes PipelinePreChangeNotify on every
// registered back-end that implements it, and reports whether any of
// them asked to keep p's claimed Fragend/Vertend rather than have the
// core reset it.
func notifyPipelinePreChange(p *Pipeline, change ChangeMask, newColor *RGBA) (refuse bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	for _, b := range backends {
		if n, ok := b.(PipelinePreChangeNotifier); ok {
			if n.PipelinePreChangeNotify(p, change, newColor) {
				refuse = true
			}
		}
	}
	return refuse
}

// notifyPipelineSetParent invokes PipelineSetParentNotify on every
// registered back-end that implements it.
func notifyPipelineSetParent(p *Pipeline) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	for _, b := range backends {
		if n, ok := b.(PipelineSetParentNotifier); ok {
			n.PipelineSetParentNotify(p)
		}
	}
}

// notifyLayerPreChange invokes LayerPreChangeNotify on every registered
// back-end that implements it.
func notifyLayerPreChange(owner *Pipeline, layer *Layer, change ChangeMask) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	for _, b := range backends {
		if n, ok := b.(LayerPreChangeNotifier); ok {
			n.LayerPreChangeNotify(owner, layer, change)
		}
	}
}
