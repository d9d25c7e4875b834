package pipegraph

import "testing"

// newTestPipeline creates a fresh Context and a strong child pipeline
// of its default pipeline, failing the test immediately on error. Most
// tests don't care about Context/New's own nil-handling and just need
// a pipeline to exercise.
func newTestPipeline(t *testing.T) (*Context, *Pipeline) {
	t.Helper()
	ctx := NewContext()
	p, err := New(ctx)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return ctx, p
}
