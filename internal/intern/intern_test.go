package intern

import "testing"

func equalInt(a, b int) bool { return a == b }

func TestInternFirstCandidateBecomesCanonical(t *testing.T) {
	tab := New[int](0, equalInt)

	got := tab.Intern(1, 10)
	if got != 10 {
		t.Fatalf("Intern returned %d, want 10", got)
	}
}

func TestInternReturnsExistingOnEqualCollision(t *testing.T) {
	tab := New[string](0, func(a, b string) bool { return a == b })

	first := tab.Intern(7, "hello")
	second := tab.Intern(7, "hello")

	if second != first {
		t.Errorf("Intern returned %q on second call, want canonical %q", second, first)
	}
}

func TestInternKeepsDistinctValuesUnderSameHash(t *testing.T) {
	tab := New[string](0, func(a, b string) bool { return a == b })

	a := tab.Intern(7, "hello")
	b := tab.Intern(7, "world") // same hash bucket, not equal

	if a == b {
		t.Error("Intern collapsed two non-equal values sharing a hash")
	}
	if tab.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (one bucket holding two values)", tab.Len())
	}
}

func TestForgetRemovesFromBucket(t *testing.T) {
	tab := New[string](0, func(a, b string) bool { return a == b })

	tab.Intern(7, "hello")
	tab.Forget(7, "hello")

	got := tab.Intern(7, "hello again")
	if got != "hello again" {
		t.Errorf("Intern after Forget returned %q, want fresh value to become canonical", got)
	}
}

func TestForgetOnMissingHashIsNoop(t *testing.T) {
	tab := New[string](0, func(a, b string) bool { return a == b })
	tab.Forget(99, "nothing here") // must not panic
}
