package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesEntity(t *testing.T) {
	err := EntityNotFound("synset", "oewn-00001740-n")
	want := "wneditor: entity-not-found: synset oewn-00001740-n: not found"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorMessageWithoutEntity(t *testing.T) {
	err := Import("bad xml", nil)
	want := "wneditor: import: bad xml"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestKindOfUnwrapsWrappedError(t *testing.T) {
	base := Conflict("sense", "oewn-abc-1", "already pointed at target")
	wrapped := fmt.Errorf("operation failed: %w", base)
	kind, ok := KindOf(wrapped)
	if !ok || kind != KindConflict {
		t.Fatalf("expected KindConflict, got %v ok=%v", kind, ok)
	}
}

func TestKindOfFalseForPlainError(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("expected ok=false for a non-taxonomy error")
	}
}

func TestIsMatchesSameKindOnly(t *testing.T) {
	a := Validation("entry", "x", "bad pos")
	b := Validation("synset", "y", "also bad")
	c := Database("insert", nil)
	if !errors.Is(a, b) {
		t.Error("two validation errors should satisfy errors.Is via shared taxonomy kind")
	}
	if errors.Is(a, c) {
		t.Error("validation and database errors should not match")
	}
}

func TestDatabaseWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Database("insert relation", cause)
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the original cause")
	}
}
