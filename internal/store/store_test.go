package store

import (
	"context"
	"testing"

	"github.com/lexkit/wneditor/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndResolveLexicon(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Batch(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.InsertLexicon(model.Lexicon{ID: "oewn", Version: "2024", Label: "Open English WordNet"}); err != nil {
			return err
		}
		lex, key, err := tx.ResolveLexicon("oewn:2024")
		if err != nil {
			return err
		}
		if lex.Label != "Open English WordNet" {
			t.Errorf("expected label to round-trip, got %q", lex.Label)
		}
		if key == 0 {
			t.Error("expected a non-zero surrogate key")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
}

func TestResolveLexiconWrongVersionNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Batch(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.InsertLexicon(model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
			return err
		}
		_, _, err := tx.ResolveLexicon("oewn:1999")
		if err == nil {
			t.Fatal("expected resolving a mismatched version to fail")
		}
		if _, ok := err.(*ErrNotFound); !ok {
			t.Errorf("expected *ErrNotFound, got %T", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
}

func TestDuplicateLexiconIDIsUniqueViolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Batch(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.InsertLexicon(model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
			return err
		}
		_, err := tx.InsertLexicon(model.Lexicon{ID: "oewn", Version: "2025"})
		if err == nil {
			t.Fatal("expected a duplicate lexicon id to fail")
		}
		if !IsUniqueViolation(err) {
			t.Errorf("expected a unique constraint violation, got: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
}

func TestBatchNestingReusesOutstandingTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var innerKey int64
	err := s.Batch(ctx, func(ctx context.Context, tx *Tx) error {
		outerKey, err := tx.InsertLexicon(model.Lexicon{ID: "oewn", Version: "2024"})
		if err != nil {
			return err
		}
		// A nested Batch call with the same ctx must reuse tx rather than
		// opening a second transaction (sqlite's single connection would
		// otherwise deadlock on BeginTx).
		return s.Batch(ctx, func(ctx context.Context, nested *Tx) error {
			lex, key, err := nested.ResolveLexicon("oewn")
			if err != nil {
				return err
			}
			if lex.ID != "oewn" || key != outerKey {
				t.Errorf("expected nested resolve to see the outer insert, got %+v key=%d", lex, key)
			}
			innerKey = key
			return nil
		})
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if innerKey == 0 {
		t.Error("expected the nested batch to have resolved a key")
	}
}

func TestBatchRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sentinel := errTest("boom")
	err := s.Batch(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.InsertLexicon(model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
			return err
		}
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	// The failed transaction must have rolled back: the lexicon should not exist.
	err = s.Batch(ctx, func(ctx context.Context, tx *Tx) error {
		_, _, err := tx.ResolveLexicon("oewn")
		return err
	})
	if _, ok := err.(*ErrNotFound); !ok {
		t.Errorf("expected rollback to leave no lexicon row, got err=%v", err)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
