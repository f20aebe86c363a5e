package engine

import (
	"context"
	"testing"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, DefaultConfig(), logging.Nop())
}

func mustCreateLexicon(t *testing.T, e *Engine) model.Lexicon {
	t.Helper()
	ctx := context.Background()
	lex, err := e.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024", Label: "Open English WordNet", Language: "en"})
	if err != nil {
		t.Fatalf("create lexicon: %v", err)
	}
	return lex
}

func TestCreateAndGetLexicon(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)

	got, err := e.GetLexicon(ctx, "oewn:2024")
	if err != nil {
		t.Fatalf("get lexicon: %v", err)
	}
	if got.Label != "Open English WordNet" {
		t.Errorf("expected label to round-trip, got %q", got.Label)
	}
}

func TestCreateLexiconDuplicateIDFails(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)

	_, err := e.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024", Label: "dup"})
	if err == nil {
		t.Fatal("expected an error creating a lexicon with a duplicate id")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindDuplicateEntity {
		t.Errorf("expected KindDuplicateEntity, got %v ok=%v", kind, ok)
	}
}

func TestCreateSynsetGeneratesID(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)

	syn, err := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	if err != nil {
		t.Fatalf("create synset: %v", err)
	}
	if syn.ID == "" {
		t.Fatal("expected a generated synset id")
	}

	got, err := e.GetSynset(ctx, "oewn:2024", syn.ID)
	if err != nil {
		t.Fatalf("get synset: %v", err)
	}
	if got.LexiconID != "oewn" {
		t.Errorf("expected lexicon id oewn, got %q", got.LexiconID)
	}
	if got.Lexicalized {
		t.Error("a synset with no senses should not be lexicalized")
	}
}

func TestCreateSynsetRejectsInvalidPOS(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)

	_, err := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: "zz"})
	if err == nil {
		t.Fatal("expected invalid part of speech to be rejected")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindValidation {
		t.Errorf("expected KindValidation, got %v ok=%v", kind, ok)
	}
}

func TestAddSenseMarksSynsetLexicalized(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)

	syn, err := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	if err != nil {
		t.Fatalf("create synset: %v", err)
	}
	ent, err := e.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	sense, err := e.AddSense(ctx, "oewn:2024", ent.ID, syn.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add sense: %v", err)
	}
	if sense.EntryRank != 1 || sense.SynsetRank != 1 {
		t.Errorf("expected rank 1/1 for the first sense, got %d/%d", sense.EntryRank, sense.SynsetRank)
	}

	got, err := e.GetSynset(ctx, "oewn:2024", syn.ID)
	if err != nil {
		t.Fatalf("get synset: %v", err)
	}
	if !got.Lexicalized {
		t.Error("expected synset to be lexicalized after adding a sense")
	}
}

func TestRemoveSenseUnsetsLexicalized(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)
	syn, _ := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := e.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	sense, err := e.AddSense(ctx, "oewn:2024", ent.ID, syn.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add sense: %v", err)
	}

	if err := e.RemoveSense(ctx, "oewn:2024", sense.ID); err != nil {
		t.Fatalf("remove sense: %v", err)
	}

	got, err := e.GetSynset(ctx, "oewn:2024", syn.ID)
	if err != nil {
		t.Fatalf("get synset: %v", err)
	}
	if got.Lexicalized {
		t.Error("expected synset to be unlexicalized once its only sense is removed")
	}
}

func TestDeleteEntryWithSensesRequiresCascade(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)
	syn, _ := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := e.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	if _, err := e.AddSense(ctx, "oewn:2024", ent.ID, syn.ID, model.Sense{}); err != nil {
		t.Fatalf("add sense: %v", err)
	}

	if err := e.DeleteEntry(ctx, "oewn:2024", ent.ID, false); err == nil {
		t.Fatal("expected delete without cascade to fail while senses remain")
	}
	if err := e.DeleteEntry(ctx, "oewn:2024", ent.ID, true); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	if _, _, err := e.GetEntry(ctx, "oewn:2024", ent.ID); err == nil {
		t.Fatal("expected entry to be gone after cascade delete")
	}
}

func TestDeleteSynsetCascadeRemovesTheSynsetRow(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)
	syn, _ := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := e.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	if _, err := e.AddSense(ctx, "oewn:2024", ent.ID, syn.ID, model.Sense{}); err != nil {
		t.Fatalf("add sense: %v", err)
	}

	if err := e.DeleteSynset(ctx, "oewn:2024", syn.ID, false); err == nil {
		t.Fatal("expected delete without cascade to fail while senses remain")
	}
	if err := e.DeleteSynset(ctx, "oewn:2024", syn.ID, true); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	if _, err := e.GetSynset(ctx, "oewn:2024", syn.ID); err == nil {
		t.Fatal("expected the synset row itself to be gone after cascade delete, not just its children")
	}
}

func TestAddRelationMaintainsInverse(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)
	a, _ := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	b, _ := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})

	if err := e.AddRelation(ctx, "oewn:2024", model.RelationSynsetToSynset, a.ID, "hypernym", b.ID, nil); err != nil {
		t.Fatalf("add relation: %v", err)
	}
	// b should now carry the auto-inserted inverse "hyponym" back to a.
	err := e.store.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		_, lexKey, err := tx.ResolveLexicon("oewn:2024")
		if err != nil {
			return err
		}
		aKey, err := tx.SynsetKey(lexKey, a.ID)
		if err != nil {
			return err
		}
		bKey, err := tx.SynsetKey(lexKey, b.ID)
		if err != nil {
			return err
		}
		exists, err := tx.RelationExists(model.RelationSynsetToSynset, bKey, "hyponym", aKey)
		if err != nil {
			return err
		}
		if !exists {
			t.Error("expected the inverse hyponym edge from b to a")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("look up inverse edge: %v", err)
	}
	// Re-adding the same relation is idempotent on the forward edge.
	if err := e.AddRelation(ctx, "oewn:2024", model.RelationSynsetToSynset, a.ID, "hypernym", b.ID, nil); err != nil {
		t.Fatalf("re-adding an existing relation should be idempotent: %v", err)
	}
}

func TestAddRelationRejectsSelfLoop(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustCreateLexicon(t, e)
	a, _ := e.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})

	err := e.AddRelation(ctx, "oewn:2024", model.RelationSynsetToSynset, a.ID, "hypernym", a.ID, nil)
	if err == nil {
		t.Fatal("expected a self-loop relation to be rejected")
	}
}
