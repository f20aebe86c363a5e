package compound

import (
	"context"
	"testing"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

const lexSpec = "oewn:2024"

func newTestCompound(t *testing.T) (*Compound, *engine.Engine) {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	eng := engine.New(s, engine.DefaultConfig(), logging.Nop())
	ctx := context.Background()
	if _, err := eng.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024", Label: "test"}); err != nil {
		t.Fatalf("create lexicon: %v", err)
	}
	return New(eng), eng
}

func TestMergeRepointsSensesAndDeletesSource(t *testing.T) {
	c, eng := newTestCompound(t)
	ctx := context.Background()

	src, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	tgt, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := eng.CreateEntry(ctx, lexSpec, model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	sense, err := eng.AddSense(ctx, lexSpec, ent.ID, src.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add sense: %v", err)
	}

	merged, err := c.Merge(ctx, lexSpec, src.ID, tgt.ID)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.ID != tgt.ID {
		t.Errorf("expected merge to return the target synset, got %q", merged.ID)
	}

	if _, err := eng.GetSynset(ctx, lexSpec, src.ID); err == nil {
		t.Error("expected source synset to be deleted after merge")
	}

	gotTgt, err := eng.GetSynset(ctx, lexSpec, tgt.ID)
	if err != nil {
		t.Fatalf("get target synset: %v", err)
	}
	if !gotTgt.Lexicalized {
		t.Error("expected target synset to be lexicalized after absorbing source's sense")
	}
	_ = sense
}

func TestMergeRejectsSelfMerge(t *testing.T) {
	c, eng := newTestCompound(t)
	ctx := context.Background()
	syn, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})

	if _, err := c.Merge(ctx, lexSpec, syn.ID, syn.ID); err == nil {
		t.Fatal("expected merging a synset into itself to fail")
	}
}

func TestSplitRequiresEveryGroupCovered(t *testing.T) {
	c, eng := newTestCompound(t)
	ctx := context.Background()
	syn, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := eng.CreateEntry(ctx, lexSpec, model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	s1, _ := eng.AddSense(ctx, lexSpec, ent.ID, syn.ID, model.Sense{})
	ent2, _ := eng.CreateEntry(ctx, lexSpec, model.Entry{PartOfSpeech: model.POSNoun}, "shore")
	s2, err := eng.AddSense(ctx, lexSpec, ent2.ID, syn.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add second sense: %v", err)
	}

	// Omitting s2 from every group should fail: not every member is covered.
	if _, err := c.Split(ctx, lexSpec, syn.ID, [][]string{{s1.ID}}); err == nil {
		t.Fatal("expected split to fail when a member sense is left out of every group")
	}

	synsets, err := c.Split(ctx, lexSpec, syn.ID, [][]string{{s1.ID}, {s2.ID}})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(synsets) != 2 {
		t.Fatalf("expected 2 synsets after splitting into 2 groups, got %d", len(synsets))
	}
	if synsets[0].ID != syn.ID {
		t.Errorf("expected the first group to stay on the original synset %q, got %q", syn.ID, synsets[0].ID)
	}
}

func TestMoveSenseRejectsSameSynset(t *testing.T) {
	c, eng := newTestCompound(t)
	ctx := context.Background()
	syn, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := eng.CreateEntry(ctx, lexSpec, model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	sense, err := eng.AddSense(ctx, lexSpec, ent.ID, syn.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add sense: %v", err)
	}

	if _, err := c.MoveSense(ctx, lexSpec, sense.ID, syn.ID); err == nil {
		t.Fatal("expected moving a sense onto its current synset to fail")
	}
}

func TestMoveSenseRejectsEntryCollision(t *testing.T) {
	c, eng := newTestCompound(t)
	ctx := context.Background()
	synA, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	synB, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := eng.CreateEntry(ctx, lexSpec, model.Entry{PartOfSpeech: model.POSNoun}, "bank")

	sense1, err := eng.AddSense(ctx, lexSpec, ent.ID, synA.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add sense1: %v", err)
	}
	if _, err := eng.AddSense(ctx, lexSpec, ent.ID, synB.ID, model.Sense{}); err != nil {
		t.Fatalf("add sense2: %v", err)
	}

	// entry already has a sense pointing at synB; moving sense1 there should
	// be rejected as a relation error.
	_, err = c.MoveSense(ctx, lexSpec, sense1.ID, synB.ID)
	if err == nil {
		t.Fatal("expected moving onto a synset the entry already has a sense in to fail")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindRelation {
		t.Errorf("expected KindRelation, got %v ok=%v", kind, ok)
	}
}

func TestMoveSenseRebinds(t *testing.T) {
	c, eng := newTestCompound(t)
	ctx := context.Background()
	synA, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	synB, _ := eng.CreateSynset(ctx, lexSpec, model.Synset{PartOfSpeech: model.POSNoun})
	ent, _ := eng.CreateEntry(ctx, lexSpec, model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	sense, err := eng.AddSense(ctx, lexSpec, ent.ID, synA.ID, model.Sense{})
	if err != nil {
		t.Fatalf("add sense: %v", err)
	}

	moved, err := c.MoveSense(ctx, lexSpec, sense.ID, synB.ID)
	if err != nil {
		t.Fatalf("move sense: %v", err)
	}
	if moved.SynsetID != synB.ID {
		t.Errorf("expected moved sense to reference synB, got %q", moved.SynsetID)
	}

	gotA, err := eng.GetSynset(ctx, lexSpec, synA.ID)
	if err != nil {
		t.Fatalf("get synA: %v", err)
	}
	if gotA.Lexicalized {
		t.Error("expected synA to become unlexicalized once its only sense moved away")
	}
	gotB, err := eng.GetSynset(ctx, lexSpec, synB.ID)
	if err != nil {
		t.Fatalf("get synB: %v", err)
	}
	if !gotB.Lexicalized {
		t.Error("expected synB to become lexicalized once it received a sense")
	}
}
