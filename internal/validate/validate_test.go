package validate

import (
	"context"
	"testing"

	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

func newTestStore(t *testing.T) (*store.Store, *engine.Engine) {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	eng := engine.New(s, engine.DefaultConfig(), logging.Nop())
	return s, eng
}

func hasFinding(findings []Finding, rule string) bool {
	for _, f := range findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidateFlagsEmptySynsetAndNoDefinitions(t *testing.T) {
	s, eng := newTestStore(t)
	ctx := context.Background()
	if _, err := eng.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
		t.Fatalf("create lexicon: %v", err)
	}
	if _, err := eng.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun}); err != nil {
		t.Fatalf("create synset: %v", err)
	}

	findings, err := Validate(ctx, s, "oewn:2024")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !hasFinding(findings, "empty-synset") {
		t.Error("expected an empty-synset warning")
	}
	if !hasFinding(findings, "synset-no-definitions") {
		t.Error("expected a synset-no-definitions error")
	}
}

func TestValidateCleanLexiconHasNoErrors(t *testing.T) {
	s, eng := newTestStore(t)
	ctx := context.Background()
	if _, err := eng.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
		t.Fatalf("create lexicon: %v", err)
	}
	syn, err := eng.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	if err != nil {
		t.Fatalf("create synset: %v", err)
	}
	if err := eng.AddDefinition(ctx, "oewn:2024", syn.ID, model.Definition{Text: "a financial institution"}); err != nil {
		t.Fatalf("add definition: %v", err)
	}
	ent, err := eng.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := eng.AddSense(ctx, "oewn:2024", ent.ID, syn.ID, model.Sense{}); err != nil {
		t.Fatalf("add sense: %v", err)
	}

	findings, err := Validate(ctx, s, "oewn:2024")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, f := range findings {
		if f.Severity == SeverityError {
			t.Errorf("expected no ERROR findings on a well-formed lexicon, got %+v", f)
		}
	}
}

func TestValidateFlagsDuplicateDefinitions(t *testing.T) {
	s, eng := newTestStore(t)
	ctx := context.Background()
	if _, err := eng.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
		t.Fatalf("create lexicon: %v", err)
	}
	synA, _ := eng.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	synB, _ := eng.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	if err := eng.AddDefinition(ctx, "oewn:2024", synA.ID, model.Definition{Text: "the large financial institution"}); err != nil {
		t.Fatalf("add definition a: %v", err)
	}
	if err := eng.AddDefinition(ctx, "oewn:2024", synB.ID, model.Definition{Text: "the LARGE financial institution"}); err != nil {
		t.Fatalf("add definition b: %v", err)
	}

	findings, err := Validate(ctx, s, "oewn:2024")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !hasFinding(findings, "duplicate-definition") {
		t.Error("expected a duplicate-definition warning for case-differing near-identical text")
	}
}

func TestValidateFlagsRedundantEntryAcrossDistinctEntries(t *testing.T) {
	s, eng := newTestStore(t)
	ctx := context.Background()
	if _, err := eng.CreateLexicon(ctx, model.Lexicon{ID: "oewn", Version: "2024"}); err != nil {
		t.Fatalf("create lexicon: %v", err)
	}
	syn, err := eng.CreateSynset(ctx, "oewn:2024", model.Synset{PartOfSpeech: model.POSNoun})
	if err != nil {
		t.Fatalf("create synset: %v", err)
	}
	if err := eng.AddDefinition(ctx, "oewn:2024", syn.ID, model.Definition{Text: "a financial institution"}); err != nil {
		t.Fatalf("add definition: %v", err)
	}

	entA, err := eng.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	if err != nil {
		t.Fatalf("create entry a: %v", err)
	}
	entB, err := eng.CreateEntry(ctx, "oewn:2024", model.Entry{PartOfSpeech: model.POSNoun}, "bank")
	if err != nil {
		t.Fatalf("create entry b: %v", err)
	}
	if entA.ID == entB.ID {
		t.Fatalf("expected two distinct entry ids for the same lemma, got %q twice", entA.ID)
	}
	if _, err := eng.AddSense(ctx, "oewn:2024", entA.ID, syn.ID, model.Sense{}); err != nil {
		t.Fatalf("add sense a: %v", err)
	}
	if _, err := eng.AddSense(ctx, "oewn:2024", entB.ID, syn.ID, model.Sense{}); err != nil {
		t.Fatalf("add sense b: %v", err)
	}

	findings, err := Validate(ctx, s, "oewn:2024")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !hasFinding(findings, "redundant-entry") {
		t.Error("expected a redundant-entry warning for two distinct entries sharing a lemma+synset across the lexicon")
	}
}
