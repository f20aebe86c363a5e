package importer

import (
	"context"
	"testing"

	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/exporter"
	"github.com/lexkit/wneditor/internal/lmf"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/store"
)

func sampleDoc() *lmf.LexicalResource {
	return &lmf.LexicalResource{
		Lexicons: []lmf.Lexicon{
			{
				ID: "oewn", Label: "Open English WordNet", Language: "en",
				Email: "admin@example.com", License: "CC-BY", Version: "2024",
				Entries: []lmf.LexicalEntry{
					{
						ID:    "oewn-bank-n",
						Lemma: lmf.Lemma{WrittenForm: "bank", PartOfSpeech: "n"},
						Senses: []lmf.Sense{
							{ID: "oewn-bank-n-1", Synset: "oewn-05000000-n"},
						},
					},
				},
				Synsets: []lmf.Synset{
					{
						ID: "oewn-05000000-n", PartOfSpeech: "n", ILI: "i12345",
						Definitions: []lmf.Definition{{Text: "a financial institution"}},
					},
				},
			},
		},
	}
}

func newTestStack(t *testing.T) (*store.Store, *engine.Engine) {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	eng := engine.New(s, engine.DefaultConfig(), logging.Nop())
	return s, eng
}

func TestImportThenExportRoundTrip(t *testing.T) {
	s, eng := newTestStack(t)
	ctx := context.Background()
	im := New(eng)

	if err := im.Import(ctx, sampleDoc()); err != nil {
		t.Fatalf("import: %v", err)
	}

	ex := exporter.New(s, logging.Nop())
	doc, findings, err := ex.Export(ctx, "oewn:2024")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, f := range findings {
		t.Logf("finding: %+v", f)
	}

	if len(doc.Lexicons) != 1 {
		t.Fatalf("expected 1 lexicon, got %d", len(doc.Lexicons))
	}
	lex := doc.Lexicons[0]
	if lex.ID != "oewn" || lex.Version != "2024" {
		t.Errorf("expected lexicon oewn:2024, got %s:%s", lex.ID, lex.Version)
	}
	if len(lex.Synsets) != 1 || lex.Synsets[0].ID != "oewn-05000000-n" {
		t.Fatalf("expected the original synset to survive the round trip, got %+v", lex.Synsets)
	}
	if len(lex.Synsets[0].Definitions) != 1 || lex.Synsets[0].Definitions[0].Text != "a financial institution" {
		t.Errorf("expected the definition to survive the round trip, got %+v", lex.Synsets[0].Definitions)
	}
	if len(lex.Entries) != 1 || lex.Entries[0].Lemma.WrittenForm != "bank" {
		t.Fatalf("expected the original entry to survive the round trip, got %+v", lex.Entries)
	}
	if len(lex.Entries[0].Senses) != 1 || lex.Entries[0].Senses[0].Synset != "oewn-05000000-n" {
		t.Errorf("expected the sense to still reference the original synset, got %+v", lex.Entries[0].Senses)
	}
}

func TestImportRejectsDuplicateLexicon(t *testing.T) {
	_, eng := newTestStack(t)
	ctx := context.Background()
	im := New(eng)

	if err := im.Import(ctx, sampleDoc()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if err := im.Import(ctx, sampleDoc()); err == nil {
		t.Fatal("expected re-importing the same lexicon id to fail")
	}
}

func TestImportRejectsSenseWithUnknownSynset(t *testing.T) {
	_, eng := newTestStack(t)
	ctx := context.Background()
	im := New(eng)

	doc := sampleDoc()
	doc.Lexicons[0].Entries[0].Senses[0].Synset = "oewn-99999999-n"

	if err := im.Import(ctx, doc); err == nil {
		t.Fatal("expected import to fail on a sense referencing an unknown synset")
	}
}
