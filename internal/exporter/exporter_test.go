package exporter

import (
	"context"
	"testing"

	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/importer"
	"github.com/lexkit/wneditor/internal/lmf"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/store"
	"github.com/lexkit/wneditor/internal/validate"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	eng := engine.New(s, engine.DefaultConfig(), logging.Nop())

	doc := &lmf.LexicalResource{
		Lexicons: []lmf.Lexicon{
			{
				ID: "oewn", Version: "2024", Label: "Open English WordNet", Language: "en",
				Entries: []lmf.LexicalEntry{
					{
						ID:    "oewn-bank-n",
						Lemma: lmf.Lemma{WrittenForm: "bank", PartOfSpeech: "n"},
						Senses: []lmf.Sense{
							{ID: "oewn-bank-n-1", Synset: "oewn-05000000-n", Counts: []lmf.Count{{Value: 3}}},
						},
					},
				},
				Synsets: []lmf.Synset{
					{ID: "oewn-05000000-n", PartOfSpeech: "n", ILI: "i12345", Lexfile: "noun.artifact",
						Definitions: []lmf.Definition{{Text: "a financial institution"}}},
				},
			},
		},
	}
	if err := importer.New(eng).Import(context.Background(), doc); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	return s
}

func TestExportRevalidatesTheReparsedEmission(t *testing.T) {
	s := seedStore(t)
	ex := New(s, logging.Nop())

	doc, findings, err := ex.Export(context.Background(), "oewn:2024")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, f := range findings {
		if f.Severity == validate.SeverityError {
			t.Errorf("unexpected ERROR finding surviving export: %+v", f)
		}
	}
	if doc.Lexicons[0].Synsets[0].Lexfile != "noun.artifact" {
		t.Errorf("expected lexfile to survive a 1.4 export, got %q", doc.Lexicons[0].Synsets[0].Lexfile)
	}
}

func TestExportVersion10DropsUnrepresentableData(t *testing.T) {
	s := seedStore(t)
	ex := New(s, logging.Nop())

	doc, findings, err := ex.ExportVersion(context.Background(), "oewn:2024", lmf.Version10)
	if err != nil {
		t.Fatalf("export version 1.0: %v", err)
	}

	syn := doc.Lexicons[0].Synsets[0]
	if syn.Lexfile != "" {
		t.Errorf("expected lexfile to be dropped on 1.0 downgrade, got %q", syn.Lexfile)
	}
	sense := doc.Lexicons[0].Entries[0].Senses[0]
	if len(sense.Counts) != 0 {
		t.Errorf("expected counts to be dropped on 1.0 downgrade, got %+v", sense.Counts)
	}

	var sawLexfileDiagnostic, sawCountDiagnostic bool
	for _, f := range findings {
		if f.Rule != "version-downgrade-data-dropped" {
			continue
		}
		if f.Severity != validate.SeverityWarning {
			t.Errorf("expected downgrade diagnostics to be WARNING, got %v", f.Severity)
		}
		switch {
		case contains(f.Message, "lexfile"):
			sawLexfileDiagnostic = true
		case contains(f.Message, "count"):
			sawCountDiagnostic = true
		}
	}
	if !sawLexfileDiagnostic {
		t.Error("expected a diagnostic finding for dropped lexfiles")
	}
	if !sawCountDiagnostic {
		t.Error("expected a diagnostic finding for dropped counts")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
