package commit

import (
	"context"
	"errors"
	"testing"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/exporter"
	"github.com/lexkit/wneditor/internal/importer"
	"github.com/lexkit/wneditor/internal/lmf"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/store"
	"github.com/lexkit/wneditor/pkg/docstore"
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
							{ID: "oewn-bank-n-1", Synset: "oewn-05000000-n"},
						},
					},
				},
				Synsets: []lmf.Synset{
					{ID: "oewn-05000000-n", PartOfSpeech: "n", ILI: "i12345",
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

func TestCommitAddsToSink(t *testing.T) {
	s := seedStore(t)
	ex := exporter.New(s, logging.Nop())
	sink := docstore.New()
	c := New(ex, sink, logging.Nop())

	if err := c.Commit(context.Background(), "oewn:2024"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, ok := sink.Get("oewn")
	if !ok {
		t.Fatal("expected the sink to hold a document for oewn after commit")
	}
	if len(got.XML) == 0 {
		t.Error("expected non-empty committed XML")
	}
}

func TestCommitReplacesExistingSinkEntry(t *testing.T) {
	s := seedStore(t)
	ex := exporter.New(s, logging.Nop())
	sink := docstore.New()
	c := New(ex, sink, logging.Nop())
	ctx := context.Background()

	if err := c.Commit(ctx, "oewn:2024"); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if err := c.Commit(ctx, "oewn:2024"); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if sink.Count() != 1 {
		t.Errorf("expected recommitting the same lexicon to replace, not duplicate, got count %d", sink.Count())
	}
}

type failingSink struct {
	removeErr error
	addErr    error
}

func (f *failingSink) Remove(lexiconID string) error { return f.removeErr }
func (f *failingSink) Add(xmlPath string) error      { return f.addErr }

func TestCommitSurfacesAddFailureAfterRemoveSucceeds(t *testing.T) {
	s := seedStore(t)
	ex := exporter.New(s, logging.Nop())
	sink := &failingSink{addErr: errors.New("downstream unavailable")}
	c := New(ex, sink, logging.Nop())

	err := c.Commit(context.Background(), "oewn:2024")
	if err == nil {
		t.Fatal("expected commit to surface the sink's Add failure")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindExport {
		t.Errorf("expected KindExport, got %v ok=%v", kind, ok)
	}
}
