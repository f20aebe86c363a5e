package docstore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempXML(t *testing.T, lexiconID string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	body := `<?xml version="1.0" encoding="UTF-8"?><LexicalResource><Lexicon id="` + lexiconID + `" version="2024"></Lexicon></LexicalResource>`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp xml: %v", err)
	}
	return path
}

func TestAddThenGet(t *testing.T) {
	s := New()
	path := writeTempXML(t, "oewn")

	if err := s.Add(path); err != nil {
		t.Fatalf("add: %v", err)
	}
	doc, ok := s.Get("oewn")
	if !ok {
		t.Fatal("expected to find the document by lexicon id")
	}
	if doc.LexiconID != "oewn" {
		t.Errorf("expected LexiconID oewn, got %q", doc.LexiconID)
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}
}

func TestRemoveDeletesDocument(t *testing.T) {
	s := New()
	path := writeTempXML(t, "oewn")
	if err := s.Add(path); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Remove("oewn"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.Get("oewn"); ok {
		t.Error("expected document to be gone after remove")
	}
	if s.Count() != 0 {
		t.Errorf("expected count 0, got %d", s.Count())
	}
}

func TestRemoveMissingIDIsNotAnError(t *testing.T) {
	s := New()
	if err := s.Remove("does-not-exist"); err != nil {
		t.Errorf("expected removing a missing id to be a no-op, got %v", err)
	}
}

func TestIDsListsEveryHeldDocument(t *testing.T) {
	s := New()
	if err := s.Add(writeTempXML(t, "oewn")); err != nil {
		t.Fatalf("add oewn: %v", err)
	}
	if err := s.Add(writeTempXML(t, "fin")); err != nil {
		t.Fatalf("add fin: %v", err)
	}
	ids := s.IDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
}
