// Package engine implements the mutation engine: per-entity create/read/
// update/delete, the auto-inverse relation protocol, ID generation, cascade
// deletion, and lexicalization bookkeeping. Every exported method runs
// inside one store.Batch transaction and writes a history record describing
// what it changed.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/coregx/ahocorasick"
	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// Engine is the mutation surface over one store.
type Engine struct {
	store  *store.Store
	cfg    Config
	log    *zap.Logger
	nowFn  func() time.Time
	txnSeq int64
}

// New constructs an Engine over an already-open store.
func New(s *store.Store, cfg Config, log *zap.Logger) *Engine {
	return &Engine{store: s, cfg: cfg, log: log, nowFn: time.Now}
}

// Batch exposes the engine's transaction+history wiring to other packages
// (internal/compound) that need several low-level mutations inside one
// transaction and one history-recorder scope, rather than the
// one-operation-per-call shape the exported CRUD methods use.
func (e *Engine) Batch(ctx context.Context, op string, fn func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error) error {
	return e.batch(ctx, op, fn)
}

// CascadeDeleteSynset exposes the synset cascade-delete worklist for reuse
// by compound operations (merge ends by deleting its source synset).
func (e *Engine) CascadeDeleteSynset(tx *store.Tx, rec *history.Recorder, lexiconKey, synsetKey int64) error {
	return e.cascadeDeleteSynsetByKey(tx, rec, lexiconKey, synsetKey)
}

// RecomputeLexicalized exposes the lexicalized-flag recomputation for
// reuse by compound operations.
func (e *Engine) RecomputeLexicalized(tx *store.Tx, synsetKey int64) error {
	return e.recomputeLexicalized(tx, synsetKey)
}

// Log returns the engine's zap logger, for reuse by packages built on top
// of it (compound, importer, exporter) that want the same sink.
func (e *Engine) Log() *zap.Logger { return e.log }

// batch runs fn inside a transaction, threading a fresh history.Recorder
// through ctx so every CRUD helper invoked within fn can append records to
// the same recorder, then flushes it before commit.
func (e *Engine) batch(ctx context.Context, op string, fn func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error) error {
	e.txnSeq++
	txnID := fmt.Sprintf("txn-%d-%d", e.nowFn().UnixNano(), e.txnSeq)
	rec := history.NewRecorder(txnID, e.nowFn())
	err := e.store.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		if ierr := fn(ctx, tx, rec); ierr != nil {
			return ierr
		}
		if e.cfg.RecordHistory {
			return rec.Flush(tx)
		}
		return nil
	})
	if err != nil {
		e.log.Warn("engine operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// --- ID generation ---

// nextSynsetID generates a monotone MAX+1 numeric-suffix synset id in the
// lexicon's namespace, formatted "<lexiconID>-<00000+n>-<pos>".
func nextSynsetID(lexiconID string, maxSuffix int, pos model.PartOfSpeech) string {
	return fmt.Sprintf("%s-%08d-%s", lexiconID, maxSuffix+1, string(pos))
}

// slugify lower-cases, maps spaces to underscores, strips non-word
// runes (keeping Unicode letters/digits/underscore), drops zero-width and
// combining-mark runes, and collapses repeated underscores.
func slugify(lemma string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(lemma) {
		switch {
		case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Cf, r):
			continue // combining marks, zero-width/format runes
		case r == ' ':
			b.WriteRune('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		}
	}
	slug := b.String()
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	return strings.Trim(slug, "_")
}

// idCollisionScanner wraps an Aho-Corasick automaton built over a
// lexicon's existing entry ids, used to test candidate stem+suffix ids for
// an exact collision in one pass instead of a linear scan per candidate
// when the lexicon has many entries.
type idCollisionScanner struct {
	automaton *ahocorasick.Automaton
}

func newIDCollisionScanner(existingIDs []string) (*idCollisionScanner, error) {
	automaton, err := ahocorasick.NewBuilder().
		AddStrings(existingIDs).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	return &idCollisionScanner{automaton: automaton}, nil
}

// exists reports whether candidate exactly equals one of the scanner's
// registered ids (a full-span match, not merely a substring containment).
func (s *idCollisionScanner) exists(candidate string) bool {
	if s.automaton == nil {
		return false
	}
	haystack := []byte(candidate)
	for _, m := range s.automaton.FindAllOverlapping(haystack) {
		if m.Start == 0 && m.End == len(haystack) {
			return true
		}
	}
	return false
}

// nextEntryID generates a lemma-stem id: the bare stem if it is free,
// otherwise the stem with the lowest available numeric suffix >= 2. Existing
// ids are scanned for exact collisions with an ahocorasick automaton.
func nextEntryID(lexiconID, lemma string, existingIDs []string) (string, error) {
	stem := fmt.Sprintf("%s-%s", lexiconID, slugify(lemma))
	scanner, err := newIDCollisionScanner(existingIDs)
	if err != nil {
		return "", err
	}
	if !scanner.exists(stem) {
		return stem, nil
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", stem, n)
		if !scanner.exists(candidate) {
			return candidate, nil
		}
	}
}

// requirePrefix enforces global invariant 1: every entity id must start
// with "<lexiconID>-".
func requirePrefix(lexiconID, id, entityKind string) error {
	if !strings.HasPrefix(id, lexiconID+"-") {
		return apperr.Validation(entityKind, id, "id must start with lexicon id followed by '-'")
	}
	return nil
}
