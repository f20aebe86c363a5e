// Package wneditor is the public facade over the WN-LMF editing engine: a
// single Editor value ties together the store, mutation engine, compound
// operations, import/export, and validation, mirroring the teacher's
// client-struct-wraps-a-store-handle shape.
package wneditor

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/commit"
	"github.com/lexkit/wneditor/internal/compound"
	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/exporter"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/importer"
	"github.com/lexkit/wneditor/internal/lmf"
	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
	"github.com/lexkit/wneditor/internal/validate"
)

// Re-export the domain types callers need to construct requests with,
// so nothing outside this package ever imports internal/model directly.
type (
	Lexicon            = model.Lexicon
	LexiconRef         = model.LexiconRef
	Synset             = model.Synset
	Entry              = model.Entry
	Form               = model.Form
	Pronunciation      = model.Pronunciation
	Tag                = model.Tag
	Sense              = model.Sense
	Count              = model.Count
	SyntacticBehaviour = model.SyntacticBehaviour
	Relation           = model.Relation
	RelationSpace      = model.RelationSpace
	Definition         = model.Definition
	Example            = model.Example
	ILI                = model.ILI
	PartOfSpeech       = model.PartOfSpeech
	AdjPosition        = model.AdjPosition
	Metadata           = model.Metadata
	Finding            = validate.Finding
	Severity           = validate.Severity
	HistoryEntry       = history.Entry
	Sink               = commit.Sink
)

const (
	RelationSynsetToSynset = model.RelationSynsetToSynset
	RelationSenseToSense   = model.RelationSenseToSense
	RelationSenseToSynset  = model.RelationSenseToSynset

	SeverityError   = validate.SeverityError
	SeverityWarning = validate.SeverityWarning
)

// Editor is the single entry point into the engine. It owns one store and
// is not safe for concurrent use — spec.md's single-writer model assumes
// one Editor instance drives a store at a time.
type Editor struct {
	store    *store.Store
	engine   *engine.Engine
	compound *compound.Compound
	importer *importer.Importer
	exporter *exporter.Exporter
	log      *zap.Logger
}

// Options configures a new Editor.
type Options struct {
	// StoreDSN is passed to store.Open: a file path, or ":memory:".
	StoreDSN string
	// AutoInverse enables automatic inverse-relation maintenance.
	AutoInverse bool
	// RecordHistory enables the field-level change log.
	RecordHistory bool
	// TreatAlsoAsSymmetric overrides the catalogue's asymmetric treatment
	// of "also".
	TreatAlsoAsSymmetric bool
	// Logger overrides the default production zap logger.
	Logger *zap.Logger
}

// Open creates a new Editor backed by a fresh or existing store at
// opts.StoreDSN.
func Open(opts Options) (*Editor, error) {
	s, err := store.Open(opts.StoreDSN)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		var lerr error
		log, lerr = logging.New()
		if lerr != nil {
			log = logging.Nop()
		}
	}
	cfg := engine.Config{
		AutoInverse:          opts.AutoInverse,
		RecordHistory:        opts.RecordHistory,
		TreatAlsoAsSymmetric: opts.TreatAlsoAsSymmetric,
	}
	eng := engine.New(s, cfg, log)
	return &Editor{
		store:    s,
		engine:   eng,
		compound: compound.New(eng),
		importer: importer.New(eng),
		exporter: exporter.New(s, log),
		log:      log,
	}, nil
}

// Close releases the underlying store handle.
func (e *Editor) Close() error { return e.store.Close() }

// --- Lexicon ---

func (e *Editor) CreateLexicon(ctx context.Context, l Lexicon) (Lexicon, error) {
	return e.engine.CreateLexicon(ctx, l)
}

func (e *Editor) GetLexicon(ctx context.Context, specifier string) (Lexicon, error) {
	return e.engine.GetLexicon(ctx, specifier)
}

func (e *Editor) UpdateLexicon(ctx context.Context, specifier string, l Lexicon) (Lexicon, error) {
	return e.engine.UpdateLexicon(ctx, specifier, l)
}

func (e *Editor) DeleteLexicon(ctx context.Context, specifier string, cascade bool) error {
	return e.engine.DeleteLexicon(ctx, specifier, cascade)
}

// --- Synset ---

func (e *Editor) CreateSynset(ctx context.Context, lexiconSpecifier string, s Synset) (Synset, error) {
	return e.engine.CreateSynset(ctx, lexiconSpecifier, s)
}

func (e *Editor) GetSynset(ctx context.Context, lexiconSpecifier, synsetID string) (Synset, error) {
	return e.engine.GetSynset(ctx, lexiconSpecifier, synsetID)
}

func (e *Editor) UpdateSynset(ctx context.Context, lexiconSpecifier, synsetID string, s Synset) (Synset, error) {
	return e.engine.UpdateSynset(ctx, lexiconSpecifier, synsetID, s)
}

func (e *Editor) DeleteSynset(ctx context.Context, lexiconSpecifier, synsetID string, cascade bool) error {
	return e.engine.DeleteSynset(ctx, lexiconSpecifier, synsetID, cascade)
}

func (e *Editor) SetProposedILI(ctx context.Context, lexiconSpecifier, synsetID, definition string) error {
	return e.engine.SetProposedILI(ctx, lexiconSpecifier, synsetID, definition)
}

func (e *Editor) AddDefinition(ctx context.Context, lexiconSpecifier, synsetID string, d Definition) error {
	return e.engine.AddDefinition(ctx, lexiconSpecifier, synsetID, d)
}

func (e *Editor) AddSynsetExample(ctx context.Context, lexiconSpecifier, synsetID, text, language string) error {
	return e.engine.AddSynsetExample(ctx, lexiconSpecifier, synsetID, text, language)
}

// --- Entry ---

func (e *Editor) CreateEntry(ctx context.Context, lexiconSpecifier string, ent Entry, lemma string) (Entry, error) {
	return e.engine.CreateEntry(ctx, lexiconSpecifier, ent, lemma)
}

func (e *Editor) GetEntry(ctx context.Context, lexiconSpecifier, entryID string) (Entry, []Form, error) {
	return e.engine.GetEntry(ctx, lexiconSpecifier, entryID)
}

func (e *Editor) DeleteEntry(ctx context.Context, lexiconSpecifier, entryID string, cascade bool) error {
	return e.engine.DeleteEntry(ctx, lexiconSpecifier, entryID, cascade)
}

func (e *Editor) AddForm(ctx context.Context, lexiconSpecifier, entryID string, f Form) error {
	return e.engine.AddForm(ctx, lexiconSpecifier, entryID, f)
}

func (e *Editor) RemoveForm(ctx context.Context, lexiconSpecifier, entryID string, rank int) error {
	return e.engine.RemoveForm(ctx, lexiconSpecifier, entryID, rank)
}

func (e *Editor) UpdateLemma(ctx context.Context, lexiconSpecifier, entryID, writtenForm string) error {
	return e.engine.UpdateLemma(ctx, lexiconSpecifier, entryID, writtenForm)
}

func (e *Editor) AddPronunciation(ctx context.Context, lexiconSpecifier, entryID string, p Pronunciation) error {
	return e.engine.AddPronunciation(ctx, lexiconSpecifier, entryID, p)
}

func (e *Editor) AddTag(ctx context.Context, lexiconSpecifier, entryID, category, text string) error {
	return e.engine.AddTag(ctx, lexiconSpecifier, entryID, category, text)
}

// --- Sense ---

func (e *Editor) AddSense(ctx context.Context, lexiconSpecifier, entryID, synsetID string, s Sense) (Sense, error) {
	return e.engine.AddSense(ctx, lexiconSpecifier, entryID, synsetID, s)
}

func (e *Editor) RemoveSense(ctx context.Context, lexiconSpecifier, senseID string) error {
	return e.engine.RemoveSense(ctx, lexiconSpecifier, senseID)
}

func (e *Editor) AddCount(ctx context.Context, lexiconSpecifier, senseID string, c Count) error {
	return e.engine.AddCount(ctx, lexiconSpecifier, senseID, c)
}

func (e *Editor) AddSenseExample(ctx context.Context, lexiconSpecifier, senseID, text, language string) error {
	return e.engine.AddSenseExample(ctx, lexiconSpecifier, senseID, text, language)
}

func (e *Editor) LinkSyntacticBehaviour(ctx context.Context, lexiconSpecifier, sbID, frame, senseID string) error {
	return e.engine.LinkSyntacticBehaviour(ctx, lexiconSpecifier, sbID, frame, senseID)
}

// --- Relations ---

func (e *Editor) AddRelation(ctx context.Context, lexiconSpecifier string, space RelationSpace, src, typ, tgt string, metadata Metadata) error {
	return e.engine.AddRelation(ctx, lexiconSpecifier, space, src, typ, tgt, metadata)
}

func (e *Editor) RemoveRelation(ctx context.Context, lexiconSpecifier string, space RelationSpace, src, typ, tgt string) error {
	return e.engine.RemoveRelation(ctx, lexiconSpecifier, space, src, typ, tgt)
}

// --- Compound operations ---

func (e *Editor) MergeSynsets(ctx context.Context, lexiconSpecifier, sourceID, targetID string) (Synset, error) {
	return e.compound.Merge(ctx, lexiconSpecifier, sourceID, targetID)
}

func (e *Editor) SplitSynset(ctx context.Context, lexiconSpecifier, originalID string, groups [][]string) ([]Synset, error) {
	return e.compound.Split(ctx, lexiconSpecifier, originalID, groups)
}

func (e *Editor) MoveSense(ctx context.Context, lexiconSpecifier, senseID, newSynsetID string) (Sense, error) {
	return e.compound.MoveSense(ctx, lexiconSpecifier, senseID, newSynsetID)
}

// --- History ---

func (e *Editor) HistoryForEntity(ctx context.Context, entityKind, entityID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := e.store.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		entries, err := history.NewLog(e.store).ForEntity(tx, entityKind, entityID)
		out = entries
		return err
	})
	return out, err
}

func (e *Editor) HistoryInRange(ctx context.Context, fromRFC3339, toRFC3339 string) ([]HistoryEntry, error) {
	from, err := time.Parse(time.RFC3339, fromRFC3339)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(time.RFC3339, toRFC3339)
	if err != nil {
		return nil, err
	}
	var out []HistoryEntry
	err = e.store.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		entries, err := history.NewLog(e.store).InRange(tx, from, to)
		out = entries
		return err
	})
	return out, err
}

func (e *Editor) HistoryForTransaction(ctx context.Context, txnID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := e.store.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		entries, err := history.NewLog(e.store).ForTransaction(tx, txnID)
		out = entries
		return err
	})
	return out, err
}

// --- Import / Export / Validate / Commit ---

// Import ingests a parsed WN-LMF document.
func (e *Editor) Import(ctx context.Context, doc *lmf.LexicalResource) error {
	return e.importer.Import(ctx, doc)
}

// ImportReader decodes r as a WN-LMF document and imports it.
func (e *Editor) ImportReader(ctx context.Context, r io.Reader) error {
	doc, err := lmf.Decode(r)
	if err != nil {
		return err
	}
	return e.Import(ctx, doc)
}

// Export reconstructs lexiconSpecifier as a WN-LMF document, validating it
// first. WARNING findings are returned alongside a successful document;
// any ERROR finding fails the export.
func (e *Editor) Export(ctx context.Context, lexiconSpecifier string) (*lmf.LexicalResource, []Finding, error) {
	return e.exporter.Export(ctx, lexiconSpecifier)
}

// ExportVersion reconstructs lexiconSpecifier in targetVersion
// (lmf.Version14 or lmf.Version10). Downgrading to 1.0 drops data the
// format can't represent (lexfiles, sense counts) and reports it as
// WARNING findings alongside the document.
func (e *Editor) ExportVersion(ctx context.Context, lexiconSpecifier, targetVersion string) (*lmf.LexicalResource, []Finding, error) {
	return e.exporter.ExportVersion(ctx, lexiconSpecifier, targetVersion)
}

// Validate runs the read-only rule catalogue over lexiconSpecifier without
// exporting anything.
func (e *Editor) Validate(ctx context.Context, lexiconSpecifier string) ([]Finding, error) {
	return validate.Validate(ctx, e.store, lexiconSpecifier)
}

// Commit exports lexiconSpecifier and hands it off to sink via the
// remove-then-add protocol.
func (e *Editor) Commit(ctx context.Context, lexiconSpecifier string, sink Sink) error {
	return commit.New(e.exporter, sink, e.log).Commit(ctx, lexiconSpecifier)
}
