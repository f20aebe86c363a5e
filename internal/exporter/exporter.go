// Package exporter reconstructs a WN-LMF tree from the store, validating it
// before emission. Each synset, entry and sense and their child rows are
// read with separate per-row queries; nothing is fetched through bulk
// joins, so the query count grows with the lexicon's size. Export aborts on any ERROR-severity
// validation finding; WARNING findings are returned alongside the document
// for the caller to surface.
package exporter

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/importer"
	"github.com/lexkit/wneditor/internal/lmf"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
	"github.com/lexkit/wneditor/internal/validate"
)

// Exporter reconstructs an LMF tree from a store.
type Exporter struct {
	store *store.Store
	log   *zap.Logger
}

// New constructs an Exporter reading from s.
func New(s *store.Store, log *zap.Logger) *Exporter {
	return &Exporter{store: s, log: log}
}

// Export reconstructs lexiconSpecifier as a WN-LMF 1.4 document.
func (ex *Exporter) Export(ctx context.Context, lexiconSpecifier string) (*lmf.LexicalResource, []validate.Finding, error) {
	return ex.ExportVersion(ctx, lexiconSpecifier, lmf.Version14)
}

// ExportVersion reconstructs lexiconSpecifier as an LMF document in
// targetVersion (spec.md §4.6), validates it, and fails with an export
// error if any ERROR-severity finding survives. When targetVersion is
// lmf.Version10, data unrepresentable in WN-LMF 1.0 (lexfiles, sense
// counts) is dropped from the document and a WARNING finding per kind of
// data dropped is appended to the returned findings. Once serialized, the
// emission is re-parsed and revalidated from scratch — a defect in the
// serializer or decoder that the store-side check can't see still aborts
// the export — before control returns to the caller.
func (ex *Exporter) ExportVersion(ctx context.Context, lexiconSpecifier, targetVersion string) (*lmf.LexicalResource, []validate.Finding, error) {
	var doc *lmf.LexicalResource
	var findings []validate.Finding
	err := ex.store.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		lex, lexKey, err := tx.ResolveLexicon(lexiconSpecifier)
		if err != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		ex.log.Info("exporting lexicon", zap.String("id", lex.ID))

		built, err := ex.buildLexicon(tx, lexKey, lex)
		if err != nil {
			return err
		}

		findings, err = validate.NewRuleset().Check(tx, lexKey, lex.ID)
		if err != nil {
			return apperr.Database("run validation", err)
		}
		for _, f := range findings {
			if f.Severity == validate.SeverityError {
				return apperr.Export(fmt.Sprintf("validation failed: %s", f.Message), nil)
			}
		}

		doc = &lmf.LexicalResource{Lexicons: []lmf.Lexicon{*built}}
		return nil
	})
	if err != nil {
		ex.log.Warn("export failed", zap.String("lexicon", lexiconSpecifier), zap.Error(err))
		return nil, nil, err
	}

	if targetVersion == lmf.Version10 {
		for _, diag := range lmf.DowngradeToV10(doc) {
			findings = append(findings, validate.Finding{
				Rule: "version-downgrade-data-dropped", Severity: validate.SeverityWarning,
				EntityKind: "lexicon", EntityID: doc.Lexicons[0].ID, Message: diag,
			})
		}
	}

	reparseFindings, err := ex.reparseAndRevalidate(ctx, doc)
	if err != nil {
		ex.log.Warn("export failed re-parse revalidation", zap.String("lexicon", lexiconSpecifier), zap.Error(err))
		return nil, nil, err
	}
	findings = append(findings, reparseFindings...)
	return doc, findings, nil
}

// reparseAndRevalidate serializes doc, decodes it back, imports the
// decoded copy into a scratch in-memory store, and reruns the full rule
// catalogue over it. This is the only way to catch a defect in Encode or
// Decode themselves — the store-side check above never touches the wire
// format. Any ERROR-severity finding here aborts the export exactly like
// one found on the store-side pass.
func (ex *Exporter) reparseAndRevalidate(ctx context.Context, doc *lmf.LexicalResource) ([]validate.Finding, error) {
	data, err := lmf.EncodeBytes(doc)
	if err != nil {
		return nil, apperr.Export("encode document for re-parse", err)
	}
	reparsed, err := lmf.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Export("re-parse emitted document", err)
	}

	scratch, err := store.Open(":memory:")
	if err != nil {
		return nil, apperr.Database("open scratch store for revalidation", err)
	}
	defer scratch.Close()

	scratchEngine := engine.New(scratch, engine.DefaultConfig(), ex.log)
	if err := importer.New(scratchEngine).Import(ctx, reparsed); err != nil {
		return nil, apperr.Export(fmt.Sprintf("re-parsed emission failed to reimport: %v", err), nil)
	}

	var findings []validate.Finding
	err = scratch.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		_, lexKey, rerr := tx.ResolveLexicon(reparsed.Lexicons[0].ID)
		if rerr != nil {
			return rerr
		}
		findings, rerr = validate.NewRuleset().Check(tx, lexKey, reparsed.Lexicons[0].ID)
		return rerr
	})
	if err != nil {
		return nil, apperr.Database("revalidate re-parsed document", err)
	}
	for _, f := range findings {
		if f.Severity == validate.SeverityError {
			return nil, apperr.Export(fmt.Sprintf("re-parsed emission failed validation: %s", f.Message), nil)
		}
	}
	return findings, nil
}

func (ex *Exporter) buildLexicon(tx *store.Tx, lexKey int64, lex model.Lexicon) (*lmf.Lexicon, error) {
	built := &lmf.Lexicon{
		ID: lex.ID, Label: lex.Label, Language: lex.Language, Email: lex.Email,
		License: lex.License, Version: lex.Version, URL: lex.URL, Citation: lex.Citation, Logo: lex.Logo,
	}
	for _, req := range lex.Requires {
		built.Requires = append(built.Requires, lmf.Requires{ID: req.ID, Version: req.Version, URL: req.URL})
	}
	for _, ext := range lex.Extends {
		built.Extends = append(built.Extends, lmf.Extends{ID: ext.ID, Version: ext.Version, URL: ext.URL})
	}

	synsetKeys, err := tx.ListSynsetsByLexicon(lexKey)
	if err != nil {
		return nil, apperr.Database("list synsets", err)
	}
	synsetIDByKey := map[int64]string{}
	for _, sk := range synsetKeys {
		syn, err := tx.GetSynset(sk)
		if err != nil {
			return nil, apperr.Database("get synset", err)
		}
		synsetIDByKey[sk] = syn.ID
	}
	for _, sk := range synsetKeys {
		syn, err := tx.GetSynset(sk)
		if err != nil {
			return nil, apperr.Database("get synset", err)
		}
		out := lmf.Synset{ID: syn.ID, ILI: syn.ILI, PartOfSpeech: string(syn.PartOfSpeech), Lexfile: syn.Lexfile}
		if syn.ILI == model.ProposedILISentinel {
			out.ILI = ""
			if def, found, derr := tx.GetProposedILI(sk); derr != nil {
				return nil, apperr.Database("get proposed ili", derr)
			} else if found {
				out.ILIDefinition = &lmf.ILIDefinition{Text: def}
			}
		}
		defs, err := tx.ListDefinitions(sk)
		if err != nil {
			return nil, apperr.Database("list definitions", err)
		}
		for _, d := range defs {
			out.Definitions = append(out.Definitions, lmf.Definition{Text: d.Text, Language: d.Language, SourceSense: d.SourceSenseID})
		}
		exs, err := tx.ListSynsetExamples(sk)
		if err != nil {
			return nil, apperr.Database("list examples", err)
		}
		for _, e := range exs {
			out.Examples = append(out.Examples, lmf.Example{Text: e.Text, Language: e.Language})
		}
		rels, err := tx.ListOutgoingSynsetRelations(sk)
		if err != nil {
			return nil, apperr.Database("list synset relations", err)
		}
		for _, r := range rels {
			out.Relations = append(out.Relations, lmf.SynsetRelation{Target: r.Target, RelType: r.Type})
		}
		built.Synsets = append(built.Synsets, out)
	}

	entryKeys, err := tx.ListEntryKeysByLexicon(lexKey)
	if err != nil {
		return nil, apperr.Database("list entries", err)
	}
	for _, ek := range entryKeys {
		ent, err := tx.GetEntry(ek)
		if err != nil {
			return nil, apperr.Database("get entry", err)
		}
		out := lmf.LexicalEntry{ID: ent.ID}
		forms, formKeys, err := tx.ListForms(ek)
		if err != nil {
			return nil, apperr.Database("list forms", err)
		}
		for i, f := range forms {
			pronunciations, err := tx.ListPronunciations(formKeys[i])
			if err != nil {
				return nil, apperr.Database("list pronunciations", err)
			}
			var lp []lmf.Pronunciation
			for _, p := range pronunciations {
				lp = append(lp, lmf.Pronunciation{Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: p.Phonemic, Audio: p.Audio})
			}
			if f.Rank == 0 {
				out.Lemma = lmf.Lemma{WrittenForm: f.Written, PartOfSpeech: string(ent.PartOfSpeech), Script: f.Script, Pronunciations: lp}
				continue
			}
			tags, err := tx.ListTags(formKeys[i])
			if err != nil {
				return nil, apperr.Database("list tags", err)
			}
			var lt []lmf.Tag
			for _, t := range tags {
				lt = append(lt, lmf.Tag{Category: t.Category, Text: t.Text})
			}
			out.Forms = append(out.Forms, lmf.Form{ID: f.ID, WrittenForm: f.Written, Script: f.Script, Pronunciations: lp, Tags: lt})
		}

		senseKeys, err := tx.ListSensesByEntry(ek)
		if err != nil {
			return nil, apperr.Database("list senses", err)
		}
		for _, sk := range senseKeys {
			sense, _, synsetKey, err := tx.GetSense(sk)
			if err != nil {
				return nil, apperr.Database("get sense", err)
			}
			ls := lmf.Sense{ID: sense.ID, Synset: synsetIDByKey[synsetKey], AdjPosition: string(sense.AdjPosition)}
			counts, err := tx.ListCounts(sk)
			if err != nil {
				return nil, apperr.Database("list counts", err)
			}
			for _, c := range counts {
				ls.Counts = append(ls.Counts, lmf.Count{Value: c.Value})
			}
			exs, err := tx.ListSenseExamples(sk)
			if err != nil {
				return nil, apperr.Database("list sense examples", err)
			}
			for _, e := range exs {
				ls.Examples = append(ls.Examples, lmf.Example{Text: e.Text, Language: e.Language})
			}
			senseRels, err := tx.ListOutgoingSenseRelations(sk)
			if err != nil {
				return nil, apperr.Database("list sense relations", err)
			}
			for _, r := range senseRels {
				ls.SenseRelations = append(ls.SenseRelations, lmf.SenseRelation{Target: r.Target, RelType: r.Type})
			}
			senseSynsetRels, err := tx.ListOutgoingSenseSynsetRelations(sk)
			if err != nil {
				return nil, apperr.Database("list sense-synset relations", err)
			}
			for _, r := range senseSynsetRels {
				ls.SenseSynsetRelations = append(ls.SenseSynsetRelations, lmf.SenseSynsetRelation{Target: r.Target, RelType: r.Type})
			}
			out.Senses = append(out.Senses, ls)
		}
		built.Entries = append(built.Entries, out)
	}

	sbKeys, sbs, err := tx.ListSyntacticBehavioursByLexicon(lexKey)
	if err != nil {
		return nil, apperr.Database("list syntactic behaviours", err)
	}
	for i, sb := range sbs {
		senseIDs, err := tx.ListSenseIDsBySyntacticBehaviour(sbKeys[i])
		if err != nil {
			return nil, apperr.Database("list syntactic behaviour senses", err)
		}
		built.SynBehavs = append(built.SynBehavs, lmf.SyntacticBehaviour{
			ID: sb.ID, SubcategorizationFrame: sb.SubcategorizationFrame, Senses: joinSpace(senseIDs),
		})
	}

	return built, nil
}

// joinSpace joins ids with a single space, the inverse of the importer's
// splitSpace.
func joinSpace(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += " "
		}
		out += id
	}
	return out
}
