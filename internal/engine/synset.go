package engine

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// CreateSynset inserts a new synset. If in.ID is empty, a MAX+1 numeric
// suffix id is generated in the lexicon's namespace.
func (e *Engine) CreateSynset(ctx context.Context, lexiconSpecifier string, in model.Synset) (model.Synset, error) {
	var result model.Synset
	err := e.batch(ctx, "CreateSynset", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		lex, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		if !model.IsValidPOS(string(in.PartOfSpeech)) {
			return apperr.Validation("synset", in.ID, "invalid part of speech")
		}
		if in.ID == "" {
			maxSuffix, merr := tx.MaxSynsetNumericSuffix(lexKey)
			if merr != nil {
				return apperr.Database("resolve max synset suffix", merr)
			}
			in.ID = nextSynsetID(lex.ID, maxSuffix, in.PartOfSpeech)
		}
		if perr := requirePrefix(lex.ID, in.ID, "synset"); perr != nil {
			return perr
		}
		if in.ILI == model.ProposedILISentinel {
			return apperr.Validation("synset", in.ID, "use CreateSynsetWithProposedILI to set a proposed ILI definition")
		}
		if _, err := tx.InsertSynset(lexKey, in); err != nil {
			if store.IsUniqueViolation(err) {
				return apperr.DuplicateEntity("synset", in.ID)
			}
			return apperr.Database("insert synset", err)
		}
		rec.Record("synset", in.ID, "", history.OpCreate, "", toJSON(in))
		result = in
		return nil
	})
	if err != nil {
		e.log.Warn("CreateSynset failed", zap.String("entity_id", in.ID), zap.Error(err))
	}
	return result, err
}

// SetProposedILI attaches a pending ILI to a synset; the definition must be
// at least model.MinProposedILIDefinitionLength runes.
func (e *Engine) SetProposedILI(ctx context.Context, lexiconSpecifier, synsetID, definition string) error {
	err := e.batch(ctx, "SetProposedILI", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		if utf8.RuneCountInString(definition) < model.MinProposedILIDefinitionLength {
			return apperr.Validation("synset", synsetID, "proposed ILI definition must be at least 20 characters")
		}
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		synKey, serr := tx.SynsetKey(lexKey, synsetID)
		if serr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		syn, gerr := tx.GetSynset(synKey)
		if gerr != nil {
			return apperr.Database("get synset", gerr)
		}
		syn.ILI = model.ProposedILISentinel
		if uerr := tx.UpdateSynset(synKey, syn); uerr != nil {
			return apperr.Database("update synset", uerr)
		}
		if serr := tx.SetProposedILI(synKey, definition); serr != nil {
			return apperr.Database("set proposed ili", serr)
		}
		rec.Record("synset", synsetID, "proposed_ili", history.OpUpdate, "", toJSON(definition))
		return nil
	})
	if err != nil {
		e.log.Warn("SetProposedILI failed", zap.String("entity_id", synsetID), zap.Error(err))
	}
	return err
}

// GetSynset reads a synset by (lexicon, id).
func (e *Engine) GetSynset(ctx context.Context, lexiconSpecifier, synsetID string) (model.Synset, error) {
	var result model.Synset
	err := e.batch(ctx, "GetSynset", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		lex, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.SynsetKey(lexKey, synsetID)
		if kerr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		syn, gerr := tx.GetSynset(key)
		if gerr != nil {
			return apperr.Database("get synset", gerr)
		}
		syn.LexiconID = lex.ID
		result = syn
		return nil
	})
	return result, err
}

// UpdateSynset replaces a synset's mutable attributes (pos, ili, lexfile,
// metadata). Lexicalized is derived and ignored if set.
func (e *Engine) UpdateSynset(ctx context.Context, lexiconSpecifier, synsetID string, updated model.Synset) (model.Synset, error) {
	var result model.Synset
	err := e.batch(ctx, "UpdateSynset", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.SynsetKey(lexKey, synsetID)
		if kerr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		prior, gerr := tx.GetSynset(key)
		if gerr != nil {
			return apperr.Database("get synset", gerr)
		}
		if !model.IsValidPOS(string(updated.PartOfSpeech)) {
			return apperr.Validation("synset", synsetID, "invalid part of speech")
		}
		updated.ID = prior.ID
		updated.Lexicalized = prior.Lexicalized
		if uerr := tx.UpdateSynset(key, updated); uerr != nil {
			return apperr.Database("update synset", uerr)
		}
		rec.Record("synset", synsetID, "", history.OpUpdate, toJSON(prior), toJSON(updated))
		result = updated
		return nil
	})
	if err != nil {
		e.log.Warn("UpdateSynset failed", zap.String("entity_id", synsetID), zap.Error(err))
	}
	return result, err
}

// AddDefinition appends a definition to a synset.
func (e *Engine) AddDefinition(ctx context.Context, lexiconSpecifier, synsetID string, d model.Definition) error {
	return e.batch(ctx, "AddDefinition", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.SynsetKey(lexKey, synsetID)
		if kerr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		if _, ierr := tx.InsertDefinition(key, d); ierr != nil {
			return apperr.Database("insert definition", ierr)
		}
		rec.Record("definition", synsetID, "text", history.OpCreate, "", toJSON(d))
		return nil
	})
}

// AddSynsetExample appends an example to a synset.
func (e *Engine) AddSynsetExample(ctx context.Context, lexiconSpecifier, synsetID, text, language string) error {
	return e.batch(ctx, "AddSynsetExample", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.SynsetKey(lexKey, synsetID)
		if kerr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		if _, ierr := tx.InsertSynsetExample(key, text, language); ierr != nil {
			return apperr.Database("insert example", ierr)
		}
		rec.Record("example", synsetID, "text", history.OpCreate, "", toJSON(text))
		return nil
	})
}

// DeleteSynset removes a synset. With cascade=false, fails with a relation
// error if any sense still references it.
func (e *Engine) DeleteSynset(ctx context.Context, lexiconSpecifier, synsetID string, cascade bool) error {
	err := e.batch(ctx, "DeleteSynset", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.SynsetKey(lexKey, synsetID)
		if kerr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		n, cerr := tx.CountSenses(key)
		if cerr != nil {
			return apperr.Database("count senses", cerr)
		}
		if !cascade && n > 0 {
			return apperr.Relation("synset", synsetID, "synset still has senses; use cascade")
		}
		return e.cascadeDeleteSynsetByKey(tx, rec, lexKey, key)
	})
	if err != nil {
		e.log.Warn("DeleteSynset failed", zap.String("entity_id", synsetID), zap.Error(err))
	}
	return err
}

// cascadeDeleteSynsetByKey implements spec.md §4.3's cascade-deletion
// worklist for a synset: senses first (each deleting its own sense
// relations and examples), then the synset's own definitions, examples,
// relations (both directions), proposed ILI, and finally the row itself.
// The full child subtree is snapshotted into the history record's prior
// value before anything is removed, per Open Question 2.
func (e *Engine) cascadeDeleteSynsetByKey(tx *store.Tx, rec *history.Recorder, lexiconKey, synsetKey int64) error {
	syn, err := tx.GetSynset(synsetKey)
	if err != nil {
		return apperr.Database("get synset", err)
	}

	senseKeys, err := tx.ListSensesBySynset(synsetKey)
	if err != nil {
		return apperr.Database("list senses", err)
	}
	snapshot := struct {
		Synset      model.Synset
		Definitions []model.Definition
		Examples    []model.Example
		Relations   []model.Relation
		SenseIDs    []string
	}{Synset: syn}

	if snapshot.Definitions, err = tx.ListDefinitions(synsetKey); err != nil {
		return apperr.Database("list definitions", err)
	}
	if snapshot.Examples, err = tx.ListSynsetExamples(synsetKey); err != nil {
		return apperr.Database("list examples", err)
	}
	if snapshot.Relations, err = tx.ListOutgoingSynsetRelations(synsetKey); err != nil {
		return apperr.Database("list relations", err)
	}

	for _, sk := range senseKeys {
		sense, _, _, gerr := tx.GetSense(sk)
		if gerr != nil {
			return apperr.Database("get sense", gerr)
		}
		snapshot.SenseIDs = append(snapshot.SenseIDs, sense.ID)
		if derr := tx.DeleteRelationsForSense(sk); derr != nil {
			return apperr.Database("delete sense relations", derr)
		}
		if derr := tx.DeleteExamplesBySense(sk); derr != nil {
			return apperr.Database("delete sense examples", derr)
		}
		if derr := tx.DeleteSenseRow(sk, lexiconKey, sense.ID); derr != nil {
			return apperr.Database("delete sense", derr)
		}
		rec.Record("sense", sense.ID, "", history.OpDelete, toJSON(sense), "")
	}

	if err := tx.DeleteDefinitionsBySynset(synsetKey); err != nil {
		return apperr.Database("delete definitions", err)
	}
	if err := tx.DeleteExamplesBySynset(synsetKey); err != nil {
		return apperr.Database("delete synset examples", err)
	}
	if err := tx.DeleteRelationsForSynset(synsetKey); err != nil {
		return apperr.Database("delete synset relations", err)
	}
	if err := tx.DeleteProposedILI(synsetKey); err != nil {
		return apperr.Database("delete proposed ili", err)
	}
	if err := tx.DeleteSynsetRow(synsetKey, lexiconKey, syn.ID); err != nil {
		return apperr.Database("delete synset", err)
	}

	rec.Record("synset", syn.ID, "", history.OpDelete, toJSON(snapshot), "")
	return nil
}
