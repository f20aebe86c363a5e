package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// CreateEntry inserts a new entry with its lemma form (rank 0). If in.ID is
// empty, a lemma-stem id "<lexiconID>-<slug>" is generated from lemma; if
// that id is taken, the lowest available numeric suffix >= 2 is appended.
func (e *Engine) CreateEntry(ctx context.Context, lexiconSpecifier string, in model.Entry, lemma string) (model.Entry, error) {
	var result model.Entry
	err := e.batch(ctx, "CreateEntry", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		lex, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		if !model.IsValidPOS(string(in.PartOfSpeech)) {
			return apperr.Validation("entry", in.ID, "invalid part of speech")
		}
		if in.ID == "" {
			existing, eerr := tx.ListEntryIDsByStem(lexKey)
			if eerr != nil {
				return apperr.Database("list entry ids", eerr)
			}
			id, nerr := nextEntryID(lex.ID, lemma, existing)
			if nerr != nil {
				return apperr.Database("generate entry id", nerr)
			}
			in.ID = id
		}
		if perr := requirePrefix(lex.ID, in.ID, "entry"); perr != nil {
			return perr
		}
		entryKey, ierr := tx.InsertEntry(lexKey, in)
		if ierr != nil {
			if store.IsUniqueViolation(ierr) {
				return apperr.DuplicateEntity("entry", in.ID)
			}
			return apperr.Database("insert entry", ierr)
		}
		if _, ferr := tx.InsertForm(entryKey, model.Form{Written: lemma, Rank: 0}); ferr != nil {
			return apperr.Database("insert lemma form", ferr)
		}
		rec.Record("entry", in.ID, "", history.OpCreate, "", toJSON(in))
		result = in
		return nil
	})
	if err != nil {
		e.log.Warn("CreateEntry failed", zap.String("entity_id", in.ID), zap.Error(err))
	}
	return result, err
}

// GetEntry reads an entry and its forms by (lexicon, id).
func (e *Engine) GetEntry(ctx context.Context, lexiconSpecifier, entryID string) (model.Entry, []model.Form, error) {
	var resultEntry model.Entry
	var resultForms []model.Form
	err := e.batch(ctx, "GetEntry", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.EntryKey(lexKey, entryID)
		if kerr != nil {
			return apperr.EntityNotFound("entry", entryID)
		}
		ent, gerr := tx.GetEntry(key)
		if gerr != nil {
			return apperr.Database("get entry", gerr)
		}
		forms, _, ferr := tx.ListForms(key)
		if ferr != nil {
			return apperr.Database("list forms", ferr)
		}
		resultEntry, resultForms = ent, forms
		return nil
	})
	return resultEntry, resultForms, err
}

// AddForm appends a non-lemma form (rank >= 1) to an entry.
func (e *Engine) AddForm(ctx context.Context, lexiconSpecifier, entryID string, f model.Form) error {
	return e.batch(ctx, "AddForm", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.EntryKey(lexKey, entryID)
		if kerr != nil {
			return apperr.EntityNotFound("entry", entryID)
		}
		if f.Rank == 0 {
			return apperr.Validation("form", entryID, "rank 0 is reserved for the lemma; use UpdateLemma")
		}
		if _, ierr := tx.InsertForm(key, f); ierr != nil {
			return apperr.Database("insert form", ierr)
		}
		rec.Record("form", entryID, "written", history.OpCreate, "", toJSON(f))
		return nil
	})
}

// RemoveForm removes a non-lemma form. Rank 0 (the lemma) can never be
// removed directly — it can only be replaced via UpdateLemma.
func (e *Engine) RemoveForm(ctx context.Context, lexiconSpecifier, entryID string, rank int) error {
	return e.batch(ctx, "RemoveForm", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		if rank == 0 {
			return apperr.Validation("form", entryID, "the lemma form (rank 0) cannot be removed")
		}
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.EntryKey(lexKey, entryID)
		if kerr != nil {
			return apperr.EntityNotFound("entry", entryID)
		}
		forms, keys, ferr := tx.ListForms(key)
		if ferr != nil {
			return apperr.Database("list forms", ferr)
		}
		for i, f := range forms {
			if f.Rank == rank {
				if derr := tx.DeleteForm(keys[i]); derr != nil {
					return apperr.Database("delete form", derr)
				}
				rec.Record("form", entryID, "written", history.OpDelete, toJSON(f), "")
				return nil
			}
		}
		return apperr.EntityNotFound("form", entryID)
	})
}

// UpdateLemma replaces an entry's rank-0 form (the lemma) atomically —
// there is exactly one rank-0 row per entry, so this is a row update, not
// a delete+insert.
func (e *Engine) UpdateLemma(ctx context.Context, lexiconSpecifier, entryID, newLemma string) error {
	return e.batch(ctx, "UpdateLemma", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.EntryKey(lexKey, entryID)
		if kerr != nil {
			return apperr.EntityNotFound("entry", entryID)
		}
		forms, keys, ferr := tx.ListForms(key)
		if ferr != nil {
			return apperr.Database("list forms", ferr)
		}
		for i, f := range forms {
			if f.Rank == 0 {
				prior := f.Written
				if _, uerr := tx.Exec(`UPDATE forms SET written = ? WHERE form_key = ?`, newLemma, keys[i]); uerr != nil {
					return apperr.Database("update lemma", uerr)
				}
				rec.Record("form", entryID, "written", history.OpUpdate, toJSON(prior), toJSON(newLemma))
				return nil
			}
		}
		return apperr.EntityNotFound("form", entryID)
	})
}

// AddPronunciation attaches a pronunciation to an entry's rank-0 form.
func (e *Engine) AddPronunciation(ctx context.Context, lexiconSpecifier, entryID string, p model.Pronunciation) error {
	return e.batch(ctx, "AddPronunciation", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		formKey, ferr := e.lemmaFormKey(tx, lexiconSpecifier, entryID)
		if ferr != nil {
			return ferr
		}
		if _, ierr := tx.InsertPronunciation(formKey, p); ierr != nil {
			return apperr.Database("insert pronunciation", ierr)
		}
		rec.Record("pronunciation", entryID, "value", history.OpCreate, "", toJSON(p))
		return nil
	})
}

// AddTag attaches a tag to an entry's rank-0 form.
func (e *Engine) AddTag(ctx context.Context, lexiconSpecifier, entryID, category, text string) error {
	return e.batch(ctx, "AddTag", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		formKey, ferr := e.lemmaFormKey(tx, lexiconSpecifier, entryID)
		if ferr != nil {
			return ferr
		}
		if _, ierr := tx.InsertTag(formKey, category, text); ierr != nil {
			return apperr.Database("insert tag", ierr)
		}
		rec.Record("tag", entryID, "text", history.OpCreate, "", toJSON(text))
		return nil
	})
}

func (e *Engine) lemmaFormKey(tx *store.Tx, lexiconSpecifier, entryID string) (int64, error) {
	_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
	if lerr != nil {
		return 0, apperr.EntityNotFound("lexicon", lexiconSpecifier)
	}
	entryKey, kerr := tx.EntryKey(lexKey, entryID)
	if kerr != nil {
		return 0, apperr.EntityNotFound("entry", entryID)
	}
	forms, keys, ferr := tx.ListForms(entryKey)
	if ferr != nil {
		return 0, apperr.Database("list forms", ferr)
	}
	for i, f := range forms {
		if f.Rank == 0 {
			return keys[i], nil
		}
	}
	return 0, apperr.EntityNotFound("form", entryID)
}

// DeleteEntry removes an entry. With cascade=false, fails with a relation
// error if it still has senses.
func (e *Engine) DeleteEntry(ctx context.Context, lexiconSpecifier, entryID string, cascade bool) error {
	err := e.batch(ctx, "DeleteEntry", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		key, kerr := tx.EntryKey(lexKey, entryID)
		if kerr != nil {
			return apperr.EntityNotFound("entry", entryID)
		}
		n, cerr := tx.CountSensesByEntry(key)
		if cerr != nil {
			return apperr.Database("count senses", cerr)
		}
		if !cascade && n > 0 {
			return apperr.Relation("entry", entryID, "entry still has senses; use cascade")
		}
		return e.cascadeDeleteEntryByKey(tx, rec, lexKey, key)
	})
	if err != nil {
		e.log.Warn("DeleteEntry failed", zap.String("entity_id", entryID), zap.Error(err))
	}
	return err
}

// cascadeDeleteEntryByKey removes every sense owned by the entry (which
// themselves delete their sense relations, examples, counts, and syntactic
// behaviour links), each sense's owner synset's lexicalization flag is
// recomputed, then every form (and its pronunciations/tags), then the
// entry row itself.
func (e *Engine) cascadeDeleteEntryByKey(tx *store.Tx, rec *history.Recorder, lexiconKey, entryKey int64) error {
	ent, err := tx.GetEntry(entryKey)
	if err != nil {
		return apperr.Database("get entry", err)
	}

	senseKeys, err := tx.ListSensesByEntry(entryKey)
	if err != nil {
		return apperr.Database("list senses", err)
	}
	for _, sk := range senseKeys {
		sense, _, synsetKey, gerr := tx.GetSense(sk)
		if gerr != nil {
			return apperr.Database("get sense", gerr)
		}
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
		if rerr := e.recomputeLexicalized(tx, synsetKey); rerr != nil {
			return rerr
		}
	}

	_, keys, ferr := tx.ListForms(entryKey)
	if ferr != nil {
		return apperr.Database("list forms", ferr)
	}
	for _, fk := range keys {
		if derr := tx.DeleteForm(fk); derr != nil {
			return apperr.Database("delete form", derr)
		}
	}

	if derr := tx.DeleteEntryRow(entryKey, lexiconKey, ent.ID); derr != nil {
		return apperr.Database("delete entry", derr)
	}
	rec.Record("entry", ent.ID, "", history.OpDelete, toJSON(ent), "")
	return nil
}

// recomputeLexicalized sets a synset's derived lexicalized flag to
// (sense count > 0).
func (e *Engine) recomputeLexicalized(tx *store.Tx, synsetKey int64) error {
	n, err := tx.CountSenses(synsetKey)
	if err != nil {
		return apperr.Database("count senses", err)
	}
	if err := tx.SetLexicalized(synsetKey, n > 0); err != nil {
		return apperr.Database("set lexicalized", err)
	}
	return nil
}
