package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// CreateLexicon inserts a new lexicon. Fails with duplicate-entity if one
// with the same id already exists — at most one lexicon per id may coexist.
func (e *Engine) CreateLexicon(ctx context.Context, l model.Lexicon) (model.Lexicon, error) {
	err := e.batch(ctx, "CreateLexicon", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		if _, _, rerr := tx.ResolveLexicon(l.ID); rerr == nil {
			return apperr.DuplicateEntity("lexicon", l.ID)
		}
		if _, ierr := tx.InsertLexicon(l); ierr != nil {
			if store.IsUniqueViolation(ierr) {
				return apperr.DuplicateEntity("lexicon", l.ID)
			}
			return apperr.Database("insert lexicon", ierr)
		}
		rec.Record("lexicon", l.ID, "", history.OpCreate, "", toJSON(l))
		return nil
	})
	if err != nil {
		e.log.Warn("CreateLexicon failed", zap.String("entity_id", l.ID), zap.Error(err))
		return model.Lexicon{}, err
	}
	return l, nil
}

// GetLexicon resolves a lexicon by bare id or "id:version" specifier.
func (e *Engine) GetLexicon(ctx context.Context, specifier string) (model.Lexicon, error) {
	var result model.Lexicon
	err := e.batch(ctx, "GetLexicon", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		l, _, rerr := tx.ResolveLexicon(specifier)
		if rerr != nil {
			return apperr.EntityNotFound("lexicon", specifier)
		}
		result = l
		return nil
	})
	return result, err
}

// UpdateLexicon replaces a lexicon's mutable attributes.
func (e *Engine) UpdateLexicon(ctx context.Context, specifier string, updated model.Lexicon) (model.Lexicon, error) {
	var result model.Lexicon
	err := e.batch(ctx, "UpdateLexicon", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		prior, key, rerr := tx.ResolveLexicon(specifier)
		if rerr != nil {
			return apperr.EntityNotFound("lexicon", specifier)
		}
		updated.ID, updated.Version = prior.ID, prior.Version
		if uerr := tx.UpdateLexicon(key, updated); uerr != nil {
			return apperr.Database("update lexicon", uerr)
		}
		rec.Record("lexicon", prior.ID, "", history.OpUpdate, toJSON(prior), toJSON(updated))
		result = updated
		return nil
	})
	if err != nil {
		e.log.Warn("UpdateLexicon failed", zap.String("entity_id", specifier), zap.Error(err))
	}
	return result, err
}

// DeleteLexicon removes a lexicon. With cascade=false, fails with a
// relation error if it still owns any synset or entry.
func (e *Engine) DeleteLexicon(ctx context.Context, specifier string, cascade bool) error {
	err := e.batch(ctx, "DeleteLexicon", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		prior, key, rerr := tx.ResolveLexicon(specifier)
		if rerr != nil {
			return apperr.EntityNotFound("lexicon", specifier)
		}
		synsetKeys, lerr := tx.ListSynsetsByLexicon(key)
		if lerr != nil {
			return apperr.Database("list synsets", lerr)
		}
		entryKeys, eerr := tx.ListEntryKeysByLexicon(key)
		if eerr != nil {
			return apperr.Database("list entries", eerr)
		}
		if !cascade && (len(synsetKeys) > 0 || len(entryKeys) > 0) {
			return apperr.Relation("lexicon", prior.ID, "lexicon still owns synsets or entries; use cascade")
		}
		for _, ek := range entryKeys {
			if derr := e.cascadeDeleteEntryByKey(tx, rec, key, ek); derr != nil {
				return derr
			}
		}
		for _, sk := range synsetKeys {
			if derr := e.cascadeDeleteSynsetByKey(tx, rec, key, sk); derr != nil {
				return derr
			}
		}
		if derr := tx.DeleteLexicon(key); derr != nil {
			return apperr.Database("delete lexicon", derr)
		}
		rec.Record("lexicon", prior.ID, "", history.OpDelete, toJSON(prior), "")
		return nil
	})
	if err != nil {
		e.log.Warn("DeleteLexicon failed", zap.String("entity_id", specifier), zap.Error(err))
	}
	return err
}
