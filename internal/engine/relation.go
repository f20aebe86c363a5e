package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/relation"
	"github.com/lexkit/wneditor/internal/store"
)

// resolveRelationEndpoint resolves a public id to its surrogate key,
// looking it up as a synset when wantSynset is set and as a sense otherwise.
func (e *Engine) resolveRelationEndpoint(tx *store.Tx, space model.RelationSpace, lexKey int64, id string, wantSynset bool) (int64, string, error) {
	if wantSynset {
		key, err := tx.SynsetKey(lexKey, id)
		return key, "synset", err
	}
	key, err := tx.SenseKey(lexKey, id)
	return key, "sense", err
}

// AddRelation inserts (src, type, tgt). With auto-inverse enabled (the
// default), it also inserts the catalogue inverse edge, inheriting the
// forward edge's metadata. A pre-existing edge (forward or inverse) is not
// an error — the insert is ignored for that direction only.
func (e *Engine) AddRelation(ctx context.Context, lexiconSpecifier string, space model.RelationSpace, src, typ, tgt string, metadata model.Metadata) error {
	err := e.batch(ctx, "AddRelation", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		if src == tgt {
			return apperr.Validation("relation", src, "self-loop relations are forbidden")
		}
		if !relation.IsValidType(space, typ) {
			return apperr.Validation("relation", typ, "not a recognized relation type for this space")
		}
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}

		// sense->synset space is asymmetric in kind (source is a sense,
		// target is a synset); the other two spaces are homogeneous.
		srcIsSynset := space == model.RelationSynsetToSynset
		tgtIsSynset := space == model.RelationSynsetToSynset || space == model.RelationSenseToSynset

		srcKey, srcKind, serr := e.resolveRelationEndpoint(tx, space, lexKey, src, srcIsSynset)
		if serr != nil {
			return apperr.EntityNotFound(srcKind, src)
		}
		tgtKey, tgtKind, terr := e.resolveRelationEndpoint(tx, space, lexKey, tgt, tgtIsSynset)
		if terr != nil {
			return apperr.EntityNotFound(tgtKind, tgt)
		}

		forwardExisted, eerr := tx.RelationExists(space, srcKey, typ, tgtKey)
		if eerr != nil {
			return apperr.Database("check relation exists", eerr)
		}
		if !forwardExisted {
			if ierr := tx.InsertRelation(space, srcKey, typ, tgtKey, metadata); ierr != nil && !store.IsUniqueViolation(ierr) {
				return apperr.Database("insert relation", ierr)
			}
			rec.Record("relation", src, typ, history.OpCreate, "", toJSON(tgt))
		}

		if !e.cfg.AutoInverse || space == model.RelationSenseToSynset {
			return nil
		}
		inverseType, hasInverse := relation.InverseOf(space, typ)
		if typ == "also" && e.cfg.TreatAlsoAsSymmetric {
			inverseType, hasInverse = "also", true
		}
		if !hasInverse {
			return nil
		}
		inverseExisted, ieerr := tx.RelationExists(space, tgtKey, inverseType, srcKey)
		if ieerr != nil {
			return apperr.Database("check inverse relation exists", ieerr)
		}
		if inverseExisted {
			return nil
		}
		if ierr := tx.InsertRelation(space, tgtKey, inverseType, srcKey, metadata); ierr != nil && !store.IsUniqueViolation(ierr) {
			return apperr.Database("insert inverse relation", ierr)
		}
		rec.Record("relation", tgt, inverseType, history.OpCreate, "", toJSON(src))
		return nil
	})
	if err != nil {
		e.log.Warn("AddRelation failed", zap.String("entity_id", src), zap.String("entity_kind", string(typ)), zap.Error(err))
	}
	return err
}

// RemoveRelation removes (src, type, tgt), and — with auto-inverse
// enabled — the catalogue inverse edge as well.
func (e *Engine) RemoveRelation(ctx context.Context, lexiconSpecifier string, space model.RelationSpace, src, typ, tgt string) error {
	err := e.batch(ctx, "RemoveRelation", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		srcIsSynset := space == model.RelationSynsetToSynset
		tgtIsSynset := space == model.RelationSynsetToSynset || space == model.RelationSenseToSynset

		srcKey, srcKind, serr := e.resolveRelationEndpoint(tx, space, lexKey, src, srcIsSynset)
		if serr != nil {
			return apperr.EntityNotFound(srcKind, src)
		}
		tgtKey, tgtKind, terr := e.resolveRelationEndpoint(tx, space, lexKey, tgt, tgtIsSynset)
		if terr != nil {
			return apperr.EntityNotFound(tgtKind, tgt)
		}
		if derr := tx.DeleteRelation(space, srcKey, typ, tgtKey); derr != nil {
			return apperr.Database("delete relation", derr)
		}
		rec.Record("relation", src, typ, history.OpDelete, toJSON(tgt), "")

		if !e.cfg.AutoInverse || space == model.RelationSenseToSynset {
			return nil
		}
		inverseType, hasInverse := relation.InverseOf(space, typ)
		if typ == "also" && e.cfg.TreatAlsoAsSymmetric {
			inverseType, hasInverse = "also", true
		}
		if !hasInverse {
			return nil
		}
		if derr := tx.DeleteRelation(space, tgtKey, inverseType, srcKey); derr != nil {
			return apperr.Database("delete inverse relation", derr)
		}
		rec.Record("relation", tgt, inverseType, history.OpDelete, toJSON(src), "")
		return nil
	})
	if err != nil {
		e.log.Warn("RemoveRelation failed", zap.String("entity_id", src), zap.Error(err))
	}
	return err
}
