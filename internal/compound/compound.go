// Package compound implements the three atomic multi-step mutations that
// don't fit the per-entity CRUD shape: merge-synsets, split-synset, and
// move-sense. Each runs inside one transaction via the engine's Batch
// wiring, so a failure partway through leaves the store untouched.
package compound

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// Compound wraps an Engine with the three compound operations.
type Compound struct {
	eng *engine.Engine
}

// New constructs a Compound operating over eng's store.
func New(eng *engine.Engine) *Compound {
	return &Compound{eng: eng}
}

// Merge repoints every sense and relation of source onto target, appends
// source's definitions/examples to target, resolves the ILI conflict (fails
// if both carry a concrete ILI), and deletes source. One transaction.
func (c *Compound) Merge(ctx context.Context, lexiconSpecifier, sourceID, targetID string) (model.Synset, error) {
	var result model.Synset
	err := c.eng.Batch(ctx, "Merge", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		srcKey, serr := tx.SynsetKey(lexKey, sourceID)
		if serr != nil {
			return apperr.EntityNotFound("synset", sourceID)
		}
		tgtKey, terr := tx.SynsetKey(lexKey, targetID)
		if terr != nil {
			return apperr.EntityNotFound("synset", targetID)
		}
		if srcKey == tgtKey {
			return apperr.Validation("synset", sourceID, "cannot merge a synset into itself")
		}
		src, gerr := tx.GetSynset(srcKey)
		if gerr != nil {
			return apperr.Database("get source synset", gerr)
		}
		tgt, gerr := tx.GetSynset(tgtKey)
		if gerr != nil {
			return apperr.Database("get target synset", gerr)
		}

		// ILI resolution.
		if src.ILI != "" && src.ILI != model.ProposedILISentinel && tgt.ILI != "" && tgt.ILI != model.ProposedILISentinel {
			return apperr.Conflict("synset", targetID, "both merge operands carry a concrete ILI")
		}
		if (src.ILI != "" && src.ILI != model.ProposedILISentinel) && (tgt.ILI == "" || tgt.ILI == model.ProposedILISentinel) {
			tgt.ILI = src.ILI
			if uerr := tx.UpdateSynset(tgtKey, tgt); uerr != nil {
				return apperr.Database("transfer ili", uerr)
			}
		}

		// Repoint every sense from source to the end of target's member list.
		srcSenseKeys, err := tx.ListSensesBySynset(srcKey)
		if err != nil {
			return apperr.Database("list source senses", err)
		}
		tgtSenseKeys, err := tx.ListSensesBySynset(tgtKey)
		if err != nil {
			return apperr.Database("list target senses", err)
		}
		nextRank := len(tgtSenseKeys) + 1
		for _, sk := range srcSenseKeys {
			if rerr := tx.RebindSenseSynset(sk, tgtKey, nextRank); rerr != nil {
				return apperr.Database("rebind sense", rerr)
			}
			nextRank++
		}

		// Repoint relations, deduplicating triples that collapse after
		// repointing (both directions: source as source, source as target).
		if err := repointSynsetRelations(tx, srcKey, tgtKey); err != nil {
			return err
		}

		// Append definitions and examples.
		defs, err := tx.ListDefinitions(srcKey)
		if err != nil {
			return apperr.Database("list definitions", err)
		}
		for _, d := range defs {
			if _, ierr := tx.InsertDefinition(tgtKey, d); ierr != nil {
				return apperr.Database("copy definition", ierr)
			}
		}
		exs, err := tx.ListSynsetExamples(srcKey)
		if err != nil {
			return apperr.Database("list examples", err)
		}
		for _, ex := range exs {
			if _, ierr := tx.InsertSynsetExample(tgtKey, ex.Text, ex.Language); ierr != nil {
				return apperr.Database("copy example", ierr)
			}
		}

		if rerr := c.eng.RecomputeLexicalized(tx, tgtKey); rerr != nil {
			return rerr
		}
		if derr := c.eng.CascadeDeleteSynset(tx, rec, lexKey, srcKey); derr != nil {
			return derr
		}

		final, gerr := tx.GetSynset(tgtKey)
		if gerr != nil {
			return apperr.Database("get merged synset", gerr)
		}
		result = final
		return nil
	})
	if err != nil {
		c.eng.Log().Warn("Merge failed", zap.String("entity_id", sourceID), zap.Error(err))
	}
	return result, err
}

// repointSynsetRelations moves every synset_relations edge incident to
// srcKey (as either source or target) onto tgtKey, dropping any edge that
// would become a self-loop or a duplicate of one already present at
// tgtKey after repointing.
func repointSynsetRelations(tx *store.Tx, srcKey, tgtKey int64) error {
	outgoing, err := tx.ListOutgoingSynsetRelationKeys(srcKey)
	if err != nil {
		return apperr.Database("list outgoing relations", err)
	}
	incoming, err := tx.ListIncomingSynsetRelationKeys(srcKey)
	if err != nil {
		return apperr.Database("list incoming relations", err)
	}
	if err := tx.DeleteRelationsForSynset(srcKey); err != nil {
		return apperr.Database("clear source relations", err)
	}
	for _, kr := range outgoing {
		if kr.OtherKey == tgtKey {
			continue
		}
		if err := insertIfAbsent(tx, model.RelationSynsetToSynset, tgtKey, kr.Type, kr.OtherKey, kr.Metadata); err != nil {
			return err
		}
	}
	for _, kr := range incoming {
		if kr.OtherKey == tgtKey {
			continue
		}
		if err := insertIfAbsent(tx, model.RelationSynsetToSynset, kr.OtherKey, kr.Type, tgtKey, kr.Metadata); err != nil {
			return err
		}
	}
	return nil
}

func insertIfAbsent(tx *store.Tx, space model.RelationSpace, srcKey int64, typ string, tgtKey int64, meta model.Metadata) error {
	exists, err := tx.RelationExists(space, srcKey, typ, tgtKey)
	if err != nil {
		return apperr.Database("check relation exists", err)
	}
	if exists {
		return nil
	}
	if err := tx.InsertRelation(space, srcKey, typ, tgtKey, meta); err != nil && !store.IsUniqueViolation(err) {
		return apperr.Database("insert repointed relation", err)
	}
	return nil
}
