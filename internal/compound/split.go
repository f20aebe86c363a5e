package compound

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// Split partitions original's sense set across groups. The first group
// stays on original; each remaining group becomes a new synset copying
// original's pos/definitions/examples/outgoing relations. Incoming
// relations are not rewired — they keep pointing at original. ILI stays
// with original; copies start with none.
func (c *Compound) Split(ctx context.Context, lexiconSpecifier, originalID string, groups [][]string) ([]model.Synset, error) {
	var result []model.Synset
	err := c.eng.Batch(ctx, "Split", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		lex, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		origKey, oerr := tx.SynsetKey(lexKey, originalID)
		if oerr != nil {
			return apperr.EntityNotFound("synset", originalID)
		}
		if len(groups) == 0 {
			return apperr.Validation("synset", originalID, "split requires at least one group")
		}

		memberKeys, err := tx.ListSensesBySynset(origKey)
		if err != nil {
			return apperr.Database("list senses", err)
		}
		idToKey := map[string]int64{}
		for _, sk := range memberKeys {
			sense, _, _, gerr := tx.GetSense(sk)
			if gerr != nil {
				return apperr.Database("get sense", gerr)
			}
			idToKey[sense.ID] = sk
		}
		seen := map[string]bool{}
		for _, group := range groups {
			for _, senseID := range group {
				if _, ok := idToKey[senseID]; !ok {
					return apperr.Validation("sense", senseID, "not a member of the synset being split")
				}
				if seen[senseID] {
					return apperr.Validation("sense", senseID, "appears in more than one split group")
				}
				seen[senseID] = true
			}
		}
		if len(seen) != len(idToKey) {
			return apperr.Validation("synset", originalID, "every sense must appear in exactly one group")
		}

		orig, gerr := tx.GetSynset(origKey)
		if gerr != nil {
			return apperr.Database("get original synset", gerr)
		}
		defs, err := tx.ListDefinitions(origKey)
		if err != nil {
			return apperr.Database("list definitions", err)
		}
		exs, err := tx.ListSynsetExamples(origKey)
		if err != nil {
			return apperr.Database("list examples", err)
		}
		outgoing, err := tx.ListOutgoingSynsetRelationKeys(origKey)
		if err != nil {
			return apperr.Database("list relations", err)
		}

		result = append(result, orig) // first group: stays on original, repointed below.

		for _, group := range groups[1:] {
			maxSuffix, merr := tx.MaxSynsetNumericSuffix(lexKey)
			if merr != nil {
				return apperr.Database("resolve max synset suffix", merr)
			}
			newID := fmt.Sprintf("%s-%08d-%s", lex.ID, maxSuffix+1, string(orig.PartOfSpeech))
			newSynset := model.Synset{ID: newID, PartOfSpeech: orig.PartOfSpeech, Lexfile: orig.Lexfile, Metadata: orig.Metadata}
			newKey, ierr := tx.InsertSynset(lexKey, newSynset)
			if ierr != nil {
				return apperr.Database("insert split synset", ierr)
			}
			for _, d := range defs {
				if _, derr := tx.InsertDefinition(newKey, d); derr != nil {
					return apperr.Database("copy definition", derr)
				}
			}
			for _, ex := range exs {
				if _, eerr := tx.InsertSynsetExample(newKey, ex.Text, ex.Language); eerr != nil {
					return apperr.Database("copy example", eerr)
				}
			}
			for _, kr := range outgoing {
				if err := insertIfAbsent(tx, model.RelationSynsetToSynset, newKey, kr.Type, kr.OtherKey, kr.Metadata); err != nil {
					return err
				}
			}
			for rank, senseID := range group {
				sk := idToKey[senseID]
				if rerr := tx.RebindSenseSynset(sk, newKey, rank+1); rerr != nil {
					return apperr.Database("rebind sense", rerr)
				}
			}
			if rerr := c.eng.RecomputeLexicalized(tx, newKey); rerr != nil {
				return rerr
			}
			rec.Record("synset", newID, "", history.OpCreate, "", toJSON(newSynset))
			final, gerr := tx.GetSynset(newKey)
			if gerr != nil {
				return apperr.Database("get new synset", gerr)
			}
			result = append(result, final)
		}

		// Compact the first group's synset_rank on original to 1..len.
		for rank, senseID := range groups[0] {
			sk := idToKey[senseID]
			if rerr := tx.RebindSenseSynset(sk, origKey, rank+1); rerr != nil {
				return apperr.Database("rebind sense", rerr)
			}
		}
		if rerr := c.eng.RecomputeLexicalized(tx, origKey); rerr != nil {
			return rerr
		}
		rec.Record("synset", originalID, "", history.OpUpdate, "", toJSON("split"))
		return nil
	})
	if err != nil {
		c.eng.Log().Warn("Split failed", zap.String("entity_id", originalID), zap.Error(err))
	}
	return result, err
}
