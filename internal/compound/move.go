package compound

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// MoveSense repoints a sense onto a different synset. Rejected if the
// sense's entry already has another sense pointing at newSynsetID. Sense
// relations are left untouched — only the synset_key/synset_rank bridge
// moves. Both synsets' lexicalized flags are recomputed. One transaction.
func (c *Compound) MoveSense(ctx context.Context, lexiconSpecifier, senseID, newSynsetID string) (model.Sense, error) {
	var result model.Sense
	err := c.eng.Batch(ctx, "MoveSense", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		senseKey, serr := tx.SenseKey(lexKey, senseID)
		if serr != nil {
			return apperr.EntityNotFound("sense", senseID)
		}
		newSynsetKey, nerr := tx.SynsetKey(lexKey, newSynsetID)
		if nerr != nil {
			return apperr.EntityNotFound("synset", newSynsetID)
		}
		sense, entryKey, oldSynsetKey, gerr := tx.GetSense(senseKey)
		if gerr != nil {
			return apperr.Database("get sense", gerr)
		}
		if oldSynsetKey == newSynsetKey {
			return apperr.Validation("sense", senseID, "sense already belongs to that synset")
		}

		entrySenseKeys, err := tx.ListSensesByEntry(entryKey)
		if err != nil {
			return apperr.Database("list entry senses", err)
		}
		for _, sk := range entrySenseKeys {
			if sk == senseKey {
				continue
			}
			other, _, otherSynsetKey, gerr := tx.GetSense(sk)
			if gerr != nil {
				return apperr.Database("get sibling sense", gerr)
			}
			if otherSynsetKey == newSynsetKey {
				return apperr.Relation("sense", senseID, "entry already has a sense pointing at "+other.ID+" in the target synset")
			}
		}

		newMembers, err := tx.ListSensesBySynset(newSynsetKey)
		if err != nil {
			return apperr.Database("list target senses", err)
		}
		before := toJSON(sense)
		if rerr := tx.RebindSenseSynset(senseKey, newSynsetKey, len(newMembers)+1); rerr != nil {
			return apperr.Database("rebind sense", rerr)
		}
		rec.Record("sense", senseID, "synset", history.OpUpdate, before, toJSON(newSynsetID))

		if rerr := c.eng.RecomputeLexicalized(tx, oldSynsetKey); rerr != nil {
			return rerr
		}
		if rerr := c.eng.RecomputeLexicalized(tx, newSynsetKey); rerr != nil {
			return rerr
		}

		moved, _, _, gerr := tx.GetSense(senseKey)
		if gerr != nil {
			return apperr.Database("get moved sense", gerr)
		}
		moved.SynsetID = newSynsetID
		result = moved
		return nil
	})
	if err != nil {
		c.eng.Log().Warn("MoveSense failed", zap.String("entity_id", senseID), zap.Error(err))
	}
	return result, err
}
