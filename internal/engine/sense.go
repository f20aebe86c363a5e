package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// AddSense bridges an entry to a synset, appending it at the next
// entry_rank and synset_rank. Clears the synset's unlexicalized mark.
func (e *Engine) AddSense(ctx context.Context, lexiconSpecifier, entryID, synsetID string, in model.Sense) (model.Sense, error) {
	var result model.Sense
	err := e.batch(ctx, "AddSense", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		lex, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		entryKey, eerr := tx.EntryKey(lexKey, entryID)
		if eerr != nil {
			return apperr.EntityNotFound("entry", entryID)
		}
		synsetKey, serr := tx.SynsetKey(lexKey, synsetID)
		if serr != nil {
			return apperr.EntityNotFound("synset", synsetID)
		}
		if in.AdjPosition != "" && !model.IsValidAdjPosition(string(in.AdjPosition)) {
			return apperr.Validation("sense", in.ID, "invalid adjective position")
		}
		existingByEntry, err := tx.ListSensesByEntry(entryKey)
		if err != nil {
			return apperr.Database("list senses by entry", err)
		}
		existingBySynset, err := tx.ListSensesBySynset(synsetKey)
		if err != nil {
			return apperr.Database("list senses by synset", err)
		}
		in.EntryRank = len(existingByEntry) + 1
		in.SynsetRank = len(existingBySynset) + 1
		in.Lexicalized = true
		if in.ID == "" {
			in.ID = lex.ID + "-" + entryID + "-" + synsetID
		}
		if perr := requirePrefix(lex.ID, in.ID, "sense"); perr != nil {
			return perr
		}
		if _, ierr := tx.InsertSense(lexKey, entryKey, synsetKey, in); ierr != nil {
			if store.IsUniqueViolation(ierr) {
				return apperr.DuplicateEntity("sense", in.ID)
			}
			return apperr.Database("insert sense", ierr)
		}
		if rerr := e.recomputeLexicalized(tx, synsetKey); rerr != nil {
			return rerr
		}
		rec.Record("sense", in.ID, "", history.OpCreate, "", toJSON(in))
		result = in
		return nil
	})
	if err != nil {
		e.log.Warn("AddSense failed", zap.String("entity_id", in.ID), zap.Error(err))
	}
	return result, err
}

// AddCount attaches a corpus-frequency count to a sense.
func (e *Engine) AddCount(ctx context.Context, lexiconSpecifier, senseID string, c model.Count) error {
	return e.batch(ctx, "AddCount", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		senseKey, serr := tx.SenseKey(lexKey, senseID)
		if serr != nil {
			return apperr.EntityNotFound("sense", senseID)
		}
		if _, ierr := tx.InsertCount(senseKey, c); ierr != nil {
			return apperr.Database("insert count", ierr)
		}
		rec.Record("count", senseID, "value", history.OpCreate, "", toJSON(c))
		return nil
	})
}

// AddSenseExample appends an example to a sense.
func (e *Engine) AddSenseExample(ctx context.Context, lexiconSpecifier, senseID, text, language string) error {
	return e.batch(ctx, "AddSenseExample", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		senseKey, serr := tx.SenseKey(lexKey, senseID)
		if serr != nil {
			return apperr.EntityNotFound("sense", senseID)
		}
		if _, ierr := tx.InsertSenseExample(senseKey, text, language); ierr != nil {
			return apperr.Database("insert example", ierr)
		}
		rec.Record("example", senseID, "text", history.OpCreate, "", toJSON(text))
		return nil
	})
}

// LinkSyntacticBehaviour associates a (possibly newly created) syntactic
// behaviour frame with a sense.
func (e *Engine) LinkSyntacticBehaviour(ctx context.Context, lexiconSpecifier, sbID, frame, senseID string) error {
	return e.batch(ctx, "LinkSyntacticBehaviour", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		lex, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		senseKey, serr := tx.SenseKey(lexKey, senseID)
		if serr != nil {
			return apperr.EntityNotFound("sense", senseID)
		}
		sbKey, kerr := tx.SyntacticBehaviourKey(lexKey, sbID)
		if kerr != nil {
			if perr := requirePrefix(lex.ID, sbID, "syntactic_behaviour"); perr != nil {
				return perr
			}
			sbKey, kerr = tx.InsertSyntacticBehaviour(lexKey, sbID, frame)
			if kerr != nil {
				return apperr.Database("insert syntactic behaviour", kerr)
			}
		}
		if lerr := tx.LinkSyntacticBehaviour(sbKey, senseKey); lerr != nil {
			return apperr.Database("link syntactic behaviour", lerr)
		}
		rec.Record("syntactic_behaviour", sbID, "sense", history.OpCreate, "", toJSON(senseID))
		return nil
	})
}

// RemoveSense detaches a sense from its entry/synset, deletes its owned
// rows (relations, examples, counts, syntactic-behaviour links), and
// recomputes the synset's lexicalized flag.
func (e *Engine) RemoveSense(ctx context.Context, lexiconSpecifier, senseID string) error {
	err := e.batch(ctx, "RemoveSense", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		_, lexKey, lerr := tx.ResolveLexicon(lexiconSpecifier)
		if lerr != nil {
			return apperr.EntityNotFound("lexicon", lexiconSpecifier)
		}
		senseKey, serr := tx.SenseKey(lexKey, senseID)
		if serr != nil {
			return apperr.EntityNotFound("sense", senseID)
		}
		sense, _, synsetKey, gerr := tx.GetSense(senseKey)
		if gerr != nil {
			return apperr.Database("get sense", gerr)
		}
		if derr := tx.DeleteRelationsForSense(senseKey); derr != nil {
			return apperr.Database("delete sense relations", derr)
		}
		if derr := tx.DeleteExamplesBySense(senseKey); derr != nil {
			return apperr.Database("delete sense examples", derr)
		}
		if derr := tx.DeleteSenseRow(senseKey, lexKey, sense.ID); derr != nil {
			return apperr.Database("delete sense", derr)
		}
		if rerr := e.recomputeLexicalized(tx, synsetKey); rerr != nil {
			return rerr
		}
		rec.Record("sense", senseID, "", history.OpDelete, toJSON(sense), "")
		return nil
	})
	if err != nil {
		e.log.Warn("RemoveSense failed", zap.String("entity_id", senseID), zap.Error(err))
	}
	return err
}
