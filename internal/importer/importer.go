// Package importer ingests a parsed WN-LMF tree into the store in
// FK-dependency order: lexicon, dependencies, synsets, entries, forms,
// pronunciations, tags, senses, syntactic behaviours, then each synset's
// relations, definitions, examples and proposed ILI, and last the sense and
// sense-to-synset relations.
package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/engine"
	"github.com/lexkit/wneditor/internal/history"
	"github.com/lexkit/wneditor/internal/lmf"
	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/store"
)

// Importer drives FK-ordered ingest of a parsed LMF document into a store.
type Importer struct {
	eng *engine.Engine
	log *zap.Logger
}

// New constructs an Importer writing through eng's store.
func New(eng *engine.Engine) *Importer {
	return &Importer{eng: eng, log: eng.Log()}
}

// Import ingests every Lexicon in doc. Each lexicon runs as one
// transaction; a lexicon whose id already exists in the store fails the
// whole import (spec.md's "at most one lexicon per id" invariant),
// consistent with duplicate-lexicon-import being a hard failure rather than
// an upsert.
func (im *Importer) Import(ctx context.Context, doc *lmf.LexicalResource) error {
	for _, lex := range doc.Lexicons {
		if err := im.importLexicon(ctx, lex); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) importLexicon(ctx context.Context, lex lmf.Lexicon) error {
	return im.eng.Batch(ctx, "Import", func(ctx context.Context, tx *store.Tx, rec *history.Recorder) error {
		im.log.Info("importing lexicon", zap.String("id", lex.ID), zap.String("version", lex.Version))

		domainLex := model.Lexicon{
			ID: lex.ID, Version: lex.Version, Label: lex.Label, Language: lex.Language,
			Email: lex.Email, License: lex.License, URL: lex.URL, Citation: lex.Citation, Logo: lex.Logo,
		}
		for _, req := range lex.Requires {
			domainLex.Requires = append(domainLex.Requires, model.LexiconRef{ID: req.ID, Version: req.Version, URL: req.URL})
		}
		for _, ext := range lex.Extends {
			domainLex.Extends = append(domainLex.Extends, model.LexiconRef{ID: ext.ID, Version: ext.Version, URL: ext.URL})
		}
		lexKey, err := tx.InsertLexicon(domainLex)
		if err != nil {
			if store.IsUniqueViolation(err) {
				return apperr.Import(fmt.Sprintf("lexicon %q already present in store", lex.ID), nil)
			}
			return apperr.Database("insert lexicon", err)
		}
		rec.Record("lexicon", lex.ID, "", history.OpCreate, "", "")

		im.log.Info("importing synsets", zap.Int("count", len(lex.Synsets)))
		synsetKeys := map[string]int64{}
		for _, syn := range lex.Synsets {
			key, err := im.importSynsetShell(tx, lexKey, syn)
			if err != nil {
				return err
			}
			synsetKeys[syn.ID] = key
		}

		im.log.Info("importing entries", zap.Int("count", len(lex.Entries)))
		entryKeys := map[string]int64{}
		for _, ent := range lex.Entries {
			key, err := im.importEntryShell(tx, lexKey, ent)
			if err != nil {
				return err
			}
			entryKeys[ent.ID] = key
		}

		im.log.Info("importing senses")
		for _, ent := range lex.Entries {
			entryKey := entryKeys[ent.ID]
			for rank, sen := range ent.Senses {
				synKey, ok := synsetKeys[sen.Synset]
				if !ok {
					return apperr.Import(fmt.Sprintf("sense %q references unknown synset %q", sen.ID, sen.Synset), nil)
				}
				if err := im.importSense(tx, lexKey, entryKey, synKey, rank+1, sen); err != nil {
					return err
				}
			}
		}

		im.log.Info("importing syntactic behaviours", zap.Int("count", len(lex.SynBehavs)))
		for _, sb := range lex.SynBehavs {
			if err := im.importSyntacticBehaviour(tx, lexKey, sb); err != nil {
				return err
			}
		}

		im.log.Info("importing synset relations, definitions, examples, proposed ILIs")
		for _, syn := range lex.Synsets {
			synKey := synsetKeys[syn.ID]
			for _, rel := range syn.Relations {
				tgtKey, ok := synsetKeys[rel.Target]
				if !ok {
					return apperr.Import(fmt.Sprintf("synset relation from %q targets unknown synset %q", syn.ID, rel.Target), nil)
				}
				if err := tx.InsertRelation(model.RelationSynsetToSynset, synKey, rel.RelType, tgtKey, nil); err != nil && !store.IsUniqueViolation(err) {
					return apperr.Database("insert synset relation", err)
				}
			}
			for _, def := range syn.Definitions {
				if _, err := tx.InsertDefinition(synKey, model.Definition{Text: def.Text, Language: def.Language, SourceSenseID: def.SourceSense}); err != nil {
					return apperr.Database("insert definition", err)
				}
			}
			for _, ex := range syn.Examples {
				if _, err := tx.InsertSynsetExample(synKey, ex.Text, ex.Language); err != nil {
					return apperr.Database("insert synset example", err)
				}
			}
			if syn.ILIDefinition != nil {
				if err := tx.SetProposedILI(synKey, syn.ILIDefinition.Text); err != nil {
					return apperr.Database("insert proposed ili", err)
				}
			}
		}

		im.log.Info("importing sense relations")
		for _, ent := range lex.Entries {
			for _, sen := range ent.Senses {
				senKey, err := tx.SenseKey(lexKey, sen.ID)
				if err != nil {
					return apperr.Database("resolve sense key", err)
				}
				for _, rel := range sen.SenseRelations {
					tgtKey, err := tx.SenseKey(lexKey, rel.Target)
					if err != nil {
						return apperr.Import(fmt.Sprintf("sense relation from %q targets unknown sense %q", sen.ID, rel.Target), nil)
					}
					if err := tx.InsertRelation(model.RelationSenseToSense, senKey, rel.RelType, tgtKey, nil); err != nil && !store.IsUniqueViolation(err) {
						return apperr.Database("insert sense relation", err)
					}
				}
				for _, rel := range sen.SenseSynsetRelations {
					tgtKey, ok := synsetKeys[rel.Target]
					if !ok {
						return apperr.Import(fmt.Sprintf("sense-synset relation from %q targets unknown synset %q", sen.ID, rel.Target), nil)
					}
					if err := tx.InsertRelation(model.RelationSenseToSynset, senKey, rel.RelType, tgtKey, nil); err != nil && !store.IsUniqueViolation(err) {
						return apperr.Database("insert sense-synset relation", err)
					}
				}
			}
		}

		for _, syn := range lex.Synsets {
			if err := im.eng.RecomputeLexicalized(tx, synsetKeys[syn.ID]); err != nil {
				return err
			}
		}
		rec.Record("lexicon", lex.ID, "", history.OpUpdate, "", `"import complete"`)
		return nil
	})
}

func (im *Importer) importSynsetShell(tx *store.Tx, lexKey int64, syn lmf.Synset) (int64, error) {
	ili := syn.ILI
	if ili == "" && syn.ILIDefinition != nil {
		ili = model.ProposedILISentinel
	}
	key, err := tx.InsertSynset(lexKey, model.Synset{
		ID: syn.ID, PartOfSpeech: model.PartOfSpeech(syn.PartOfSpeech), ILI: ili, Lexfile: syn.Lexfile,
	})
	if err != nil {
		return 0, apperr.Database("insert synset", err)
	}
	if syn.ILI != "" {
		if _, found, gerr := tx.GetILI(syn.ILI); gerr != nil {
			return 0, apperr.Database("get ili", gerr)
		} else if !found {
			if uerr := tx.UpsertILI(model.ILI{ID: syn.ILI, Status: model.ILIStatusActive}); uerr != nil {
				return 0, apperr.Database("insert ili", uerr)
			}
		}
	}
	return key, nil
}

func (im *Importer) importEntryShell(tx *store.Tx, lexKey int64, ent lmf.LexicalEntry) (int64, error) {
	key, err := tx.InsertEntry(lexKey, model.Entry{ID: ent.ID, PartOfSpeech: model.PartOfSpeech(ent.Lemma.PartOfSpeech)})
	if err != nil {
		return 0, apperr.Database("insert entry", err)
	}
	lemmaKey, err := tx.InsertForm(key, model.Form{Written: ent.Lemma.WrittenForm, Script: ent.Lemma.Script, Rank: 0})
	if err != nil {
		return 0, apperr.Database("insert lemma form", err)
	}
	for _, p := range ent.Lemma.Pronunciations {
		if _, perr := tx.InsertPronunciation(lemmaKey, model.Pronunciation{Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: p.Phonemic, Audio: p.Audio}); perr != nil {
			return 0, apperr.Database("insert pronunciation", perr)
		}
	}
	for rank, f := range ent.Forms {
		formKey, ferr := tx.InsertForm(key, model.Form{ID: f.ID, Written: f.WrittenForm, Script: f.Script, Rank: rank + 1})
		if ferr != nil {
			return 0, apperr.Database("insert form", ferr)
		}
		for _, p := range f.Pronunciations {
			if _, perr := tx.InsertPronunciation(formKey, model.Pronunciation{Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: p.Phonemic, Audio: p.Audio}); perr != nil {
				return 0, apperr.Database("insert pronunciation", perr)
			}
		}
		for _, tg := range f.Tags {
			if _, terr := tx.InsertTag(formKey, tg.Category, tg.Text); terr != nil {
				return 0, apperr.Database("insert tag", terr)
			}
		}
	}
	return key, nil
}

func (im *Importer) importSense(tx *store.Tx, lexKey, entryKey, synsetKey int64, entryRank int, sen lmf.Sense) error {
	members, err := tx.CountSenses(synsetKey)
	if err != nil {
		return apperr.Database("count synset senses", err)
	}
	senseKey, err := tx.InsertSense(lexKey, entryKey, synsetKey, model.Sense{
		ID: sen.ID, EntryRank: entryRank, SynsetRank: members + 1, AdjPosition: model.AdjPosition(sen.AdjPosition),
	})
	if err != nil {
		return apperr.Database("insert sense", err)
	}
	for _, c := range sen.Counts {
		if _, cerr := tx.InsertCount(senseKey, model.Count{Value: c.Value}); cerr != nil {
			return apperr.Database("insert count", cerr)
		}
	}
	for _, ex := range sen.Examples {
		if _, eerr := tx.InsertSenseExample(senseKey, ex.Text, ex.Language); eerr != nil {
			return apperr.Database("insert sense example", eerr)
		}
	}
	return nil
}

func (im *Importer) importSyntacticBehaviour(tx *store.Tx, lexKey int64, sb lmf.SyntacticBehaviour) error {
	sbKey, err := tx.InsertSyntacticBehaviour(lexKey, sb.ID, sb.SubcategorizationFrame)
	if err != nil {
		return apperr.Database("insert syntactic behaviour", err)
	}
	for _, senseID := range splitSpace(sb.Senses) {
		senseKey, serr := tx.SenseKey(lexKey, senseID)
		if serr != nil {
			return apperr.Import(fmt.Sprintf("syntactic behaviour %q references unknown sense %q", sb.ID, senseID), nil)
		}
		if lerr := tx.LinkSyntacticBehaviour(sbKey, senseKey); lerr != nil {
			return apperr.Database("link syntactic behaviour", lerr)
		}
	}
	return nil
}

// splitSpace splits a space-separated id list, skipping empty tokens from
// repeated whitespace.
func splitSpace(s string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	return out
}
