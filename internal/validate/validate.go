// Package validate implements the read-only rule catalogue: a pass over
// the store producing severity-tagged findings without mutating anything.
// Every rule is independent; a rule's failure to resolve a row it expected
// to exist is itself surfaced as a finding rather than aborting the pass.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/orsinium-labs/stopwords"

	"github.com/lexkit/wneditor/internal/model"
	"github.com/lexkit/wneditor/internal/relation"
	"github.com/lexkit/wneditor/internal/store"
)

// Severity is ERROR or WARNING, per spec.md's two-tier finding model.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Finding is one rule violation.
type Finding struct {
	Rule       string
	Severity   Severity
	EntityKind string
	EntityID   string
	Message    string
}

// Ruleset runs every registered rule over a lexicon.
type Ruleset struct {
	stopset *stopwords.Stopwords
}

// NewRuleset constructs a Ruleset with the English stopword set used to
// normalize definition text before duplicate-definition comparison.
func NewRuleset() *Ruleset {
	return &Ruleset{stopset: stopwords.MustGet("en")}
}

// Validate opens its own read transaction over s and checks lexiconSpecifier.
func Validate(ctx context.Context, s *store.Store, lexiconSpecifier string) ([]Finding, error) {
	var findings []Finding
	err := s.Batch(ctx, func(ctx context.Context, tx *store.Tx) error {
		lex, lexKey, err := tx.ResolveLexicon(lexiconSpecifier)
		if err != nil {
			return err
		}
		findings, err = NewRuleset().Check(tx, lexKey, lex.ID)
		return err
	})
	return findings, err
}

// Check runs every rule against lexKey within an already-open transaction
// (the exporter's pre-emission validation reuses its own tx this way).
// lexiconID is the lexicon's bare public id, used by the id-prefix rule.
func (r *Ruleset) Check(tx *store.Tx, lexKey int64, lexiconID string) ([]Finding, error) {
	var out []Finding
	prefix := lexiconID + "-"

	synsetKeys, err := tx.ListSynsetsByLexicon(lexKey)
	if err != nil {
		return nil, err
	}
	entryKeys, err := tx.ListEntryKeysByLexicon(lexKey)
	if err != nil {
		return nil, err
	}

	synsets := map[int64]model.Synset{}
	for _, sk := range synsetKeys {
		syn, err := tx.GetSynset(sk)
		if err != nil {
			return nil, err
		}
		synsets[sk] = syn
	}

	seenILI := map[string]bool{}
	normDefSeen := map[string]string{} // normalized text -> first synset id seen on

	for _, sk := range synsetKeys {
		syn := synsets[sk]

		if !strings.HasPrefix(syn.ID, prefix) {
			out = append(out, r.errf("entity-id-prefix", "synset", syn.ID, "entity id lacks lexicon prefix"))
		}

		n, err := tx.CountSenses(sk)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			out = append(out, r.warnf("empty-synset", "synset", syn.ID, "synset has no member senses"))
		}

		defs, err := tx.ListDefinitions(sk)
		if err != nil {
			return nil, err
		}
		if len(defs) == 0 {
			out = append(out, r.errf("synset-no-definitions", "synset", syn.ID, "synset has no definitions"))
		}
		for _, d := range defs {
			if strings.TrimSpace(d.Text) == "" {
				out = append(out, r.warnf("blank-definition", "synset", syn.ID, "blank definition text"))
				continue
			}
			norm := r.normalize(d.Text)
			if first, dup := normDefSeen[norm]; dup && first != syn.ID {
				out = append(out, r.warnf("duplicate-definition", "synset", syn.ID, "definition duplicates one on "+first))
			} else if !dup {
				normDefSeen[norm] = syn.ID
			}
		}

		exs, err := tx.ListSynsetExamples(sk)
		if err != nil {
			return nil, err
		}
		for _, e := range exs {
			if strings.TrimSpace(e.Text) == "" {
				out = append(out, r.warnf("blank-example", "synset", syn.ID, "blank example text"))
			}
		}

		if syn.ILI != "" && syn.ILI != model.ProposedILISentinel {
			if seenILI[syn.ILI] {
				out = append(out, r.warnf("duplicate-ili", "synset", syn.ID, "ILI "+syn.ILI+" already used by another synset in this lexicon"))
			}
			seenILI[syn.ILI] = true
			if def, found, err := tx.GetProposedILI(sk); err != nil {
				return nil, err
			} else if found && def != "" {
				out = append(out, r.warnf("spurious-proposed-definition", "synset", syn.ID, "concrete ILI carries a spurious proposed-ILI definition"))
			}
		}
		if syn.ILI == model.ProposedILISentinel {
			def, found, err := tx.GetProposedILI(sk)
			if err != nil {
				return nil, err
			}
			if !found {
				out = append(out, r.warnf("proposed-ili-missing-definition", "synset", syn.ID, "proposed ILI has no definition record"))
			} else if len([]rune(def)) < model.MinProposedILIDefinitionLength {
				out = append(out, r.errf("proposed-ili-too-short", "synset", syn.ID, "proposed ILI definition is under 20 characters"))
			}
		}

		rels, err := tx.ListOutgoingSynsetRelations(sk)
		if err != nil {
			return nil, err
		}
		seenRel := map[string]bool{}
		for _, rel := range rels {
			if rel.Target == syn.ID {
				out = append(out, r.errf("self-loop-relation", "synset", syn.ID, "relation "+rel.Type+" targets itself"))
			}
			if !relation.IsValidType(model.RelationSynsetToSynset, rel.Type) {
				out = append(out, r.errf("invalid-relation-type", "synset", syn.ID, "relation type "+rel.Type+" is not valid for synset-synset"))
			}
			key := rel.Type + "->" + rel.Target
			if seenRel[key] {
				out = append(out, r.warnf("duplicate-relation", "synset", syn.ID, "duplicate relation "+key))
			}
			seenRel[key] = true
			if inv, ok := relation.InverseOf(model.RelationSynsetToSynset, rel.Type); ok && !relation.IsSymmetric(model.RelationSynsetToSynset, rel.Type) {
				if tgtKey, terr := tx.SynsetKey(lexKey, rel.Target); terr == nil {
					exists, eerr := tx.RelationExists(model.RelationSynsetToSynset, tgtKey, inv, sk)
					if eerr != nil {
						return nil, eerr
					}
					if !exists {
						out = append(out, r.warnf("missing-reverse-relation", "synset", syn.ID, "expected reverse "+inv+" from "+rel.Target))
					}
				}
			}
			if rel.Type == "hypernym" {
				if tgtKey, terr := tx.SynsetKey(lexKey, rel.Target); terr == nil {
					if tgt, ok := synsets[tgtKey]; ok && tgt.PartOfSpeech != syn.PartOfSpeech {
						out = append(out, r.warnf("pos-disagrees-with-hypernym", "synset", syn.ID, "part of speech disagrees with hypernym's"))
					}
				}
			}
		}
	}

	seenSenseCombo := map[string]bool{}   // entry+synset
	seenLemmaSynset := map[string]bool{} // lemma+synset, scoped across the whole lexicon
	for _, ek := range entryKeys {
		ent, err := tx.GetEntry(ek)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(ent.ID, prefix) {
			out = append(out, r.errf("entity-id-prefix", "entry", ent.ID, "entity id lacks lexicon prefix"))
		}
		senseKeys, err := tx.ListSensesByEntry(ek)
		if err != nil {
			return nil, err
		}
		if len(senseKeys) == 0 {
			out = append(out, r.warnf("entry-no-senses", "entry", ent.ID, "entry has no senses"))
		}
		forms, _, err := tx.ListForms(ek)
		if err != nil {
			return nil, err
		}
		lemma := ""
		if len(forms) > 0 {
			lemma = forms[0].Written
		}
		for _, sk := range senseKeys {
			sense, _, synsetKey, err := tx.GetSense(sk)
			if err != nil {
				return nil, err
			}
			if _, ok := synsets[synsetKey]; !ok {
				out = append(out, r.errf("sense-missing-synset", "sense", sense.ID, "sense references a synset missing from this lexicon"))
				continue
			}
			comboKey := fmt.Sprintf("%d|%s", ek, synsets[synsetKey].ID)
			if seenSenseCombo[comboKey] {
				out = append(out, r.warnf("redundant-sense", "sense", sense.ID, "another sense of this entry already points at "+synsets[synsetKey].ID))
			}
			seenSenseCombo[comboKey] = true

			lemmaSynsetKey := lemma + "|" + synsets[synsetKey].ID
			if seenLemmaSynset[lemmaSynsetKey] {
				out = append(out, r.warnf("redundant-entry", "entry", ent.ID, "same lemma+synset combination already present"))
			}
			seenLemmaSynset[lemmaSynsetKey] = true

			if conf, ok := sense.Metadata["confidence"].(float64); ok && conf < 0.5 {
				out = append(out, r.warnf("low-confidence", "sense", sense.ID, "confidence below 0.5"))
			}
		}
	}

	return out, nil
}

func (r *Ruleset) normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	var kept []string
	for _, f := range fields {
		if r.stopset != nil && r.stopset.Contains(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func (r *Ruleset) errf(rule, entityKind, entityID, message string) Finding {
	return Finding{Rule: rule, Severity: SeverityError, EntityKind: entityKind, EntityID: entityID, Message: message}
}

func (r *Ruleset) warnf(rule, entityKind, entityID, message string) Finding {
	return Finding{Rule: rule, Severity: SeverityWarning, EntityKind: entityKind, EntityID: entityID, Message: message}
}
