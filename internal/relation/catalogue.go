// Package relation enumerates the valid synset/sense relation types and
// resolves inverses and symmetry classes over the three disjoint relation
// spaces (synset-to-synset, sense-to-sense, sense-to-synset).
package relation

import "github.com/lexkit/wneditor/internal/model"

// pair is a (forward, inverse) relation-type pair.
type pair struct{ fwd, inv string }

// synsetPairs are the 34 inverse pairs in the synset relation space
// (68 of the 85 synset relation types).
var synsetPairs = []pair{
	{"hypernym", "hyponym"},
	{"instance_hypernym", "instance_hyponym"},
	{"mero_part", "holo_part"},
	{"mero_member", "holo_member"},
	{"mero_portion", "holo_portion"},
	{"mero_substance", "holo_substance"},
	{"meronym", "holonym"},
	{"causes", "is_caused_by"},
	{"entails", "is_entailed_by"},
	{"subevent", "is_subevent_of"},
	{"domain_region", "has_domain_region"},
	{"domain_topic", "has_domain_topic"},
	{"exemplifies", "is_exemplified_by"},
	{"classifies", "classified_by"},
	{"instrument", "involved_instrument"},
	{"location", "involved_location"},
	{"agent", "involved_agent"},
	{"patient", "involved_patient"},
	{"result", "involved_result"},
	{"direction", "involved_direction"},
	{"source_direction", "involved_source_direction"},
	{"target_direction", "involved_target_direction"},
	{"co_agent_instrument", "co_instrument_agent"},
	{"co_agent_patient", "co_patient_agent"},
	{"co_agent_result", "co_result_agent"},
	{"co_instrument_patient", "co_patient_instrument"},
	{"co_instrument_result", "co_result_instrument"},
	{"co_patient_result", "co_result_patient"},
	{"restricts", "restricted_by"},
	{"state_of", "be_in_state"},
	{"manner_of", "in_manner"},
	{"role", "involved"},
	{"uses", "used_by"},
	{"product_of", "has_product"},
}

// synsetSymmetric are synset relation types that are their own inverse;
// adding one still inserts two rows (A->B and B->A).
var synsetSymmetric = []string{
	"antonym", "similar", "eq_synonym", "attribute", "co_role",
	"anto_gradable", "anto_simple", "anto_converse", "ir_synonym",
	"co_agent_agent", "co_patient_patient", "co_instrument_instrument",
	"exocentric",
}

// synsetTail are synset relation types with no defined inverse: directed,
// auto-inverse never applies, even though auto-inverse is otherwise the
// default for add_relation.
var synsetTail = []string{"also", "pertainym", "participle", "other"}

// sensePairs are the 20 inverse pairs in the sense relation space (40 of
// the 48 sense relation types).
var sensePairs = []pair{
	{"agent", "agent_of"},
	{"material", "material_of"},
	{"event", "event_of"},
	{"instrument", "instrument_of"},
	{"location", "location_of"},
	{"by_means_of", "means_of"},
	{"undergoer", "undergoer_of"},
	{"property", "property_of"},
	{"result", "result_of"},
	{"state", "is_state_of"},
	{"uses", "used_by"},
	{"destination", "destination_of"},
	{"body_part", "body_part_of"},
	{"vehicle", "vehicle_of"},
	{"co_agent_patient", "co_patient_agent"},
	{"co_agent_instrument", "co_instrument_agent"},
	{"co_patient_instrument", "co_instrument_patient"},
	{"domain_region", "has_domain_region"},
	{"exemplifies", "is_exemplified_by"},
	{"feminine", "masculine"},
}

// senseSymmetric are sense relation types that are their own inverse.
var senseSymmetric = []string{"antonym", "similar", "derivation", "ir_synonym"}

// senseTail are sense relation types with no defined inverse.
var senseTail = []string{"also", "pertainym", "participle", "other"}

// SenseSynsetRelations are the 4 relation types in the sense-to-synset
// space. This space has no auto-inverse mechanism: the inverse direction
// would require a synset-to-sense edge, which is not a modeled space.
var SenseSynsetRelations = []string{
	"domain_topic", "has_domain_topic", "exocentric", "is_exocentric",
}

// Catalogue indexes one relation space's valid types, inverse map, and
// symmetric set.
type Catalogue struct {
	types     map[string]bool
	inverse   map[string]string
	symmetric map[string]bool
	ordered   []string
}

func build(pairs []pair, symmetric, tail []string) *Catalogue {
	c := &Catalogue{
		types:     make(map[string]bool),
		inverse:   make(map[string]string),
		symmetric: make(map[string]bool),
	}
	for _, p := range pairs {
		c.types[p.fwd] = true
		c.types[p.inv] = true
		c.inverse[p.fwd] = p.inv
		c.inverse[p.inv] = p.fwd
		c.ordered = append(c.ordered, p.fwd, p.inv)
	}
	for _, s := range symmetric {
		c.types[s] = true
		c.inverse[s] = s
		c.symmetric[s] = true
		c.ordered = append(c.ordered, s)
	}
	for _, t := range tail {
		c.types[t] = true
		c.ordered = append(c.ordered, t)
	}
	return c
}

var (
	synsetCatalogue = build(synsetPairs, synsetSymmetric, synsetTail)
	senseCatalogue  = build(sensePairs, senseSymmetric, senseTail)

	senseSynsetTypes = func() map[string]bool {
		m := make(map[string]bool, len(SenseSynsetRelations))
		for _, t := range SenseSynsetRelations {
			m[t] = true
		}
		return m
	}()
)

func catalogueFor(space model.RelationSpace) *Catalogue {
	switch space {
	case model.RelationSynsetToSynset:
		return synsetCatalogue
	case model.RelationSenseToSense:
		return senseCatalogue
	default:
		return nil
	}
}

// IsValidType reports whether t is a recognized relation type for space.
func IsValidType(space model.RelationSpace, t string) bool {
	if space == model.RelationSenseToSynset {
		return senseSynsetTypes[t]
	}
	c := catalogueFor(space)
	return c != nil && c.types[t]
}

// InverseOf returns the inverse type of t within space, if one is defined.
// The sense-to-synset space never has a defined inverse.
func InverseOf(space model.RelationSpace, t string) (string, bool) {
	c := catalogueFor(space)
	if c == nil {
		return "", false
	}
	inv, ok := c.inverse[t]
	return inv, ok
}

// IsSymmetric reports whether t is its own inverse within space.
func IsSymmetric(space model.RelationSpace, t string) bool {
	c := catalogueFor(space)
	return c != nil && c.symmetric[t]
}

// Types returns all relation type names for space, in catalogue order.
func Types(space model.RelationSpace) []string {
	if space == model.RelationSenseToSynset {
		out := make([]string, len(SenseSynsetRelations))
		copy(out, SenseSynsetRelations)
		return out
	}
	c := catalogueFor(space)
	if c == nil {
		return nil
	}
	out := make([]string, len(c.ordered))
	copy(out, c.ordered)
	return out
}
