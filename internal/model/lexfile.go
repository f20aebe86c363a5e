package model

// Lexfiles is the closed catalogue of standard WordNet lexicographer file
// names a Synset's Lexfile field may reference. Entries here follow the
// Princeton WordNet lexnames convention (e.g. "noun.animal").
var Lexfiles = []string{
	"adj.all", "adj.pert", "adj.ppl",
	"adv.all",
	"noun.Tops", "noun.act", "noun.animal", "noun.artifact", "noun.attribute",
	"noun.body", "noun.cognition", "noun.communication", "noun.event",
	"noun.feeling", "noun.food", "noun.group", "noun.location", "noun.motive",
	"noun.object", "noun.person", "noun.phenomenon", "noun.plant",
	"noun.possession", "noun.process", "noun.quantity", "noun.relation",
	"noun.shape", "noun.state", "noun.substance", "noun.time",
	"verb.body", "verb.change", "verb.cognition", "verb.communication",
	"verb.competition", "verb.consumption", "verb.contact", "verb.creation",
	"verb.emotion", "verb.motion", "verb.perception", "verb.possession",
	"verb.social", "verb.stative", "verb.weather",
}

var validLexfile = func() map[string]bool {
	m := make(map[string]bool, len(Lexfiles))
	for _, f := range Lexfiles {
		m[f] = true
	}
	return m
}()

// IsValidLexfile reports whether name is one of the standard lexfiles.
func IsValidLexfile(name string) bool {
	return validLexfile[name]
}
