// Package model defines the value types for the lexical knowledge base:
// lexicons, synsets, entries, forms, senses, relations, and their
// supporting records. Every type here is an immutable record — mutation
// happens by replacing the stored row, never by mutating a shared value.
package model

// PartOfSpeech is the closed set of parts of speech a Synset or Entry may
// carry, per WN-LMF 1.4.
type PartOfSpeech string

const (
	POSNoun             PartOfSpeech = "n"
	POSVerb             PartOfSpeech = "v"
	POSAdjective        PartOfSpeech = "a"
	POSAdverb           PartOfSpeech = "r"
	POSAdjectiveSatelite PartOfSpeech = "s"
	POSPhrase           PartOfSpeech = "t"
	POSConjunction      PartOfSpeech = "c"
	POSAdposition       PartOfSpeech = "p"
	POSOther            PartOfSpeech = "x"
	POSUnknown          PartOfSpeech = "u"
)

var validPOS = map[PartOfSpeech]bool{
	POSNoun: true, POSVerb: true, POSAdjective: true, POSAdverb: true,
	POSAdjectiveSatelite: true, POSPhrase: true, POSConjunction: true,
	POSAdposition: true, POSOther: true, POSUnknown: true,
}

// IsValidPOS reports whether s is a recognized part of speech.
func IsValidPOS(s string) bool {
	return validPOS[PartOfSpeech(s)]
}

// AdjPosition is the closed set of adjective-position markers a Sense may
// carry when its entry's part of speech is adjective.
type AdjPosition string

const (
	AdjPositionAttributive AdjPosition = "a"
	AdjPositionImmPostnom  AdjPosition = "ip"
	AdjPositionPredicative AdjPosition = "p"
)

var validAdjPosition = map[AdjPosition]bool{
	AdjPositionAttributive: true, AdjPositionImmPostnom: true, AdjPositionPredicative: true,
}

// IsValidAdjPosition reports whether s is a recognized adjective position.
func IsValidAdjPosition(s string) bool {
	return validAdjPosition[AdjPosition(s)]
}

// ILIStatus is the closed set of statuses an ILI record may carry.
type ILIStatus string

const (
	ILIStatusActive      ILIStatus = "active"
	ILIStatusDeprecated  ILIStatus = "deprecated"
	ILIStatusPresupposed ILIStatus = "presupposed"
)

// ProposedILISentinel is the literal ILI value meaning "a new ILI has been
// proposed but not yet assigned a concrete identifier".
const ProposedILISentinel = "in"
