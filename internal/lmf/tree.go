// Package lmf defines a typed in-memory tree mirroring the WN-LMF 1.4 XML
// interchange format and marshals/unmarshals it with encoding/xml. It is a
// pure data-shape layer: nothing here touches the store.
package lmf

import "encoding/xml"

// LexicalResource is the document root: one or more Lexicon elements sharing
// a dtd version.
type LexicalResource struct {
	XMLName  xml.Name  `xml:"LexicalResource"`
	Lexicons []Lexicon `xml:"Lexicon"`
}

// Lexicon is one versioned word-concept network.
type Lexicon struct {
	XMLName    xml.Name              `xml:"Lexicon"`
	ID         string                `xml:"id,attr"`
	Label      string                `xml:"label,attr"`
	Language   string                `xml:"language,attr"`
	Email      string                `xml:"email,attr"`
	License    string                `xml:"license,attr"`
	Version    string                `xml:"version,attr"`
	URL        string                `xml:"url,attr,omitempty"`
	Citation   string                `xml:"citation,attr,omitempty"`
	Logo       string                `xml:"logo,attr,omitempty"`
	Requires   []Requires            `xml:"Requires"`
	Extends    []Extends             `xml:"Extends"`
	Entries    []LexicalEntry        `xml:"LexicalEntry"`
	Synsets    []Synset              `xml:"Synset"`
	SynBehavs  []SyntacticBehaviour  `xml:"SyntacticBehaviour"`
}

// Requires declares a dependency on another lexicon.
type Requires struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
	URL     string `xml:"url,attr,omitempty"`
}

// Extends declares this lexicon extends another (LMF 1.3+ mechanism).
type Extends struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
	URL     string `xml:"url,attr,omitempty"`
}

// LexicalEntry is a word-with-POS: one Lemma plus zero or more Forms/Senses.
type LexicalEntry struct {
	XMLName    xml.Name     `xml:"LexicalEntry"`
	ID         string       `xml:"id,attr"`
	Lemma      Lemma        `xml:"Lemma"`
	Forms      []Form       `xml:"Form"`
	Senses     []Sense      `xml:"Sense"`
}

// Lemma is an entry's rank-0 form: the citation written form.
type Lemma struct {
	WrittenForm    string          `xml:"writtenForm,attr"`
	PartOfSpeech   string          `xml:"partOfSpeech,attr"`
	Script         string          `xml:"script,attr,omitempty"`
	Pronunciations []Pronunciation `xml:"Pronunciation"`
}

// Form is an alternate written form (rank >= 1).
type Form struct {
	ID             string          `xml:"id,attr,omitempty"`
	WrittenForm    string          `xml:"writtenForm,attr"`
	Script         string          `xml:"script,attr,omitempty"`
	Pronunciations []Pronunciation `xml:"Pronunciation"`
	Tags           []Tag           `xml:"Tag"`
}

// Pronunciation is attached to a Lemma or Form.
type Pronunciation struct {
	Value    string `xml:",chardata"`
	Variety  string `xml:"variety,attr,omitempty"`
	Notation string `xml:"notation,attr,omitempty"`
	Phonemic bool   `xml:"phonemic,attr,omitempty"`
	Audio    string `xml:"audio,attr,omitempty"`
}

// Tag is attached to a Form.
type Tag struct {
	Text     string `xml:",chardata"`
	Category string `xml:"category,attr"`
}

// Sense bridges an entry to a synset.
type Sense struct {
	ID                  string                        `xml:"id,attr"`
	Synset              string                        `xml:"synset,attr"`
	SubCat              string                        `xml:"subcat,attr,omitempty"`
	AdjPosition         string                        `xml:"adjposition,attr,omitempty"`
	Counts              []Count                       `xml:"Count"`
	Examples            []Example                     `xml:"Example"`
	SenseRelations       []SenseRelation               `xml:"SenseRelation"`
	SenseSynsetRelations []SenseSynsetRelation         `xml:"SenseSynsetRelation"`
}

// Count is a corpus-frequency observation attached to a Sense.
type Count struct {
	Value int    `xml:",chardata"`
	Note  string `xml:"note,attr,omitempty"`
}

// SenseRelation is a typed sense->sense edge.
type SenseRelation struct {
	Target string `xml:"target,attr"`
	RelType string `xml:"relType,attr"`
}

// SenseSynsetRelation is a typed sense->synset edge (the spec's third
// relation space — "other relation"/exocentric-style edges).
type SenseSynsetRelation struct {
	Target  string `xml:"target,attr"`
	RelType string `xml:"relType,attr"`
}

// Synset is a concept node: part of speech, optional ILI, definitions,
// examples, and synset->synset relations.
type Synset struct {
	XMLName       xml.Name         `xml:"Synset"`
	ID            string           `xml:"id,attr"`
	ILI           string           `xml:"ili,attr,omitempty"`
	PartOfSpeech  string           `xml:"partOfSpeech,attr"`
	Lexfile       string           `xml:"lexfile,attr,omitempty"`
	Members       string           `xml:"members,attr,omitempty"`
	Definitions   []Definition     `xml:"Definition"`
	ILIDefinition *ILIDefinition   `xml:"ILIDefinition"`
	Examples      []Example        `xml:"Example"`
	Relations     []SynsetRelation `xml:"SynsetRelation"`
}

// Definition is owned by a Synset.
type Definition struct {
	Text          string `xml:",chardata"`
	Language      string `xml:"language,attr,omitempty"`
	SourceSense   string `xml:"sourceSense,attr,omitempty"`
}

// ILIDefinition is a proposed ILI's definition, required when a Synset
// carries no concrete ili reference but wants one minted downstream.
type ILIDefinition struct {
	Text string `xml:",chardata"`
}

// Example is owned by either a Synset or a Sense, never both — the
// containing element determines ownership, so this struct carries no
// explicit owner field.
type Example struct {
	Text     string `xml:",chardata"`
	Language string `xml:"language,attr,omitempty"`
}

// SynsetRelation is a typed synset->synset edge.
type SynsetRelation struct {
	Target  string `xml:"target,attr"`
	RelType string `xml:"relType,attr"`
}

// SyntacticBehaviour is a subcategorization frame, referencing the senses
// that share it by id.
type SyntacticBehaviour struct {
	ID                     string `xml:"id,attr"`
	SubcategorizationFrame string `xml:"subcategorizationFrame,attr"`
	Senses                 string `xml:"senses,attr"` // space-separated sense ids
}
