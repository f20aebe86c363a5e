package lmf

import "fmt"

// Target versions the exporter can reconstruct a document in.
const (
	Version14 = "1.4"
	Version10 = "1.0"
)

// DowngradeToV10 rewrites doc in place to WN-LMF 1.0: lexfiles and sense
// counts are both 1.1+ constructs unrepresentable in 1.0 and are dropped.
// Returns one diagnostic per kind of data dropped, empty if doc already fit.
func DowngradeToV10(doc *LexicalResource) []string {
	var lexfilesDropped, countsDropped int
	for li := range doc.Lexicons {
		lex := &doc.Lexicons[li]
		for si := range lex.Synsets {
			if lex.Synsets[si].Lexfile != "" {
				lex.Synsets[si].Lexfile = ""
				lexfilesDropped++
			}
		}
		for ei := range lex.Entries {
			senses := lex.Entries[ei].Senses
			for si := range senses {
				if n := len(senses[si].Counts); n > 0 {
					countsDropped += n
					senses[si].Counts = nil
				}
			}
		}
	}
	var diagnostics []string
	if lexfilesDropped > 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("dropped %d lexfile attribute(s): not representable in WN-LMF 1.0", lexfilesDropped))
	}
	if countsDropped > 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("dropped %d sense count(s): not representable in WN-LMF 1.0", countsDropped))
	}
	return diagnostics
}
