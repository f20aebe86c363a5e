package wneditor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexkit/wneditor/internal/logging"
	"github.com/lexkit/wneditor/pkg/docstore"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	ed, err := Open(Options{StoreDSN: ":memory:", AutoInverse: true, RecordHistory: true, Logger: logging.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { ed.Close() })
	return ed
}

func TestEndToEndCreateEditExportCommit(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()

	lex, err := ed.CreateLexicon(ctx, Lexicon{ID: "oewn", Version: "2024", Label: "Open English WordNet", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "oewn", lex.ID)

	syn, err := ed.CreateSynset(ctx, "oewn:2024", Synset{PartOfSpeech: PartOfSpeech("n")})
	require.NoError(t, err)
	require.NoError(t, ed.AddDefinition(ctx, "oewn:2024", syn.ID, Definition{Text: "a financial institution"}))

	ent, err := ed.CreateEntry(ctx, "oewn:2024", Entry{PartOfSpeech: PartOfSpeech("n")}, "bank")
	require.NoError(t, err)

	sense, err := ed.AddSense(ctx, "oewn:2024", ent.ID, syn.ID, Sense{})
	require.NoError(t, err)
	assert.Equal(t, 1, sense.EntryRank)

	gotSyn, err := ed.GetSynset(ctx, "oewn:2024", syn.ID)
	require.NoError(t, err)
	assert.True(t, gotSyn.Lexicalized, "expected synset to be lexicalized once it has a sense")

	findings, err := ed.Validate(ctx, "oewn:2024")
	require.NoError(t, err)
	for _, f := range findings {
		assert.NotEqual(t, SeverityError, f.Severity, "unexpected error finding: %+v", f)
	}

	sink := docstore.New()
	require.NoError(t, ed.Commit(ctx, "oewn:2024", sink))
	_, ok := sink.Get("oewn")
	assert.True(t, ok, "expected the sink to hold the committed document")

	hist, err := ed.HistoryForEntity(ctx, "synset", syn.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, hist, "expected history entries to be recorded for the new synset")
}

func TestCreateLexiconRejectsDuplicateID(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	_, err := ed.CreateLexicon(ctx, Lexicon{ID: "oewn", Version: "2024"})
	require.NoError(t, err)

	_, err = ed.CreateLexicon(ctx, Lexicon{ID: "oewn", Version: "2025"})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindDuplicateEntity, kind)
}

func TestMergeSynsetsThroughFacade(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	_, err := ed.CreateLexicon(ctx, Lexicon{ID: "oewn", Version: "2024"})
	require.NoError(t, err)

	src, err := ed.CreateSynset(ctx, "oewn:2024", Synset{PartOfSpeech: PartOfSpeech("n")})
	require.NoError(t, err)
	tgt, err := ed.CreateSynset(ctx, "oewn:2024", Synset{PartOfSpeech: PartOfSpeech("n")})
	require.NoError(t, err)
	ent, err := ed.CreateEntry(ctx, "oewn:2024", Entry{PartOfSpeech: PartOfSpeech("n")}, "bank")
	require.NoError(t, err)
	_, err = ed.AddSense(ctx, "oewn:2024", ent.ID, src.ID, Sense{})
	require.NoError(t, err)

	merged, err := ed.MergeSynsets(ctx, "oewn:2024", src.ID, tgt.ID)
	require.NoError(t, err)
	assert.Equal(t, tgt.ID, merged.ID)

	_, err = ed.GetSynset(ctx, "oewn:2024", src.ID)
	assert.Error(t, err, "expected the source synset to be gone after merge")
}
