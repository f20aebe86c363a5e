package store

import (
	"database/sql"
	"strings"

	"github.com/lexkit/wneditor/internal/model"
)

// InsertSynset inserts a new synset row scoped to lexiconKey.
func (t *Tx) InsertSynset(lexiconKey int64, s model.Synset) (int64, error) {
	meta, err := model.EncodeMetadata(s.Metadata)
	if err != nil {
		return 0, err
	}
	res, err := t.Exec(`
		INSERT INTO synsets (id, lexicon_key, part_of_speech, ili, lexfile, lexicalized, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, lexiconKey, string(s.PartOfSpeech), nullable(s.ILI), nullable(s.Lexfile), boolToInt(s.Lexicalized), nullable(meta))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SynsetKey resolves a synset's surrogate key.
func (t *Tx) SynsetKey(lexiconKey int64, id string) (int64, error) {
	return t.resolveSurrogate("synsets", "synset_key", id, lexiconKey)
}

// GetSynset reads a synset row by surrogate key.
func (t *Tx) GetSynset(key int64) (model.Synset, error) {
	var s model.Synset
	var lexiconKey int64
	var pos string
	var ili, lexfile, meta sql.NullString
	var lexicalized int
	err := t.QueryRow(`
		SELECT id, lexicon_key, part_of_speech, ili, lexfile, lexicalized, metadata
		FROM synsets WHERE synset_key = ?
	`, key).Scan(&s.ID, &lexiconKey, &pos, &ili, &lexfile, &lexicalized, &meta)
	if err == sql.ErrNoRows {
		return model.Synset{}, &ErrNotFound{Kind: "synset", ID: "<key>"}
	}
	if err != nil {
		return model.Synset{}, err
	}
	s.PartOfSpeech = model.PartOfSpeech(pos)
	s.ILI = ili.String
	s.Lexfile = lexfile.String
	s.Lexicalized = lexicalized != 0
	s.Metadata, err = model.DecodeMetadata(meta.String)
	return s, err
}

// UpdateSynset replaces the mutable fields of a synset row.
func (t *Tx) UpdateSynset(key int64, s model.Synset) error {
	meta, err := model.EncodeMetadata(s.Metadata)
	if err != nil {
		return err
	}
	_, err = t.Exec(`
		UPDATE synsets SET part_of_speech = ?, ili = ?, lexfile = ?, metadata = ?
		WHERE synset_key = ?
	`, string(s.PartOfSpeech), nullable(s.ILI), nullable(s.Lexfile), nullable(meta), key)
	return err
}

// SetLexicalized updates a synset's derived lexicalized flag.
func (t *Tx) SetLexicalized(key int64, v bool) error {
	_, err := t.Exec(`UPDATE synsets SET lexicalized = ? WHERE synset_key = ?`, boolToInt(v), key)
	return err
}

// CountSenses returns how many senses reference a synset.
func (t *Tx) CountSenses(synsetKey int64) (int, error) {
	var n int
	err := t.QueryRow(`SELECT COUNT(*) FROM senses WHERE synset_key = ?`, synsetKey).Scan(&n)
	return n, err
}

// DeleteSynsetRow removes the bare synset row (child rows must already be
// gone; DeleteSynset in the mutation engine handles the cascade).
func (t *Tx) DeleteSynsetRow(key int64, lexiconKey int64, id string) error {
	if _, err := t.Exec(`DELETE FROM synsets WHERE synset_key = ?`, key); err != nil {
		return err
	}
	t.invalidate("synsets", id, lexiconKey)
	return nil
}

// ListSynsetsByLexicon lists every synset surrogate key owned by a lexicon.
func (t *Tx) ListSynsetsByLexicon(lexiconKey int64) ([]int64, error) {
	rows, err := t.Query(`SELECT synset_key FROM synsets WHERE lexicon_key = ?`, lexiconKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var k int64
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// MaxSynsetNumericSuffix returns the largest numeric suffix used by any
// synset id in the lexicon, for "MAX+1" id generation.
func (t *Tx) MaxSynsetNumericSuffix(lexiconKey int64) (int, error) {
	rows, err := t.Query(`SELECT id FROM synsets WHERE lexicon_key = ?`, lexiconKey)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	max := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		if n, ok := trailingNumericSuffix(id); ok && n > max {
			max = n
		}
	}
	return max, rows.Err()
}

// --- Definitions ---

func (t *Tx) InsertDefinition(synsetKey int64, d model.Definition) (int64, error) {
	res, err := t.Exec(`INSERT INTO definitions (synset_key, text, language, source_sense_id) VALUES (?, ?, ?, ?)`,
		synsetKey, d.Text, nullable(d.Language), nullable(d.SourceSenseID))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) ListDefinitions(synsetKey int64) ([]model.Definition, error) {
	rows, err := t.Query(`SELECT definition_id, text, language, source_sense_id FROM definitions WHERE synset_key = ?`, synsetKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Definition
	for rows.Next() {
		var d model.Definition
		var lang, src sql.NullString
		if err := rows.Scan(&d.ID, &d.Text, &lang, &src); err != nil {
			return nil, err
		}
		d.SynsetID = ""
		d.Language, d.SourceSenseID = lang.String, src.String
		out = append(out, d)
	}
	return out, rows.Err()
}

func (t *Tx) DeleteDefinitionsBySynset(synsetKey int64) error {
	_, err := t.Exec(`DELETE FROM definitions WHERE synset_key = ?`, synsetKey)
	return err
}

// --- Examples (synset-owned and sense-owned) ---

func (t *Tx) InsertSynsetExample(synsetKey int64, text, language string) (int64, error) {
	res, err := t.Exec(`INSERT INTO examples (synset_key, sense_key, text, language) VALUES (?, NULL, ?, ?)`, synsetKey, text, nullable(language))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) InsertSenseExample(senseKey int64, text, language string) (int64, error) {
	res, err := t.Exec(`INSERT INTO examples (synset_key, sense_key, text, language) VALUES (NULL, ?, ?, ?)`, senseKey, text, nullable(language))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) ListSynsetExamples(synsetKey int64) ([]model.Example, error) {
	rows, err := t.Query(`SELECT example_id, text, language FROM examples WHERE synset_key = ?`, synsetKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Example
	for rows.Next() {
		var e model.Example
		var lang sql.NullString
		if err := rows.Scan(&e.ID, &e.Text, &lang); err != nil {
			return nil, err
		}
		e.Language = lang.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (t *Tx) ListSenseExamples(senseKey int64) ([]model.Example, error) {
	rows, err := t.Query(`SELECT example_id, text, language FROM examples WHERE sense_key = ?`, senseKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Example
	for rows.Next() {
		var e model.Example
		var lang sql.NullString
		if err := rows.Scan(&e.ID, &e.Text, &lang); err != nil {
			return nil, err
		}
		e.Language = lang.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (t *Tx) DeleteExamplesBySynset(synsetKey int64) error {
	_, err := t.Exec(`DELETE FROM examples WHERE synset_key = ?`, synsetKey)
	return err
}

func (t *Tx) DeleteExamplesBySense(senseKey int64) error {
	_, err := t.Exec(`DELETE FROM examples WHERE sense_key = ?`, senseKey)
	return err
}

// --- ILI / Proposed ILI ---

func (t *Tx) UpsertILI(ili model.ILI) error {
	_, err := t.Exec(`
		INSERT INTO ili (id, status, definition) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status, definition = excluded.definition
	`, ili.ID, string(ili.Status), nullable(ili.Definition))
	return err
}

func (t *Tx) GetILI(id string) (model.ILI, bool, error) {
	var ili model.ILI
	var def sql.NullString
	var status string
	err := t.QueryRow(`SELECT id, status, definition FROM ili WHERE id = ?`, id).Scan(&ili.ID, &status, &def)
	if err == sql.ErrNoRows {
		return model.ILI{}, false, nil
	}
	if err != nil {
		return model.ILI{}, false, err
	}
	ili.Status = model.ILIStatus(status)
	ili.Definition = def.String
	return ili, true, nil
}

func (t *Tx) SetProposedILI(synsetKey int64, definition string) error {
	_, err := t.Exec(`
		INSERT INTO proposed_ili (synset_key, definition) VALUES (?, ?)
		ON CONFLICT(synset_key) DO UPDATE SET definition = excluded.definition
	`, synsetKey, definition)
	return err
}

func (t *Tx) GetProposedILI(synsetKey int64) (string, bool, error) {
	var def string
	err := t.QueryRow(`SELECT definition FROM proposed_ili WHERE synset_key = ?`, synsetKey).Scan(&def)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	return def, err == nil, err
}

func (t *Tx) DeleteProposedILI(synsetKey int64) error {
	_, err := t.Exec(`DELETE FROM proposed_ili WHERE synset_key = ?`, synsetKey)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// trailingNumericSuffix extracts the run of digits that ends id, skipping a
// trailing non-numeric "-<pos>" segment: "awn-00042-n" and "awn-00042" both
// yield 42.
func trailingNumericSuffix(id string) (int, bool) {
	end := len(id)
	if i := strings.LastIndexByte(id, '-'); i >= 0 && i+1 < end && (id[i+1] < '0' || id[i+1] > '9') {
		end = i
	}
	start := end
	for start > 0 && id[start-1] >= '0' && id[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n := 0
	for _, c := range id[start:end] {
		n = n*10 + int(c-'0')
	}
	return n, true
}
