package store

import (
	"database/sql"

	"github.com/lexkit/wneditor/internal/model"
)

// InsertEntry inserts a new lexical entry row.
func (t *Tx) InsertEntry(lexiconKey int64, e model.Entry) (int64, error) {
	res, err := t.Exec(`
		INSERT INTO entries (id, lexicon_key, part_of_speech, index_form)
		VALUES (?, ?, ?, ?)
	`, e.ID, lexiconKey, string(e.PartOfSpeech), nullable(e.IndexForm))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// EntryKey resolves an entry's surrogate key.
func (t *Tx) EntryKey(lexiconKey int64, id string) (int64, error) {
	return t.resolveSurrogate("entries", "entry_key", id, lexiconKey)
}

// GetEntry reads an entry row by surrogate key.
func (t *Tx) GetEntry(key int64) (model.Entry, error) {
	var e model.Entry
	var lexiconKey int64
	var pos string
	var indexForm sql.NullString
	err := t.QueryRow(`SELECT id, lexicon_key, part_of_speech, index_form FROM entries WHERE entry_key = ?`, key).
		Scan(&e.ID, &lexiconKey, &pos, &indexForm)
	if err == sql.ErrNoRows {
		return model.Entry{}, &ErrNotFound{Kind: "entry", ID: "<key>"}
	}
	if err != nil {
		return model.Entry{}, err
	}
	e.PartOfSpeech = model.PartOfSpeech(pos)
	e.IndexForm = indexForm.String
	return e, nil
}

// DeleteEntryRow removes the bare entry row; forms/senses must already be gone.
func (t *Tx) DeleteEntryRow(key, lexiconKey int64, id string) error {
	if _, err := t.Exec(`DELETE FROM entries WHERE entry_key = ?`, key); err != nil {
		return err
	}
	t.invalidate("entries", id, lexiconKey)
	return nil
}

// CountSensesByEntry returns how many senses an entry owns.
func (t *Tx) CountSensesByEntry(entryKey int64) (int, error) {
	var n int
	err := t.QueryRow(`SELECT COUNT(*) FROM senses WHERE entry_key = ?`, entryKey).Scan(&n)
	return n, err
}

// ListEntryKeysByLexicon lists every entry surrogate key owned by a
// lexicon, used by cascading lexicon deletion.
func (t *Tx) ListEntryKeysByLexicon(lexiconKey int64) ([]int64, error) {
	rows, err := t.Query(`SELECT entry_key FROM entries WHERE lexicon_key = ?`, lexiconKey)
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

// ListEntryIDsByStem lists every entry id in the lexicon (no stem filter is
// applied), used by the mutation engine's id-suffix collision scan.
func (t *Tx) ListEntryIDsByStem(lexiconKey int64) ([]string, error) {
	rows, err := t.Query(`SELECT id FROM entries WHERE lexicon_key = ?`, lexiconKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// --- Forms ---

func (t *Tx) InsertForm(entryKey int64, f model.Form) (int64, error) {
	res, err := t.Exec(`
		INSERT INTO forms (id, entry_key, written, script, rank)
		VALUES (?, ?, ?, ?, ?)
	`, nullable(f.ID), entryKey, f.Written, nullable(f.Script), f.Rank)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) ListForms(entryKey int64) ([]model.Form, []int64, error) {
	rows, err := t.Query(`SELECT form_key, id, written, script, rank FROM forms WHERE entry_key = ? ORDER BY rank ASC`, entryKey)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var forms []model.Form
	var keys []int64
	for rows.Next() {
		var f model.Form
		var key int64
		var id, script sql.NullString
		if err := rows.Scan(&key, &id, &f.Written, &script, &f.Rank); err != nil {
			return nil, nil, err
		}
		f.ID, f.Script = id.String, script.String
		forms = append(forms, f)
		keys = append(keys, key)
	}
	return forms, keys, rows.Err()
}

// UpdateFormRank reassigns the rank-order position of a form, used to
// keep rank 0 pointed at the lemma when forms are reordered.
func (t *Tx) UpdateFormRank(formKey int64, rank int) error {
	_, err := t.Exec(`UPDATE forms SET rank = ? WHERE form_key = ?`, rank, formKey)
	return err
}

func (t *Tx) DeleteForm(formKey int64) error {
	if _, err := t.Exec(`DELETE FROM tags WHERE form_key = ?`, formKey); err != nil {
		return err
	}
	if _, err := t.Exec(`DELETE FROM pronunciations WHERE form_key = ?`, formKey); err != nil {
		return err
	}
	_, err := t.Exec(`DELETE FROM forms WHERE form_key = ?`, formKey)
	return err
}

// --- Pronunciations ---

func (t *Tx) InsertPronunciation(formKey int64, p model.Pronunciation) (int64, error) {
	res, err := t.Exec(`
		INSERT INTO pronunciations (form_key, value, variety, notation, phonemic, audio)
		VALUES (?, ?, ?, ?, ?, ?)
	`, formKey, p.Value, nullable(p.Variety), nullable(p.Notation), boolToInt(p.Phonemic), nullable(p.Audio))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) ListPronunciations(formKey int64) ([]model.Pronunciation, error) {
	rows, err := t.Query(`SELECT value, variety, notation, phonemic, audio FROM pronunciations WHERE form_key = ?`, formKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Pronunciation
	for rows.Next() {
		var p model.Pronunciation
		var variety, notation, audio sql.NullString
		var phonemic int
		if err := rows.Scan(&p.Value, &variety, &notation, &phonemic, &audio); err != nil {
			return nil, err
		}
		p.Variety, p.Notation, p.Audio = variety.String, notation.String, audio.String
		p.Phonemic = phonemic != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- Tags ---

func (t *Tx) InsertTag(formKey int64, category, text string) (int64, error) {
	res, err := t.Exec(`INSERT INTO tags (form_key, category, text) VALUES (?, ?, ?)`, formKey, category, text)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) ListTags(formKey int64) ([]model.Tag, error) {
	rows, err := t.Query(`SELECT category, text FROM tags WHERE form_key = ?`, formKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.Category, &tag.Text); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}
