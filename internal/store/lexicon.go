package store

import (
	"database/sql"
	"fmt"

	"github.com/lexkit/wneditor/internal/model"
)

// InsertLexicon inserts a new lexicon row. Fails with a duplicate error
// (via the UNIQUE(id) constraint) if id already exists — spec.md's
// invariant that at most one lexicon per id may exist at a time.
func (t *Tx) InsertLexicon(l model.Lexicon) (int64, error) {
	meta, err := model.EncodeMetadata(l.Metadata)
	if err != nil {
		return 0, err
	}
	res, err := t.Exec(`
		INSERT INTO lexicons (id, version, label, language, email, license, url, citation, logo, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Version, l.Label, l.Language, l.Email, l.License, l.URL, l.Citation, l.Logo, nullable(meta))
	if err != nil {
		return 0, err
	}
	key, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, ref := range l.Requires {
		if _, err := t.Exec(`INSERT INTO lexicon_refs (lexicon_key, kind, ref_id, ref_version, ref_url) VALUES (?, 'requires', ?, ?, ?)`,
			key, ref.ID, ref.Version, ref.URL); err != nil {
			return 0, err
		}
	}
	for _, ref := range l.Extends {
		if _, err := t.Exec(`INSERT INTO lexicon_refs (lexicon_key, kind, ref_id, ref_version, ref_url) VALUES (?, 'extends', ?, ?, ?)`,
			key, ref.ID, ref.Version, ref.URL); err != nil {
			return 0, err
		}
	}
	return key, nil
}

// LexiconKey resolves a lexicon's surrogate key by its bare id.
func (t *Tx) LexiconKey(id string) (int64, error) {
	var key int64
	err := t.QueryRow(`SELECT lexicon_key FROM lexicons WHERE id = ?`, id).Scan(&key)
	if err == sql.ErrNoRows {
		return 0, &ErrNotFound{Kind: "lexicon", ID: id}
	}
	return key, err
}

// ResolveLexicon resolves a lexicon by either bare id or "id:version"
// specifier. On ambiguity the bare-id form is preferred, since the store
// forbids two versions of one lexicon id coexisting.
func (t *Tx) ResolveLexicon(specifier string) (model.Lexicon, int64, error) {
	id, version := splitSpecifier(specifier)
	var row model.Lexicon
	var key int64
	var email, license, url, citation, logo, meta sql.NullString
	var gotVersion string
	query := `SELECT lexicon_key, id, version, label, language, email, license, url, citation, logo, metadata FROM lexicons WHERE id = ?`
	err := t.QueryRow(query, id).Scan(&key, &row.ID, &gotVersion, &row.Label, &row.Language, &email, &license, &url, &citation, &logo, &meta)
	if err == sql.ErrNoRows {
		return model.Lexicon{}, 0, &ErrNotFound{Kind: "lexicon", ID: specifier}
	}
	if err != nil {
		return model.Lexicon{}, 0, err
	}
	if version != "" && version != gotVersion {
		return model.Lexicon{}, 0, &ErrNotFound{Kind: "lexicon", ID: specifier}
	}
	row.Version = gotVersion
	row.Email, row.License, row.URL, row.Citation, row.Logo = email.String, license.String, url.String, citation.String, logo.String
	row.Metadata, err = model.DecodeMetadata(meta.String)
	if err != nil {
		return model.Lexicon{}, 0, err
	}
	row.Requires, row.Extends, err = t.lexiconRefs(key)
	return row, key, err
}

func (t *Tx) lexiconRefs(key int64) (requires, extends []model.LexiconRef, err error) {
	rows, err := t.Query(`SELECT kind, ref_id, ref_version, ref_url FROM lexicon_refs WHERE lexicon_key = ?`, key)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var ref model.LexiconRef
		var refVersion, refURL sql.NullString
		if err := rows.Scan(&kind, &ref.ID, &refVersion, &refURL); err != nil {
			return nil, nil, err
		}
		ref.Version, ref.URL = refVersion.String, refURL.String
		if kind == "requires" {
			requires = append(requires, ref)
		} else {
			extends = append(extends, ref)
		}
	}
	return requires, extends, rows.Err()
}

// UpdateLexicon replaces the mutable fields of an existing lexicon row.
func (t *Tx) UpdateLexicon(key int64, l model.Lexicon) error {
	meta, err := model.EncodeMetadata(l.Metadata)
	if err != nil {
		return err
	}
	_, err = t.Exec(`
		UPDATE lexicons SET label = ?, language = ?, email = ?, license = ?, url = ?, citation = ?, logo = ?, metadata = ?
		WHERE lexicon_key = ?
	`, l.Label, l.Language, l.Email, l.License, l.URL, l.Citation, l.Logo, nullable(meta), key)
	return err
}

// DeleteLexicon removes a lexicon row. Callers must cascade-delete all
// owned synsets/entries first.
func (t *Tx) DeleteLexicon(key int64) error {
	if _, err := t.Exec(`DELETE FROM lexicon_refs WHERE lexicon_key = ?`, key); err != nil {
		return err
	}
	res, err := t.Exec(`DELETE FROM lexicons WHERE lexicon_key = ?`, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: delete lexicon: no such key %d", key)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func splitSpecifier(specifier string) (id, version string) {
	for i := 0; i < len(specifier); i++ {
		if specifier[i] == ':' {
			return specifier[:i], specifier[i+1:]
		}
	}
	return specifier, ""
}
