package store

import (
	"database/sql"

	"github.com/lexkit/wneditor/internal/model"
)

// InsertSense inserts a new sense row bridging an entry and a synset.
func (t *Tx) InsertSense(lexiconKey, entryKey, synsetKey int64, s model.Sense) (int64, error) {
	meta, err := model.EncodeMetadata(s.Metadata)
	if err != nil {
		return 0, err
	}
	res, err := t.Exec(`
		INSERT INTO senses (id, lexicon_key, entry_key, synset_key, entry_rank, synset_rank, lexicalized, adjposition, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, lexiconKey, entryKey, synsetKey, s.EntryRank, s.SynsetRank, boolToInt(s.Lexicalized), nullable(string(s.AdjPosition)), nullable(meta))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SenseKey resolves a sense's surrogate key.
func (t *Tx) SenseKey(lexiconKey int64, id string) (int64, error) {
	return t.resolveSurrogate("senses", "sense_key", id, lexiconKey)
}

// GetSense reads a sense row by surrogate key.
func (t *Tx) GetSense(key int64) (model.Sense, int64, int64, error) {
	var s model.Sense
	var lexiconKey, entryKey, synsetKey int64
	var lexicalized int
	var adjpos, meta sql.NullString
	err := t.QueryRow(`
		SELECT id, lexicon_key, entry_key, synset_key, entry_rank, synset_rank, lexicalized, adjposition, metadata
		FROM senses WHERE sense_key = ?
	`, key).Scan(&s.ID, &lexiconKey, &entryKey, &synsetKey, &s.EntryRank, &s.SynsetRank, &lexicalized, &adjpos, &meta)
	if err == sql.ErrNoRows {
		return model.Sense{}, 0, 0, &ErrNotFound{Kind: "sense", ID: "<key>"}
	}
	if err != nil {
		return model.Sense{}, 0, 0, err
	}
	s.Lexicalized = lexicalized != 0
	s.AdjPosition = model.AdjPosition(adjpos.String)
	s.Metadata, err = model.DecodeMetadata(meta.String)
	return s, entryKey, synsetKey, err
}

// ListSensesByEntry lists sense surrogate keys for an entry, ordered by
// entry_rank.
func (t *Tx) ListSensesByEntry(entryKey int64) ([]int64, error) {
	rows, err := t.Query(`SELECT sense_key FROM senses WHERE entry_key = ? ORDER BY entry_rank ASC`, entryKey)
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

// ListSensesBySynset lists sense surrogate keys for a synset, ordered by
// synset_rank.
func (t *Tx) ListSensesBySynset(synsetKey int64) ([]int64, error) {
	rows, err := t.Query(`SELECT sense_key FROM senses WHERE synset_key = ? ORDER BY synset_rank ASC`, synsetKey)
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

// UpdateSenseRanks rewrites a sense's entry_rank/synset_rank. MoveSense and
// the deletion paths do not call it, so they leave the remaining ranks as
// they are.
func (t *Tx) UpdateSenseRanks(senseKey int64, entryRank, synsetRank int) error {
	_, err := t.Exec(`UPDATE senses SET entry_rank = ?, synset_rank = ? WHERE sense_key = ?`, entryRank, synsetRank, senseKey)
	return err
}

// RebindSenseSynset points an existing sense at a different synset, used by
// MoveSense.
func (t *Tx) RebindSenseSynset(senseKey, newSynsetKey int64, synsetRank int) error {
	_, err := t.Exec(`UPDATE senses SET synset_key = ?, synset_rank = ? WHERE sense_key = ?`, newSynsetKey, synsetRank, senseKey)
	return err
}

func (t *Tx) DeleteSenseRow(key, lexiconKey int64, id string) error {
	if _, err := t.Exec(`DELETE FROM syntactic_behaviour_senses WHERE sense_key = ?`, key); err != nil {
		return err
	}
	if _, err := t.Exec(`DELETE FROM counts WHERE sense_key = ?`, key); err != nil {
		return err
	}
	if _, err := t.Exec(`DELETE FROM examples WHERE sense_key = ?`, key); err != nil {
		return err
	}
	if _, err := t.Exec(`DELETE FROM sense_relations WHERE source_key = ? OR target_key = ?`, key, key); err != nil {
		return err
	}
	if _, err := t.Exec(`DELETE FROM sense_synset_relations WHERE source_key = ?`, key); err != nil {
		return err
	}
	if _, err := t.Exec(`DELETE FROM senses WHERE sense_key = ?`, key); err != nil {
		return err
	}
	t.invalidate("senses", id, lexiconKey)
	return nil
}

// --- Counts ---

func (t *Tx) InsertCount(senseKey int64, c model.Count) (int64, error) {
	meta, err := model.EncodeMetadata(c.Metadata)
	if err != nil {
		return 0, err
	}
	res, err := t.Exec(`INSERT INTO counts (sense_key, value, metadata) VALUES (?, ?, ?)`, senseKey, c.Value, nullable(meta))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) ListCounts(senseKey int64) ([]model.Count, error) {
	rows, err := t.Query(`SELECT count_id, value, metadata FROM counts WHERE sense_key = ?`, senseKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Count
	for rows.Next() {
		var c model.Count
		var meta sql.NullString
		if err := rows.Scan(&c.ID, &c.Value, &meta); err != nil {
			return nil, err
		}
		if c.Metadata, err = model.DecodeMetadata(meta.String); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- Syntactic behaviours ---

func (t *Tx) InsertSyntacticBehaviour(lexiconKey int64, id, frame string) (int64, error) {
	res, err := t.Exec(`INSERT INTO syntactic_behaviours (id, lexicon_key, frame) VALUES (?, ?, ?)`, id, lexiconKey, frame)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) SyntacticBehaviourKey(lexiconKey int64, id string) (int64, error) {
	return t.resolveSurrogate("syntactic_behaviours", "sb_key", id, lexiconKey)
}

func (t *Tx) LinkSyntacticBehaviour(sbKey, senseKey int64) error {
	_, err := t.Exec(`INSERT OR IGNORE INTO syntactic_behaviour_senses (sb_key, sense_key) VALUES (?, ?)`, sbKey, senseKey)
	return err
}

func (t *Tx) UnlinkSyntacticBehaviour(sbKey, senseKey int64) error {
	_, err := t.Exec(`DELETE FROM syntactic_behaviour_senses WHERE sb_key = ? AND sense_key = ?`, sbKey, senseKey)
	return err
}

func (t *Tx) ListSyntacticBehavioursBySense(senseKey int64) ([]model.SyntacticBehaviour, error) {
	rows, err := t.Query(`
		SELECT sb.id, sb.frame
		FROM syntactic_behaviours sb
		JOIN syntactic_behaviour_senses j ON j.sb_key = sb.sb_key
		WHERE j.sense_key = ?
	`, senseKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SyntacticBehaviour
	for rows.Next() {
		var sb model.SyntacticBehaviour
		if err := rows.Scan(&sb.ID, &sb.SubcategorizationFrame); err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	return out, rows.Err()
}

// ListSyntacticBehavioursByLexicon lists every syntactic behaviour surrogate
// key/id/frame owned by a lexicon, for bulk export.
func (t *Tx) ListSyntacticBehavioursByLexicon(lexiconKey int64) ([]int64, []model.SyntacticBehaviour, error) {
	rows, err := t.Query(`SELECT sb_key, id, frame FROM syntactic_behaviours WHERE lexicon_key = ?`, lexiconKey)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var keys []int64
	var out []model.SyntacticBehaviour
	for rows.Next() {
		var key int64
		var sb model.SyntacticBehaviour
		if err := rows.Scan(&key, &sb.ID, &sb.SubcategorizationFrame); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		out = append(out, sb)
	}
	return keys, out, rows.Err()
}

func (t *Tx) ListSenseIDsBySyntacticBehaviour(sbKey int64) ([]string, error) {
	rows, err := t.Query(`
		SELECT s.id FROM senses s
		JOIN syntactic_behaviour_senses j ON j.sense_key = s.sense_key
		WHERE j.sb_key = ?
	`, sbKey)
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
