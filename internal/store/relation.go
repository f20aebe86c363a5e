package store

import (
	"database/sql"

	"github.com/lexkit/wneditor/internal/model"
)

// relationTable returns the name of the table backing a relation
// space. All three spaces share the same (source_key, type, target_key)
// shape, so the row-level operations below are parameterized on it rather
// than duplicated three times.
func relationTable(space model.RelationSpace) string {
	switch space {
	case model.RelationSynsetToSynset:
		return "synset_relations"
	case model.RelationSenseToSense:
		return "sense_relations"
	default:
		return "sense_synset_relations"
	}
}

// InsertRelation inserts a (source, type, target) edge. Returns
// IsUniqueViolation-detectable errors on duplicate edges — the mutation
// engine treats a duplicate forward/inverse pair as a no-op, not a failure.
func (t *Tx) InsertRelation(space model.RelationSpace, sourceKey int64, typ string, targetKey int64, metadata model.Metadata) error {
	meta, err := model.EncodeMetadata(metadata)
	if err != nil {
		return err
	}
	table := relationTable(space)
	_, err = t.Exec(`INSERT INTO `+table+` (source_key, type, target_key, metadata) VALUES (?, ?, ?, ?)`,
		sourceKey, typ, targetKey, nullable(meta))
	return err
}

// RelationExists reports whether the given edge is already present.
func (t *Tx) RelationExists(space model.RelationSpace, sourceKey int64, typ string, targetKey int64) (bool, error) {
	table := relationTable(space)
	var n int
	err := t.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE source_key = ? AND type = ? AND target_key = ?`, sourceKey, typ, targetKey).Scan(&n)
	return n > 0, err
}

// DeleteRelation removes one edge.
func (t *Tx) DeleteRelation(space model.RelationSpace, sourceKey int64, typ string, targetKey int64) error {
	table := relationTable(space)
	_, err := t.Exec(`DELETE FROM `+table+` WHERE source_key = ? AND type = ? AND target_key = ?`, sourceKey, typ, targetKey)
	return err
}

// relationRow is one (type, target_key, metadata) edge read back out of a
// relation table, with the target's public id resolved.
type relationRow struct {
	Type     string
	TargetID string
	Metadata model.Metadata
}

// ListOutgoingSynsetRelations lists every synset->synset edge sourced at
// sourceKey.
func (t *Tx) ListOutgoingSynsetRelations(sourceKey int64) ([]model.Relation, error) {
	return t.listRelations("synset_relations", "synsets", sourceKey)
}

// ListOutgoingSenseRelations lists every sense->sense edge sourced at
// sourceKey.
func (t *Tx) ListOutgoingSenseRelations(sourceKey int64) ([]model.Relation, error) {
	return t.listRelations("sense_relations", "senses", sourceKey)
}

// ListOutgoingSenseSynsetRelations lists every sense->synset edge sourced
// at sourceKey.
func (t *Tx) ListOutgoingSenseSynsetRelations(sourceKey int64) ([]model.Relation, error) {
	return t.listRelations("sense_synset_relations", "synsets", sourceKey)
}

func (t *Tx) listRelations(table, targetTable string, sourceKey int64) ([]model.Relation, error) {
	rows, err := t.Query(`
		SELECT r.type, tgt.id, r.metadata
		FROM `+table+` r
		JOIN `+targetTable+` tgt ON tgt.`+surrogateCol(targetTable)+` = r.target_key
		WHERE r.source_key = ?
	`, sourceKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Relation
	for rows.Next() {
		var rel model.Relation
		var meta sql.NullString
		if err := rows.Scan(&rel.Type, &rel.Target, &meta); err != nil {
			return nil, err
		}
		if rel.Metadata, err = model.DecodeMetadata(meta.String); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func surrogateCol(table string) string {
	switch table {
	case "synsets":
		return "synset_key"
	default:
		return "sense_key"
	}
}

// KeyedRelation is one (type, target_key, metadata) edge at the surrogate
// level, used where a caller needs to reinsert the edge at a different
// source/target key rather than resolve it to a public id.
type KeyedRelation struct {
	Type     string
	OtherKey int64
	Metadata model.Metadata
}

// ListOutgoingSynsetRelationKeys lists every synset_relations edge sourced
// at sourceKey, keyed (not resolved to public ids).
func (t *Tx) ListOutgoingSynsetRelationKeys(sourceKey int64) ([]KeyedRelation, error) {
	return t.listKeyedRelations("synset_relations", "source_key", "target_key", sourceKey)
}

// ListIncomingSynsetRelationKeys lists every synset_relations edge
// targeting targetKey, keyed (not resolved to public ids).
func (t *Tx) ListIncomingSynsetRelationKeys(targetKey int64) ([]KeyedRelation, error) {
	return t.listKeyedRelations("synset_relations", "target_key", "source_key", targetKey)
}

func (t *Tx) listKeyedRelations(table, filterCol, otherCol string, filterKey int64) ([]KeyedRelation, error) {
	rows, err := t.Query(`SELECT type, `+otherCol+`, metadata FROM `+table+` WHERE `+filterCol+` = ?`, filterKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []KeyedRelation
	for rows.Next() {
		var kr KeyedRelation
		var meta sql.NullString
		if err := rows.Scan(&kr.Type, &kr.OtherKey, &meta); err != nil {
			return nil, err
		}
		if kr.Metadata, err = model.DecodeMetadata(meta.String); err != nil {
			return nil, err
		}
		out = append(out, kr)
	}
	return out, rows.Err()
}

// DeleteRelationsForSynset removes every edge (either direction, across
// all three spaces) that touches a synset surrogate key. Used by
// cascading synset deletion.
func (t *Tx) DeleteRelationsForSynset(synsetKey int64) error {
	if _, err := t.Exec(`DELETE FROM synset_relations WHERE source_key = ? OR target_key = ?`, synsetKey, synsetKey); err != nil {
		return err
	}
	_, err := t.Exec(`DELETE FROM sense_synset_relations WHERE target_key = ?`, synsetKey)
	return err
}

// DeleteRelationsForSense removes every edge (either direction) that
// touches a sense surrogate key. Used by cascading sense deletion.
func (t *Tx) DeleteRelationsForSense(senseKey int64) error {
	if _, err := t.Exec(`DELETE FROM sense_relations WHERE source_key = ? OR target_key = ?`, senseKey, senseKey); err != nil {
		return err
	}
	_, err := t.Exec(`DELETE FROM sense_synset_relations WHERE source_key = ?`, senseKey)
	return err
}
