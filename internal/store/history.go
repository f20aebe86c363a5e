package store

import "database/sql"

// InsertHistoryRecord appends one field-level change record. seq is a
// monotonically increasing counter the caller maintains per transaction so
// records retain insertion order even though occurred_at has only
// second-level resolution on some platforms.
func (t *Tx) InsertHistoryRecord(recordID, txnID, entityKind, entityID, field, op, priorValue, newValue, occurredAt string, seq int64) error {
	_, err := t.Exec(`
		INSERT INTO history (record_id, txn_id, entity_kind, entity_id, field, op, prior_value, new_value, occurred_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recordID, txnID, entityKind, entityID, nullable(field), op, nullable(priorValue), nullable(newValue), occurredAt, seq)
	return err
}

// HistoryRecordRow is one row read back from the history table.
type HistoryRecordRow struct {
	RecordID   string
	TxnID      string
	EntityKind string
	EntityID   string
	Field      string
	Op         string
	PriorValue string
	NewValue   string
	OccurredAt string
	Seq        int64
}

// ListHistoryForEntity returns every history record for one entity,
// ordered by insertion sequence.
func (t *Tx) ListHistoryForEntity(entityKind, entityID string) ([]HistoryRecordRow, error) {
	rows, err := t.Query(`
		SELECT record_id, txn_id, entity_kind, entity_id, field, op, prior_value, new_value, occurred_at, seq
		FROM history WHERE entity_kind = ? AND entity_id = ? ORDER BY seq ASC
	`, entityKind, entityID)
	if err != nil {
		return nil, err
	}
	return scanHistoryRows(rows)
}

// ListHistoryInRange returns every history record with occurred_at in
// [from, to), ordered by insertion sequence.
func (t *Tx) ListHistoryInRange(from, to string) ([]HistoryRecordRow, error) {
	rows, err := t.Query(`
		SELECT record_id, txn_id, entity_kind, entity_id, field, op, prior_value, new_value, occurred_at, seq
		FROM history WHERE occurred_at >= ? AND occurred_at < ? ORDER BY seq ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return scanHistoryRows(rows)
}

// ListHistoryByTxn returns every history record stamped with one
// transaction id, ordered by insertion sequence.
func (t *Tx) ListHistoryByTxn(txnID string) ([]HistoryRecordRow, error) {
	rows, err := t.Query(`
		SELECT record_id, txn_id, entity_kind, entity_id, field, op, prior_value, new_value, occurred_at, seq
		FROM history WHERE txn_id = ? ORDER BY seq ASC
	`, txnID)
	if err != nil {
		return nil, err
	}
	return scanHistoryRows(rows)
}

func scanHistoryRows(rows *sql.Rows) ([]HistoryRecordRow, error) {
	defer rows.Close()
	var out []HistoryRecordRow
	for rows.Next() {
		var r HistoryRecordRow
		var field, prior, new_ sql.NullString
		if err := rows.Scan(&r.RecordID, &r.TxnID, &r.EntityKind, &r.EntityID, &field, &r.Op, &prior, &new_, &r.OccurredAt, &r.Seq); err != nil {
			return nil, err
		}
		r.Field, r.PriorValue, r.NewValue = field.String, prior.String, new_.String
		out = append(out, r)
	}
	return out, rows.Err()
}
