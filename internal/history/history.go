// Package history records field-level change entries bound to the
// enclosing transaction. One Recorder is created per Batch call and
// accumulates records in insertion order; the mutation engine flushes it
// to the store before the transaction commits.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexkit/wneditor/internal/store"
)

// Op identifies the kind of change a Record describes.
type Op string

const (
	OpCreate Op = "CREATE"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Record is one field-level change, always bound to the transaction that
// produced it.
type Record struct {
	ID         string
	TxnID      string
	EntityKind string
	EntityID   string
	Field      string // empty for whole-entity CREATE/DELETE records
	Op         Op
	PriorValue string // JSON, empty on CREATE
	NewValue   string // JSON, empty on DELETE
	OccurredAt time.Time
}

// Recorder accumulates Records for one transaction and assigns them a
// stable insertion sequence.
type Recorder struct {
	txnID string
	now   time.Time
	seq   int64
	pend  []Record
}

// NewRecorder starts a recorder for one transaction, stamping every record
// it produces with txnID and now (threaded in explicitly since
// time.Now is off-limits inside code paths this package's callers share
// with deterministic replay/testing).
func NewRecorder(txnID string, now time.Time) *Recorder {
	return &Recorder{txnID: txnID, now: now}
}

// Record appends one field-level change.
func (r *Recorder) Record(entityKind, entityID, field string, op Op, priorValue, newValue string) {
	r.pend = append(r.pend, Record{
		ID:         uuid.NewString(),
		TxnID:      r.txnID,
		EntityKind: entityKind,
		EntityID:   entityID,
		Field:      field,
		Op:         op,
		PriorValue: priorValue,
		NewValue:   newValue,
		OccurredAt: r.now,
	})
}

// Flush writes every accumulated record to the store inside tx, in
// insertion order, assigning each a monotonic seq.
func (r *Recorder) Flush(tx *store.Tx) error {
	for _, rec := range r.pend {
		r.seq++
		if err := tx.InsertHistoryRecord(
			rec.ID, rec.TxnID, rec.EntityKind, rec.EntityID, rec.Field, string(rec.Op),
			rec.PriorValue, rec.NewValue, rec.OccurredAt.UTC().Format(time.RFC3339Nano), r.seq,
		); err != nil {
			return err
		}
	}
	return nil
}

// Log is the read-side query surface over the history table.
type Log struct {
	store *store.Store
}

// NewLog wraps a store for history queries.
func NewLog(s *store.Store) *Log {
	return &Log{store: s}
}

// Entry is a read-side view of one history record.
type Entry struct {
	RecordID   string
	TxnID      string
	EntityKind string
	EntityID   string
	Field      string
	Op         Op
	PriorValue string
	NewValue   string
	OccurredAt time.Time
}

func fromRow(row store.HistoryRecordRow) (Entry, error) {
	t, err := time.Parse(time.RFC3339Nano, row.OccurredAt)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		RecordID:   row.RecordID,
		TxnID:      row.TxnID,
		EntityKind: row.EntityKind,
		EntityID:   row.EntityID,
		Field:      row.Field,
		Op:         Op(row.Op),
		PriorValue: row.PriorValue,
		NewValue:   row.NewValue,
		OccurredAt: t,
	}, nil
}

// ForEntity returns every change recorded against one entity, in
// insertion order.
func (l *Log) ForEntity(tx *store.Tx, entityKind, entityID string) ([]Entry, error) {
	rows, err := tx.ListHistoryForEntity(entityKind, entityID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows)
}

// InRange returns every change recorded in [from, to), in insertion order.
func (l *Log) InRange(tx *store.Tx, from, to time.Time) ([]Entry, error) {
	rows, err := tx.ListHistoryInRange(from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	return convertRows(rows)
}

// ForTransaction returns every change recorded under one transaction id,
// in insertion order — the full set of field-level records a single
// compound operation (merge, split, move) produced.
func (l *Log) ForTransaction(tx *store.Tx, txnID string) ([]Entry, error) {
	rows, err := tx.ListHistoryByTxn(txnID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows)
}

func convertRows(rows []store.HistoryRecordRow) ([]Entry, error) {
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
