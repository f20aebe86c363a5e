package wneditor

import "github.com/lexkit/wneditor/internal/apperr"

// Error is the error shape every Editor method reports failure through.
// Use errors.As to recover one from a returned error and inspect Kind.
type Error = apperr.Error

// Kind identifies which of the eight taxonomy buckets an Error belongs to.
type Kind = apperr.Kind

const (
	KindValidation      = apperr.KindValidation
	KindEntityNotFound  = apperr.KindEntityNotFound
	KindDuplicateEntity = apperr.KindDuplicateEntity
	KindRelation        = apperr.KindRelation
	KindConflict        = apperr.KindConflict
	KindImport          = apperr.KindImport
	KindExport          = apperr.KindExport
	KindDatabase        = apperr.KindDatabase
)

// KindOf extracts the taxonomy kind from err, if it is (or wraps) an Error.
func KindOf(err error) (Kind, bool) {
	return apperr.KindOf(err)
}
