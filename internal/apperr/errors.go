// Package apperr defines the editing engine's error taxonomy. It lives
// below internal/engine and the root package so both can construct and
// inspect the same typed errors without an import cycle; the root package
// re-exports Error, Kind, the Kind constants and KindOf under the same names.
package apperr

import "fmt"

// Kind identifies one of the eight taxonomy buckets every engine mutation
// reports failure through.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindEntityNotFound Kind = "entity-not-found"
	KindDuplicateEntity Kind = "duplicate-entity"
	KindRelation       Kind = "relation"
	KindConflict       Kind = "conflict"
	KindImport         Kind = "import"
	KindExport         Kind = "export"
	KindDatabase       Kind = "database"
)

// Error is the common shape every taxonomy member carries: entity kind,
// entity id, and a human-readable message, optionally wrapping a cause.
type Error struct {
	TaxonomyKind Kind
	EntityKind   string
	EntityID     string
	Message      string
	Err          error
}

func (e *Error) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("wneditor: %s: %s %s: %s", e.TaxonomyKind, e.EntityKind, e.EntityID, e.Message)
	}
	return fmt.Sprintf("wneditor: %s: %s", e.TaxonomyKind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with this error's taxonomy kind,
// so errors.Is(err, apperr.Validation("", "", "")) matches any validation
// error without type-asserting *Error directly.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.TaxonomyKind == other.TaxonomyKind
}

func newErr(kind Kind, entityKind, entityID, message string, cause error) *Error {
	return &Error{TaxonomyKind: kind, EntityKind: entityKind, EntityID: entityID, Message: message, Err: cause}
}

func Validation(entityKind, entityID, message string) *Error {
	return newErr(KindValidation, entityKind, entityID, message, nil)
}

func EntityNotFound(entityKind, entityID string) *Error {
	return newErr(KindEntityNotFound, entityKind, entityID, "not found", nil)
}

func DuplicateEntity(entityKind, entityID string) *Error {
	return newErr(KindDuplicateEntity, entityKind, entityID, "already exists", nil)
}

func Relation(entityKind, entityID, message string) *Error {
	return newErr(KindRelation, entityKind, entityID, message, nil)
}

func Conflict(entityKind, entityID, message string) *Error {
	return newErr(KindConflict, entityKind, entityID, message, nil)
}

func Import(message string, cause error) *Error {
	return newErr(KindImport, "", "", message, cause)
}

func Export(message string, cause error) *Error {
	return newErr(KindExport, "", "", message, cause)
}

func Database(message string, cause error) *Error {
	return newErr(KindDatabase, "", "", message, cause)
}

// KindOf extracts the taxonomy kind from err, if it is (or wraps) an
// *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return "", false
	}
	return e.TaxonomyKind, true
}
