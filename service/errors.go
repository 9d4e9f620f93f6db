package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
)

// ErrorKind classifies a failed operation. Every rejection a service
// produces carries exactly one kind, so the transport layer can map it
// to a status code in one place.
type ErrorKind int

const (
	// KindInternal is the zero kind: anything not classified below,
	// including unexpected store failures.
	KindInternal ErrorKind = iota
	// KindValidation: missing or malformed input, bad score,
	// non-positive price, empty category list.
	KindValidation
	// KindNotFound: unknown item, user or category.
	KindNotFound
	// KindConflict: duplicate review, duplicate follow, duplicate
	// username or email, daily limit reached.
	KindConflict
	// KindPermission: acting user is not the resource owner or not
	// allowed to perform the operation.
	KindPermission
	// KindUnauthenticated: no acting user supplied.
	KindUnauthenticated
	// KindDependency: an upstream collaborator (image hosting) failed.
	KindDependency
)

// Error is the structured error returned by every service operation
// that rejects a request. The message is safe to surface to clients.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func ValidationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func PermissionError(format string, args ...interface{}) error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

func UnauthenticatedError() error {
	return &Error{Kind: KindUnauthenticated, Msg: "authentication required"}
}

func DependencyError(format string, args ...interface{}) error {
	return &Error{Kind: KindDependency, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the classification of err, unwrapping as needed.
// Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// uniqueViolationCode is the postgres SQLSTATE for a unique constraint
// violation.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint
// violation surfaced by the store at commit time. Concurrent writers
// racing past a pre-insert existence check are serialized by the
// constraint itself; callers turn this into a conflict, not a fatal
// error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	// Fallback for drivers that don't expose the SQLSTATE.
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
