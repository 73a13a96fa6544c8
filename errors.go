package reldb

import (
	"errors"
	"fmt"
)

// Kind tags the category of an Error, replacing an exception-class
// hierarchy with a single tagged type.
type Kind int

const (
	// KindDatabaseException is the root kind: a backend refused an
	// operation and returned its own diagnostic.
	KindDatabaseException Kind = iota
	// KindNoSuchColumn is returned when a column lookup by name misses.
	KindNoSuchColumn
	// KindRecordNotFound is returned when dereferencing an exhausted
	// or otherwise invalid Resultset position.
	KindRecordNotFound
	// KindBindingError is returned for a bad parameter index, an
	// incompatible bind type, or a failed parameter-style rewrite.
	KindBindingError
	// KindTransactionException is returned for an illegal state
	// transition or a backend refusal to start/commit/rollback.
	KindTransactionException
	// KindNoPrimaryKey is returned by ORM-adjacent hooks that require
	// one; reserved for callers layering their own mapping on top of
	// this core.
	KindNoPrimaryKey
	// KindIllegalConversion is returned when Value coercion fails.
	KindIllegalConversion
	// KindUnknownScheme is returned when a URI scheme has no
	// registered driver factory.
	KindUnknownScheme
	// KindConnectionRefused wraps a backend's native connection
	// diagnostic.
	KindConnectionRefused
	// KindUnsupportedBindingStyle is returned when a backend lacks the
	// capability a bind call requires (e.g. named parameters on a
	// backend with none).
	KindUnsupportedBindingStyle
	// KindInvalidQuery is returned by a query builder's Execute when
	// is_valid() would be false, naming the missing piece.
	KindInvalidQuery
	// KindConcurrentUse is returned when more than one statement is
	// in flight on the same Session.
	KindConcurrentUse
)

// String renders the Kind as lower_snake_case, used only for error
// text and log fields.
func (k Kind) String() string {
	switch k {
	case KindDatabaseException:
		return "database_exception"
	case KindNoSuchColumn:
		return "no_such_column"
	case KindRecordNotFound:
		return "record_not_found"
	case KindBindingError:
		return "binding_error"
	case KindTransactionException:
		return "transaction_exception"
	case KindNoPrimaryKey:
		return "no_primary_key"
	case KindIllegalConversion:
		return "illegal_conversion"
	case KindUnknownScheme:
		return "unknown_scheme"
	case KindConnectionRefused:
		return "connection_refused"
	case KindUnsupportedBindingStyle:
		return "unsupported_binding_style"
	case KindInvalidQuery:
		return "invalid_query"
	case KindConcurrentUse:
		return "concurrent_use"
	default:
		return "unknown"
	}
}

// Error is the single error type for the core, carrying a Kind, a
// human-readable message, an optional context (usually the offending
// SQL), and the backend's native error when one caused this Error.
type Error struct {
	Kind    Kind
	What    string
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("reldb: %s: %s", e.Kind, e.What)
	}
	return fmt.Sprintf("reldb: %s: %s (context: %s)", e.Kind, e.What, e.Context)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newErr builds an *Error with no context or cause.
func newErr(kind Kind, what string) *Error {
	return &Error{Kind: kind, What: what}
}

// wrapErr builds an *Error carrying a backend diagnostic as Cause and
// the offending SQL (or other operation description) as Context.
func wrapErr(kind Kind, what, context string, cause error) *Error {
	return &Error{Kind: kind, What: what, Context: context, Cause: cause}
}

// Is allows errors.Is(err, SomeKindSentinel) style matching by Kind
// alone, ignoring What/Context/Cause, the way callers typically want
// to branch on "was this a RecordNotFound" without string matching.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel instances for errors.Is comparisons against a bare Kind,
// e.g. errors.Is(err, reldb.ErrRecordNotFound).
var (
	ErrNoSuchColumn       = &Error{Kind: KindNoSuchColumn, What: "no such column"}
	ErrRecordNotFound     = &Error{Kind: KindRecordNotFound, What: "record not found"}
	ErrNoPrimaryKey       = &Error{Kind: KindNoPrimaryKey, What: "no primary key"}
	ErrUnknownScheme      = &Error{Kind: KindUnknownScheme, What: "unknown scheme"}
	ErrUnsupportedBinding = &Error{Kind: KindUnsupportedBindingStyle, What: "unsupported binding style"}
	ErrConcurrentUse      = &Error{Kind: KindConcurrentUse, What: "concurrent use of session"}
	ErrIllegalConversion  = &Error{Kind: KindIllegalConversion, What: "illegal conversion"}
)

// IsKind reports whether err is a *Error of the given Kind, unwrapping
// through any wrapping the same way errors.Is does.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
