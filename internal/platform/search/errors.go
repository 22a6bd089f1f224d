package search

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAccessor is returned when a sort path does not resolve to a
	// registered accessor chain.
	ErrMissingAccessor = errors.New("missing accessor")

	// ErrUnsupportedSortType is returned when a sort path resolves to a value
	// that is not text, an enumerated symbol, an integer or a time.
	ErrUnsupportedSortType = errors.New("unsupported sort type")

	// ErrNullIntermediate is returned when a dotted path crosses a nil value
	// before its last segment. Sorting treats it as a null key.
	ErrNullIntermediate = errors.New("null intermediate value")

	// ErrAmbiguousResult is returned by FindSingle when more than one record
	// matches.
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrHandlerNotFound is returned when a named search handler is not
	// registered.
	ErrHandlerNotFound = errors.New("search handler not found")

	// ErrInvalidPfs is returned for paging parameters outside their domain.
	ErrInvalidPfs = errors.New("invalid paging parameters")
)

// ParseError reports a query string the backend could not parse. Only this
// error class triggers the literal fallback retry.
type ParseError struct {
	Query string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse query %q: %v", e.Query, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
