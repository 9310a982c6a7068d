package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindEmptyContent       ErrorKind = "EmptyContent"
	KindInvalidInput       ErrorKind = "InvalidInput"
	KindFetchFailure       ErrorKind = "FetchFailure"
	KindSearchQueryFailure ErrorKind = "SearchQueryFailure"
	KindRateLimited        ErrorKind = "RateLimited"
	KindTimeout            ErrorKind = "Timeout"
	KindUnparsableResponse ErrorKind = "UnparsableResponse"
	KindSchemaValidation   ErrorKind = "SchemaValidation"
	KindAnalysisFailure    ErrorKind = "AnalysisFailure"
)

// Error carries a taxonomy kind and the operation that failed.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind, so errors.Is(err, ErrTimeout)
// works for wrapped errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Sentinels for errors.Is.
var (
	ErrEmptyContent       = &Error{Kind: KindEmptyContent}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrRateLimited        = &Error{Kind: KindRateLimited}
	ErrTimeout            = &Error{Kind: KindTimeout}
	ErrUnparsableResponse = &Error{Kind: KindUnparsableResponse}
	ErrSchemaValidation   = &Error{Kind: KindSchemaValidation}
	ErrAnalysisFailure    = &Error{Kind: KindAnalysisFailure}
)

// KindOf returns the outermost kind in err's chain, or "" when err carries
// none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// asAnalysisFailure wraps terminal reasoner errors. The inner kind stays
// reachable through errors.Is.
func asAnalysisFailure(op string, err error) error {
	if err == nil || isCallerError(err) || KindOf(err) == KindAnalysisFailure {
		return err
	}
	return newError(KindAnalysisFailure, op, err)
}

// isCallerError reports errors caused by the request itself.
func isCallerError(err error) bool {
	k := KindOf(err)
	return k == KindEmptyContent || k == KindInvalidInput
}
