package domain

import "errors"

var (
	// ErrValidation marks bad or missing registration input.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a duplicate (nickname, tag) registration.
	ErrConflict = errors.New("player already exists")

	ErrNotFoundUpstream = errors.New("not found upstream")
	ErrUpstream         = errors.New("upstream error")
	// ErrRateLimited is an upstream error the caller may retry after a cooldown.
	ErrRateLimited = errors.New("rate limited upstream")

	ErrPersistence = errors.New("persistence error")
)

// ErrorKind classifies a per-player sync failure so that permanent upstream
// misses can be told apart from transient failures.
type ErrorKind string

const (
	ErrorKindNotFound    ErrorKind = "not_found"
	ErrorKindUpstream    ErrorKind = "upstream"
	ErrorKindPersistence ErrorKind = "persistence"
)

func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFoundUpstream):
		return ErrorKindNotFound
	case errors.Is(err, ErrPersistence):
		return ErrorKindPersistence
	default:
		return ErrorKindUpstream
	}
}
