package repositories

import (
	"errors"
	"fmt"
)

type categorisedError struct {
	err         error
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *categorisedError) Error() string       { return e.err.Error() }
func (e *categorisedError) Unwrap() error       { return e.err }
func (e *categorisedError) IsNotFound() bool    { return e.notFound }
func (e *categorisedError) IsConflict() bool    { return e.conflict }
func (e *categorisedError) IsUnavailable() bool { return e.unavailable }

// NewNotFoundError wraps err as a not-found repository failure.
func NewNotFoundError(format string, args ...any) RepositoryError {
	return &categorisedError{err: fmt.Errorf(format, args...), notFound: true}
}

// NewConflictError wraps err as a state-conflict repository failure.
func NewConflictError(format string, args ...any) RepositoryError {
	return &categorisedError{err: fmt.Errorf(format, args...), conflict: true}
}

// NewUnavailableError wraps err as a transient availability failure.
func NewUnavailableError(format string, args ...any) RepositoryError {
	return &categorisedError{err: fmt.Errorf(format, args...), unavailable: true}
}

// IsNotFound reports whether err categorises as a missing record.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether err categorises as a state conflict.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether err categorises as a transient availability failure.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}
