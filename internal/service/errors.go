package service

import (
	"errors"
	"fmt"

	"github.com/nikh123/RealEstateHub/internal/repository"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrHasDependents = errors.New("has dependent records")
)

// ValidationError reports input that can never succeed as given.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func invalidErr(err error) error {
	return &ValidationError{Msg: err.Error(), Err: err}
}

// notFound renders as "<what> not found" and matches ErrNotFound.
func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func mapRepoErr(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(what)
	}
	return err
}
