package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrDataRetrieval         = errors.New("data retrieval failed")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// PlayerNotFoundError is returned when no player matches a last name.
type PlayerNotFoundError struct {
	LastName string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("Player with last name %s could not be found.", e.LastName)
}

func (e *PlayerNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PlayerAlreadyExistsError is returned when registering a taken last name.
type PlayerAlreadyExistsError struct {
	LastName string
}

func (e *PlayerAlreadyExistsError) Error() string {
	return fmt.Sprintf("Player with last name %s already exists.", e.LastName)
}

func (e *PlayerAlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// DataRetrievalError hides a store failure behind a fixed message. The cause
// stays reachable through Unwrap for logging.
type DataRetrievalError struct {
	Op  string
	Err error
}

func (e *DataRetrievalError) Error() string {
	return "Could not retrieve player data"
}

func (e *DataRetrievalError) Unwrap() error {
	return e.Err
}

func (e *DataRetrievalError) Is(target error) bool {
	return target == ErrDataRetrieval
}

func dataRetrieval(op string, err error) error {
	return &DataRetrievalError{Op: op, Err: err}
}
