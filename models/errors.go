package models

import "errors"

// ErrorValidation covers missing fields, duplicates and illegal state transitions.
type ErrorValidation struct {
	Message string
}

func (e ErrorValidation) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

// ErrorInternalServer wraps an unexpected store or IO failure.
type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e ErrorInternalServer) Unwrap() error { return e.Err }

func NewValidationError(msg string) error   { return ErrorValidation{Message: msg} }
func NewUnauthorizedError(msg string) error { return ErrorUnauthorized{Message: msg} }
func NewForbiddenError(msg string) error    { return ErrorForbidden{Message: msg} }
func NewNotFoundError(msg string) error     { return ErrorNotFound{Message: msg} }

func NewInternalError(msg string, err error) error {
	return ErrorInternalServer{Message: msg, Err: err}
}

// IsNotFound reports whether err is (or wraps) an ErrorNotFound.
func IsNotFound(err error) bool {
	var target ErrorNotFound
	return errors.As(err, &target)
}
