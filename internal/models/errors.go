package models

import (
	"github.com/Laisky/errors/v2"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindInUse      ErrorKind = "in_use"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindStorage    ErrorKind = "storage"
)

// Error is a domain error. Message is safe to show to end users, Err keeps the cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) error {
	return errors.WithStack(&Error{Kind: KindValidation, Message: message})
}

func NewConflictError(message string, cause error) error {
	return errors.WithStack(&Error{Kind: KindConflict, Message: message, Err: cause})
}

func NewInUseError(message string) error {
	return errors.WithStack(&Error{Kind: KindInUse, Message: message})
}

func NewForbiddenError(message string) error {
	return errors.WithStack(&Error{Kind: KindForbidden, Message: message})
}

func NewNotFoundError(message string) error {
	return errors.WithStack(&Error{Kind: KindNotFound, Message: message})
}

func NewStorageError(message string, cause error) error {
	return errors.WithStack(&Error{Kind: KindStorage, Message: message, Err: cause})
}

// KindOf returns the kind of the first domain error in the chain, or KindStorage
// for anything unclassified.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Внутренняя ошибка сервера"
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
