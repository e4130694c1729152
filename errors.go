package pressroom

import (
	"errors"
	"net/http"

	"github.com/eringen/pressroom/content"
)

// ErrorKind classifies failures the admin UI reports to the user.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindTransient    ErrorKind = "transient"
)

// AppError is a failure with a message safe to show to an admin.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

// Messages shown in toasts and inline form errors.
const (
	msgSlugTaken       = "Ce slug est déjà utilisé"
	msgNotFound        = "Élément introuvable"
	msgCollectionInUse = "Cette collection contient encore des articles"
	msgUnauthorized    = "Accès non autorisé"
	msgTransient       = "Une erreur est survenue, veuillez réessayer"
)

// classify turns a store or service error into an AppError. Unknown errors
// are transient: they are logged and the user sees a generic message.
func classify(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, content.ErrSlugTaken):
		return &AppError{Kind: KindValidation, Message: msgSlugTaken, Err: err}
	case errors.Is(err, content.ErrCollectionInUse):
		return &AppError{Kind: KindValidation, Message: msgCollectionInUse, Err: err}
	case errors.Is(err, content.ErrNotFound):
		return &AppError{Kind: KindNotFound, Message: msgNotFound, Err: err}
	case errors.Is(err, content.ErrNotAuthorized):
		return &AppError{Kind: KindUnauthorized, Message: msgUnauthorized, Err: err}
	}
	return &AppError{Kind: KindTransient, Message: msgTransient, Err: err}
}

func validationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}
