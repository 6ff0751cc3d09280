// Package server provides the HTTP interface of the profile editor.
package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/profile-editor/internal/contact"
	"github.com/jonathan/profile-editor/internal/profile"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed resource does not exist
type ErrNotFound struct {
	Resource string
	Name     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Name)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		editErr       *profile.ValidationError
		itemErr       *profile.ItemNotFoundError
		staleErr      *profile.StaleEditError
		contactErr    *contact.ValidationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.As(err, &itemErr):
		return http.StatusNotFound
	case errors.As(err, &staleErr):
		return http.StatusConflict
	case errors.As(err, &editErr), errors.As(err, &contactErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Alert messages for failed list operations.
const (
	staleEditMessage    = "The profile was reloaded since you started editing. Please try again."
	itemNotFoundMessage = "That item no longer exists."
	internalMessage     = "Something went wrong. Please try again."
)

// alertMessage returns the blocking message shown for a failed page operation. Contact form
// failures are reported inline instead and get no alert.
func alertMessage(err error) string {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		editErr       *profile.ValidationError
		itemErr       *profile.ItemNotFoundError
		staleErr      *profile.StaleEditError
		contactErr    *contact.ValidationError
	)
	switch {
	case err == nil, errors.As(err, &contactErr):
		return ""
	case errors.As(err, &editErr):
		return editErr.Message
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &staleErr):
		return staleEditMessage
	case errors.As(err, &itemErr), errors.As(err, &notFoundErr):
		return itemNotFoundMessage
	default:
		log.Printf("[server] page operation failed: %v", err)
		return internalMessage
	}
}
