// Package errorutil standardizes the error envelope the HTTP surface emits
// and translates workflow error kinds to protocol statuses.
package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/loan-service/internal/workflow"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// workflowKindStatus maps every workflow error kind to its HTTP status.
// Not-found kinds are client reference errors; rule rejections are
// unprocessable; upstream failures are 503 so callers know a retry from the
// top is safe; a failed book update after a durable write is a bad gateway.
var workflowKindStatus = map[workflow.ErrorKind]int{
	workflow.KindUserNotFound:        http.StatusNotFound,
	workflow.KindBookNotFound:        http.StatusNotFound,
	workflow.KindLoanNotFound:        http.StatusNotFound,
	workflow.KindUserIneligible:      http.StatusUnprocessableEntity,
	workflow.KindBookUnavailable:     http.StatusUnprocessableEntity,
	workflow.KindLoanLimitExceeded:   http.StatusUnprocessableEntity,
	workflow.KindLoanAlreadyReturned: http.StatusConflict,
	workflow.KindUpstreamUnavailable: http.StatusServiceUnavailable,
	workflow.KindPersistenceError:    http.StatusInternalServerError,
	workflow.KindBookUpdateFailed:    http.StatusBadGateway,
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		status, ok := workflowKindStatus[wfErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		return &DomainError{
			Code:       string(wfErr.Kind),
			Message:    wfErr.Reason,
			HTTPStatus: status,
			Err:        wfErr.Err,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
