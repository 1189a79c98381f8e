package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the bridge.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidPhone     = "INVALID_PHONE"
	CodeMissingPhone     = "MISSING_PHONE"
	CodeInternal         = "INTERNAL_ERROR"
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
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewInvalidPhone marks a value that cannot be parsed as a phone number.
// Search loops treat this as a non-match; event handlers treat it as fatal.
func NewInvalidPhone(raw string, err error) error {
	return &DomainError{
		Code:       CodeInvalidPhone,
		Message:    "unparsable phone number",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"phone": raw},
		Err:        err,
	}
}

// NewMissingPhone marks a directory record that resolved but carries no phone,
// making an outbound SMS impossible.
func NewMissingPhone(contactID string) error {
	return &DomainError{
		Code:       CodeMissingPhone,
		Message:    "contact has no phone number",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"contact_id": contactID},
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool     { return IsCode(err, CodeNotFound) }
func IsInvalidPhone(err error) bool { return IsCode(err, CodeInvalidPhone) }
func IsValidation(err error) bool   { return IsCode(err, CodeValidationFailed) }
func IsMissingPhone(err error) bool { return IsCode(err, CodeMissingPhone) }

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
