// Package domain defines the core domain models for LinkMesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// @req RQ-0104
// @design DS-0104
type DomainError struct {
	Code    string // Error code (e.g., "LM-ROUT-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks whether the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Routing Errors (ROUT)
// ============================================================================

var (
	// ErrCodeNotFound indicates the redirect code is not in the live table.
	// Deliberately does not distinguish "never existed" from "expired".
	ErrCodeNotFound = NewDomainError("LM-ROUT-4040", "unknown redirect code")

	// ErrTableBusy indicates another admin write holds the code table.
	// Callers decide whether to retry; the server never queues writers.
	ErrTableBusy = NewDomainError("LM-ROUT-4290", "routing table busy, try again")

	// ErrRouteValidation indicates an uploaded route failed validation.
	ErrRouteValidation = NewDomainError("LM-ROUT-4001", "route validation failed")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrTokenMissing indicates no admin bearer token was provided.
	ErrTokenMissing = NewDomainError("LM-AUTH-4010", "authentication required")

	// ErrTokenInvalid indicates the admin bearer token does not match.
	ErrTokenInvalid = NewDomainError("LM-AUTH-4011", "invalid admin token")
)

// ============================================================================
// System Errors (SYS / STOR)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("LM-SYS-5000", "internal server error")

	// ErrStorage indicates a storage layer failure. On admin writes it
	// means the live table was left unchanged.
	ErrStorage = NewDomainError("LM-STOR-5001", "storage error")

	// ErrBadRequest indicates a malformed request payload.
	ErrBadRequest = NewDomainError("LM-SYS-4000", "bad request")
)
