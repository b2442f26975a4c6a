package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"

	// Field validation errors
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Submission pipeline errors
	CodeExecutionService   ErrorCode = "EXECUTION_SERVICE_ERROR"
	CodeExecutionTimeout   ErrorCode = "EXECUTION_TIMEOUT"
	CodeGradingService     ErrorCode = "GRADING_SERVICE_ERROR"
	CodeMalformedFeedback  ErrorCode = "MALFORMED_FEEDBACK"
	CodeIncompleteFeedback ErrorCode = "INCOMPLETE_FEEDBACK"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a key/value pair that is rendered in the error envelope's details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewRateLimitedError(message string) *DomainError {
	return NewError(CodeRateLimited, message, nil)
}

func NewExecutionServiceError(err error) *DomainError {
	return NewError(CodeExecutionService, "Code execution service failed", err)
}

func NewExecutionTimeoutError(err error) *DomainError {
	return NewError(CodeExecutionTimeout, "Code execution timed out", err)
}

func NewGradingServiceError(err error) *DomainError {
	return NewError(CodeGradingService, "Grading service is unavailable", err)
}

// NewMalformedFeedbackError keeps the raw reply in Context so it reaches the logs, never the client.
func NewMalformedFeedbackError(raw string, err error) *DomainError {
	return &DomainError{
		Code:    CodeMalformedFeedback,
		Message: "Grading service returned unreadable feedback",
		Cause:   err,
		Context: map[string]interface{}{"raw_reply": raw},
	}
}

func NewIncompleteFeedbackError(raw string, missing []string) *DomainError {
	return &DomainError{
		Code:    CodeIncompleteFeedback,
		Message: "Grading service returned incomplete feedback",
		Cause:   fmt.Errorf("missing or invalid keys: %v", missing),
		Context: map[string]interface{}{"raw_reply": raw, "missing": missing},
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
