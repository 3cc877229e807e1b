// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific failure condition in the pipeline
type ErrorCode string

const (
	// ErrCodeGateNotFound is run-level: the initial menu gate never became available
	ErrCodeGateNotFound ErrorCode = "GATE_NOT_FOUND"
	// ErrCodeContentTimeout is item-level: the detail surface never became ready
	ErrCodeContentTimeout ErrorCode = "CONTENT_TIMEOUT"
	// ErrCodeParseFailure is field-level: markup did not match the template
	ErrCodeParseFailure ErrorCode = "PARSE_FAILURE"
	// ErrCodeExtraction is item-level: anything else that went wrong for one item
	ErrCodeExtraction    ErrorCode = "EXTRACTION_ERROR"
	ErrCodeBrowserLaunch ErrorCode = "BROWSER_LAUNCH"
	ErrCodeNavigation    ErrorCode = "NAVIGATION"
	ErrCodeValidation    ErrorCode = "VALIDATION"
)

// Sentinels for errors.Is matching by code
var (
	ErrGateNotFound   = &EngineError{Code: ErrCodeGateNotFound}
	ErrContentTimeout = &EngineError{Code: ErrCodeContentTimeout}
	ErrParseFailure   = &EngineError{Code: ErrCodeParseFailure}
	ErrExtraction     = &EngineError{Code: ErrCodeExtraction}
	ErrBrowserLaunch  = &EngineError{Code: ErrCodeBrowserLaunch}
	ErrNavigation     = &EngineError{Code: ErrCodeNavigation}
	ErrValidation     = &EngineError{Code: ErrCodeValidation}
)

// EngineError wraps errors with a code and context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches another EngineError by code
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Details:    make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first EngineError in err's chain
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
