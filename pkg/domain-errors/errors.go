// Package domainerrors provides coded errors shared by the poverty data pipeline,
// the view layer and the HTTP boundary.
//
// Codes describe what went wrong in domain terms. The transport layer maps them to
// HTTP statuses with ToHTTPStatus; nothing below the transport layer knows about HTTP.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeSourceNotFound means a required input file is absent.
	CodeSourceNotFound Code = "source_not_found"
	// CodeSourceMalformed means an input file exists but fails schema parsing.
	CodeSourceMalformed Code = "source_malformed"
	// CodeUnmappedRegion means a governorate has no entry in the region lookup.
	CodeUnmappedRegion Code = "unmapped_region"
	// CodeMissingValue means an aggregation received a missing rate.
	CodeMissingValue Code = "missing_value"
	// CodeConfiguration means embedded reference data is inconsistent.
	CodeConfiguration Code = "configuration_error"

	CodeNotFound   Code = "not_found"
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal_error"
)

// Error is a coded domain error. It optionally wraps a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost coded error in the chain, or
// CodeInternal when err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any coded error in the chain has the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// IsDataUnavailable reports whether err means the dataset could not be loaded.
// Views answer these with a placeholder instead of failing the process.
func IsDataUnavailable(err error) bool {
	switch CodeOf(err) {
	case CodeSourceNotFound, CodeSourceMalformed, CodeUnmappedRegion:
		return true
	}
	return false
}

// ToHTTPStatus maps a code to the HTTP status the API answers with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeSourceNotFound, CodeSourceMalformed, CodeUnmappedRegion:
		return http.StatusServiceUnavailable
	case CodeMissingValue:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
