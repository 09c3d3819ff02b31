package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// PlatformError is the structured error type used across eventseed.
// It carries a machine-readable code, a human-readable message, optional
// key/value context, and the underlying cause.
type PlatformError struct {
	// Code classifies the failure.
	Code ErrorCode `json:"code"`

	// Message describes what was being attempted.
	Message string `json:"message"`

	// Context holds diagnostic attributes such as keys, paths or indices.
	Context map[string]interface{} `json:"context,omitempty"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
// The format is "CODE: message [k=v ...]: cause".
func (e *PlatformError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteByte(']')
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chaining support.
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Is matches another *PlatformError by code, so sentinel-style comparisons
// like errors.Is(err, &PlatformError{Code: CodeTimeout}) work.
func (e *PlatformError) Is(target error) bool {
	t, ok := target.(*PlatformError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithContext adds a single context attribute and returns the error.
func (e *PlatformError) WithContext(key string, value interface{}) *PlatformError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a PlatformError without an underlying cause.
func New(code ErrorCode, message string) *PlatformError {
	return &PlatformError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a code and message to an existing error.
// Returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &PlatformError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapWithContext attaches a code, message and diagnostic context to an
// existing error. Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &PlatformError{
		Code:    code,
		Message: message,
		Context: ctx,
		Err:     err,
	}
}

// GetCode extracts the code of the outermost PlatformError in err's chain.
// Returns CodeUnknown for nil or foreign errors.
func GetCode(err error) ErrorCode {
	var pe *PlatformError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}

// HasCode reports whether any PlatformError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &PlatformError{Code: code})
}
