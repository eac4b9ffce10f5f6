// Package prismerrors provides structured error handling for Prism with
// error categorization, key-value context and stack capture.
//
// Arithmetic edge cases inside the engine — division by zero, insufficient
// data, unknown semantic types — are deliberately NOT errors: they produce
// absent fingerprint fields or the default pipeline. Errors here cover the
// genuinely exceptional: invalid configuration, malformed input, and misuse
// of the comparison API.
package prismerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType categorizes an error for handling strategies and diagnostics.
type ErrorType string

const (
	// ErrorTypeInternal represents internal engine errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents API misuse and invalid input errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData represents data parsing and shape errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeCapability represents unsupported-operation errors
	ErrorTypeCapability ErrorType = "capability"
)

// Error is a structured error with category, context and the call stack at
// the point of creation.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]any
	Stack   []StackFrame
}

// StackFrame is a single frame of the captured call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// WithDetail adds a key-value detail to the error. Chainable.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a structured error, capturing the call stack.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with a category and message, preserving the
// original as the cause. Returns nil when err is nil. When err is already a
// structured Error its stack is preserved.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existing.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether err is a structured error of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
