// Package poolerrors provides structured error handling for leasepool with
// rich context, stack traces, and error categorization. It enables consistent
// error handling patterns across the entire codebase.
//
// # Overview
//
// The poolerrors package extends Go's standard error handling with:
//   - Error categorization through ErrorType
//   - Structured context with key-value details
//   - Automatic stack trace capture
//   - Error wrapping with cause preservation
//
// # Basic Usage
//
//	// Create a new error
//	err := poolerrors.New(poolerrors.ErrorTypeValidation, "nil instance")
//
//	// Add context
//	err = err.WithDetail("index", 2)
//
//	// Wrap existing errors
//	if err := store.Load(name); err != nil {
//	    return poolerrors.Wrap(err, poolerrors.ErrorTypeSerialization, "failed to load snapshot").
//	        WithDetail("snapshot", name)
//	}
//
// # Error Types
//
// Errors are categorized by type, which helps with:
//   - Contract-violation reporting (release of foreign or non-handle values)
//   - Monitoring and alerting
//   - Debugging and troubleshooting
//
// # Thread Safety
//
// Error instances are not thread-safe for modification. Create new
// instances or use WithDetail before sharing across goroutines.
package poolerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error, used for error handling
// strategies and monitoring.
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid input, such as a nil instance
	// passed to Pool.Add
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTypeMismatch represents a value that is not a lease handle
	// being passed where a handle is required
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeOwnership represents a handle being released through a pool
	// other than the one that issued it
	ErrorTypeOwnership ErrorType = "ownership"
	// ErrorTypeConflict represents an operation repeated after it already
	// took effect, such as returning the same lease twice
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeSerialization represents a pool element that cannot be
	// persisted by the snapshot codec
	ErrorTypeSerialization ErrorType = "serialization"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Error represents a structured error with context, providing rich debugging
// information and enabling sophisticated error handling strategies.
//
// Fields:
//   - Type: Categorizes the error for handling strategies
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
//   - Stack: Call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack, capturing
// the function name, file path, and line number for debugging.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, message, and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, enabling compatibility with errors.Is
// and errors.As for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error, providing additional
// context for debugging and monitoring. This method can be chained for
// adding multiple details.
//
// Example:
//
//	err := poolerrors.New(poolerrors.ErrorTypeOwnership, "lease from different pool").
//	    WithDetail("instance", fmt.Sprintf("%v", lease.Instance()))
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, automatically
// capturing the call stack at the point of creation.
//
// Example:
//
//	if instance == zero {
//	    return poolerrors.New(poolerrors.ErrorTypeValidation, "instance must not be the zero value")
//	}
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the
// original error as the cause. If the error is already a structured Error,
// its stack trace is preserved. Returns nil if the input error is nil.
//
// Example:
//
//	data, err := json.Marshal(instances)
//	if err != nil {
//	    return poolerrors.Wrap(err, poolerrors.ErrorTypeSerialization, "pool contains unpersistable element")
//	}
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type, useful for error handling
// strategies and conditional logic based on error categories.
//
// Example:
//
//	if poolerrors.IsType(err, poolerrors.ErrorTypeOwnership) {
//	    // Handle release through the wrong pool
//	}
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top. This is used
// internally to record the call stack at error creation points.
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
