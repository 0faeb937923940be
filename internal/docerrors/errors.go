// Package docerrors provides structured error types for documentation generation.
//
// Callers distinguish failure categories with errors.Is against the sentinels
// or errors.As against the concrete types:
//
//	if err := swagger.Write(dir, doc); err != nil {
//	    var ioErr *docerrors.IOError
//	    if errors.As(err, &ioErr) {
//	        // ioErr.Path names the file that could not be written
//	    }
//	}
package docerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrMalformedExample indicates an example lacks a required field.
	ErrMalformedExample = errors.New("malformed example")

	// ErrSerialization indicates a document could not be encoded.
	ErrSerialization = errors.New("serialization error")

	// ErrIO indicates a file could not be read or written.
	ErrIO = errors.New("i/o error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrRecording indicates an example could not be recorded.
	ErrRecording = errors.New("recording error")
)

// MalformedExampleError reports an example that cannot be documented.
type MalformedExampleError struct {
	// Index is the position of the example in the input sequence
	Index int
	// Route and Method identify the example as far as they are known
	Route  string
	Method string
	// Field is the missing or invalid field
	Field string
	// Cause is the underlying validation error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MalformedExampleError) Error() string {
	msg := fmt.Sprintf("malformed example #%d", e.Index)
	if e.Method != "" || e.Route != "" {
		msg += fmt.Sprintf(" (%s %s)", e.Method, e.Route)
	}
	if e.Field != "" {
		msg += ": missing " + e.Field
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MalformedExampleError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MalformedExampleError) Is(target error) bool {
	return target == ErrMalformedExample
}

// SerializationError reports a document that could not be encoded.
type SerializationError struct {
	// Format is the output encoding: "json" or "yaml"
	Format string
	Cause  error
}

// Error returns a human-readable error message.
func (e *SerializationError) Error() string {
	msg := "serialization error"
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// IOError reports a failed file operation.
type IOError struct {
	// Op is the operation that failed, e.g. "create", "write", "rename"
	Op    string
	Path  string
	Cause error
}

// Error returns a human-readable error message.
func (e *IOError) Error() string {
	msg := "i/o error"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ConfigError reports an invalid configuration value or input option.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// RecordingError reports a scenario whose request could not be completed.
type RecordingError struct {
	Route   string
	Method  string
	Attempt int
	Cause   error
}

// Error returns a human-readable error message.
func (e *RecordingError) Error() string {
	msg := fmt.Sprintf("recording %s %s failed", e.Method, e.Route)
	if e.Attempt > 0 {
		msg += fmt.Sprintf(" after %d attempt(s)", e.Attempt)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *RecordingError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *RecordingError) Is(target error) bool {
	return target == ErrRecording
}
