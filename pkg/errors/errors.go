// Package errors provides structured error types for posetrail.
//
// Every failure the planning engine can report carries a machine-readable
// [Code] so callers (the CLI, the HTTP API, batch workers) can branch on the
// failure kind without parsing messages.
//
// # Error Codes
//
// Codes fall into three groups:
//   - planning failures raised by the core (INVALID_SAMPLE_COUNT, INVALID_SPACING,
//     UNKNOWN_CAMERA_PRESET, UNKNOWN_FLOOR_POLICY, SCENE_INCONSISTENCY)
//   - collaborator failures (MESH_SOURCE_EMPTY, MESH_READ_FAILED, RENDER_DISPATCH_FAILED)
//   - configuration and input validation (INVALID_CONFIG, INVALID_PATH, INVALID_COLOR)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSampleCount, "cannot sample %d of %d frames", k, n)
//	if errors.Is(err, errors.ErrCodeInvalidSampleCount) {
//	    // Handle bad frame count
//	}
//
//	// Wrap an engine failure
//	err := errors.Wrap(errors.ErrCodeRenderDispatch, runErr, "blender exited")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Planning errors
	ErrCodeInvalidSampleCount  Code = "INVALID_SAMPLE_COUNT"
	ErrCodeInvalidSpacing      Code = "INVALID_SPACING"
	ErrCodeUnknownCamera       Code = "UNKNOWN_CAMERA_PRESET"
	ErrCodeUnknownFloorPolicy  Code = "UNKNOWN_FLOOR_POLICY"
	ErrCodeSceneInconsistency  Code = "SCENE_INCONSISTENCY"
	ErrCodeInvalidLayoutMode   Code = "INVALID_LAYOUT_MODE"
	ErrCodeInvalidSequence     Code = "INVALID_SEQUENCE"
	ErrCodeInvalidRenderTarget Code = "INVALID_RENDER_TARGET"

	// Collaborator errors
	ErrCodeMeshSourceEmpty Code = "MESH_SOURCE_EMPTY"
	ErrCodeMeshRead        Code = "MESH_READ_FAILED"
	ErrCodeRenderDispatch  Code = "RENDER_DISPATCH_FAILED"

	// Input validation errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so a code attached anywhere in the chain is found.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
