// Package errors provides coded errors for the edges of the system: config
// loading, the document store, the message bus and the terminal host. The
// UI core itself never returns errors; collaborator failures reach the
// reducer as absent results.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Store errors
	ErrCodeStoreOpen     ErrorCode = "STORE_OPEN"
	ErrCodeStoreRead     ErrorCode = "STORE_READ"
	ErrCodeStoreWrite    ErrorCode = "STORE_WRITE"
	ErrCodeStoreNotFound ErrorCode = "STORE_NOT_FOUND"
	ErrCodeStoreConflict ErrorCode = "STORE_CONFLICT"
	ErrCodeStoreClosed   ErrorCode = "STORE_CLOSED"

	// Bus errors
	ErrCodeBusConnect ErrorCode = "BUS_CONNECT"
	ErrCodeBusPublish ErrorCode = "BUS_PUBLISH"

	// Host errors
	ErrCodeHostTerminal ErrorCode = "HOST_TERMINAL"
	ErrCodeHostServe    ErrorCode = "HOST_SERVE"

	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeUnknownApp   ErrorCode = "UNKNOWN_APP"
)

// Error is a coded error with context and the stack where it was created.
type Error struct {
	Code        ErrorCode
	Message     string
	Underlying  error
	Context     map[string]any
	Stack       []Frame
	Retryable   bool
	UserMessage string
	Remediation []string
}

// Frame represents a stack frame
type Frame struct {
	Function string
	File     string
	Line     int
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Context: make(map[string]any),
		Stack:   captureStack(2),
	}
}

// Wrap wraps err with a code. It returns nil for a nil err.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
		Stack:      captureStack(2),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithRetryable marks the error as retryable
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithUserMessage sets the human-friendly message shown by the CLI.
func (e *Error) WithUserMessage(message string) *Error {
	e.UserMessage = message
	return e
}

// WithRemediation appends actionable remediation tips for the error.
func (e *Error) WithRemediation(tips ...string) *Error {
	if len(tips) == 0 {
		return e
	}
	e.Remediation = append([]string{}, tips...)
	return e
}

// Error renders code, message, context in key order, then the cause.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %v", k, e.Context[k])
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		fmt.Fprintf(&sb, ": %v", e.Underlying)
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches another *Error by code, so sentinel coded errors work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// StackTrace returns a formatted stack trace
func (e *Error) StackTrace() string {
	var sb strings.Builder
	sb.WriteString("Stack trace:\n")
	for i, frame := range e.Stack {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, frame.Function)
		fmt.Fprintf(&sb, "     %s:%d\n", frame.File, frame.Line)
	}
	return sb.String()
}

func captureStack(skip int) []Frame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr

	n := runtime.Callers(skip+1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		f, more := frames.Next()
		out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return out
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether any *Error in err's chain has code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// GetCode extracts the error code from an error. Errors without a code are
// internal.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return ErrCodeInternal
}

// IsRetryable reports whether err carries a retryable *Error.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}

// UserMessage returns the friendliest message available for err.
func UserMessage(err error) string {
	if e, ok := As(err); ok && e.UserMessage != "" {
		return e.UserMessage
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
