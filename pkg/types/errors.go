package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an Error.
type ErrorCode string

// Error codes. C-codes are raised while compiling, E-codes while executing.
const (
	// C01xx: call site and argument errors
	ErrMissingArgument    ErrorCode = "C0101"
	ErrUnknownArgument    ErrorCode = "C0102"
	ErrDuplicateArgument  ErrorCode = "C0103"
	ErrUnacceptedArgument ErrorCode = "C0104"
	ErrUnknownFunction    ErrorCode = "C0105"
	ErrDuplicateFunction  ErrorCode = "C0106"
	ErrInvalidArgument    ErrorCode = "C0107"

	// C02xx: static checker errors
	ErrFallibleProgram ErrorCode = "C0201"

	// C03xx: path and conversion specifiers
	ErrInvalidPath       ErrorCode = "C0301"
	ErrInvalidConversion ErrorCode = "C0302"

	// C04xx: program documents
	ErrInvalidDocument ErrorCode = "C0401"

	// E1xxx: runtime errors
	ErrConversion        ErrorCode = "E1001"
	ErrMissingPath       ErrorCode = "E1002"
	ErrUndefinedVariable ErrorCode = "E1003"
	ErrPathConflict      ErrorCode = "E1004"
	ErrArgumentType      ErrorCode = "E1005"
	ErrParse             ErrorCode = "E1006"
)

// IsCompile reports whether the code belongs to the compile-time family.
func (c ErrorCode) IsCompile() bool {
	return len(c) > 0 && c[0] == 'C'
}

// Error is a structured error carrying a code and a message.
type Error struct {
	Code    ErrorCode
	Message string
	// Function is the identifier of the builtin that raised the error, if any.
	Function string
	Err      error
}

// NewError creates a new Error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Function != "" {
		msg = fmt.Sprintf("function call error for %q: %s", e.Function, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code, so callers can write
// errors.Is(err, types.NewError(types.ErrConversion, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithFunction records the builtin that raised the error.
func (e *Error) WithFunction(name string) *Error {
	e.Function = name
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there
// is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
