package pagefetch

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pagefetch error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// FetchErrorPrefix labels every error returned by PageFetcher.Fetch.
const FetchErrorPrefix = "Failed to fetch HTML: "

// FetchError is returned when any stage of a page fetch fails.
// Err is the failure that ended the fetch. CloseErr is set when releasing
// the browser also failed; it never replaces Err in the message.
type FetchError struct {
	Err      error
	CloseErr error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return FetchErrorPrefix + e.Err.Error()
}

// Unwrap returns the underlying causes.
func (e *FetchError) Unwrap() []error {
	if e.CloseErr == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.CloseErr}
}
