package provider

import (
	"errors"
	"fmt"
)

// ErrorDomain prefixes the D-Bus names of provider errors.
const ErrorDomain = "com.endlessm.EknServices.SearchProvider"

// Code classifies why a provider request failed.
type Code int

const (
	CodeAppNotFound Code = iota
	CodeUnsupportedVersion
	CodeIDNotFound
	CodeMalformedApp
	CodeInvalidRequest
	CodeFailed
)

// String returns the string representation of the code
func (c Code) String() string {
	switch c {
	case CodeAppNotFound:
		return "AppNotFound"
	case CodeUnsupportedVersion:
		return "UnsupportedVersion"
	case CodeIDNotFound:
		return "IdNotFound"
	case CodeMalformedApp:
		return "MalformedApp"
	case CodeInvalidRequest:
		return "InvalidRequest"
	default:
		return "Failed"
	}
}

// BusName returns the D-Bus error name for the code.
func (c Code) BusName() string {
	if c == CodeFailed {
		return "org.freedesktop.DBus.Error.Failed"
	}
	return ErrorDomain + "." + c.String()
}

var (
	ErrAppNotFound        = errors.New("app not found")
	ErrUnsupportedVersion = errors.New("unsupported content version")
	ErrIDNotFound         = errors.New("id not found")
	ErrMalformedApp       = errors.New("malformed app")
	ErrInvalidRequest     = errors.New("invalid request")
)

// CodeOf maps an error to its Code. Unknown errors report ok=false.
func CodeOf(err error) (Code, bool) {
	var ce *CreationError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	switch {
	case errors.Is(err, ErrAppNotFound):
		return CodeAppNotFound, true
	case errors.Is(err, ErrUnsupportedVersion):
		return CodeUnsupportedVersion, true
	case errors.Is(err, ErrIDNotFound):
		return CodeIDNotFound, true
	case errors.Is(err, ErrMalformedApp):
		return CodeMalformedApp, true
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest, true
	}
	return 0, false
}

// CreationError reports that a factory could not build a provider.
type CreationError struct {
	AppID string
	Code  Code
	Err   error
}

// NewCreationError wraps err for appID, deriving the code from err when possible.
func NewCreationError(appID string, err error) *CreationError {
	code, ok := CodeOf(err)
	if !ok {
		code = CodeFailed
	}
	return &CreationError{AppID: appID, Code: code, Err: err}
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create provider for %q: %s: %v", e.AppID, e.Code, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}
