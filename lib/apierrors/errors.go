// Package apierrors defines the errors surfaced to the CLI by the Concierge
// client libraries.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// The user has no usable credentials and must run `login` again.
	ErrLoginRequired = errors.New("login required")
	// A remote service replied with a body that is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")
	// A remote service could not be reached.
	ErrTransport = errors.New("transport error")
)

// Code used for errors where the server gave no machine readable code.
const CodeServerError = "ServerError"

// LoginRequiredError carries the reason credentials are unusable.
type LoginRequiredError struct {
	Reason string
	Err    error
}

func (e *LoginRequiredError) Error() string {
	msg := ErrLoginRequired.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoginRequiredError) Is(target error) bool {
	return target == ErrLoginRequired
}

func (e *LoginRequiredError) Unwrap() error {
	return e.Err
}

// LoginRequired returns a LoginRequiredError for the given reason and cause.
func LoginRequired(reason string, err error) error {
	return &LoginRequiredError{Reason: reason, Err: err}
}

// ConciergeError is a failed response from the Concierge API or the minid
// resolver.
type ConciergeError struct {
	Status  int
	Code    string
	Message string
	// Field name -> messages reported for that field.
	Errors map[string][]string

	cause error
}

func (e *ConciergeError) Error() string {
	var b strings.Builder
	if e.Status != 0 {
		fmt.Fprintf(&b, "%d ", e.Status)
	}
	b.WriteString(e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *ConciergeError) Unwrap() error {
	return e.cause
}

// Fields returns the names in Errors in a stable order.
func (e *ConciergeError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// MalformedResponse returns the generic server error used when a response
// body could not be decoded.
func MalformedResponse(status int) error {
	return &ConciergeError{
		Status: status,
		Code:   CodeServerError,
		cause:  ErrMalformedResponse,
	}
}

// StatusCode builds a code from the HTTP status when the body has none.
func StatusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return CodeServerError
	}
	return strings.ReplaceAll(text, " ", "")
}

// TransportError wraps a connection level failure.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.URL == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("could not reach %s: %v", e.URL, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
