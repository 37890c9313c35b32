package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a call failed. The consolidated message stays the
// only thing most callers look at; Kind is there for callers that need to
// branch without matching on text.
type ErrorKind string

const (
	KindUnknown     ErrorKind = ""
	KindTimeout     ErrorKind = "timeout"
	KindBadStatus   ErrorKind = "bad_status"
	KindApplication ErrorKind = "application"
	KindParse       ErrorKind = "parse"
	KindTransport   ErrorKind = "transport"
	KindSession     ErrorKind = "session"
)

// DefaultErrorMessage is used when a failure carries no message of its own.
const DefaultErrorMessage = "Server error"

// RequestError is the single failure shape returned by Service calls.
// Error() returns only Message.
type RequestError struct {
	Kind    ErrorKind
	Method  string
	URL     string
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Cause }

func timeoutError(method, url string) *RequestError {
	return &RequestError{
		Kind:    KindTimeout,
		Method:  method,
		URL:     url,
		Message: fmt.Sprintf("HTTP (%s) timeout for path: %s", method, url),
	}
}

func badStatusError(status int) *RequestError {
	return &RequestError{
		Kind:    KindBadStatus,
		Status:  status,
		Message: fmt.Sprintf("Bad response status: %d", status),
	}
}

// HandleError reduces any failure to a *RequestError whose message is the
// failure's own message, or DefaultErrorMessage when that is empty.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		out := *reqErr
		if out.Message == "" {
			out.Message = DefaultErrorMessage
		}
		return &out
	}

	msg := err.Error()
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &RequestError{Kind: KindTransport, Message: msg, Cause: err}
}

// KindOf returns the kind of a RequestError in err's chain.
func KindOf(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return KindUnknown
}
