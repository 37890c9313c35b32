package apiclient

import (
	"errors"
	"fmt"
	"testing"
)

type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestHandleErrorUsesMessage(t *testing.T) {
	err := HandleError(errors.New("connection refused"))
	if err.Error() != "connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if KindOf(err) != KindTransport {
		t.Fatalf("expected transport kind, got %q", KindOf(err))
	}
}

func TestHandleErrorFallsBackToServerError(t *testing.T) {
	if got := HandleError(emptyError{}).Error(); got != "Server error" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := HandleError(&RequestError{Kind: KindParse}).Error(); got != "Server error" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHandleErrorKeepsKindThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", timeoutError("GET", "/x"))
	err := HandleError(wrapped)
	if err.Error() != "HTTP (GET) timeout for path: /x" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout kind, got %q", KindOf(err))
	}
}

func TestHandleErrorNil(t *testing.T) {
	if HandleError(nil) != nil {
		t.Fatalf("expected nil")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("plain errors have no kind")
	}
}

func TestRequestErrorUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := HandleError(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
}
