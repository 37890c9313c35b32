package apiclient

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OutcomeKind tags a resolved call.
type OutcomeKind int

const (
	// OutcomePayload carries the parsed response body.
	OutcomePayload OutcomeKind = iota
	// OutcomeSessionExpired means the server reported a 401 inside the body
	// envelope. The payload is nil and the stored session must be invalidated.
	OutcomeSessionExpired
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePayload:
		return "payload"
	case OutcomeSessionExpired:
		return "session_expired"
	default:
		return "unknown"
	}
}

// Outcome is the resolved value of one call.
type Outcome struct {
	Kind    OutcomeKind
	Status  int
	Payload any
	Raw     json.RawMessage
}

// SessionExpired reports whether the caller must invalidate the session.
func (o Outcome) SessionExpired() bool { return o.Kind == OutcomeSessionExpired }

const (
	sessionExpiredCode = 401
	nullBodyMessage    = "response body is null"
)

// Normalize interprets a completed response. It never touches the session
// store; a 401 envelope is reported as OutcomeSessionExpired.
func Normalize(status int, body []byte) (Outcome, error) {
	if status < 200 || status >= 300 {
		return Outcome{Status: status}, badStatusError(status)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Outcome{Status: status}, &RequestError{Kind: KindParse, Status: status, Message: err.Error(), Cause: err}
	}
	if payload == nil {
		// A nil payload is reserved for the session-expired outcome.
		return Outcome{Status: status}, &RequestError{Kind: KindParse, Status: status, Message: nullBodyMessage}
	}

	if obj, ok := payload.(map[string]any); ok && truthy(obj["error"]) {
		if hasCode(obj["error"], sessionExpiredCode) {
			return Outcome{Kind: OutcomeSessionExpired, Status: status}, nil
		}
		return Outcome{Status: status}, &RequestError{
			Kind:    KindApplication,
			Status:  status,
			Message: serializeErrorField(body, obj["error"]),
		}
	}

	return Outcome{
		Kind:    OutcomePayload,
		Status:  status,
		Payload: payload,
		Raw:     append(json.RawMessage(nil), body...),
	}, nil
}

// truthy follows the loose truthiness servers using error envelopes rely on:
// null, false, 0 and "" mean "no error".
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

func hasCode(errField any, code float64) bool {
	obj, ok := errField.(map[string]any)
	if !ok {
		return false
	}
	got, ok := obj["code"].(float64)
	return ok && got == code
}

// serializeErrorField returns the compact JSON of the "error" member as the
// server sent it, keeping key order. Keys are matched exactly.
func serializeErrorField(body []byte, parsed any) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if raw, ok := envelope["error"]; ok {
			var buf bytes.Buffer
			if err := json.Compact(&buf, raw); err == nil {
				return buf.String()
			}
		}
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		return DefaultErrorMessage
	}
	return string(out)
}

const maxSnippetLen = 512

// DescribeBody summarizes a response body for logs: the <title> of HTML
// pages, a trimmed snippet of anything else.
func DescribeBody(body []byte) string {
	if looksLikeHTML(body) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return "html: " + title
			}
		}
	}
	return responseSnippet(body)
}

func looksLikeHTML(body []byte) bool {
	head := body
	if len(head) > maxSnippetLen {
		head = head[:maxSnippetLen]
	}
	lower := bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
