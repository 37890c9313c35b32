package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/samvad-gateway/internal/session"
	"github.com/samvad-hq/samvad-gateway/pkg/httpclient"
	"github.com/samvad-hq/samvad-gateway/pkg/notifiers"
	"github.com/samvad-hq/samvad-gateway/pkg/routes"
)

// SessionInvalidator marks the stored session as no longer valid.
type SessionInvalidator interface {
	Invalidate(ctx context.Context) error
}

// SessionStore is what the service needs from the session layer.
type SessionStore interface {
	SessionReader
	SessionInvalidator
}

// EventNotifier receives session events. Fanout satisfies it.
type EventNotifier interface {
	Notify(ctx context.Context, evt notifiers.Event) (int, error)
}

// Options configures a Service. Only Client is required.
type Options struct {
	Client   httpclient.Client
	Sessions SessionStore
	Exempt   *routes.Set
	Timeout  time.Duration
	Events   EventNotifier
	Log      Logger
}

// Service issues GET/POST calls with composed headers, a hard deadline and
// normalized results.
type Service struct {
	client   httpclient.Client
	composer *Composer
	sessions SessionStore
	events   EventNotifier
	timeout  time.Duration
	log      Logger
}

// NewService wires a service from opts.
func NewService(opts Options) (*Service, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Service{
		client:   opts.Client,
		composer: NewComposer(opts.Sessions, opts.Exempt),
		sessions: opts.Sessions,
		events:   opts.Events,
		timeout:  timeout,
		log:      ensureLogger(opts.Log),
	}, nil
}

// MakeGetRequest performs a GET and returns the parsed body. A 401 error
// envelope resolves to a nil payload after the session is invalidated.
func (s *Service) MakeGetRequest(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	outcome, err := s.Do(ctx, http.MethodGet, url, nil, opts...)
	if err != nil {
		return nil, err
	}
	return outcome.Payload, nil
}

// MakePostRequest is MakeGetRequest for POST with a JSON body.
func (s *Service) MakePostRequest(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	outcome, err := s.Do(ctx, http.MethodPost, url, body, opts...)
	if err != nil {
		return nil, err
	}
	return outcome.Payload, nil
}

// Do runs one call and returns the tagged outcome. Every error it returns
// is a *RequestError.
func (s *Service) Do(ctx context.Context, method, url string, body any, opts ...RequestOption) (Outcome, error) {
	if s == nil || s.client == nil {
		return Outcome{}, HandleError(errors.New("api client is not initialized"))
	}
	if method != http.MethodGet && method != http.MethodPost {
		return Outcome{}, s.handleError(method, url, fmt.Errorf("unsupported method %q", method))
	}

	ro := requestOptions{timeout: s.timeout}
	for _, opt := range opts {
		opt(&ro)
	}

	headers := ro.headers
	if headers == nil {
		composed, err := s.composer.ComposeHeaders(ctx, url)
		if err != nil {
			return Outcome{}, s.handleError(method, url, err)
		}
		headers = composed
	}

	var payload []byte
	if method == http.MethodPost && body != nil {
		// Encoding up front snapshots the body; the dispatch goroutine may
		// outlive a timed-out call.
		encoded, err := json.Marshal(body)
		if err != nil {
			return Outcome{}, s.handleError(method, url, fmt.Errorf("encode request body: %w", err))
		}
		payload = encoded
	}

	s.log.InfoObj("route dispatched", "route", map[string]any{
		"method": method,
		"url":    url,
		"body":   json.RawMessage(payload),
	})

	resp, err := s.dispatch(ctx, method, url, payload, headers, ro.timeout)
	if err != nil {
		return Outcome{}, s.handleError(method, url, err)
	}

	outcome, err := Normalize(resp.StatusCode(), resp.Body())
	if err != nil {
		s.log.DebugObj("response rejected", "response", map[string]any{
			"method": method,
			"url":    url,
			"status": resp.StatusCode(),
			"body":   DescribeBody(resp.Body()),
		})
		return outcome, s.handleError(method, url, err)
	}

	s.log.DebugObj("response received", "response", map[string]any{
		"method":  method,
		"url":     url,
		"status":  outcome.Status,
		"outcome": outcome.Kind.String(),
		"body":    outcome.Raw,
	})

	if outcome.SessionExpired() {
		s.invalidateSession(ctx, method, url)
	}
	return outcome, nil
}

type dispatchResult struct {
	resp httpclient.Response
	err  error
}

// dispatch runs the transport call under a deadline measured from now.
// The result channel is buffered so a late transport result never blocks.
func (s *Service) dispatch(ctx context.Context, method, url string, body []byte, headers map[string]string, timeout time.Duration) (httpclient.Response, error) {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan dispatchResult, 1)
	go func() {
		var r dispatchResult
		if method == http.MethodPost {
			var reqBody any
			if body != nil {
				reqBody = body
			}
			r.resp, r.err = s.client.Post(dctx, url, reqBody, headers)
		} else {
			r.resp, r.err = s.client.Get(dctx, url, headers)
		}
		done <- r
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if ctx.Err() == nil && errors.Is(dctx.Err(), context.DeadlineExceeded) {
				return nil, timeoutError(method, url)
			}
			return nil, &RequestError{Kind: KindTransport, Method: method, URL: url, Message: r.err.Error(), Cause: r.err}
		}
		if r.resp == nil {
			return nil, &RequestError{Kind: KindTransport, Method: method, URL: url, Message: "empty response from transport"}
		}
		return r.resp, nil
	case <-dctx.Done():
		if err := ctx.Err(); err != nil {
			return nil, &RequestError{Kind: KindTransport, Method: method, URL: url, Message: err.Error(), Cause: err}
		}
		return nil, timeoutError(method, url)
	}
}

func (s *Service) invalidateSession(ctx context.Context, method, url string) {
	if s.sessions == nil {
		s.log.WarnObj("session expired but no session store configured", "url", url)
		return
	}

	err := s.sessions.Invalidate(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		s.log.WarnObj("session expired but none stored", "url", url)
		return
	case err != nil:
		s.log.ErrorObj("session invalidation failed", "session_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return
	}

	key := ""
	if k, ok := s.sessions.(interface{ Key() string }); ok {
		key = k.Key()
	}
	s.log.InfoObj("session invalidated", "session_event", map[string]any{
		"method":      method,
		"url":         url,
		"session_key": key,
	})

	if s.events == nil {
		return
	}
	evt := notifiers.NewSessionInvalidated(key, method, url)
	if err := s.notify(ctx, evt); err != nil {
		s.log.ErrorObj("session event notify failed", "notify_error", map[string]any{
			"event_id": evt.ID,
			"error":    err.Error(),
		})
	}
}

// notify delivers evt under the same deadline as a dispatch. A sink that
// ignores its context is abandoned once the deadline fires.
func (s *Service) notify(ctx context.Context, evt notifiers.Event) error {
	nctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := s.events.Notify(nctx, evt)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-nctx.Done():
		return fmt.Errorf("notify session event: %w", nctx.Err())
	}
}

func (s *Service) handleError(method, url string, err error) error {
	consolidated := HandleError(err)
	var reqErr *RequestError
	if errors.As(consolidated, &reqErr) {
		if reqErr.Method == "" {
			reqErr.Method = method
		}
		if reqErr.URL == "" {
			reqErr.URL = url
		}
	}
	s.log.ErrorObj("request failed", "request_error", map[string]any{
		"method": method,
		"url":    url,
		"kind":   string(KindOf(consolidated)),
		"error":  consolidated.Error(),
	})
	return consolidated
}
