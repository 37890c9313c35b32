package apiclient

import (
	"context"

	"github.com/samvad-hq/samvad-gateway/internal/domain"
	"github.com/samvad-hq/samvad-gateway/pkg/routes"
	"github.com/samvad-hq/samvad-gateway/pkg/utility"
)

// AuthorizationHeader is written lowercase; net/http canonicalizes on the wire.
const AuthorizationHeader = "authorization"

var defaultHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// DefaultHeaders returns a fresh copy of the headers every request starts from.
func DefaultHeaders() map[string]string {
	return utility.MergeMaps(defaultHeaders, nil)
}

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	Current(ctx context.Context) (*domain.Session, error)
}

// Composer derives per-request headers from the URL and the stored session.
type Composer struct {
	sessions SessionReader
	exempt   *routes.Set
}

// NewComposer builds a composer. A nil exempt set exempts nothing; a nil
// reader never adds credentials.
func NewComposer(sessions SessionReader, exempt *routes.Set) *Composer {
	return &Composer{sessions: sessions, exempt: exempt}
}

// ComposeHeaders returns the defaults plus a bearer token when url is not
// exempt and a session with a token is stored. A missing session is not an
// error; an unreadable one is.
func (c *Composer) ComposeHeaders(ctx context.Context, url string) (map[string]string, error) {
	headers := DefaultHeaders()
	if c == nil || c.sessions == nil || c.exempt.Exempt(url) {
		return headers, nil
	}

	s, err := c.sessions.Current(ctx)
	if err != nil {
		return nil, &RequestError{Kind: KindSession, URL: url, Message: err.Error(), Cause: err}
	}
	if s != nil && s.HasToken() {
		headers[AuthorizationHeader] = "Bearer " + s.Token
	}
	return headers, nil
}
