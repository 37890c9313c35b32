package domain

import "encoding/json"

// Domain contains core models shared by the gateway packages.

// DefaultSessionKey is the store slot the login flow writes the session to.
const DefaultSessionKey = "user"

// Session is the locally persisted authentication record.
// Fields other than token and isValidSession are carried in Extra so a
// read-modify-write does not drop data written by the login flow.
type Session struct {
	Token          string
	IsValidSession bool
	Extra          map[string]json.RawMessage
}

// NewSession returns a valid session for the given token.
func NewSession(token string) Session {
	return Session{Token: token, IsValidSession: true}
}

// HasToken reports whether the session can authorize a request.
func (s Session) HasToken() bool { return s.Token != "" }

// MarshalJSON writes token, isValidSession and any preserved fields.
func (s Session) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+2)
	for k, v := range s.Extra {
		out[k] = v
	}
	out["token"] = s.Token
	out["isValidSession"] = s.IsValidSession
	return json.Marshal(out)
}

// UnmarshalJSON reads a session record; isValidSession defaults to true.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := Session{IsValidSession: true}
	if v, ok := raw["token"]; ok {
		if err := json.Unmarshal(v, &decoded.Token); err != nil {
			return err
		}
		delete(raw, "token")
	}
	if v, ok := raw["isValidSession"]; ok {
		if string(v) != "null" {
			if err := json.Unmarshal(v, &decoded.IsValidSession); err != nil {
				return err
			}
		}
		delete(raw, "isValidSession")
	}
	if len(raw) > 0 {
		decoded.Extra = raw
	}

	*s = decoded
	return nil
}
