package apiclient

import (
	"time"

	"github.com/samvad-hq/samvad-gateway/pkg/utility"
)

// DefaultTimeout is the hard deadline applied to every dispatched call.
const DefaultTimeout = 15 * time.Second

// RequestOption adjusts a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
	timeout time.Duration
}

// WithHeaders sends exactly these headers and skips header composition,
// including the bearer token. A nil map is ignored.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		if headers == nil {
			return
		}
		o.headers = utility.MergeMaps(headers, nil)
	}
}

// WithTimeout overrides the deadline for one call.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}
