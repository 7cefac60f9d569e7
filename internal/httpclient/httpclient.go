package httpclient

import (
	"net/http"
	"time"
)

// HTTPClient is the subset of *http.Client the upstream clients depend on, so tests can swap the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns a client bounded by the per-call timeout. Nothing else in the pipeline imposes a deadline.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
