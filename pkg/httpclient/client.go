// Package httpclient builds HTTP clients that identify this client to the
// conversation server.
package httpclient

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/docker/agentsync/pkg/version"
)

type userAgentTransport struct {
	agent string
	rt    http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Set("User-Agent", u.agent)
	return u.rt.RoundTrip(r2)
}

// NewHTTPClient returns an HTTP client that stamps every request with the
// agentsync user agent.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			agent: fmt.Sprintf("Agentsync/%s (%s; %s)", version.Version, runtime.GOOS, runtime.GOARCH),
			rt:    http.DefaultTransport,
		},
	}
}
