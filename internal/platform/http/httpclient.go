package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates an HTTP client configured for external API calls.
//
// Settings:
//   - Proxy: honored when environment variables (HTTP_PROXY etc.) are set
//   - Dialer.Timeout: TCP connect timeout, shorter than the default
//   - Dialer.KeepAlive: how long reusable TCP connections are kept alive
//   - MaxIdleConns: capped at 100 to avoid exhaustion under load
//   - IdleConnTimeout: how long idle connections are retained
//   - TLSHandshakeTimeout: upper bound on the HTTPS handshake
//   - Client.Timeout: whole-request timeout supplied by the caller
//
// Note:
//   - http.DefaultClient has no timeout, so always use a custom client
//   - the Transport is configured explicitly for connection stability
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
