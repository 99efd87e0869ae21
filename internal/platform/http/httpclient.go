// Package http holds HTTP client plumbing shared by outbound callers.
package http

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// NewHTTPClient creates an HTTP client with explicit dial, TLS and overall timeouts.
// http.DefaultClient has no timeout, so callers should never use it.
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

// NewSessionClient is NewHTTPClient with a cookie jar, so a session cookie set by
// one response is sent on the following requests.
func NewSessionClient(timeout time.Duration) *http.Client {
	c := NewHTTPClient(timeout)
	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(nil)
	c.Jar = jar
	return c
}
