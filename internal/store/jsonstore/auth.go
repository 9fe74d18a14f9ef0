package jsonstore

import (
	"net/http"
	"strings"
)

// BearerClient returns a client that sends token as an Authorization header on
// every request. An empty token returns base unchanged.
func BearerClient(base *http.Client, token string) *http.Client {
	token = stripBearer(strings.TrimSpace(token))
	if base == nil {
		base = &http.Client{}
	}
	if token == "" {
		return base
	}
	c := *base
	next := c.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.Transport = bearerTransport{token: token, next: next}
	return &c
}

type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (t bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	return t.next.RoundTrip(r)
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
