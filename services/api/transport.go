package apisvc

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/storage"
)

const (
	RequestIDHeader = "X-Request-ID"

	// MsgForbidden is shown whenever the backend answers 403.
	MsgForbidden = "Vous n'êtes pas autorisé à faire cela"
)

// bearerTransport reads the credential on every request, so a login or logout applies
// to the next request without rebuilding the client.
type bearerTransport struct {
	creds storage.Storage
	key   string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the request they are given
	req = req.Clone(req.Context())
	if token, ok := t.creds.Get(t.key); ok && token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.New().String())
	}
	return t.base.RoundTrip(req)
}

// interceptTransport reacts to authentication and authorization failures of any call.
// It sits below bearerTransport so it sees the credential each request was sent with.
type interceptTransport struct {
	base     http.RoundTripper
	notifier core.Notifier

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context, token string)
}

func (t *interceptTransport) setUnauthorized(fn func(ctx context.Context, token string)) {
	t.mu.Lock()
	t.onUnauthorized = fn
	t.mu.Unlock()
}

func (t *interceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusForbidden:
		if t.notifier != nil {
			t.notifier.Warning(MsgForbidden)
		}
	case http.StatusUnauthorized:
		t.mu.RLock()
		fn := t.onUnauthorized
		t.mu.RUnlock()
		if fn != nil {
			fn(req.Context(), sentToken(req))
		}
	}
	return resp, nil
}

// sentToken returns the bearer credential req carries, or "".
func sentToken(req *http.Request) string {
	auth := req.Header.Get("Authorization")
	if len(auth) < len("Bearer ") || !strings.EqualFold(auth[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return auth[len("Bearer "):]
}
