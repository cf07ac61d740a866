package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned when the refresh token is rejected and the
// session cannot be recovered without logging in again.
var ErrSessionExpired = errors.New("session expired")

// Transport is an http.RoundTripper that attaches the bearer token to
// outgoing requests and recovers from expired access tokens. A 401
// response triggers at most one token refresh and one replay of the
// original request; concurrent requests share a single refresh call.
type Transport struct {
	// Base performs the actual HTTP round trips. http.DefaultTransport
	// is used when nil.
	Base http.RoundTripper

	// Store holds the current token pair.
	Store TokenStore

	// RefreshURL is the absolute URL of the token refresh endpoint.
	RefreshURL string

	// OnSessionExpired, when set, is invoked after the refresh token is
	// rejected and the stored credentials have been cleared.
	OnSessionExpired func()

	group singleflight.Group
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	pair, err := t.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	authed := cloneWithToken(req, pair.AccessToken)
	resp, err := t.base().RoundTrip(authed)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || !t.canRetry(req, pair) {
		return resp, nil
	}

	accessToken, refreshErr := t.refresh(req.Context(), pair.RefreshToken)
	if refreshErr != nil {
		t.expireSession()
		// The caller still gets the original 401 so error handling
		// stays uniform.
		return resp, nil
	}

	resp.Body.Close()

	retry, err := rewindRequest(req)
	if err != nil {
		return nil, err
	}
	retryResp, err := t.base().RoundTrip(cloneWithToken(retry, accessToken))
	if err != nil {
		return nil, err
	}
	if retryResp.StatusCode == http.StatusUnauthorized {
		t.expireSession()
	}
	return retryResp, nil
}

// canRetry reports whether a 401 on this request should trigger a refresh
// attempt. Requests to the auth endpoints themselves never do: a 401 from
// login means bad credentials, not an expired session.
func (t *Transport) canRetry(req *http.Request, pair TokenPair) bool {
	if pair.RefreshToken == "" {
		return false
	}
	if strings.Contains(req.URL.Path, "/auth/") {
		return false
	}
	// Requests with a body that cannot be rebuilt cannot be replayed.
	if req.Body != nil && req.GetBody == nil {
		return false
	}
	return true
}

// refresh exchanges the refresh token for a new pair, deduplicating
// concurrent attempts through singleflight. The returned value is the new
// access token.
func (t *Transport) refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err, _ := t.group.Do("refresh", func() (any, error) {
		// Another goroutine may have refreshed while this one waited.
		current, err := t.Store.Load()
		if err == nil && current.Valid() && current.RefreshToken != refreshToken {
			return current.AccessToken, nil
		}

		pair, err := t.requestRefresh(ctx, refreshToken)
		if err != nil {
			return "", err
		}
		if err := t.Store.Save(pair); err != nil {
			return "", fmt.Errorf("save tokens: %w", err)
		}
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (t *Transport) requestRefresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return TokenPair{}, fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader(body))
	if err != nil {
		return TokenPair{}, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return TokenPair{}, fmt.Errorf("refresh tokens: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TokenPair{}, ErrSessionExpired
	}

	var envelope struct {
		Success bool      `json:"success"`
		Data    TokenPair `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return TokenPair{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if !envelope.Success || !envelope.Data.Valid() {
		return TokenPair{}, ErrSessionExpired
	}
	return envelope.Data, nil
}

func (t *Transport) expireSession() {
	_ = t.Store.Clear()
	if t.OnSessionExpired != nil {
		t.OnSessionExpired()
	}
}

// cloneWithToken returns a shallow clone of req with the bearer token set.
// The original request is never mutated, as required of RoundTrippers.
func cloneWithToken(req *http.Request, accessToken string) *http.Request {
	clone := req.Clone(req.Context())
	if accessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return clone
}

// rewindRequest rebuilds the request body so the request can be sent a
// second time.
func rewindRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}
