// ABOUTME: Auth round-tripper: bearer attachment and one-shot refresh-and-replay
// ABOUTME: A 401 on a non-refresh call triggers exactly one refresh, then one replay

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/openrental/rentctl/internal/debuglog"
	"github.com/openrental/rentctl/internal/session"
)

const refreshPath = "/auth/refresh/"

// RefreshError marks a failure of the token-refresh call itself. It is what
// the caller sees instead of the original 401.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string { return fmt.Sprintf("session refresh failed: %v", e.Err) }
func (e *RefreshError) Unwrap() error { return e.Err }

// authTransport wraps a base transport with the token policy: attach the
// current access token, and on an unauthorized response from anything but the
// refresh endpoint, refresh once and replay the original request once.
type authTransport struct {
	base       http.RoundTripper
	sess       *session.Session
	refreshURL string

	// serializes concurrent refreshes so parallel 401s don't race
	refreshMu sync.Mutex
}

func newAuthTransport(base http.RoundTripper, sess *session.Session, apiBase string) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{
		base:       base,
		sess:       sess,
		refreshURL: strings.TrimRight(apiBase, "/") + refreshPath,
	}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(withBearer(req, t.sess.AccessToken()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || t.isRefreshCall(req) {
		return resp, nil
	}
	if t.sess.RefreshToken() == "" {
		// nothing to refresh with; the 401 stands (e.g. bad login credentials)
		return resp, nil
	}

	access, rerr := t.refresh(req)
	if rerr != nil {
		resp.Body.Close()
		return nil, &RefreshError{Err: rerr}
	}

	retry, ok := rewind(req)
	if !ok {
		// body already consumed and not replayable; surface the original 401
		return resp, nil
	}
	resp.Body.Close()

	debuglog.Log("replaying %s %s after token refresh", req.Method, req.URL.Path)
	return t.base.RoundTrip(withBearer(retry, access))
}

func (t *authTransport) isRefreshCall(req *http.Request) bool {
	return strings.HasSuffix(req.URL.Path, refreshPath)
}

// refresh exchanges the stored refresh token for a new access token and
// saves it in place. The request bypasses this transport so a failing
// refresh can never recurse.
func (t *authTransport) refresh(orig *http.Request) (string, error) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	refresh := t.sess.RefreshToken()
	if refresh == "" {
		return "", fmt.Errorf("no refresh token")
	}

	body, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(orig.Context(), http.MethodPost, t.refreshURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return "", fmt.Errorf("invalid refresh response: %w", err)
	}
	if pair.Access == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}

	if pair.Refresh != "" {
		err = t.sess.SetTokens(pair.Access, pair.Refresh, t.sess.Role())
	} else {
		err = t.sess.SetAccess(pair.Access)
	}
	if err != nil {
		debuglog.Error("persist refreshed token", err)
	}
	return pair.Access, nil
}

// withBearer clones the request with the Authorization header set. Requests
// are never mutated in place; the transport contract forbids it.
func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// rewind produces a fresh copy of the request for the replay. Requests with
// a consumed one-shot body cannot be retried.
func rewind(req *http.Request) (*http.Request, bool) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return r, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	r.Body = body
	return r, true
}
