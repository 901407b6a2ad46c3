// ABOUTME: Auth endpoints: login, register, logout
// ABOUTME: Successful calls update the persisted session in place

package api

import (
	"context"
	"net/http"

	"github.com/openrental/rentctl/internal/session"
)

// AuthClient couples the gateway with the session it maintains.
type AuthClient struct {
	client *Client
	sess   *session.Session
}

// NewAuthClient creates an auth client that stores issued tokens in sess.
func NewAuthClient(client *Client, sess *session.Session) *AuthClient {
	return &AuthClient{client: client, sess: sess}
}

// Login calls POST /auth/login/ and installs the issued token pair.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	var pair TokenPair
	if err := a.client.sendJSON(ctx, http.MethodPost, "/auth/login/", body, &pair); err != nil {
		return nil, err
	}
	if err := a.sess.SetTokens(pair.Access, pair.Refresh, pair.Role); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register calls POST /auth/register/. The backend assigns the "user" role;
// the caller logs in separately afterwards.
func (a *AuthClient) Register(ctx context.Context, input RegisterInput) error {
	return a.client.sendJSON(ctx, http.MethodPost, "/auth/register/", input, nil)
}

// Logout clears the local session. The backend keeps no server-side session
// to invalidate; dropping the tokens is the whole operation.
func (a *AuthClient) Logout() error {
	return a.sess.Clear()
}
