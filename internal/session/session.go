// ABOUTME: Credential store and observable auth session
// ABOUTME: Persists access/refresh tokens and role; broadcasts auth-state transitions

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/openrental/rentctl/internal/broadcast"
)

// Roles issued by the backend.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// Credentials is the persisted token material. Zero value means signed out.
type Credentials struct {
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Store reads and writes credentials under the config directory. Tokens are
// secrets, so the file is created 0600.
type Store struct {
	dir string
}

// NewStore creates a credential store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) file() string {
	return filepath.Join(s.dir, "session.json")
}

// Load reads credentials; missing or corrupt files read as signed out.
func (s *Store) Load() Credentials {
	var creds Credentials
	data, err := os.ReadFile(s.file())
	if err != nil {
		return Credentials{}
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}
	}
	return creds
}

// Save writes credentials to disk.
func (s *Store) Save(creds Credentials) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.file(), data, 0o600)
}

// Clear removes the credential file.
func (s *Store) Clear() error {
	err := os.Remove(s.file())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Session holds a cached copy of the stored credentials and publishes
// authenticated-state transitions to subscribers. One instance per process.
type Session struct {
	store *Store

	mu    sync.Mutex
	creds Credentials

	feed *broadcast.Broadcaster[bool]
}

// New creates a session backed by store, rehydrating any persisted tokens.
func New(store *Store) *Session {
	return &Session{
		store: store,
		creds: store.Load(),
		feed:  broadcast.New[bool](),
	}
}

// Authenticated reports whether an access token is present.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Access != ""
}

// AccessToken returns the current access token ("" when signed out).
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Access
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Refresh
}

// Role returns the stored role name.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Role
}

func (s *Session) IsAdmin() bool   { return s.Role() == RoleAdmin }
func (s *Session) IsManager() bool { return s.Role() == RoleManager }
func (s *Session) IsUser() bool    { return s.Role() == RoleUser }

// SetTokens installs a fresh token pair after login and persists it.
func (s *Session) SetTokens(access, refresh, role string) error {
	s.mu.Lock()
	s.creds = Credentials{Access: access, Refresh: refresh, Role: role}
	creds := s.creds
	s.mu.Unlock()

	err := s.store.Save(creds)
	s.feed.Publish(true)
	return err
}

// SetAccess replaces the access token in place after a refresh.
func (s *Session) SetAccess(access string) error {
	s.mu.Lock()
	s.creds.Access = access
	creds := s.creds
	s.mu.Unlock()
	return s.store.Save(creds)
}

// Clear signs out: drops the cached copy, removes the file, and notifies
// subscribers.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.creds = Credentials{}
	s.mu.Unlock()

	err := s.store.Clear()
	s.feed.Publish(false)
	return err
}

// Changes subscribes to authenticated-state transitions: true on login,
// false on logout.
func (s *Session) Changes() (<-chan bool, func()) {
	return s.feed.Subscribe()
}
