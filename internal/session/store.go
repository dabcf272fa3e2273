package session

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/perpusctl/internal/util"
)

// ErrNoSession is returned by User when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// file is the on-disk session layout.
type file struct {
	Token   string    `yaml:"token"`
	User    User      `yaml:"user"`
	SavedAt time.Time `yaml:"saved_at"`
}

// Store owns the session token and user. It is the only writer of the
// session file, and Invalidate is the single way a session ends.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
	user  *User
}

// NewStore returns a Store persisted at path. An empty path keeps the
// session in memory only.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session, if any. A corrupt file is removed and
// treated as no session.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading session: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil || IsPlaceholder(f.Token) {
		_ = os.Remove(s.path)
		return nil
	}

	s.mu.Lock()
	s.token = f.Token
	u := f.User
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Save stores a new session and persists it.
func (s *Store) Save(token string, user User) error {
	if IsPlaceholder(token) {
		return fmt.Errorf("refusing to store empty token")
	}
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(file{Token: token, User: user, SavedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return util.WriteFileAtomic(s.path, data, 0600, 0700)
}

// Token returns the bearer token, or "" when there is none. Placeholder
// values never leave the store.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if IsPlaceholder(s.token) {
		return ""
	}
	return s.token
}

// User returns the stored user.
func (s *Store) User() (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || IsPlaceholder(s.token) {
		return User{}, ErrNoSession
	}
	return *s.user, nil
}

// Authenticated reports whether a usable token is held. A JWT whose exp has
// passed counts as unauthenticated; opaque tokens are trusted until the
// server says otherwise.
func (s *Store) Authenticated(now time.Time) bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	if c, err := InspectToken(tok); err == nil && c.Expired(now) {
		return false
	}
	return true
}

// IsAdmin reports whether the stored user has the admin role.
func (s *Store) IsAdmin() bool {
	u, err := s.User()
	return err == nil && u.IsAdmin()
}

// Invalidate clears the session in memory and on disk. Calling it on an
// empty store is a no-op.
func (s *Store) Invalidate() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
