package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the credential returned by a successful login.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// TokenStore keeps the current session between console runs.
// Load returns a zero Session when nobody is logged in.
type TokenStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// ── File store ────────────────────────────────────────────────────────────────

// FileTokenStore persists the session as JSON in a file readable only by the owner.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return sess, nil
}

func (s *FileTokenStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ── Memory store ──────────────────────────────────────────────────────────────

// MemoryTokenStore holds the session in memory only.
type MemoryTokenStore struct {
	mu   sync.Mutex
	sess Session
}

func NewMemoryTokenStore(sess Session) *MemoryTokenStore {
	return &MemoryTokenStore{sess: sess}
}

func (s *MemoryTokenStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, nil
}

func (s *MemoryTokenStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save(Session{})
}

// ── Expiry ────────────────────────────────────────────────────────────────────

// TokenExpired reports whether a JWT's exp claim is at or before now. The
// signature is not checked; the server does that. Tokens that are not JWTs or
// carry no exp claim are left for the server to judge.
func TokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
