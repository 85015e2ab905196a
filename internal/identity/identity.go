package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnauthenticated is returned when no signed-in session exists. Pull
// fails fast on it; everything offline keeps working without one.
var ErrUnauthenticated = errors.New("not authenticated")

// User is the authenticated identity the remote store scopes rows by.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider exposes the current identity, if any.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

type sessionFile struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// FileSession keeps the session token and user in a 0600 file under the
// data directory. It is written by auth login and removed by logout.
type FileSession struct {
	path string
}

func NewFileSession(dataDir string) *FileSession {
	return &FileSession{path: filepath.Join(dataDir, "session.json")}
}

func (s *FileSession) Save(token string, u User) error {
	data, err := json.MarshalIndent(sessionFile{Token: token, User: u}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileSession) load() (*sessionFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sf.Token == "" || sf.User.ID == "" {
		return nil, ErrUnauthenticated
	}
	return &sf, nil
}

func (s *FileSession) CurrentUser(_ context.Context) (*User, error) {
	sf, err := s.load()
	if err != nil {
		return nil, err
	}
	u := sf.User
	return &u, nil
}

// Token returns the bearer token for remote calls.
func (s *FileSession) Token() (string, error) {
	sf, err := s.load()
	if err != nil {
		return "", err
	}
	return sf.Token, nil
}

// Clear forgets the session. Clearing an absent session is a no-op.
func (s *FileSession) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
