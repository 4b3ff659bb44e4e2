package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

// Store persists the current session as a JSON file, the desktop analogue of
// the mobile app's key-value session storage. It is written at login, read on
// demand, and cleared at logout or when the backend rejects the token.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a session store backed by the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Current returns the persisted session, or ErrNoSession when none exists.
// Callers must treat the absence of a session as an unauthenticated,
// read-only view and must not render send affordances.
func (s *Store) Current() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domainErrors.ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Token == "" || sess.User.ID == "" {
		return nil, domainErrors.ErrNoSession
	}
	return &sess, nil
}

// Save persists the session, replacing any previous one atomically.
func (s *Store) Save(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token implements the marketplace token source. An absent session yields an
// empty token so unauthenticated reads still go out, to be rejected by the
// server where authentication is required.
func (s *Store) Token() (string, error) {
	sess, err := s.Current()
	if err != nil {
		if errors.Is(err, domainErrors.ErrNoSession) {
			return "", nil
		}
		return "", err
	}
	return sess.Token, nil
}

// Invalidate is the 401 side effect: the session is dropped so the outer
// application redirects to login on its next identity read.
func (s *Store) Invalidate() error {
	s.logger.Warn("session rejected by backend, clearing persisted credentials")
	return s.Clear()
}
