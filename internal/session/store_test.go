package session

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"), testLogger())
}

func sampleSession() model.Session {
	return model.Session{
		Token: "token-123",
		User: model.SessionUser{
			ID:       "user-1",
			Name:     "Dana",
			UserType: model.UserTypeFreelancer,
		},
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	store := testStore(t)
	if _, err := store.Current(); !errors.Is(err, domainErrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSaveAndCurrentRoundTrip(t *testing.T) {
	store := testStore(t)
	want := sampleSession()
	if err := store.Save(want); err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	got, err := store.Current()
	if err != nil {
		t.Fatalf("current returned error: %v", err)
	}
	if got.Token != want.Token || got.User != want.User {
		t.Fatalf("session round trip mismatch: %+v vs %+v", got, want)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestSaveReplacesPreviousSession(t *testing.T) {
	store := testStore(t)
	first := sampleSession()
	if err := store.Save(first); err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	second := first
	second.Token = "token-456"
	second.User.ID = "user-2"
	if err := store.Save(second); err != nil {
		t.Fatalf("second save returned error: %v", err)
	}

	got, err := store.Current()
	if err != nil {
		t.Fatalf("current returned error: %v", err)
	}
	if got.Token != "token-456" || got.User.ID != "user-2" {
		t.Fatalf("expected replaced session, got %+v", got)
	}
}

func TestCurrentRejectsIncompleteSession(t *testing.T) {
	store := testStore(t)
	if err := os.WriteFile(store.path, []byte(`{"token":"","user":{"id":""}}`), 0o600); err != nil {
		t.Fatalf("write session file: %v", err)
	}
	if _, err := store.Current(); !errors.Is(err, domainErrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession for incomplete session, got %v", err)
	}
}

func TestCurrentRejectsCorruptFile(t *testing.T) {
	store := testStore(t)
	if err := os.WriteFile(store.path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write session file: %v", err)
	}
	if _, err := store.Current(); err == nil {
		t.Fatal("expected error for corrupt session file")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := testStore(t)
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing absent session must not fail: %v", err)
	}

	if err := store.Save(sampleSession()); err != nil {
		t.Fatalf("save returned error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear returned error: %v", err)
	}
	if _, err := store.Current(); !errors.Is(err, domainErrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestTokenWithoutSessionIsEmpty(t *testing.T) {
	store := testStore(t)
	token, err := store.Token()
	if err != nil {
		t.Fatalf("token returned error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestInvalidateDropsSession(t *testing.T) {
	store := testStore(t)
	if err := store.Save(sampleSession()); err != nil {
		t.Fatalf("save returned error: %v", err)
	}
	if err := store.Invalidate(); err != nil {
		t.Fatalf("invalidate returned error: %v", err)
	}
	if _, err := store.Current(); !errors.Is(err, domainErrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after invalidate, got %v", err)
	}
}
