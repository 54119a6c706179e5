package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"napps-server/internal/domain"
)

type stubUserLookup struct {
	users map[string]domain.User
}

func (s *stubUserLookup) GetByUsername(_ context.Context, username string) (domain.User, error) {
	user, ok := s.users[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func newStubUserLookup(t *testing.T, username, password string) *stubUserLookup {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &stubUserLookup{users: map[string]domain.User{
		username: {ID: "user-" + username, Username: username, PasswordHash: string(hash)},
	}}
}

func TestCredentialStore_VerifyOK(t *testing.T) {
	store := NewCredentialStore(newStubUserLookup(t, "alice", "correct-pw"))

	userID, err := store.Verify(context.Background(), "alice", "correct-pw")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-alice" {
		t.Fatalf("unexpected user id: %q", userID)
	}
}

func TestCredentialStore_WrongPassword(t *testing.T) {
	store := NewCredentialStore(newStubUserLookup(t, "alice", "correct-pw"))

	if _, err := store.Verify(context.Background(), "alice", "wrong-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialStore_UnknownUserSameError(t *testing.T) {
	store := NewCredentialStore(newStubUserLookup(t, "alice", "correct-pw"))

	if _, err := store.Verify(context.Background(), "nobody", "correct-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialStore_EmptyInputs(t *testing.T) {
	store := NewCredentialStore(newStubUserLookup(t, "alice", "correct-pw"))

	for _, pair := range [][2]string{{"", "pw"}, {"alice", ""}, {"", ""}} {
		if _, err := store.Verify(context.Background(), pair[0], pair[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("pair %v: expected ErrInvalidCredentials, got %v", pair, err)
		}
	}
}
