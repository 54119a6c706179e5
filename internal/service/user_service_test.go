package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"napps-server/internal/domain"
)

type mockUserRepo struct {
	usersByID       map[string]domain.User
	usersByUsername map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:       make(map[string]domain.User),
		usersByUsername: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	m.usersByUsername[user.Username] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	id, ok := m.usersByUsername[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.usersByID))
	for _, user := range m.usersByID {
		users = append(users, user)
	}
	return users, nil
}

func (m *mockUserRepo) UpdateConfirmToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ConfirmTokenHash = tokenHash
	user.ConfirmExpiresAt = &expiresAt
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) Enable(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Enabled = true
	user.ConfirmTokenHash = ""
	user.ConfirmExpiresAt = nil
	m.usersByID[id] = user
	return nil
}

type captureSender struct {
	lastToken string
	lastEmail string
	fail      bool
}

func (s *captureSender) SendAccountConfirmation(_ context.Context, toEmail, _, token string, _ time.Time) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.lastEmail = toEmail
	s.lastToken = token
	return nil
}

func validRegisterInput() RegisterUserInput {
	return RegisterUserInput{
		Username:  "alice",
		Password:  "correct-pw",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
	}
}

func TestUserService_RegisterCreatesDisabledAccount(t *testing.T) {
	repo := newMockUserRepo()
	sender := &captureSender{}
	svc := NewUserService(zap.NewNop(), repo, sender)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Enabled {
		t.Fatalf("expected disabled account")
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-pw" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
	if sender.lastToken == "" || sender.lastEmail != "alice@example.com" {
		t.Fatalf("confirmation email not sent: %+v", sender)
	}
}

func TestUserService_RegisterRejectsDuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, &captureSender{})

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), validRegisterInput()); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserService_RegisterRejectsMissingFields(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), &captureSender{})

	input := validRegisterInput()
	input.Email = "not-an-email"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}

	input = validRegisterInput()
	input.Password = "   "
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestUserService_RegisterSurvivesEmailFailure(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, &captureSender{fail: true})

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), user.ID); err != nil {
		t.Fatalf("account not persisted: %v", err)
	}
}

func TestUserService_ConfirmEnablesAccount(t *testing.T) {
	repo := newMockUserRepo()
	sender := &captureSender{}
	svc := NewUserService(zap.NewNop(), repo, sender)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Confirm(context.Background(), "alice", sender.lastToken); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	got, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Enabled || got.ConfirmTokenHash != "" {
		t.Fatalf("account not enabled cleanly: %+v", got)
	}

	// El token es de un solo uso.
	if err := svc.Confirm(context.Background(), "alice", sender.lastToken); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
}

func TestUserService_ConfirmRejectsWrongToken(t *testing.T) {
	repo := newMockUserRepo()
	sender := &captureSender{}
	svc := NewUserService(zap.NewNop(), repo, sender)

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Confirm(context.Background(), "alice", "not-the-token"); !errors.Is(err, ErrConfirmInvalid) {
		t.Fatalf("expected ErrConfirmInvalid, got %v", err)
	}
	if err := svc.Confirm(context.Background(), "nobody", sender.lastToken); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ConfirmRejectsExpiredToken(t *testing.T) {
	repo := newMockUserRepo()
	sender := &captureSender{}
	svc := NewUserService(zap.NewNop(), repo, sender)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	stored := repo.usersByID[user.ID]
	if err := repo.UpdateConfirmToken(context.Background(), user.ID, stored.ConfirmTokenHash, past); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := svc.Confirm(context.Background(), "alice", sender.lastToken); !errors.Is(err, ErrConfirmExpired) {
		t.Fatalf("expected ErrConfirmExpired, got %v", err)
	}
}

func TestUserService_GetUnknownUser(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), &captureSender{})

	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
