package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"napps-server/internal/domain"
	"napps-server/internal/email"
	"napps-server/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender) *UserService {
	return &UserService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
	}
}

type RegisterUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	City      string
	State     string
	Country   string
}

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrInvalidUser      = errors.New("invalid user data")
	ErrConfirmInvalid   = errors.New("confirmation token invalid")
	ErrConfirmExpired   = errors.New("confirmation token expired")
	ErrAlreadyConfirmed = errors.New("account already confirmed")
)

const confirmTTL = 24 * time.Hour

// Register crea la cuenta deshabilitada y envía el token de
// confirmación por correo. El envío es best-effort: si falla, la
// cuenta queda creada y el token puede reenviarse.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	emailAddr := normalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if username == "" || password == "" || emailAddr == "" || firstName == "" || lastName == "" {
		return domain.User{}, ErrInvalidUser
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return domain.User{}, ErrUsernameTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	token, tokenHash, err := generateConfirmToken()
	if err != nil {
		return domain.User{}, err
	}
	expiresAt := time.Now().UTC().Add(confirmTTL)

	user := domain.User{
		ID:               uuid.NewString(),
		Username:         username,
		Email:            emailAddr,
		FirstName:        firstName,
		LastName:         lastName,
		Phone:            strings.TrimSpace(input.Phone),
		City:             strings.TrimSpace(input.City),
		State:            strings.TrimSpace(input.State),
		Country:          strings.TrimSpace(input.Country),
		Enabled:          false,
		PasswordHash:     string(hashBytes),
		ConfirmTokenHash: tokenHash,
		ConfirmExpiresAt: &expiresAt,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendAccountConfirmation(ctx, emailAddr, username, token, expiresAt); err != nil {
			s.logger.Warn("send confirmation email failed",
				zap.Error(err),
				zap.String("username", username),
			)
		}
	}
	return user, nil
}

// Confirm habilita la cuenta si el token coincide y no venció.
func (s *UserService) Confirm(ctx context.Context, username, token string) error {
	if s.users == nil {
		return errors.New("user service not configured")
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Enabled {
		return ErrAlreadyConfirmed
	}
	if user.ConfirmTokenHash == "" || user.ConfirmExpiresAt == nil {
		return ErrConfirmInvalid
	}
	if time.Now().UTC().After(*user.ConfirmExpiresAt) {
		return ErrConfirmExpired
	}
	if !verifyConfirmToken(token, user.ConfirmTokenHash) {
		return ErrConfirmInvalid
	}

	return s.users.Enable(ctx, user.ID)
}

// Get devuelve un usuario por username.
func (s *UserService) Get(ctx context.Context, username string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// List devuelve todos los usuarios registrados.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func generateConfirmToken() (string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token := hex.EncodeToString(b)
	return token, hashConfirmToken(token), nil
}

func hashConfirmToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func verifyConfirmToken(token, storedHash string) bool {
	got := hashConfirmToken(strings.TrimSpace(token))
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}

func normalizeEmail(emailAddr string) string {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if !strings.Contains(emailAddr, "@") {
		return ""
	}
	return emailAddr
}
