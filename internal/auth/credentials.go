package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"napps-server/internal/domain"
)

// CredentialStore verifica pares usuario/secreto y devuelve el id
// estable del usuario. Un usuario inexistente y una contraseña mala
// son indistinguibles para el caller.
type CredentialStore interface {
	Verify(ctx context.Context, username, secret string) (string, error)
}

// UserLookup es el subconjunto del repositorio de usuarios que
// necesita el credential store.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// Hash de descarte para igualar el costo cuando el usuario no existe.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type repoCredentialStore struct {
	users UserLookup
}

// NewCredentialStore crea un CredentialStore sobre el repositorio de usuarios.
func NewCredentialStore(users UserLookup) CredentialStore {
	return &repoCredentialStore{users: users}
}

func (s *repoCredentialStore) Verify(ctx context.Context, username, secret string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || secret == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// bcrypt de descarte: mismo costo que el camino con usuario.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user.ID, nil
}
