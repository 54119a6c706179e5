package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"napps-server/internal/domain"
	"napps-server/internal/repository"
)

// NappService coordina reglas de negocio para napps.
type NappService struct {
	logger *zap.Logger
	napps  repository.NappRepository
	users  repository.UserRepository
}

func NewNappService(logger *zap.Logger, napps repository.NappRepository, users repository.UserRepository) *NappService {
	return &NappService{
		logger: logger,
		napps:  napps,
		users:  users,
	}
}

var (
	ErrNappNotFound      = errors.New("napp not found")
	ErrAuthorNotFound    = errors.New("author not found")
	ErrInvalidAuthor     = errors.New("author does not match authenticated user")
	ErrAccountDisabled   = errors.New("account not confirmed")
	ErrInvalidNappFields = errors.New("invalid napp metadata")
)

type RegisterNappInput struct {
	Author          string
	Name            string
	Description     string
	LongDescription string
	Version         string
	License         string
	Git             string
	Branch          string
	Readme          string
	OFVersions      []string
	Tags            []string
	Dependencies    []string
}

// Register publica un napp. Sólo el autor autenticado y habilitado
// puede publicar bajo su propio nombre.
func (s *NappService) Register(ctx context.Context, principalID string, input RegisterNappInput) (domain.Napp, error) {
	user, err := s.users.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Napp{}, ErrInvalidAuthor
		}
		return domain.Napp{}, err
	}
	if !user.Enabled {
		return domain.Napp{}, ErrAccountDisabled
	}
	if strings.TrimSpace(input.Author) != user.Username {
		return domain.Napp{}, ErrInvalidAuthor
	}

	if err := validateNappInput(input); err != nil {
		return domain.Napp{}, err
	}

	napp := domain.Napp{
		ID:              uuid.NewString(),
		Author:          user.Username,
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		LongDescription: input.LongDescription,
		Version:         strings.TrimSpace(input.Version),
		License:         strings.TrimSpace(input.License),
		Git:             strings.TrimSpace(input.Git),
		Branch:          strings.TrimSpace(input.Branch),
		Readme:          input.Readme,
		OFVersions:      input.OFVersions,
		Tags:            input.Tags,
		Dependencies:    input.Dependencies,
		CreatedAt:       time.Now().UTC(),
	}
	if napp.Dependencies == nil {
		napp.Dependencies = []string{}
	}

	if err := s.napps.Create(ctx, napp); err != nil {
		return domain.Napp{}, err
	}
	return napp, nil
}

// List devuelve los napps publicados, opcionalmente acotados.
func (s *NappService) List(ctx context.Context, limit int) ([]domain.Napp, error) {
	return s.napps.List(ctx, limit)
}

// ListByAuthor devuelve los napps de un autor existente.
func (s *NappService) ListByAuthor(ctx context.Context, author string) ([]domain.Napp, error) {
	if _, err := s.users.GetByUsername(ctx, author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return s.napps.ListByAuthor(ctx, author)
}

// Get devuelve un napp por autor y nombre.
func (s *NappService) Get(ctx context.Context, author, name string) (domain.Napp, error) {
	if _, err := s.users.GetByUsername(ctx, author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Napp{}, ErrAuthorNotFound
		}
		return domain.Napp{}, err
	}
	napp, err := s.napps.GetByAuthorAndName(ctx, author, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Napp{}, ErrNappNotFound
		}
		return domain.Napp{}, err
	}
	return napp, nil
}

// Delete elimina un napp; sólo su autor puede hacerlo.
func (s *NappService) Delete(ctx context.Context, principalID, author, name string) error {
	user, err := s.users.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidAuthor
		}
		return err
	}
	if user.Username != strings.TrimSpace(author) {
		return ErrInvalidAuthor
	}

	if _, err := s.napps.GetByAuthorAndName(ctx, author, name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNappNotFound
		}
		return err
	}
	return s.napps.Delete(ctx, author, name)
}

func validateNappInput(input RegisterNappInput) error {
	required := []string{
		input.Name,
		input.Description,
		input.Version,
		input.License,
		input.Git,
		input.Branch,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidNappFields
		}
	}
	if len(input.OFVersions) == 0 || len(input.Tags) == 0 {
		return ErrInvalidNappFields
	}
	return nil
}
