package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"napps-server/internal/domain"
)

// Registry guarda las sesiones activas y es la única fuente de verdad
// sobre su validez. Create e Invalidate son atómicas por session id.
type Registry interface {
	Create(ctx context.Context, userID string, ttl time.Duration, sliding bool) (domain.Session, error)
	Lookup(ctx context.Context, sessionID string) (*domain.Session, error)
	Invalidate(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, sessionID string, ttl time.Duration) (domain.Session, error)
}

// newSessionID genera un identificador de sesión impredecible.
// 32 bytes = 256 bits de entropía.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type memoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewMemoryRegistry crea un registro de sesiones en memoria. Útil para
// tests y para correr sin Redis configurado.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{sessions: make(map[string]domain.Session)}
}

func (r *memoryRegistry) Create(_ context.Context, userID string, ttl time.Duration, sliding bool) (domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return domain.Session{}, err
	}
	now := time.Now().UTC()
	session := domain.Session{
		ID:        id,
		UserID:    userID,
		Sliding:   sliding,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	return session, nil
}

func (r *memoryRegistry) Lookup(_ context.Context, sessionID string) (*domain.Session, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if !session.Valid(now) {
		// Purga perezosa: la entrada muerta se elimina en el lookup.
		delete(r.sessions, sessionID)
		return nil, nil
	}
	return &session, nil
}

func (r *memoryRegistry) Invalidate(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	session.Revoked = true
	r.sessions[sessionID] = session
	return nil
}

func (r *memoryRegistry) Refresh(_ context.Context, sessionID string, ttl time.Duration) (domain.Session, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok || !session.Valid(now) {
		// La revocación gana siempre sobre un refresh concurrente.
		return domain.Session{}, ErrExpired
	}
	session.ExpiresAt = now.Add(ttl)
	r.sessions[sessionID] = session
	return session, nil
}

// PurgeExpired elimina entradas muertas y devuelve cuántas removió.
// Es una optimización: la validez se decide siempre en Lookup.
func (r *memoryRegistry) PurgeExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, session := range r.sessions {
		if !session.Valid(now) {
			delete(r.sessions, id)
			purged++
		}
	}
	return purged
}
