package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"napps-server/internal/domain"
)

// refreshScript extiende la sesión sólo si el valor no cambió desde la
// lectura. Un DEL concurrente (logout) hace fallar el swap, así la
// revocación gana sobre el refresh.
const refreshScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
  return 1
end
return 0
`

var refreshLua = redis.NewScript(refreshScript)

type redisRegistry struct {
	client *redis.Client
	prefix string
}

// NewRedisRegistry crea un registro de sesiones respaldado por Redis.
// La expiración se delega al TTL de la clave.
func NewRedisRegistry(client *redis.Client) Registry {
	return &redisRegistry{
		client: client,
		prefix: "session:",
	}
}

func (r *redisRegistry) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *redisRegistry) Create(ctx context.Context, userID string, ttl time.Duration, sliding bool) (domain.Session, error) {
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

	if ttl <= 0 {
		// Nace expirada: no hay nada que guardar, Lookup nunca la verá.
		return session, nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("auth: marshaling session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(id), data, ttl).Result()
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, ErrConflict
	}
	return session, nil
}

func (r *redisRegistry) Lookup(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("auth: unmarshaling session: %w", err)
	}
	if !session.Valid(time.Now().UTC()) {
		return nil, nil
	}
	return &session, nil
}

func (r *redisRegistry) Invalidate(ctx context.Context, sessionID string) error {
	// DEL es idempotente: invalidar dos veces no es un error.
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *redisRegistry) Refresh(ctx context.Context, sessionID string, ttl time.Duration) (domain.Session, error) {
	key := r.key(sessionID)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return domain.Session{}, ErrExpired
	}
	if err != nil {
		return domain.Session{}, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return domain.Session{}, fmt.Errorf("auth: unmarshaling session: %w", err)
	}

	session.ExpiresAt = time.Now().UTC().Add(ttl)
	data, err := json.Marshal(session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("auth: marshaling session: %w", err)
	}

	swapped, err := refreshLua.Run(ctx, r.client, []string{key}, val, string(data), ttl.Milliseconds()).Int()
	if err != nil {
		return domain.Session{}, err
	}
	if swapped != 1 {
		// Si la clave sigue viva perdimos contra otro refresh; si no
		// está, un logout o el TTL ganaron.
		n, err := r.client.Exists(ctx, key).Result()
		if err == nil && n > 0 {
			return domain.Session{}, ErrConflict
		}
		return domain.Session{}, ErrExpired
	}
	return session, nil
}
