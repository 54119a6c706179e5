package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Gateway coordina login, logout y resolución de identidad. Se arma
// explícitamente en la composición de la app, sin estado global.
type Gateway struct {
	logger   *zap.Logger
	creds    CredentialStore
	registry Registry
	codec    *Codec
	ttl      time.Duration
	sliding  bool
}

// NewGateway crea un Gateway con sus colaboradores inyectados.
func NewGateway(logger *zap.Logger, creds CredentialStore, registry Registry, codec *Codec, ttl time.Duration, sliding bool) *Gateway {
	return &Gateway{
		logger:   logger,
		creds:    creds,
		registry: registry,
		codec:    codec,
		ttl:      ttl,
		sliding:  sliding,
	}
}

// Login verifica credenciales, crea una sesión y devuelve el token
// firmado junto con su expiración. Un fallo de credenciales nunca
// revela si el usuario existía.
func (g *Gateway) Login(ctx context.Context, username, secret string) (string, time.Time, error) {
	userID, err := g.creds.Verify(ctx, username, secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		g.logger.Error("credential verification failed", zap.Error(err))
		return "", time.Time{}, err
	}

	session, err := g.registry.Create(ctx, userID, g.ttl, g.sliding)
	if err != nil {
		g.logger.Error("session create failed", zap.Error(err))
		return "", time.Time{}, err
	}

	token, err := g.codec.Encode(session.ID)
	if err != nil {
		g.logger.Error("token encode failed", zap.Error(err))
		// La sesión huérfana expira sola; el invalidate es cortesía.
		_ = g.registry.Invalidate(ctx, session.ID)
		return "", time.Time{}, err
	}
	return token, session.ExpiresAt, nil
}

// Logout invalida la sesión del token. Siempre tiene éxito desde el
// punto de vista del caller, incluso con un token ya inválido.
func (g *Gateway) Logout(ctx context.Context, token string) {
	sessionID, err := g.codec.Decode(token)
	if err != nil {
		g.logger.Debug("logout with undecodable token")
		return
	}
	if err := g.registry.Invalidate(ctx, sessionID); err != nil {
		g.logger.Error("session invalidate failed", zap.Error(err))
	}
}

// Resolve devuelve el user id detrás de un token válido. Toda falla
// (token alterado, sesión desconocida, expirada o revocada) colapsa en
// ErrUnauthenticated; la distinción queda sólo en los logs.
func (g *Gateway) Resolve(ctx context.Context, token string) (string, error) {
	sessionID, err := g.codec.Decode(token)
	if err != nil {
		g.logger.Debug("token decode rejected")
		return "", ErrUnauthenticated
	}

	session, err := g.registry.Lookup(ctx, sessionID)
	if err != nil {
		g.logger.Error("session lookup failed", zap.Error(err))
		return "", ErrUnauthenticated
	}
	if session == nil {
		g.logger.Debug("session missing, expired or revoked")
		return "", ErrUnauthenticated
	}

	if session.Sliding {
		if _, err := g.registry.Refresh(ctx, session.ID, g.ttl); err != nil {
			if !errors.Is(err, ErrConflict) {
				// Un logout concurrente gana sobre la extensión.
				g.logger.Debug("session refresh rejected", zap.Error(err))
				return "", ErrUnauthenticated
			}
			// Otro request ya extendió esta sesión.
		}
	}
	return session.UserID, nil
}
