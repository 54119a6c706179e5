package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "napps-server"

// Codec serializa el session id en un token opaco firmado con HMAC.
// El token sólo transporta el id: la validez la decide el Registry.
type Codec struct {
	secret []byte
}

type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewCodec crea un codec con el secreto de firma del servidor.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode produce un token transportable en header o cookie.
func (c *Codec) Encode(sessionID string) (string, error) {
	if len(c.secret) == 0 || sessionID == "" {
		return "", ErrMalformedToken
	}
	claims := tokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifica la firma antes de confiar en el session id embebido.
// Cualquier alteración del token se rechaza como ErrMalformedToken.
func (c *Codec) Decode(token string) (string, error) {
	if len(c.secret) == 0 || strings.TrimSpace(token) == "" {
		return "", ErrMalformedToken
	}
	var claims tokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if _, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		return "", ErrMalformedToken
	}
	if claims.SessionID == "" || claims.Issuer != tokenIssuer {
		return "", ErrMalformedToken
	}
	return claims.SessionID, nil
}
