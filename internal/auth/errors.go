package auth

import "errors"

// Taxonomía de errores expuesta por el gateway. Los detalles internos
// (firma inválida, sesión desconocida, expirada) se loguean pero hacia
// afuera colapsan en ErrUnauthenticated / ErrInvalidCredentials.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedToken     = errors.New("malformed token")
	ErrExpired            = errors.New("session expired")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrConflict           = errors.New("session conflict")
)
