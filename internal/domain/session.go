package domain

import "time"

// Session vincula un token opaco con un usuario por una ventana acotada.
// La identidad nunca viaja en el token: el registro es la fuente de verdad.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Sliding   bool      `json:"sliding,omitempty"`
	Revoked   bool      `json:"revoked,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid indica si la sesión sigue viva en el instante dado.
func (s Session) Valid(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
