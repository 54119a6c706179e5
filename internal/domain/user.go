package domain

import "time"

// User representa un autor registrado en el repositorio de napps.
type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            string     `json:"phone,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Country          string     `json:"country,omitempty"`
	Enabled          bool       `json:"enabled"`
	PasswordHash     string     `json:"-"`
	ConfirmTokenHash string     `json:"-"`
	ConfirmExpiresAt *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}
