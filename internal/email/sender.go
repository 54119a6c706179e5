package email

import (
	"context"
	"errors"
	"time"
)

// Sender define la interfaz para envío de correos de confirmación de cuenta.
type Sender interface {
	SendAccountConfirmation(ctx context.Context, toEmail, username, token string, expiresAt time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendAccountConfirmation(_ context.Context, _, _, _ string, _ time.Time) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
