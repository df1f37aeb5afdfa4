package main

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers one message to one address.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// logMailer prints messages instead of sending them, like a console email backend.
type logMailer struct {
	log *zap.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("email", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}
