package logmailer

import (
	"context"
	"log/slog"

	"github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	"github.com/Apurer/storefront-api/internal/domains/notifications/ports"
)

var _ ports.Mailer = (*Mailer)(nil)

// Mailer logs messages instead of sending them. Used when SMTP is not configured.
type Mailer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{logger: logger}
}

func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, "email not sent, smtp disabled",
		slog.String("mail.to", msg.To),
		slog.String("mail.subject", msg.Subject),
		slog.Int("mail.body_bytes", len(msg.HTML)))
	return nil
}
