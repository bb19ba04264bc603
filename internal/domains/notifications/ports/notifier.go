package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/notifications/domain"
)

// Notifier delivers customer-facing emails.
type Notifier interface {
	SendOrderReceipt(ctx context.Context, receipt domain.Receipt) error
	SendAccountConfirmation(ctx context.Context, confirmation domain.Confirmation) error
}

// Mailer transports a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}
