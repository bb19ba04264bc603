package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/notifications/domain"
)

type recordingMailer struct {
	sent []domain.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg domain.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func sampleReceipt() domain.Receipt {
	return domain.Receipt{
		OrderID:  17,
		Customer: domain.Customer{Name: "Ann <admin>", Email: "ann@example.com", Phone: "+100"},
		Lines: []domain.Line{
			{Name: "Keyboard", Price: decimal.RequireFromString("100"), Quantity: 2},
			{Name: "Mouse", Price: decimal.RequireFromString("50.5"), Quantity: 1},
		},
		Total:           decimal.RequireFromString("250.50"),
		PlacedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		ShippingAddress: "1 Main St",
	}
}

func TestRenderReceipt(t *testing.T) {
	svc := NewService(&recordingMailer{}, WithBrand("TechnoPeriphery"))
	msg, err := svc.RenderReceipt(sampleReceipt())
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", msg.To)
	require.Contains(t, msg.Subject, "#17")
	require.Contains(t, msg.HTML, "Keyboard ×2")
	require.Contains(t, msg.HTML, "200.00 ₽")
	require.Contains(t, msg.HTML, "50.50 ₽")
	require.Contains(t, msg.HTML, "Total: 250.50 ₽")
	require.Contains(t, msg.HTML, "1 Main St")
	require.Contains(t, msg.HTML, "TechnoPeriphery")
	require.Contains(t, msg.HTML, "Ann &lt;admin&gt;")
	require.NotContains(t, msg.HTML, "Comment:")
}

func TestSendOrderReceipt(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer)
	require.NoError(t, svc.SendOrderReceipt(context.Background(), sampleReceipt()))
	require.Len(t, mailer.sent, 1)

	receipt := sampleReceipt()
	receipt.Customer.Email = ""
	require.ErrorIs(t, svc.SendOrderReceipt(context.Background(), receipt), domain.ErrMissingRecipient)

	failing := NewService(&recordingMailer{err: errors.New("relay refused")})
	require.ErrorContains(t, failing.SendOrderReceipt(context.Background(), sampleReceipt()), "relay refused")
}

func TestSendAccountConfirmation(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer)
	require.NoError(t, svc.SendAccountConfirmation(context.Background(), domain.Confirmation{Name: "Bob", Email: "bob@example.com"}))
	require.Len(t, mailer.sent, 1)
	require.Contains(t, mailer.sent[0].HTML, "<strong>Bob</strong>")
	require.Equal(t, "bob@example.com", mailer.sent[0].To)
}

func TestLineSubtotal(t *testing.T) {
	line := domain.Line{Price: decimal.RequireFromString("19.999"), Quantity: 3}
	require.Equal(t, "60.00", line.Subtotal().StringFixed(2))
}
