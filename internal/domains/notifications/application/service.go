package application

import (
	"context"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/notifications/domain"
	"github.com/Apurer/storefront-api/internal/domains/notifications/ports"
)

const (
	defaultBrand    = "Storefront"
	defaultCurrency = "₽"
)

// Service renders notification emails and hands them to a mailer.
type Service struct {
	mailer   ports.Mailer
	brand    string
	currency string
}

type Option func(*Service)

func WithBrand(brand string) Option {
	return func(s *Service) {
		if brand != "" {
			s.brand = brand
		}
	}
}

func WithCurrency(currency string) Option {
	return func(s *Service) {
		if currency != "" {
			s.currency = currency
		}
	}
}

func NewService(mailer ports.Mailer, opts ...Option) *Service {
	s := &Service{mailer: mailer, brand: defaultBrand, currency: defaultCurrency}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RenderReceipt builds the receipt email without sending it.
func (s *Service) RenderReceipt(receipt domain.Receipt) (domain.Message, error) {
	if err := receipt.Validate(); err != nil {
		return domain.Message{}, err
	}
	body, err := render(receiptTmpl, struct {
		Receipt  domain.Receipt
		Brand    string
		Currency string
	}{receipt, s.brand, s.currency})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      receipt.Customer.Email,
		Subject: fmt.Sprintf("Your %s receipt for order #%d", s.brand, receipt.OrderID),
		HTML:    body,
	}, nil
}

// RenderConfirmation builds the account approval email.
func (s *Service) RenderConfirmation(confirmation domain.Confirmation) (domain.Message, error) {
	if err := confirmation.Validate(); err != nil {
		return domain.Message{}, err
	}
	body, err := render(confirmationTmpl, struct {
		Confirmation domain.Confirmation
		Brand        string
	}{confirmation, s.brand})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      confirmation.Email,
		Subject: "Your account has been approved",
		HTML:    body,
	}, nil
}

func (s *Service) SendOrderReceipt(ctx context.Context, receipt domain.Receipt) error {
	msg, err := s.RenderReceipt(receipt)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send receipt for order %d: %w", receipt.OrderID, err)
	}
	return nil
}

func (s *Service) SendAccountConfirmation(ctx context.Context, confirmation domain.Confirmation) error {
	msg, err := s.RenderConfirmation(confirmation)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send account confirmation: %w", err)
	}
	return nil
}

var _ ports.Notifier = (*Service)(nil)
