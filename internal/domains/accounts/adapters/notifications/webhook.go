package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

var _ accountsports.RegistrationNotifier = (*RegistrationWebhook)(nil)

const defaultWebhookTimeout = 5 * time.Second

// registrationPayload never carries the password hash.
type registrationPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RegistrationWebhook POSTs new accounts to an external endpoint from the
// task queue.
type RegistrationWebhook struct {
	queue  *taskqueue.Queue
	client *http.Client
	url    string
}

func NewRegistrationWebhook(queue *taskqueue.Queue, url string, client *http.Client) *RegistrationWebhook {
	if client == nil {
		client = &http.Client{
			Timeout:   defaultWebhookTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &RegistrationWebhook{queue: queue, client: client, url: url}
}

func (w *RegistrationWebhook) AccountRegistered(_ context.Context, account *accountsdomain.Account) error {
	if w == nil || w.queue == nil || w.url == "" {
		return errors.New("registration webhook not configured")
	}
	if account == nil {
		return errors.New("account is nil")
	}
	body, err := json.Marshal(registrationPayload{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Phone: account.Phone,
	})
	if err != nil {
		return fmt.Errorf("encode registration: %w", err)
	}
	return w.queue.Submit(taskqueue.Task{
		Name: fmt.Sprintf("account-registered-%d", account.ID),
		Run: func(ctx context.Context) error {
			return w.post(ctx, body)
		},
	})
}

func (w *RegistrationWebhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post registration: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("registration webhook returned %s", resp.Status)
	}
	return nil
}
