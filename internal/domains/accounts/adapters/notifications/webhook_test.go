package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

func TestRegistrationWebhook_PostsAccountWithoutSecrets(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	queue := taskqueue.New(taskqueue.WithWorkers(1))
	t.Cleanup(func() { _ = queue.Close(context.Background()) })
	hook := NewRegistrationWebhook(queue, srv.URL+"/notify", srv.Client())

	err := hook.AccountRegistered(context.Background(), &accountsdomain.Account{
		ID:           9,
		Name:         "Bob",
		Email:        "bob@example.com",
		Phone:        "+79990001122",
		PasswordHash: "$2a$10$secret",
	})
	require.NoError(t, err)

	select {
	case body := <-received:
		require.Equal(t, float64(9), body["id"])
		require.Equal(t, "Bob", body["name"])
		require.Equal(t, "bob@example.com", body["email"])
		require.Equal(t, "+79990001122", body["phone"])
		require.Len(t, body, 4)
	case <-time.After(2 * time.Second):
		t.Fatal("registration was not posted")
	}
}

func TestRegistrationWebhook_RejectsMisconfiguration(t *testing.T) {
	queue := taskqueue.New(taskqueue.WithWorkers(1))
	t.Cleanup(func() { _ = queue.Close(context.Background()) })

	require.Error(t, NewRegistrationWebhook(queue, "", nil).AccountRegistered(context.Background(), &accountsdomain.Account{ID: 1}))
	require.Error(t, NewRegistrationWebhook(queue, "http://localhost", nil).AccountRegistered(context.Background(), nil))
}

func TestRegistrationWebhook_ReportsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	hook := NewRegistrationWebhook(nil, srv.URL, srv.Client())

	err := hook.post(context.Background(), []byte(`{}`))
	require.ErrorContains(t, err, "502")
}
