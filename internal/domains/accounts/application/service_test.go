package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/accounts/adapters/memory"
	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	"github.com/Apurer/storefront-api/internal/domains/accounts/ports"
)

type fakeNotifier struct {
	verified []int64
	err      error
}

func (f *fakeNotifier) AccountVerified(_ context.Context, account *domain.Account) error {
	f.verified = append(f.verified, account.ID)
	return f.err
}

type fakeRegistrations struct {
	registered []string
	err        error
}

func (f *fakeRegistrations) AccountRegistered(_ context.Context, account *domain.Account) error {
	f.registered = append(f.registered, account.Email)
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alice() domain.Registration {
	return domain.Registration{Name: "Alice", Email: "Alice@Example.com", Phone: "+79990001122", Password: "secret"}
}

func TestRegister_CreatesUnverifiedAccountWithHashedPassword(t *testing.T) {
	svc := NewService(memory.NewRepository())
	account, err := svc.Register(context.Background(), alice())
	require.NoError(t, err)
	require.NotZero(t, account.ID)
	require.False(t, account.Verified)
	require.False(t, account.Admin)
	require.Equal(t, "alice@example.com", account.Email)
	require.NotEqual(t, "secret", account.PasswordHash)
	require.True(t, account.CheckPassword("secret"))
}

func TestRegister_ValidatesAndRejectsDuplicates(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	reg := alice()
	reg.Email = "no-at-sign"
	_, err := svc.Register(ctx, reg)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	reg = alice()
	reg.Password = "abc"
	_, err = svc.Register(ctx, reg)
	require.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = svc.Register(ctx, alice())
	require.NoError(t, err)
	dup := alice()
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	require.ErrorIs(t, err, ports.ErrDuplicate)
}

func TestLogin(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo, WithLogger(quietLogger()))
	ctx := context.Background()
	account, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "alice@example.com", "secret")
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, err, ports.ErrNotVerified)

	_, err = svc.Login(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.VerifyUser(ctx, account.ID)
	require.NoError(t, err)

	byEmail, err := svc.Login(ctx, " ALICE@example.com ", "secret")
	require.NoError(t, err)
	require.Equal(t, account.ID, byEmail.ID)
	require.True(t, byEmail.Verified)

	byPhone, err := svc.Login(ctx, "+79990001122", "secret")
	require.NoError(t, err)
	require.Equal(t, account.ID, byPhone.ID)
}

func TestVerifyUser_NotifiesAndToleratesNotifierFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("queue full")}
	svc := NewService(memory.NewRepository(), WithVerificationNotifier(notifier), WithLogger(quietLogger()))
	ctx := context.Background()
	account, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	verified, err := svc.VerifyUser(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, verified.Verified)
	require.Equal(t, []int64{account.ID}, notifier.verified)

	_, err = svc.VerifyUser(ctx, 404)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Len(t, notifier.verified, 1)
}

func TestRegister_AnnouncesAndToleratesNotifierFailure(t *testing.T) {
	registrations := &fakeRegistrations{err: errors.New("queue full")}
	svc := NewService(memory.NewRepository(), WithRegistrationNotifier(registrations), WithLogger(quietLogger()))
	ctx := context.Background()

	account, err := svc.Register(ctx, alice())
	require.NoError(t, err)
	require.NotZero(t, account.ID)
	require.Equal(t, []string{"alice@example.com"}, registrations.registered)

	_, err = svc.Register(ctx, alice())
	require.Error(t, err)
	require.Len(t, registrations.registered, 1)
}

func TestDeleteUser_Idempotent(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	account, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, account.ID))
	require.NoError(t, svc.DeleteUser(ctx, account.ID))
	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}
