//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	"github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	"github.com/Apurer/storefront-api/internal/platform/postgres/pgtest"
)

func newAccount(t *testing.T, email, phone string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(domain.Registration{Name: "Bob", Email: email, Phone: phone, Password: "hunter2"})
	require.NoError(t, err)
	return account
}

func TestRepository_CreateAndFindByIdentifier(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount(t, "bob@example.com", "+100"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byEmail, err := repo.FindByIdentifier(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.True(t, byEmail.CheckPassword("hunter2"))

	byPhone, err := repo.FindByIdentifier(ctx, "+100")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.FindByIdentifier(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_CreateDuplicate(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount(t, "bob@example.com", "+100"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAccount(t, "bob@example.com", "+200"))
	assert.ErrorIs(t, err, ports.ErrDuplicate)
}

func TestRepository_VerifyAndDelete(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount(t, "bob@example.com", "+100"))
	require.NoError(t, err)
	require.False(t, created.Verified)

	require.NoError(t, repo.MarkVerified(ctx, created.ID))
	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Verified)
	assert.ErrorIs(t, repo.MarkVerified(ctx, 999), ports.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
