package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	"github.com/Apurer/storefront-api/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory account store.
type Repository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	nextID   int64
	onDelete func(ctx context.Context, id int64) error
}

// UseDeleteHook installs a callback run after an account is removed, used to
// cascade to data owned by the account.
func (r *Repository) UseDeleteHook(hook func(ctx context.Context, id int64) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = hook
}

func NewRepository() *Repository {
	return &Repository{accounts: map[int64]*domain.Account{}}
}

func (r *Repository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == account.Email || existing.Phone == account.Phone {
			return nil, ports.ErrDuplicate
		}
	}
	clone := *account
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.accounts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *Repository) FindByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if identifier == "" {
		return nil, ports.ErrNotFound
	}
	for _, account := range r.accounts {
		if account.Email == identifier || account.Phone == identifier {
			clone := *account
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		clone := *account
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) MarkVerified(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return ports.ErrNotFound
	}
	account.Verify()
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	delete(r.accounts, id)
	hook := r.onDelete
	r.mu.Unlock()
	if hook != nil {
		return hook(ctx, id)
	}
	return nil
}
