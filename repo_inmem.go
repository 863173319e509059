package loanauth

import (
	"context"
	"sync"
)

type accountRepository struct {
	mu       sync.Mutex
	accounts map[ID]*Account
}

// NewAccountRepository returns a map-backed store. It serves the tests and
// runs the server when no MONGO_URL is configured, so it upholds the same
// contract as the mongo implementation: lookups return copies, and all
// mutations happen under the lock.
func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}}
}

func (repo *accountRepository) Store(ctx context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	// The existence check and the insert share the lock, mirroring the
	// unique-index guarantee of the mongo implementation.
	for _, v := range repo.accounts {
		if v.Email == acc.Email {
			return ErrExistingEmail
		}
	}
	repo.accounts[acc.ID] = copyAccount(acc)
	return nil
}

func (repo *accountRepository) AppendProfile(ctx context.Context, id ID, p Profile) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	acc, ok := repo.accounts[id]
	if !ok {
		return ErrNotFound
	}
	return acc.AddProfile(p)
}

func (repo *accountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if acc, ok := repo.accounts[id]; ok {
		return copyAccount(acc), nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, v := range repo.accounts {
		if v.Email == email {
			return copyAccount(v), nil
		}
	}
	return nil, ErrNotFound
}

// copyAccount keeps callers from mutating stored state through a returned
// pointer or through the argument they handed to Store.
func copyAccount(acc *Account) *Account {
	cp := *acc
	cp.Profiles = append([]Profile(nil), acc.Profiles...)
	return &cp
}
