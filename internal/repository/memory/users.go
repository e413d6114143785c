package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
)

type UserRepository struct {
	rows *rows
}

func (u *UserRepository) Create(ctx context.Context, user *models.User) error {
	r := u.rows
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastUserID++
	user.ID = r.lastUserID
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (u *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	r := u.rows
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	return &user, nil
}

func (u *UserRepository) List(ctx context.Context) ([]models.User, error) {
	r := u.rows
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (u *UserRepository) Update(ctx context.Context, user *models.User) error {
	r := u.rows
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", user.ID, repository.ErrNotFound)
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.now()
	r.users[user.ID] = *user
	return nil
}

func (u *UserRepository) Delete(ctx context.Context, id int64) error {
	r := u.rows
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

type AddressRepository struct {
	rows *rows
}

func (a *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	r := a.rows
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastAddressID++
	address.ID = r.lastAddressID
	r.addresses = append(r.addresses, *address)
	return nil
}

func (a *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	r := a.rows
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Address{}
	for _, addr := range r.addresses {
		if addr.UserID == userID {
			out = append(out, addr)
		}
	}
	return out, nil
}
