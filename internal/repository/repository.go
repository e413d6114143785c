// Package repository defines the storage contracts used by the services.
// Implementations live in the memory, postgres and redisdoc subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/ecommerce-cloud/backend/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a concurrent update of the same card. Callers may retry.
	ErrConflict = errors.New("concurrent update conflict")
)

// ApplyFunc inspects a card under its per-card lock. Returning a nil entry
// leaves the card untouched; returning an entry applies its balance effect
// and appends it to the ledger in the same atomic unit.
type ApplyFunc func(card models.Card) (*models.LedgerEntry, error)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	// ListByUser returns addresses in insertion order.
	ListByUser(ctx context.Context, userID int64) ([]models.Address, error)
}

type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	// ListByUser returns the user's cards in issuance order.
	ListByUser(ctx context.Context, userID int64) ([]models.Card, error)
	// Issue stores a new card together with its opening ledger entry.
	Issue(ctx context.Context, card *models.Card, opening *models.LedgerEntry) error
	// Apply serializes fn per card id. The returned card reflects the state
	// after fn's entry (if any) was applied.
	Apply(ctx context.Context, cardID int64, fn ApplyFunc) (*models.Card, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
	// ListByCard returns entries newest first.
	ListByCard(ctx context.Context, cardID int64) ([]models.LedgerEntry, error)
}

type ProductRepository interface {
	Save(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Save(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

// Store groups the repositories the services are wired with.
type Store struct {
	Users     UserRepository
	Addresses AddressRepository
	Cards     CardRepository
	Ledger    LedgerRepository
	Products  ProductRepository
	Orders    OrderRepository
}
