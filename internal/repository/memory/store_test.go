package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(t *testing.T, store *repository.Store, userID int64, balance int64) *models.Card {
	t.Helper()
	card := &models.Card{UserID: userID, Number: "4111", CVV: "1", ExpiresAt: time.Now().Add(time.Hour), Balance: decimal.NewFromInt(balance)}
	opening := &models.LedgerEntry{Amount: card.Balance, Kind: models.LedgerKindInitialLoad, AuthorizationCode: "INICIAL-1"}
	require.NoError(t, store.Cards.Issue(context.Background(), card, opening))
	return card
}

func TestCardRepository_ApplySerializesPerCard(t *testing.T) {
	store := New()
	ctx := context.Background()
	card := issue(t, store, 1, 100)

	// 20 concurrent debits of 10 against a balance of 100: exactly 10 succeed.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Cards.Apply(ctx, card.ID, func(c models.Card) (*models.LedgerEntry, error) {
				amount := decimal.NewFromInt(10)
				if amount.GreaterThan(c.Balance) {
					return nil, nil
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
				return &models.LedgerEntry{Amount: amount, Kind: models.LedgerKindCharge, AuthorizationCode: fmt.Sprint(i)}, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Cards.Get(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.True(t, got.Balance.IsZero())

	entries, err := store.Ledger.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 11)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Effect())
	}
	assert.True(t, sum.Equal(got.Balance))
}

func TestLedgerRepository_NewestFirstWithIDTieBreak(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewWithClock(func() time.Time { return fixed })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Ledger.Append(ctx, &models.LedgerEntry{CardID: 1, Amount: decimal.NewFromInt(1), Kind: models.LedgerKindReversal}))
	}
	require.NoError(t, store.Ledger.Append(ctx, &models.LedgerEntry{CardID: 2, Amount: decimal.NewFromInt(1), Kind: models.LedgerKindReversal}))

	entries, err := store.Ledger.ListByCard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{entries[0].ID, entries[1].ID, entries[2].ID})

	empty, err := store.Ledger.ListByCard(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCardRepository_IssueSeedsOpeningEntry(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := issue(t, store, 1, 50)
	second := issue(t, store, 1, 0)
	assert.Less(t, first.ID, second.ID)

	cards, err := store.Cards.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, first.ID, cards[0].ID)

	entries, err := store.Ledger.ListByCard(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LedgerKindInitialLoad, entries[0].Kind)

	_, err = store.Cards.Apply(ctx, 999, func(models.Card) (*models.LedgerEntry, error) { return nil, nil })
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CRUD(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.Users.Create(ctx, user))
	assert.Equal(t, int64(1), user.ID)

	user.Name = "Ana Maria"
	require.NoError(t, store.Users.Update(ctx, user))
	got, err := store.Users.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)

	assert.ErrorIs(t, store.Users.Update(ctx, &models.User{ID: 9}), repository.ErrNotFound)
	require.NoError(t, store.Users.Delete(ctx, 1))
	_, err = store.Users.Get(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	order := &models.Order{ID: "o1", UserID: 1, Items: []models.OrderItem{{ProductID: "p1", Quantity: 1}}}
	require.NoError(t, store.Orders.Save(ctx, order))
	order.Items[0].Quantity = 99

	got, err := store.Orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)

	byUser, err := store.Orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	none, err := store.Orders.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}
