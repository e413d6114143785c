package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
)

type CardRepository struct {
	rows *rows
}

func (c *CardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	r := c.rows
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %d: %w", id, repository.ErrNotFound)
	}
	return &card, nil
}

func (c *CardRepository) ListByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	r := c.rows
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Card{}
	for _, card := range r.cards {
		if card.UserID == userID {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *CardRepository) Issue(ctx context.Context, card *models.Card, opening *models.LedgerEntry) error {
	r := c.rows
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastCardID++
	card.ID = r.lastCardID
	card.Version = 1
	card.CreatedAt = r.now()
	r.cards[card.ID] = *card

	if opening != nil {
		opening.CardID = card.ID
		r.appendEntryLocked(opening)
	}
	return nil
}

func (c *CardRepository) Apply(ctx context.Context, cardID int64, fn repository.ApplyFunc) (*models.Card, error) {
	r := c.rows
	lock := r.cardLock(cardID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	card, ok := r.cards[cardID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("card %d: %w", cardID, repository.ErrNotFound)
	}

	entry, err := fn(card)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &card, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	card.Balance = card.Balance.Add(entry.Effect())
	card.Version++
	r.cards[cardID] = card

	entry.CardID = cardID
	r.appendEntryLocked(entry)
	return &card, nil
}

type LedgerRepository struct {
	rows *rows
}

func (l *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	r := l.rows
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appendEntryLocked(entry)
	return nil
}

func (l *LedgerRepository) ListByCard(ctx context.Context, cardID int64) ([]models.LedgerEntry, error) {
	r := l.rows
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.LedgerEntry{}
	for _, e := range r.entries {
		if e.CardID == cardID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
