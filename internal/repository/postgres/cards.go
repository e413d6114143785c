package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/shopspring/decimal"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

const selectCard = `SELECT id, user_id, number, cvv, expires_at, balance, version, created_at FROM cards`

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	if err := row.Scan(&c.ID, &c.UserID, &c.Number, &c.CVV, &c.ExpiresAt, &c.Balance, &c.Version, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, selectCard+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return card, nil
}

func (r *CardRepository) ListByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, selectCard+` WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

func (r *CardRepository) Issue(ctx context.Context, card *models.Card, opening *models.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO cards (user_id, number, cvv, expires_at, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version, created_at`,
		card.UserID, card.Number, card.CVV, card.ExpiresAt, card.Balance,
	).Scan(&card.ID, &card.Version, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}

	if opening != nil {
		opening.CardID = card.ID
		if err := insertEntry(ctx, tx, opening); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Apply locks the card row for the duration of fn. The balance update is
// additionally guarded by the version column.
func (r *CardRepository) Apply(ctx context.Context, cardID int64, fn repository.ApplyFunc) (*models.Card, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	card, err := scanCard(tx.QueryRowContext(ctx, selectCard+` WHERE id = $1 FOR UPDATE`, cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", cardID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock card %d: %w", cardID, err)
	}

	entry, err := fn(*card)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return card, nil
	}

	newBalance := card.Balance.Add(entry.Effect())
	if err := updateCardBalance(ctx, tx, card, newBalance); err != nil {
		return nil, err
	}

	entry.CardID = cardID
	if err := insertEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	card.Balance = newBalance
	card.Version++
	return card, nil
}

func updateCardBalance(ctx context.Context, tx *sql.Tx, card *models.Card, balance decimal.Decimal) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE cards
		SET balance = $1, version = version + 1
		WHERE id = $2 AND version = $3`,
		balance, card.ID, card.Version)
	if err != nil {
		return fmt.Errorf("update card %d: %w", card.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("optimistic lock failed for card %d: %w", card.ID, repository.ErrConflict)
	}
	return nil
}
