package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card represents a stored credit card owned by a user
type Card struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Number    string          `json:"-" db:"number"`
	CVV       string          `json:"-" db:"cvv"`
	ExpiresAt time.Time       `json:"expiresAt" db:"expires_at"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Version   int             `json:"-" db:"version"` // for optimistic locking
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// CardView is the masked representation of a card returned to clients
type CardView struct {
	ID        int64           `json:"id"`
	Number    string          `json:"number"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Balance   decimal.Decimal `json:"balance"`
}

// LastFour returns the last four digits of the card number.
func (c Card) LastFour() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}

// IsExpired reports whether the card expired strictly before now.
func (c Card) IsExpired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// View masks the card number.
func (c Card) View() CardView {
	return CardView{
		ID:        c.ID,
		Number:    "**** **** **** " + c.LastFour(),
		ExpiresAt: c.ExpiresAt,
		Balance:   c.Balance,
	}
}
