package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind classifies a balance-affecting event
type LedgerKind string

const (
	LedgerKindCharge      LedgerKind = "CHARGE"
	LedgerKindReversal    LedgerKind = "REVERSAL"
	LedgerKindInitialLoad LedgerKind = "INITIAL_LOAD"
)

// LedgerEntry is an immutable record in a card's transaction history.
// ID and CreatedAt are assigned by the store at write time.
type LedgerEntry struct {
	ID                int64           `json:"id" db:"id"`
	CardID            int64           `json:"cardId" db:"card_id"`
	CreatedAt         time.Time       `json:"timestamp" db:"created_at"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	Kind              LedgerKind      `json:"kind" db:"kind"`
	Description       string          `json:"description" db:"description"`
	AuthorizationCode string          `json:"authorizationCode" db:"authorization_code"`
}

// Effect returns the signed change the entry applies to the card balance.
func (e LedgerEntry) Effect() decimal.Decimal {
	if e.Kind == LedgerKindCharge {
		return e.Amount.Neg()
	}
	return e.Amount
}
