package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	t.Run("append assigns identity and timestamp", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("INSERT INTO ledger_entries \\(card_id, amount, kind, description, authorization_code\\)").
			WithArgs(int64(3), decimal.NewFromInt(60), "REVERSAL", "Order persistence failed", "code-9").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, at))

		entry := &models.LedgerEntry{
			CardID:            3,
			Amount:            decimal.NewFromInt(60),
			Kind:              models.LedgerKindReversal,
			Description:       "Order persistence failed",
			AuthorizationCode: "code-9",
		}
		require.NoError(t, repo.Append(ctx, entry))
		assert.Equal(t, int64(42), entry.ID)
		assert.Equal(t, at, entry.CreatedAt)
	})

	t.Run("list by card orders newest first", func(t *testing.T) {
		newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)
		mock.ExpectQuery("SELECT (.+) FROM ledger_entries WHERE card_id = \\$1 ORDER BY created_at DESC, id DESC").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "amount", "kind", "description", "authorization_code", "created_at"}).
				AddRow(2, 3, "60.00", "CHARGE", "Purchase authorized - amount: 60.00", "b", newer).
				AddRow(1, 3, "100.00", "INITIAL_LOAD", "Initial load", "INICIAL-a", older))

		entries, err := repo.ListByCard(ctx, 3)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, models.LedgerKindCharge, entries[0].Kind)
		assert.Equal(t, models.LedgerKindInitialLoad, entries[1].Kind)
		assert.True(t, entries[1].Amount.Equal(decimal.NewFromInt(100)))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
