package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecommerce-cloud/backend/internal/models"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertEntry(ctx context.Context, q rowQuerier, entry *models.LedgerEntry) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO ledger_entries (card_id, amount, kind, description, authorization_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.CardID, entry.Amount, string(entry.Kind), entry.Description, entry.AuthorizationCode,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	return insertEntry(ctx, r.db, entry)
}

func (r *LedgerRepository) ListByCard(ctx context.Context, cardID int64) ([]models.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, amount, kind, description, authorization_code, created_at
		FROM ledger_entries
		WHERE card_id = $1
		ORDER BY created_at DESC, id DESC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.CardID, &e.Amount, &kind, &e.Description, &e.AuthorizationCode, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = models.LedgerKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
