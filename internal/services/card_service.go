package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ecommerce-cloud/backend/internal/audit"
	"github.com/ecommerce-cloud/backend/internal/metrics"
	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const initialLoadDescription = "Card created with initial balance"

// CardService issues cards and authorizes charges against them. Every
// balance change goes through CardRepository.Apply so the debit and its
// ledger entry commit together.
type CardService struct {
	users   repository.UserRepository
	cards   repository.CardRepository
	ledger  repository.LedgerRepository
	audit   *audit.Logger
	metrics *metrics.Metrics
	retries int

	now     func() time.Time
	newCode func() string
}

func NewCardService(store *repository.Store, auditLogger *audit.Logger, m *metrics.Metrics, retries int) *CardService {
	if retries < 0 {
		retries = 0
	}
	return &CardService{
		users:   store.Users,
		cards:   store.Cards,
		ledger:  store.Ledger,
		audit:   auditLogger,
		metrics: m,
		retries: retries,
		now:     time.Now,
		newCode: uuid.NewString,
	}
}

type IssueCardRequest struct {
	Number    string          `json:"number" validate:"required,numeric,min=4,max=19"`
	CVV       string          `json:"cvv" validate:"required,numeric,min=3,max=4"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Balance   decimal.Decimal `json:"balance"`
}

// IssueCard stores a new card for the user and seeds its ledger with an
// INITIAL_LOAD entry equal to the starting balance.
func (s *CardService) IssueCard(ctx context.Context, userID int64, req IssueCardRequest) (*models.Card, Outcome, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, OutcomeNotFound, nil
		}
		return nil, "", err
	}
	if req.Balance.IsNegative() || !models.WholeCents(req.Balance) || req.ExpiresAt.IsZero() {
		return nil, OutcomeDeclined, nil
	}

	card := &models.Card{
		UserID:    userID,
		Number:    req.Number,
		CVV:       req.CVV,
		ExpiresAt: req.ExpiresAt,
		Balance:   req.Balance,
	}
	opening := &models.LedgerEntry{
		Amount:            req.Balance,
		Kind:              models.LedgerKindInitialLoad,
		Description:       initialLoadDescription,
		AuthorizationCode: "INICIAL-" + s.newCode()[:8],
	}

	if err := s.cards.Issue(ctx, card, opening); err != nil {
		s.audit.LogError("issue_card", userID, err)
		return nil, "", fmt.Errorf("issue card: %w", err)
	}

	s.audit.LogCardIssued(userID, card.ID, card.Balance)
	log.Printf("[CARD] Issued card %d for user %d", card.ID, userID)
	return card, OutcomeOK, nil
}

// Authorize charges amount against the first of the user's cards whose
// number and cvv both match. Declines are reported in the result, never as
// an error.
func (s *CardService) Authorize(ctx context.Context, userID int64, number, cvv string, amount decimal.Decimal) (AuthorizationResult, error) {
	result, err := s.authorize(ctx, userID, number, cvv, amount)
	if err != nil {
		s.audit.LogError("authorize", userID, err)
		return result, err
	}

	s.metrics.Authorization(string(result.Status), string(result.Reason))
	s.audit.LogAuthorization(userID, result.CardID, amount, result.AuthorizationCode, string(result.Status), string(result.Reason))
	return result, nil
}

func (s *CardService) authorize(ctx context.Context, userID int64, number, cvv string, amount decimal.Decimal) (AuthorizationResult, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return declined(ReasonUserNotFound, s.now()), nil
		}
		return AuthorizationResult{}, err
	}

	if !amount.IsPositive() || !models.WholeCents(amount) {
		return declined(ReasonInvalidAmount, s.now()), nil
	}

	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return AuthorizationResult{}, err
	}
	card, ok := matchCard(cards, number, cvv)
	if !ok {
		return declined(ReasonCardNotFound, s.now()), nil
	}

	for attempt := 0; attempt <= s.retries; attempt++ {
		var reason DeclineReason
		code := s.newCode()

		_, err := s.cards.Apply(ctx, card.ID, func(c models.Card) (*models.LedgerEntry, error) {
			if c.IsExpired(s.now()) {
				reason = ReasonCardExpired
				return nil, nil
			}
			if amount.GreaterThan(c.Balance) {
				reason = ReasonInsufficientFunds
				return nil, nil
			}
			return &models.LedgerEntry{
				Amount:            amount,
				Kind:              models.LedgerKindCharge,
				Description:       "Purchase authorized - amount: " + amount.StringFixed(2),
				AuthorizationCode: code,
			}, nil
		})

		switch {
		case errors.Is(err, repository.ErrConflict):
			log.Printf("[CARD] Conflict on card %d (attempt %d/%d)", card.ID, attempt+1, s.retries+1)
			continue
		case errors.Is(err, repository.ErrNotFound):
			return declined(ReasonCardNotFound, s.now()), nil
		case err != nil:
			return AuthorizationResult{}, err
		}

		if reason != ReasonNone {
			result := declined(reason, s.now())
			result.CardID = card.ID
			return result, nil
		}

		return AuthorizationResult{
			Status:            StatusAuthorized,
			Timestamp:         s.now(),
			Message:           "Purchase authorized",
			AuthorizationCode: code,
			CardID:            card.ID,
		}, nil
	}

	result := declined(ReasonConflict, s.now())
	result.CardID = card.ID
	return result, nil
}

// matchCard scans cards in issuance order. The cvv comparison is constant time.
func matchCard(cards []models.Card, number, cvv string) (models.Card, bool) {
	for _, c := range cards {
		if c.Number == number && subtle.ConstantTimeCompare([]byte(c.CVV), []byte(cvv)) == 1 {
			return c, true
		}
	}
	return models.Card{}, false
}

// Reverse credits amount back to the card and records a REVERSAL entry
// referencing the original authorization code.
func (s *CardService) Reverse(ctx context.Context, cardID int64, amount decimal.Decimal, chargeCode, description string) error {
	code := "REVERSAL-" + chargeCode
	_, err := s.cards.Apply(ctx, cardID, func(models.Card) (*models.LedgerEntry, error) {
		return &models.LedgerEntry{
			Amount:            amount,
			Kind:              models.LedgerKindReversal,
			Description:       description,
			AuthorizationCode: code,
		}, nil
	})
	if err != nil {
		s.audit.LogError("reverse", 0, err)
		return fmt.Errorf("reverse charge %s: %w", chargeCode, err)
	}

	s.audit.LogReversal(cardID, amount, code, description)
	log.Printf("[CARD] Reversed %s on card %d", amount.StringFixed(2), cardID)
	return nil
}

// ownedCard resolves user and card and checks that the card belongs to the user.
func (s *CardService) ownedCard(ctx context.Context, userID, cardID int64) (*models.Card, Outcome, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, OutcomeNotFound, nil
		}
		return nil, "", err
	}

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, OutcomeNotFound, nil
		}
		return nil, "", err
	}

	if card.UserID != userID {
		return nil, OutcomeForbidden, nil
	}
	return card, OutcomeOK, nil
}

// Statement returns the card's ledger newest first.
func (s *CardService) Statement(ctx context.Context, userID, cardID int64) ([]models.LedgerEntry, Outcome, error) {
	card, outcome, err := s.ownedCard(ctx, userID, cardID)
	if err != nil || outcome != OutcomeOK {
		return nil, outcome, err
	}

	entries, err := s.ledger.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, "", err
	}
	return entries, OutcomeOK, nil
}

type Reconciliation struct {
	CardID      int64           `json:"cardId"`
	Balance     decimal.Decimal `json:"balance"`
	LedgerTotal decimal.Decimal `json:"ledgerTotal"`
	Difference  decimal.Decimal `json:"difference"`
	Entries     int             `json:"entries"`
	Balanced    bool            `json:"balanced"`
}

// Reconcile compares the card balance with the sum of its ledger effects.
// It only reports, it never corrects.
func (s *CardService) Reconcile(ctx context.Context, userID, cardID int64) (*Reconciliation, Outcome, error) {
	card, outcome, err := s.ownedCard(ctx, userID, cardID)
	if err != nil || outcome != OutcomeOK {
		return nil, outcome, err
	}

	entries, err := s.ledger.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, "", err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Effect())
	}
	diff := card.Balance.Sub(total)

	if !diff.IsZero() {
		log.Printf("[CARD] Card %d out of balance by %s", card.ID, diff.StringFixed(2))
	}
	return &Reconciliation{
		CardID:      card.ID,
		Balance:     card.Balance,
		LedgerTotal: total,
		Difference:  diff,
		Entries:     len(entries),
		Balanced:    diff.IsZero(),
	}, OutcomeOK, nil
}
