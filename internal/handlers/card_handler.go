package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/services"
	"github.com/shopspring/decimal"
)

type CardAPI interface {
	IssueCard(ctx context.Context, userID int64, req services.IssueCardRequest) (*models.Card, services.Outcome, error)
	Authorize(ctx context.Context, userID int64, number, cvv string, amount decimal.Decimal) (services.AuthorizationResult, error)
	Statement(ctx context.Context, userID, cardID int64) ([]models.LedgerEntry, services.Outcome, error)
	Reconcile(ctx context.Context, userID, cardID int64) (*services.Reconciliation, services.Outcome, error)
}

type CardHandler struct {
	cards     CardAPI
	users     UserAPI
	validator *services.ValidationHelper
}

func NewCardHandler(cards CardAPI, users UserAPI) *CardHandler {
	return &CardHandler{
		cards:     cards,
		users:     users,
		validator: services.NewValidationHelper(),
	}
}

// IssueCard registers a card for a user
// @Summary Issue card
// @Description Stores a card for the user and records its initial balance in the ledger
// @Tags Cards
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body services.IssueCardRequest true "Card data"
// @Success 201 {object} models.UserView
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId}/credit-card [post]
func (h *CardHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req services.IssueCardRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	_, outcome, err := h.cards.IssueCard(r.Context(), userID, req)
	if err != nil {
		internalError(w, "CARD", err)
		return
	}
	switch outcome {
	case services.OutcomeNotFound:
		services.SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
		return
	case services.OutcomeDeclined:
		services.SendErrorResponse(w, "Card requires an expiry date and a non-negative balance with at most two decimal places", http.StatusBadRequest, nil)
		return
	}

	view, err := h.users.View(r.Context(), userID)
	if err != nil {
		internalError(w, "CARD", err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

type authorizeRequest struct {
	Number string          `json:"number" validate:"required"`
	CVV    string          `json:"cvv" validate:"required"`
	Expiry *time.Time      `json:"expiry"`
	Amount decimal.Decimal `json:"amount"`
}

// Authorize charges a user's card
// @Summary Authorize purchase
// @Description Checks expiry and balance of the matching card and debits it
// @Tags Cards
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body object{number=string,cvv=string,expiry=string,amount=number} true "Authorization request"
// @Success 200 {object} services.AuthorizationResult
// @Failure 400 {object} services.AuthorizationResult
// @Failure 404 {object} services.AuthorizationResult
// @Failure 409 {object} services.AuthorizationResult
// @Router /users/{userId}/credit-card/authorize [post]
func (h *CardHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req authorizeRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	// The stored expiry is authoritative; the one in the request is informational.
	result, err := h.cards.Authorize(r.Context(), userID, req.Number, req.CVV, req.Amount)
	if err != nil {
		internalError(w, "CARD", err)
		return
	}
	writeJSON(w, outcomeStatus(result.Outcome()), result)
}

// Statement lists a card's ledger entries, newest first
// @Summary Card statement
// @Tags Cards
// @Produce json
// @Param userId path int true "User ID"
// @Param cardId path int true "Card ID"
// @Success 200 {array} models.LedgerEntry
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId}/credit-card/{cardId}/statement [get]
func (h *CardHandler) Statement(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardId")
	if !ok {
		return
	}

	entries, outcome, err := h.cards.Statement(r.Context(), userID, cardID)
	if err != nil {
		internalError(w, "CARD", err)
		return
	}
	if outcome != services.OutcomeOK {
		services.SendErrorResponse(w, ownershipMessage(outcome), outcomeStatus(outcome), nil)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Reconcile compares a card's balance with its ledger
// @Summary Card reconciliation
// @Tags Cards
// @Produce json
// @Param userId path int true "User ID"
// @Param cardId path int true "Card ID"
// @Success 200 {object} services.Reconciliation
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId}/credit-card/{cardId}/reconciliation [get]
func (h *CardHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardId")
	if !ok {
		return
	}

	rec, outcome, err := h.cards.Reconcile(r.Context(), userID, cardID)
	if err != nil {
		internalError(w, "CARD", err)
		return
	}
	if outcome != services.OutcomeOK {
		services.SendErrorResponse(w, ownershipMessage(outcome), outcomeStatus(outcome), nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func ownershipMessage(o services.Outcome) string {
	if o == services.OutcomeForbidden {
		return "Card does not belong to user"
	}
	return "User or card not found"
}
