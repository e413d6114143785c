package services

import (
	"context"
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

// Authorizer charges and refunds cards.
type Authorizer interface {
	Authorize(ctx context.Context, userID int64, number, cvv string, amount decimal.Decimal) (AuthorizationResult, error)
	Reverse(ctx context.Context, cardID int64, amount decimal.Decimal, chargeCode, description string) error
}

// SalesPublisher hands a summary to the analytics fan-out without waiting.
type SalesPublisher interface {
	Publish(summary models.SalesSummary) bool
}

type CheckoutRequest struct {
	UserID int64             `json:"userId" validate:"required"`
	Items  []models.CartLine `json:"items" validate:"required,min=1,dive"`
	CardID int64             `json:"cardId" validate:"required"`
}

type CheckoutResult struct {
	OrderID     string             `json:"orderId,omitempty"`
	Status      models.OrderStatus `json:"status,omitempty"`
	OrderDate   *time.Time         `json:"orderDate,omitempty"`
	TotalAmount *decimal.Decimal   `json:"totalAmount,omitempty"`
	Message     string             `json:"message"`

	Outcome Outcome `json:"-"`
}

type CheckoutService struct {
	users      repository.UserRepository
	addresses  repository.AddressRepository
	cards      repository.CardRepository
	products   repository.ProductRepository
	orders     repository.OrderRepository
	authorizer Authorizer
	publisher  SalesPublisher
	audit      *audit.Logger
	metrics    *metrics.Metrics

	now   func() time.Time
	newID func() string
}

func NewCheckoutService(store *repository.Store, authorizer Authorizer, publisher SalesPublisher, auditLogger *audit.Logger, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{
		users:      store.Users,
		addresses:  store.Addresses,
		cards:      store.Cards,
		products:   store.Products,
		orders:     store.Orders,
		authorizer: authorizer,
		publisher:  publisher,
		audit:      auditLogger,
		metrics:    m,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *CheckoutService) reject(outcome Outcome, message string) (CheckoutResult, error) {
	s.metrics.Checkout(string(outcome))
	return CheckoutResult{Outcome: outcome, Message: message}, nil
}

func (s *CheckoutService) fail(userID int64, err error) (CheckoutResult, error) {
	s.metrics.Checkout("ERROR")
	s.audit.LogError("checkout", userID, err)
	return CheckoutResult{}, err
}

// Checkout prices the cart, charges the card and records the order. No
// order is written and no card is touched unless every lookup succeeds and
// the charge is authorized.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	user, err := s.users.Get(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.reject(OutcomeNotFound, "User not found")
	}
	if err != nil {
		return s.fail(req.UserID, err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, line := range req.Items {
		product, err := s.products.Get(ctx, line.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return s.reject(OutcomeNotFound, "Product not found: "+line.ProductID)
		}
		if err != nil {
			return s.fail(user.ID, err)
		}

		item := models.NewOrderItem(product, line.Quantity)
		items = append(items, item)
		total = total.Add(item.Subtotal)
	}

	card, err := s.cards.Get(ctx, req.CardID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.reject(OutcomeNotFound, "Card not found")
	}
	if err != nil {
		return s.fail(user.ID, err)
	}

	addresses, err := s.addresses.ListByUser(ctx, user.ID)
	if err != nil {
		return s.fail(user.ID, err)
	}

	// The authorizer re-checks that the card belongs to this user.
	auth, err := s.authorizer.Authorize(ctx, user.ID, card.Number, card.CVV, total)
	if err != nil {
		return s.fail(user.ID, err)
	}
	if !auth.Authorized() {
		outcome := OutcomeDeclined
		if auth.Outcome() == OutcomeConflict {
			outcome = OutcomeConflict
		}
		log.Printf("[CHECKOUT] Declined for user %d on card %d: %s", user.ID, card.ID, auth.Message)
		return s.reject(outcome, "Transaction not authorized: "+auth.Message)
	}

	order := models.Order{
		ID:            s.newID(),
		UserID:        user.ID,
		OrderDate:     s.now(),
		Status:        models.OrderStatusPaid,
		TotalAmount:   total,
		Items:         items,
		PaymentInfo:   "Card ending in " + card.LastFour(),
		TransactionID: auth.AuthorizationCode,
	}
	if addr, ok := models.ShippingAddress(addresses); ok {
		order.ShippingAddress = addr.ShippingLine()
	}

	if err := s.orders.Save(ctx, &order); err != nil {
		// The charge is already committed. Give the money back before failing.
		rerr := s.authorizer.Reverse(context.WithoutCancel(ctx), auth.CardID, total, auth.AuthorizationCode,
			"Order could not be saved - charge reversed")
		if rerr != nil {
			log.Printf("[CHECKOUT] Reversal of %s failed: %v", auth.AuthorizationCode, rerr)
			err = errors.Join(err, rerr)
		}
		return s.fail(user.ID, fmt.Errorf("save order: %w", err))
	}

	s.publisher.Publish(models.NewSalesSummary(&order))

	s.metrics.Checkout(string(OutcomeOK))
	log.Printf("[CHECKOUT] Order %s created for user %d, total %s", order.ID, user.ID, total.StringFixed(2))

	return CheckoutResult{
		OrderID:     order.ID,
		Status:      order.Status,
		OrderDate:   &order.OrderDate,
		TotalAmount: &order.TotalAmount,
		Message:     "Order created successfully",
		Outcome:     OutcomeOK,
	}, nil
}

// ListOrdersByUser returns the user's orders oldest first.
func (s *CheckoutService) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, Outcome, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, OutcomeNotFound, nil
		}
		return nil, "", err
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return orders, OutcomeOK, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*models.Order, Outcome, error) {
	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, OutcomeNotFound, nil
	}
	if err != nil {
		return nil, "", err
	}
	return order, OutcomeOK, nil
}
