package services

import (
	"context"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, userID int64, number, cvv string, amount decimal.Decimal) (AuthorizationResult, error) {
	args := m.Called(ctx, userID, number, cvv, amount)
	return args.Get(0).(AuthorizationResult), args.Error(1)
}

func (m *MockAuthorizer) Reverse(ctx context.Context, cardID int64, amount decimal.Decimal, chargeCode, description string) error {
	args := m.Called(ctx, cardID, amount, chargeCode, description)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(summary models.SalesSummary) bool {
	args := m.Called(summary)
	return args.Bool(0)
}

// MockOrderRepository lets tests fail order persistence on demand.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}
