package handlers

import (
	"context"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCardAPI struct {
	mock.Mock
}

func (m *MockCardAPI) IssueCard(ctx context.Context, userID int64, req services.IssueCardRequest) (*models.Card, services.Outcome, error) {
	args := m.Called(ctx, userID, req)
	card, _ := args.Get(0).(*models.Card)
	return card, args.Get(1).(services.Outcome), args.Error(2)
}

func (m *MockCardAPI) Authorize(ctx context.Context, userID int64, number, cvv string, amount decimal.Decimal) (services.AuthorizationResult, error) {
	args := m.Called(ctx, userID, number, cvv, amount)
	return args.Get(0).(services.AuthorizationResult), args.Error(1)
}

func (m *MockCardAPI) Statement(ctx context.Context, userID, cardID int64) ([]models.LedgerEntry, services.Outcome, error) {
	args := m.Called(ctx, userID, cardID)
	entries, _ := args.Get(0).([]models.LedgerEntry)
	return entries, args.Get(1).(services.Outcome), args.Error(2)
}

func (m *MockCardAPI) Reconcile(ctx context.Context, userID, cardID int64) (*services.Reconciliation, services.Outcome, error) {
	args := m.Called(ctx, userID, cardID)
	rec, _ := args.Get(0).(*services.Reconciliation)
	return rec, args.Get(1).(services.Outcome), args.Error(2)
}

type MockUserAPI struct {
	mock.Mock
}

func (m *MockUserAPI) Create(ctx context.Context, user *models.User) (*models.UserView, error) {
	args := m.Called(ctx, user)
	view, _ := args.Get(0).(*models.UserView)
	return view, args.Error(1)
}

func (m *MockUserAPI) View(ctx context.Context, id int64) (*models.UserView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*models.UserView)
	return view, args.Error(1)
}

func (m *MockUserAPI) List(ctx context.Context) ([]models.UserView, error) {
	args := m.Called(ctx)
	views, _ := args.Get(0).([]models.UserView)
	return views, args.Error(1)
}

func (m *MockUserAPI) Update(ctx context.Context, user *models.User) (*models.UserView, error) {
	args := m.Called(ctx, user)
	view, _ := args.Get(0).(*models.UserView)
	return view, args.Error(1)
}

func (m *MockUserAPI) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserAPI) AddAddress(ctx context.Context, userID int64, addr *models.Address) (*models.UserView, error) {
	args := m.Called(ctx, userID, addr)
	view, _ := args.Get(0).(*models.UserView)
	return view, args.Error(1)
}

type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) Checkout(ctx context.Context, req services.CheckoutRequest) (services.CheckoutResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(services.CheckoutResult), args.Error(1)
}

func (m *MockOrderAPI) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, services.Outcome, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Get(1).(services.Outcome), args.Error(2)
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, orderID string) (*models.Order, services.Outcome, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Get(1).(services.Outcome), args.Error(2)
}

type MockProductAPI struct {
	mock.Mock
}

func (m *MockProductAPI) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductAPI) Get(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *MockProductAPI) List(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *MockProductAPI) Update(ctx context.Context, id string, product *models.Product) error {
	return m.Called(ctx, id, product).Error(0)
}

func (m *MockProductAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockReportAPI struct {
	mock.Mock
}

func (m *MockReportAPI) Sales(ctx context.Context, start, end time.Time) (*services.SalesReport, error) {
	args := m.Called(ctx, start, end)
	report, _ := args.Get(0).(*services.SalesReport)
	return report, args.Error(1)
}
