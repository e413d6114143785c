package services

import (
	"context"
	"testing"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/ecommerce-cloud/backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService(t *testing.T) {
	store := memory.New()
	s := NewProductService(store.Products)
	ctx := context.Background()

	product := &models.Product{Name: "Keyboard", Price: dec("150.00"), Category: "Peripherals"}
	require.NoError(t, s.Create(ctx, product))
	assert.NotEmpty(t, product.ID)

	t.Run("update keeps category when omitted", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, product.ID, &models.Product{Name: "Keyboard Pro", Price: dec("199.90")}))

		got, err := s.Get(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Keyboard Pro", got.Name)
		assert.Equal(t, "Peripherals", got.Category)
	})

	t.Run("update of missing product", func(t *testing.T) {
		err := s.Update(ctx, "nope", &models.Product{Name: "x", Price: dec("1.00")})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("price must be positive whole cents", func(t *testing.T) {
		for _, price := range []string{"-1", "0", "0.001", "10.999"} {
			assert.ErrorIs(t, s.Create(ctx, &models.Product{Name: "x", Price: dec(price)}), ErrInvalidPrice, price)
			assert.ErrorIs(t, s.Update(ctx, product.ID, &models.Product{Name: "x", Price: dec(price)}), ErrInvalidPrice, price)
		}
		assert.NoError(t, s.Create(ctx, &models.Product{Name: "Cable", Price: dec("0.01")}))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, product.ID))
		_, err := s.Get(ctx, product.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserService_AddressesAndCards(t *testing.T) {
	store := memory.New()
	s := NewUserService(store)
	cards := newCardService(store)
	ctx := context.Background()

	view, err := s.Create(ctx, &models.User{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	userID := view.ID

	view, err = s.AddAddress(ctx, userID, &models.Address{Street: "Rua A", City: "Recife"})
	require.NoError(t, err)
	view, err = s.AddAddress(ctx, userID, &models.Address{Street: "Rua B", City: "Olinda"})
	require.NoError(t, err)
	require.Len(t, view.Addresses, 2)
	assert.True(t, view.Addresses[0].Primary)
	assert.False(t, view.Addresses[1].Primary)

	issueCard(t, cards, userID, "4111111111111111", "123", "10.00", testNow.AddDate(1, 0, 0))
	view, err = s.View(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Cards, 1)
	assert.Equal(t, "**** **** **** 1111", view.Cards[0].Number)

	_, err = s.AddAddress(ctx, 999, &models.Address{Street: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReportService_Sales(t *testing.T) {
	orders := &MockOrderRepository{}
	s := NewReportService(orders)
	s.now = func() time.Time { return testNow }

	orders.On("List", mock.Anything).Return([]models.Order{
		{ID: "a", OrderDate: testNow.Add(-48 * time.Hour), TotalAmount: dec("60.00"), Items: []models.OrderItem{{ProductName: "Mouse", Quantity: 2}}},
		{ID: "b", OrderDate: testNow.Add(-24 * time.Hour), TotalAmount: dec("10.00"), Items: []models.OrderItem{{ProductName: "Mouse", Quantity: 1}, {ProductName: "Pad", Quantity: 1}}},
		{ID: "old", OrderDate: testNow.AddDate(0, -2, 0), TotalAmount: dec("999.00")},
	}, nil)

	t.Run("defaults to the last 30 days", func(t *testing.T) {
		report, err := s.Sales(context.Background(), time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 2, report.TotalOrders)
		assert.Equal(t, "70.00", report.TotalRevenue.StringFixed(2))
		assert.Equal(t, "35.00", report.AverageOrderValue.StringFixed(2))
		assert.Equal(t, map[string]int{"Mouse": 3, "Pad": 1}, report.ProductsSold)
		assert.Equal(t, testNow.AddDate(0, 0, -30), report.StartDate)
	})

	t.Run("bounds are exclusive", func(t *testing.T) {
		report, err := s.Sales(context.Background(), testNow.Add(-48*time.Hour), testNow)
		require.NoError(t, err)
		assert.Equal(t, 1, report.TotalOrders)
	})

	t.Run("empty window", func(t *testing.T) {
		report, err := s.Sales(context.Background(), testNow, testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, report.TotalOrders)
		assert.True(t, report.AverageOrderValue.IsZero())
	})
}
