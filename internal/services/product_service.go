package services

import (
	"context"
	"errors"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price must be greater than zero with at most two decimal places")

// validPrice rejects prices a checkout could never charge: zero or
// negative amounts, and fractions of a cent.
func validPrice(price decimal.Decimal) bool {
	return price.IsPositive() && models.WholeCents(price)
}

type ProductService struct {
	products repository.ProductRepository
	newID    func() string
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products, newID: uuid.NewString}
}

func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if !validPrice(product.Price) {
		return ErrInvalidPrice
	}
	product.ID = s.newID()
	return s.products.Save(ctx, product)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

// Update replaces the product. An empty category keeps the stored one.
func (s *ProductService) Update(ctx context.Context, id string, product *models.Product) error {
	if !validPrice(product.Price) {
		return ErrInvalidPrice
	}
	existing, err := s.products.Get(ctx, id)
	if err != nil {
		return err
	}

	product.ID = id
	if product.Category == "" {
		product.Category = existing.Category
	}
	return s.products.Save(ctx, product)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
