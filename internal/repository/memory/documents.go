package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
)

type ProductRepository struct {
	docs *documents
}

func (p *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	d := p.docs
	d.mu.Lock()
	defer d.mu.Unlock()

	d.products[product.ID] = *product
	return nil
}

func (p *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	d := p.docs
	d.mu.RLock()
	defer d.mu.RUnlock()

	product, ok := d.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return &product, nil
}

func (p *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	d := p.docs
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Product, 0, len(d.products))
	for _, product := range d.products {
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *ProductRepository) Delete(ctx context.Context, id string) error {
	d := p.docs
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	delete(d.products, id)
	return nil
}

type OrderRepository struct {
	docs *documents
}

func (o *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	d := o.docs
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.orders[order.ID]; !exists {
		d.orderIDs = append(d.orderIDs, order.ID)
	}
	d.orders[order.ID] = copyOrder(*order)
	return nil
}

func (o *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	d := o.docs
	d.mu.RLock()
	defer d.mu.RUnlock()

	order, ok := d.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	order = copyOrder(order)
	return &order, nil
}

func (o *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	d := o.docs
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []models.Order{}
	for _, id := range d.orderIDs {
		if order := d.orders[id]; order.UserID == userID {
			out = append(out, copyOrder(order))
		}
	}
	return out, nil
}

func (o *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	d := o.docs
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Order, 0, len(d.orderIDs))
	for _, id := range d.orderIDs {
		out = append(out, copyOrder(d.orders[id]))
	}
	return out, nil
}

func copyOrder(order models.Order) models.Order {
	order.Items = append([]models.OrderItem(nil), order.Items...)
	return order
}
