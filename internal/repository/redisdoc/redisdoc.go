// Package redisdoc keeps products and orders as JSON documents in Redis.
// Orders are also indexed per user in a sorted set scored by order date.
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/go-redis/redis/v8"
)

const (
	productSetKey = "products"
	orderIndexKey = "orders"
)

func productKey(id string) string { return "product:" + id }

func orderKey(id string) string { return "order:" + id }

func userOrdersKey(userID int64) string {
	return "orders:user:" + strconv.FormatInt(userID, 10)
}

type ProductRepository struct {
	rdb *redis.Client
}

func NewProductRepository(rdb *redis.Client) *ProductRepository {
	return &ProductRepository{rdb: rdb}
}

// Save writes the document and its index entry in one MULTI/EXEC.
func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, productKey(product.ID), string(data), 0)
		pipe.SAdd(ctx, productSetKey, product.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save product %s: %w", product.ID, err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := getDocument(ctx, r.rdb, productKey(id), &product); err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	ids, err := r.rdb.SMembers(ctx, productSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	sort.Strings(ids)

	products := []models.Product{}
	for _, id := range ids {
		product, err := r.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, productKey(id))
		pipe.SRem(ctx, productSetKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

type OrderRepository struct {
	rdb *redis.Client
}

func NewOrderRepository(rdb *redis.Client) *OrderRepository {
	return &OrderRepository{rdb: rdb}
}

// Save writes the order document and both index entries in one MULTI/EXEC,
// so a failed save never leaves a readable order behind.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	member := &redis.Z{Score: float64(order.OrderDate.UnixMilli()), Member: order.ID}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, orderKey(order.ID), string(data), 0)
		pipe.ZAdd(ctx, userOrdersKey(order.UserID), member)
		pipe.ZAdd(ctx, orderIndexKey, member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save order %s: %w", order.ID, err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := getDocument(ctx, r.rdb, orderKey(id), &order); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.listIndex(ctx, userOrdersKey(userID))
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.listIndex(ctx, orderIndexKey)
}

// listIndex loads the orders referenced by a sorted set, oldest first.
func (r *OrderRepository) listIndex(ctx context.Context, key string) ([]models.Order, error) {
	ids, err := r.rdb.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := []models.Order{}
	for _, id := range ids {
		order, err := r.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func getDocument(ctx context.Context, rdb *redis.Client, key string, dst any) error {
	data, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dst)
}
