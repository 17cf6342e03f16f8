package repository

import (
	"context"

	"pizza_store/internal/jsonstore"
	"pizza_store/internal/models"
)

type OrderRepository interface {
	// Create assigns the next order id and stores the order.
	Create(ctx context.Context, order *models.Order) error
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	GetByUserAndStatus(ctx context.Context, userID string, status models.OrderStatus) ([]models.Order, error)
	// CompletePending flips the user's pending orders to completed and
	// returns them. No write happens when there are none.
	CompletePending(ctx context.Context, userID string) ([]models.Order, error)
	Count(ctx context.Context) (int, error)
}

type orderRepository struct {
	file *jsonstore.File[models.Order]
}

func NewOrderRepository(file *jsonstore.File[models.Order]) OrderRepository {
	return &orderRepository{file: file}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.file.Update(func(orders []models.Order) ([]models.Order, error) {
		order.OrderID = len(orders) + 1
		return append(orders, *order), nil
	})
}

func (r *orderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.file.Load(), nil
}

func (r *orderRepository) GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return filterOrders(r.file.Load(), func(o models.Order) bool {
		return o.Status == status
	}), nil
}

func (r *orderRepository) GetByUserAndStatus(ctx context.Context, userID string, status models.OrderStatus) ([]models.Order, error) {
	return filterOrders(r.file.Load(), func(o models.Order) bool {
		return o.UserID == userID && o.Status == status
	}), nil
}

func (r *orderRepository) CompletePending(ctx context.Context, userID string) ([]models.Order, error) {
	var completed []models.Order
	err := r.file.Update(func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].UserID == userID && orders[i].Status == models.OrderPending {
				orders[i].Status = models.OrderCompleted
				completed = append(completed, orders[i])
			}
		}
		if len(completed) == 0 {
			return nil, errNothingToUpdate
		}
		return orders, nil
	})
	if err == errNothingToUpdate {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	return len(r.file.Load()), nil
}

func filterOrders(orders []models.Order, keep func(models.Order) bool) []models.Order {
	matched := make([]models.Order, 0)
	for _, o := range orders {
		if keep(o) {
			matched = append(matched, o)
		}
	}
	return matched
}
