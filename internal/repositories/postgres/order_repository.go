package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/repositories"
)

// OrderRepository is the GORM-backed order store.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository constructs a Postgres-backed order repository.
func NewOrderRepository(db *gorm.DB) (*OrderRepository, error) {
	if db == nil {
		return nil, errors.New("order repository requires database handle")
	}
	return &OrderRepository{db: db}, nil
}

// FindByID loads a single order.
func (r *OrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var model OrderModel
	err := session(ctx, r.db).First(&model, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, repositories.NewNotFoundError("order %s not found", orderID)
		}
		return domain.Order{}, repositories.NewUnavailableError("orders.find: %v", err)
	}
	return toDomainOrder(model), nil
}

// UpdateStatus sets the order status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	res := session(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", orderID).
		Update("status", int(status))
	if res.Error != nil {
		return repositories.NewUnavailableError("orders.update_status: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.NewNotFoundError("order %s not found", orderID)
	}
	return nil
}

// Delete removes the order row.
func (r *OrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	res := session(ctx, r.db).Delete(&OrderModel{}, "id = ?", orderID)
	if res.Error != nil {
		return repositories.NewUnavailableError("orders.delete: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.NewNotFoundError("order %s not found", orderID)
	}
	return nil
}
