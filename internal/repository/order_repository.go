package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mystore/internal/models"
)

// OrderItemSpec is one (product, quantity) pair from an order request.
type OrderItemSpec struct {
	ProductID int64
	Quantity  int
}

// OrderUpdate carries the mutable parts of an order. Nil fields are
// left unchanged; a non-nil Items slice replaces every item.
type OrderUpdate struct {
	Status *string
	Items  []OrderItemSpec
}

// OrderRepository scopes every read and write by owner: a nil ownerID
// means the caller is an admin and sees everything. Orders invisible to
// the caller are reported as not found, never as forbidden.
type OrderRepository interface {
	Create(ctx context.Context, userID int64, items []OrderItemSpec) (*models.Order, error)
	List(ctx context.Context, ownerID *int64, status string) ([]*models.Order, error)
	Get(ctx context.Context, orderID string, ownerID *int64) (*models.Order, error)
	Update(ctx context.Context, orderID string, ownerID *int64, upd OrderUpdate) (*models.Order, error)
	Delete(ctx context.Context, orderID string, ownerID *int64) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

// Create persists the order and all of its items in one transaction.
// An unknown product fails the whole order; nothing is written.
func (r *orderRepository) Create(ctx context.Context, userID int64, items []OrderItemSpec) (*models.Order, error) {
	orderID := uuid.New().String()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &models.Order{
			OrderID: orderID,
			UserID:  userID,
			Status:  models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return createItems(tx, orderID, items)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID, nil)
}

// createItems validates each referenced product and inserts the rows.
// Runs inside the caller's transaction.
func createItems(tx *gorm.DB, orderID string, items []OrderItemSpec) error {
	for _, spec := range items {
		var cnt int64
		if err := tx.Model(&models.Product{}).Where("id = ?", spec.ProductID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return &UnknownProductError{ProductID: spec.ProductID}
		}
		item := &models.OrderItem{
			OrderID:   orderID,
			ProductID: spec.ProductID,
			Quantity:  spec.Quantity,
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
	}
	return nil
}

func ownerScope(ownerID *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID != nil {
			return db.Where("user_id = ?", *ownerID)
		}
		return db
	}
}

// List returns the caller's visible orders, items eagerly loaded with
// their products, newest first. An optional status filters the result.
func (r *orderRepository) List(ctx context.Context, ownerID *int64, status string) ([]*models.Order, error) {
	q := r.db.WithContext(ctx).Scopes(ownerScope(ownerID)).Preload("Items.Product")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []*models.Order
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Get(ctx context.Context, orderID string, ownerID *int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Scopes(ownerScope(ownerID)).
		Preload("Items.Product").
		Where("order_id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update applies a status change and/or an item replacement atomically.
// Status changes must follow the transition table.
func (r *orderRepository) Update(ctx context.Context, orderID string, ownerID *int64, upd OrderUpdate) (*models.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Scopes(ownerScope(ownerID)).Where("order_id = ?", orderID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if upd.Status != nil {
			if !models.CanTransition(order.Status, *upd.Status) {
				return &InvalidTransitionError{From: order.Status, To: *upd.Status}
			}
			if err := tx.Model(&order).Update("status", *upd.Status).Error; err != nil {
				return err
			}
		}

		if upd.Items != nil {
			if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := createItems(tx, orderID, upd.Items); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID, ownerID)
}

// Delete removes the order and its items together.
func (r *orderRepository) Delete(ctx context.Context, orderID string, ownerID *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Scopes(ownerScope(ownerID)).Where("order_id = ?", orderID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
