package models

import (
	"time"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// orderTransitions is the allowed status transition table.
// Delivered and cancelled are terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// Re-setting the current status is a no-op and always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is the model for the 'orders' table.
// The primary key is a system-generated UUID. The owner is set from the
// authenticated caller at creation time and never changes afterwards.
type Order struct {
	OrderID   string      `json:"order_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    int64       `json:"user_id" gorm:"index;not null"`
	Status    string      `json:"status" gorm:"size:16;not null;default:'pending'"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"-"`
}

func (Order) TableName() string { return "orders" }

// Total sums the item subtotals. Items (and their products) must be loaded.
func (o *Order) Total() float64 {
	var total float64
	for i := range o.Items {
		total += o.Items[i].Subtotal()
	}
	return total
}

// OrderItem is the model for the 'order_items' table.
// Product deletion is restricted while order items reference it, so the
// joined product row is always present.
type OrderItem struct {
	ID        int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"-" gorm:"type:varchar(36);index;not null"`
	ProductID int64   `json:"product_id" gorm:"not null"`
	Product   Product `json:"product" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int     `json:"quantity" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// Subtotal is quantity times the current product price. The price is not
// frozen at order time, so the value follows later price changes.
func (i *OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Product.Price
}
