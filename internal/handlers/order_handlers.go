package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mystore/internal/middleware"
	"mystore/internal/models"
	"mystore/internal/repository"
)

// --- Order Handlers ---

type OrderItemInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" binding:"dive"`
}

type UpdateOrderInput struct {
	Status *string           `json:"status"`
	Items  *[]OrderItemInput `json:"items" binding:"omitempty,dive"`
}

// --- Response shaping ---

type orderItemView struct {
	Product      *models.Product `json:"product"`
	Quantity     int             `json:"quantity"`
	ItemSubtotal float64         `json:"item_subtotal"`
}

type orderView struct {
	OrderID    string          `json:"order_id"`
	UserID     int64           `json:"user_id"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []orderItemView `json:"items"`
	TotalPrice float64         `json:"total_price"`
}

// newOrderView computes item subtotals from the current product prices
// and the order total from the subtotals. Neither is stored.
func newOrderView(o *models.Order) orderView {
	items := make([]orderItemView, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = orderItemView{
			Product:      &item.Product,
			Quantity:     item.Quantity,
			ItemSubtotal: item.Subtotal(),
		}
	}
	return orderView{
		OrderID:    o.OrderID,
		UserID:     o.UserID,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		Items:      items,
		TotalPrice: o.Total(),
	}
}

// ownerScope translates the caller into a repository scope: admins see
// every order, everyone else only their own.
func ownerScope(user *models.User) *int64 {
	if user.IsAdmin() {
		return nil
	}
	id := user.ID
	return &id
}

func itemSpecs(items []OrderItemInput) []repository.OrderItemSpec {
	specs := make([]repository.OrderItemSpec, len(items))
	for i, it := range items {
		specs[i] = repository.OrderItemSpec{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return specs
}

// ListOrders is the handler for GET /order.
func (h *Handlers) ListOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"status": "unknown order status"}})
		return
	}

	orders, err := h.Orders.List(c.Request.Context(), ownerScope(user), status)
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = newOrderView(o)
	}
	c.JSON(http.StatusOK, views)
}

// CreateOrder is the handler for POST /order. The owner is always the
// caller; any owner field in the body is ignored. The order and its
// items are written in one transaction.
func (h *Handlers) CreateOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.Orders.Create(c.Request.Context(), user.ID, itemSpecs(input.Items))
	if err != nil {
		var unknown *repository.UnknownProductError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusBadRequest, gin.H{"error": unknown.Error()})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderView(order))
}

// GetOrder is the handler for GET /order/:id. Orders belonging to
// someone else look exactly like missing ones.
func (h *Handlers) GetOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	order, err := h.Orders.Get(c.Request.Context(), c.Param("id"), ownerScope(user))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderView(order))
}

// UpdateOrder is the handler for PUT and PATCH /order/:id. Status
// changes are checked against the transition table; a non-nil items
// list replaces the order's items atomically.
func (h *Handlers) UpdateOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	if input.Status != nil && !models.ValidOrderStatus(*input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"status": "unknown order status"}})
		return
	}

	upd := repository.OrderUpdate{Status: input.Status}
	if input.Items != nil {
		upd.Items = itemSpecs(*input.Items)
	}

	order, err := h.Orders.Update(c.Request.Context(), c.Param("id"), ownerScope(user), upd)
	if err != nil {
		var unknown *repository.UnknownProductError
		var badMove *repository.InvalidTransitionError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{"error": unknown.Error()})
		case errors.As(err, &badMove):
			c.JSON(http.StatusBadRequest, gin.H{"error": badMove.Error()})
		default:
			h.serverError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, newOrderView(order))
}

// DeleteOrder is the handler for DELETE /order/:id.
func (h *Handlers) DeleteOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := h.Orders.Delete(c.Request.Context(), c.Param("id"), ownerScope(user)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
