package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"mystore/internal/models"
	"mystore/internal/repository"
)

// --- Inputs ---

// Price and Stock are pointers so "missing" and "zero" can be told
// apart; both must be present and non-negative.
type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int     `json:"stock" binding:"required,gte=0"`
}

type PatchProductInput struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// --- List & Filters ---

func parseFloatParam(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{name: "must be a number"}})
		return nil, false
	}
	return &v, true
}

// ListProducts is the handler for GET /products.
func (h *Handlers) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Name:        c.Query("name"),
		Description: c.Query("description"),
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
		InStockOnly: c.Query("in_stock") == "true",
	}

	var ok bool
	if filter.Price, ok = parseFloatParam(c, "price"); !ok {
		return
	}
	if filter.PriceMin, ok = parseFloatParam(c, "price_min"); !ok {
		return
	}
	if filter.PriceMax, ok = parseFloatParam(c, "price_max"); !ok {
		return
	}

	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if filter.Limit <= 0 {
		filter.Limit = h.Config.PageSizeDefault
	}
	if filter.Limit > h.Config.PageSizeMax {
		filter.Limit = h.Config.PageSizeMax
	}

	products, count, err := h.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   count,
		"offset":  filter.Offset,
		"limit":   filter.Limit,
		"results": products,
	})
}

// --- CRUD ---

// CreateProduct is the handler for POST /products (admin only, enforced
// by the capability table).
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	product := &models.Product{
		Name:        input.Name,
		Slug:        slug.Make(input.Name),
		Description: input.Description,
		Price:       *input.Price,
		Stock:       *input.Stock,
	}
	if err := h.Products.Create(c.Request.Context(), product); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handlers) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return 0, false
	}
	return id, true
}

// GetProduct is the handler for GET /products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	product, err := h.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct is the handler for PUT /products/:id (full replace).
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	product := &models.Product{
		ID:          id,
		Name:        input.Name,
		Slug:        slug.Make(input.Name),
		Description: input.Description,
		Price:       *input.Price,
		Stock:       *input.Stock,
	}
	if err := h.Products.Update(c.Request.Context(), product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	updated, err := h.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PatchProduct is the handler for PATCH /products/:id (partial update).
// The slug follows the name when the name changes.
func (h *Handlers) PatchProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	var input PatchProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	product, err := h.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = slug.Make(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if err := h.Products.Update(c.Request.Context(), product); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct is the handler for DELETE /products/:id. Products still
// referenced by order items are not deletable (restrict policy).
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, repository.ErrProductReferenced):
			c.JSON(http.StatusBadRequest, gin.H{"error": "product is referenced by existing orders"})
		default:
			h.serverError(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ProductInfo is the handler for GET /products/info, a derived summary
// of the whole catalog.
func (h *Handlers) ProductInfo(c *gin.Context) {
	info, err := h.Products.Info(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":  info.Products,
		"count":     info.Count,
		"max_price": info.MaxPrice,
	})
}
