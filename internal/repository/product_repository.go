package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mystore/internal/models"
)

// ProductFilter collects every query-string filter the product list
// endpoint supports. Zero values mean "not set".
type ProductFilter struct {
	Name        string   // substring match on name
	Description string   // substring match on description
	Price       *float64 // exact price
	PriceMin    *float64
	PriceMax    *float64
	Search      string // free text over name + description
	InStockOnly bool   // exclude products with stock <= 0
	Ordering    string // name|price|stock|id, "-" prefix for descending
	Offset      int
	Limit       int
}

// ProductInfo is the aggregate returned by the info endpoint.
type ProductInfo struct {
	Products []*models.Product
	Count    int64
	MaxPrice float64
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error)
	Info(ctx context.Context) (*ProductInfo, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, product.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Select forces zero values (empty description, stock 0)
		// through; a plain struct update would skip them.
		return tx.Model(&existing).
			Select("name", "slug", "description", "price", "stock").
			Updates(product).Error
	})
}

// Delete removes a product unless order items still reference it
// (restrict policy, enforced here rather than left to the driver so the
// caller gets a clean error).
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductReferenced
		}
		return tx.Delete(&product).Error
	})
}

// orderings whitelists the sortable columns.
var orderings = map[string]string{
	"id":    "id",
	"name":  "name",
	"price": "price",
	"stock": "stock",
}

// List applies the filter and returns one page of products plus the
// total count of matches before pagination.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Description != "" {
		q = q.Where("description LIKE ?", "%"+filter.Description+"%")
	}
	if filter.Price != nil {
		q = q.Where("price = ?", *filter.Price)
	}
	if filter.PriceMin != nil {
		q = q.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("price <= ?", *filter.PriceMax)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", term, term)
	}
	if filter.InStockOnly {
		q = q.Where("stock > 0")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	// Stable default ordering by primary key; anything outside the
	// whitelist falls back to it.
	order := "id"
	key, desc := filter.Ordering, false
	if len(key) > 0 && key[0] == '-' {
		key, desc = key[1:], true
	}
	if col, ok := orderings[key]; ok {
		order = col
	}
	if desc {
		order += " DESC"
	}

	// Limit <= 0 means "no limit"; handlers always pass the configured
	// default, this guard is for direct repository callers.
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	var products []*models.Product
	err := q.Order(order).Offset(filter.Offset).Limit(limit).Find(&products).Error
	return products, count, err
}

// Info returns the catalog summary: every product, the total count and
// the maximum price (0 when the catalog is empty).
func (r *productRepository) Info(ctx context.Context) (*ProductInfo, error) {
	info := &ProductInfo{}
	if err := r.db.WithContext(ctx).Order("id").Find(&info.Products).Error; err != nil {
		return nil, err
	}
	info.Count = int64(len(info.Products))
	for _, p := range info.Products {
		if p.Price > info.MaxPrice {
			info.MaxPrice = p.Price
		}
	}
	return info, nil
}
