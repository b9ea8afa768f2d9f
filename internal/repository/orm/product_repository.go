package orm

import (
	"context"
	"fmt"
	"time"

	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRecord struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	ProductName string          `gorm:"column:product_name;size:255;not null"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockQty    int64           `gorm:"column:stock_qty;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (productRecord) TableName() string {
	return "products"
}

func (r *productRecord) InitMeta() {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}

func toProductRecord(p *model.Product) *productRecord {
	return &productRecord{
		ID:          p.ID,
		ProductName: p.Name,
		Description: p.Description,
		Price:       p.Price.Round(model.PriceScale),
		StockQty:    p.StockQty,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *productRecord) toModel() *model.Product {
	p := &model.Product{
		ID:          r.ID,
		Name:        r.ProductName,
		Description: r.Description,
		Price:       r.Price.Round(model.PriceScale),
		StockQty:    r.StockQty,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.DeletedAt.Valid {
		deletedAt := r.DeletedAt.Time
		p.DeletedAt = &deletedAt
	}
	return p
}

// ProductRepository implements repository.ProductRepository with GORM.
// GORM's DeletedAt field turns deletes into soft deletes and hides marked rows from reads.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new live product.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	record := toProductRecord(product)
	if err := create(ctx, r.db, record); err != nil {
		return nil, err
	}
	return record.toModel(), nil
}

// FindByID retrieves a single live product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var record productRecord
	if err := find(ctx, r.db, &record, id); err != nil {
		return nil, err
	}
	return record.toModel(), nil
}

// List retrieves products ordered by id.
func (r *ProductRepository) List(ctx context.Context, query repository.Query) ([]*model.Product, error) {
	dbQuery := r.db.WithContext(ctx).Model(&productRecord{})
	if query.WithDeleted {
		dbQuery = dbQuery.Unscoped()
	}

	var records []productRecord
	if err := dbQuery.Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*model.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toModel())
	}
	return products, nil
}

// Update overwrites the mutable fields of a live product.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"product_name": product.Name,
			"description":  product.Description,
			"price":        product.Price.Round(model.PriceScale),
			"stock_qty":    product.StockQty,
			"updated_at":   time.Now().UTC(),
		})
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("product %d: %w", product.ID, repository.ErrNotFound)
	}
	return r.FindByID(ctx, product.ID)
}

// DeleteByID soft-deletes a live product.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	return nil
}
