package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/repository"
)

const productColumns = "id, product_name, description, price, stock_qty, created_at, updated_at, deleted_at"

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new live product and returns it with its storage-assigned id.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.InitMeta()
	product.Price = product.Price.Round(model.PriceScale)

	query := `INSERT INTO products (product_name, description, price, stock_qty, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, product.Name, product.Description, product.Price, product.StockQty, product.CreatedAt, product.UpdatedAt).
		Scan(&product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// List retrieves products ordered by id. Soft-deleted rows are skipped unless the query asks for them.
func (r *ProductRepository) List(ctx context.Context, query repository.Query) ([]*model.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + productColumns + " FROM products WHERE 1=1")
	if !query.WithDeleted {
		queryBuilder.WriteString(" AND deleted_at IS NULL")
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	stmt, err := r.db.PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single live product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

// Update overwrites the mutable fields of a live product.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.Touch()
	product.Price = product.Price.Round(model.PriceScale)

	query := `UPDATE products SET product_name = $1, description = $2, price = $3, stock_qty = $4, updated_at = $5
	          WHERE id = $6 AND deleted_at IS NULL RETURNING ` + productColumns

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	updated, err := scanProduct(stmt.QueryRowContext(ctx,
		product.Name, product.Description, product.Price, product.StockQty, product.UpdatedAt, product.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", product.ID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// DeleteByID soft-deletes a live product by stamping deleted_at.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `UPDATE products SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		product   model.Product
		deletedAt sql.NullTime
	)
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.StockQty,
		&product.CreatedAt, &product.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		product.DeletedAt = &deletedAt.Time
	}
	return &product, nil
}
