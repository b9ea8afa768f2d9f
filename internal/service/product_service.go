package service

import (
	"context"
	"log/slog"

	"github.com/iyhunko/product-inventory/internal/metrics"
	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/repository"
	"github.com/iyhunko/product-inventory/internal/sqs"
)

// Publisher sends product notifications. *sqs.Publisher satisfies it.
type Publisher interface {
	PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error
}

// ProductService implements the product operations on top of a repository.
// It keeps no state between calls.
type ProductService struct {
	repo      repository.ProductRepository
	publisher Publisher
}

// NewProductService creates a ProductService. publisher may be nil.
func NewProductService(repo repository.ProductRepository, publisher Publisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListProducts returns all live products.
func (ps *ProductService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return ps.repo.List(ctx, *repository.NewQuery())
}

// GetProduct returns the live product with the given id or repository.ErrNotFound.
func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return ps.repo.FindByID(ctx, id)
}

// CreateProduct validates the input and persists it as a new live product.
func (ps *ProductService) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if violations := in.Violations(); len(violations) > 0 {
		return nil, NewValidationError(violations)
	}

	product := &model.Product{}
	product.Apply(in)

	created, err := ps.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	ps.publish(ctx, sqs.ActionCreated, created)

	return created, nil
}

// UpdateProduct overwrites the mutable fields of a live product.
// A missing product is reported before any validation failure.
func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) (*model.Product, error) {
	product, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if violations := in.Violations(); len(violations) > 0 {
		return nil, NewValidationError(violations)
	}

	product.Apply(in)
	updated, err := ps.repo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	ps.publish(ctx, sqs.ActionUpdated, updated)

	return updated, nil
}

// DeleteProduct soft-deletes a live product.
func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := ps.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	ps.publish(ctx, sqs.ActionDeleted, product)

	return nil
}

func (ps *ProductService) publish(ctx context.Context, action string, product *model.Product) {
	if ps.publisher == nil {
		return
	}
	msg := sqs.NewProductMessage(action, product)
	if err := ps.publisher.PublishProductMessage(ctx, msg); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message", slog.Any("err", err), slog.String("action", action), slog.Int64("product_id", product.ID))
	}
}
