package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/product-inventory/internal/model"
)

var (
	// ErrNotFound is returned when no live record matches the requested id.
	ErrNotFound = errors.New("resource not found")
)

// ProductRepository defines the storage operations for products.
// Deletes are soft: rows are stamped with a deletion marker and hidden from reads.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, query Query) ([]*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	DeleteByID(ctx context.Context, id int64) error
}

// UserRepository defines the storage operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// Resource represents a record whose metadata is initialized before insert.
type Resource interface {
	InitMeta()
}

// UniqueConstraintError represents a database unique constraint violation error.
type UniqueConstraintError struct {
	Detail string
}

func (u *UniqueConstraintError) Error() string {
	return "resource must be unique: " + u.Detail
}
