package orm

import (
	"context"
	"time"

	"github.com/iyhunko/product-inventory/internal/model"
	"gorm.io/gorm"
)

type userRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRecord) TableName() string {
	return "users"
}

// UserRepository implements repository.UserRepository with GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	user.InitMeta()
	record := &userRecord{
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := create(ctx, r.db, record); err != nil {
		return nil, err
	}
	user.ID = record.ID
	return user, nil
}

// FindByID retrieves a single user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var record userRecord
	if err := find(ctx, r.db, &record, id); err != nil {
		return nil, err
	}
	return &model.User{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		Password:  record.Password,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}
