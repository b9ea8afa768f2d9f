package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/repository"
	"github.com/iyhunko/product-inventory/internal/service"
	"github.com/iyhunko/product-inventory/internal/sqs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if fn, ok := args.Get(0).(func(context.Context, *model.Product) *model.Product); ok {
		return fn(ctx, product), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, query repository.Query) ([]*model.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if fn, ok := args.Get(0).(func(context.Context, *model.Product) *model.Product); ok {
		return fn(ctx, product), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of service.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func validInput() model.ProductInput {
	return model.ProductInput{
		Name:        "Pen",
		Description: "Blue ink",
		Price:       decimal.RequireFromString("12.5"),
		StockQty:    100,
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Product")).
		Return(func(_ context.Context, p *model.Product) *model.Product {
			p.ID = 1
			return p
		}, nil)
	mockPublisher.On("PublishProductMessage", ctx, mock.MatchedBy(func(msg sqs.ProductMessage) bool {
		return msg.Action == sqs.ActionCreated && msg.ProductID == 1 && msg.Price == "12.50"
	})).Return(nil)

	productService := service.NewProductService(mockRepo, mockPublisher)

	created, err := productService.CreateProduct(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Pen", created.Name)
	assert.Equal(t, "Blue ink", created.Description)
	assert.Equal(t, "12.50", created.FormattedPrice())
	assert.Equal(t, int64(100), created.StockQty)

	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestCreateProduct_RoundsPrice(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.FormattedPrice() == "3.46"
	})).Return(&model.Product{ID: 1, Price: decimal.RequireFromString("3.46")}, nil)

	in := validInput()
	in.Price = decimal.RequireFromString("3.455")

	_, err := service.NewProductService(mockRepo, nil).CreateProduct(ctx, in)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := service.NewProductService(mockRepo, nil)

	in := validInput()
	in.Price = decimal.NewFromInt(-5)

	created, err := productService.CreateProduct(ctx, in)

	assert.Nil(t, created)
	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"The price field must be at least 0."}, validationErr.Fields["price"])
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_BlankTextIsRequired(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)

	in := validInput()
	in.Name = "   "
	in.Description = "\t\n"

	_, err := service.NewProductService(mockRepo, nil).CreateProduct(ctx, in)

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string][]string{
		"name":        {"The name field is required."},
		"description": {"The description field is required."},
	}, validationErr.Fields)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_PublishFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(&model.Product{ID: 7, Name: "Pen"}, nil)
	mockPublisher.On("PublishProductMessage", ctx, mock.Anything).Return(errors.New("queue unavailable"))

	created, err := service.NewProductService(mockRepo, mockPublisher).CreateProduct(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	mockPublisher.AssertExpectations(t)
}

func TestCreateProduct_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)
	repoErr := errors.New("database is down")

	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil, repoErr)

	_, err := service.NewProductService(mockRepo, mockPublisher).CreateProduct(ctx, validInput())

	assert.ErrorIs(t, err, repoErr)
	mockPublisher.AssertNotCalled(t, "PublishProductMessage", mock.Anything, mock.Anything)
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	product := &model.Product{ID: 3, Name: "Pen"}

	mockRepo.On("FindByID", ctx, int64(3)).Return(product, nil)
	mockRepo.On("FindByID", ctx, int64(4)).Return(nil, repository.ErrNotFound)

	productService := service.NewProductService(mockRepo, nil)

	found, err := productService.GetProduct(ctx, 3)
	require.NoError(t, err)
	assert.Same(t, product, found)

	_, err = productService.GetProduct(ctx, 4)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)

	existing := &model.Product{ID: 1, Name: "Pen", Description: "Blue ink", Price: decimal.RequireFromString("12.50"), StockQty: 100}
	mockRepo.On("FindByID", ctx, int64(1)).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == 1 && p.StockQty == 90
	})).Return(func(_ context.Context, p *model.Product) *model.Product { return p }, nil)
	mockPublisher.On("PublishProductMessage", ctx, mock.MatchedBy(func(msg sqs.ProductMessage) bool {
		return msg.Action == sqs.ActionUpdated && msg.Quantity == 90
	})).Return(nil)

	in := validInput()
	in.StockQty = 90

	updated, err := service.NewProductService(mockRepo, mockPublisher).UpdateProduct(ctx, 1, in)

	require.NoError(t, err)
	assert.Equal(t, int64(90), updated.StockQty)
	assert.Equal(t, "12.50", updated.FormattedPrice())
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestUpdateProduct_NotFoundBeforeValidation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)

	mockRepo.On("FindByID", ctx, int64(99)).Return(nil, repository.ErrNotFound)

	_, err := service.NewProductService(mockRepo, nil).UpdateProduct(ctx, 99, model.ProductInput{})

	assert.ErrorIs(t, err, repository.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_ValidationError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)

	mockRepo.On("FindByID", ctx, int64(1)).Return(&model.Product{ID: 1}, nil)

	in := validInput()
	in.StockQty = -1

	_, err := service.NewProductService(mockRepo, nil).UpdateProduct(ctx, 1, in)

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "quantity")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)

	product := &model.Product{ID: 5, Name: "Pen"}
	mockRepo.On("FindByID", ctx, int64(5)).Return(product, nil)
	mockRepo.On("DeleteByID", ctx, int64(5)).Return(nil)
	mockPublisher.On("PublishProductMessage", ctx, mock.MatchedBy(func(msg sqs.ProductMessage) bool {
		return msg.Action == sqs.ActionDeleted && msg.ProductID == 5
	})).Return(nil)

	err := service.NewProductService(mockRepo, mockPublisher).DeleteProduct(ctx, 5)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)

	mockRepo.On("FindByID", ctx, int64(5)).Return(nil, repository.ErrNotFound)

	err := service.NewProductService(mockRepo, nil).DeleteProduct(ctx, 5)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	mockRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)

	products := []*model.Product{
		{ID: 1, Name: "Product 1"},
		{ID: 2, Name: "Product 2"},
	}
	mockRepo.On("List", ctx, *repository.NewQuery()).Return(products, nil)

	results, err := service.NewProductService(mockRepo, nil).ListProducts(ctx)

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Product 1", results[0].Name)
	assert.Equal(t, "Product 2", results[1].Name)
	mockRepo.AssertExpectations(t)
}
