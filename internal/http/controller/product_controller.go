package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/repository"
	"github.com/iyhunko/product-inventory/internal/service"
)

const (
	msgProductCreated  = "Product created successfully"
	msgProductUpdated  = "Product updated successfully"
	msgProductDeleted  = "Product deleted successfully"
	msgProductNotFound = "Product not found"
	msgMalformedBody   = "Malformed JSON body"
	msgServerError     = "Server Error"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	RegisterValidators()
	return &ProductController{
		productService: productService,
	}
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	StockQty    int64  `json:"stock_qty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ProductEnvelope wraps a single product.
type ProductEnvelope struct {
	Data ProductResponse `json:"data"`
}

// ProductListEnvelope wraps the product list.
type ProductListEnvelope struct {
	Data []ProductResponse `json:"data"`
}

// ProductMutationResponse is returned after a create or update.
type ProductMutationResponse struct {
	Message string          `json:"message"`
	Data    ProductResponse `json:"data"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse lists the messages for every invalid field.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// ListProducts handles the HTTP GET request for listing live products in ascending id order.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		pc.fail(c, err)
		return
	}

	response := ProductListEnvelope{Data: make([]ProductResponse, 0, len(products))}
	for _, product := range products {
		response.Data = append(response.Data, toProductResponse(product))
	}

	c.JSON(http.StatusOK, response)
}

// GetProduct handles the HTTP GET request for a single product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		pc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductEnvelope{Data: toProductResponse(product)})
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	in, err := bindProduct(c)
	if err != nil {
		pc.fail(c, err)
		return
	}

	created, err := pc.productService.CreateProduct(c.Request.Context(), in)
	if err != nil {
		pc.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, ProductMutationResponse{
		Message: msgProductCreated,
		Data:    toProductResponse(created),
	})
}

// UpdateProduct handles the HTTP PUT and PATCH requests overwriting every mutable field.
// A missing product is reported before the body is validated.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if _, err := pc.productService.GetProduct(c.Request.Context(), id); err != nil {
		pc.fail(c, err)
		return
	}

	in, err := bindProduct(c)
	if err != nil {
		pc.fail(c, err)
		return
	}

	updated, err := pc.productService.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		pc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductMutationResponse{
		Message: msgProductUpdated,
		Data:    toProductResponse(updated),
	})
}

// DeleteProduct handles the HTTP DELETE request soft-deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		pc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: msgProductDeleted})
}

// productID parses the id path parameter. Ids that cannot name a product answer 404.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, MessageResponse{Message: msgProductNotFound})
		return 0, false
	}
	return id, true
}

func (pc *ProductController) fail(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: validationErr.Message(),
			Errors:  validationErr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: msgProductNotFound})
	case errors.Is(err, errMalformedBody):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgMalformedBody})
	default:
		slog.Error("Product request failed",
			slog.Any("err", err),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgServerError})
	}
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		ProductName: product.Name,
		Description: product.Description,
		Price:       product.FormattedPrice(),
		StockQty:    product.StockQty,
		CreatedAt:   product.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
