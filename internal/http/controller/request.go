package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/service"
	"github.com/shopspring/decimal"
)

// Number holds a numeric request field exactly as the client sent it.
// JSON numbers, numeric strings and null all decode without error so that
// malformed values surface as field validation messages.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*n = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
	default:
		*n = Number(raw)
	}
	return nil
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Description string `json:"description" binding:"required,notblank"`
	Price       Number `json:"price" binding:"required,decimal,nonnegative"`
	Quantity    Number `json:"quantity" binding:"required,whole,nonnegative"`
}

// Input converts a validated request to the service input. Surrounding
// whitespace is trimmed from text fields.
func (r ProductRequest) Input() (model.ProductInput, error) {
	price, err := decimal.NewFromString(string(r.Price))
	if err != nil {
		return model.ProductInput{}, fmt.Errorf("invalid price %q: %w", r.Price, err)
	}
	qty, err := strconv.ParseInt(string(r.Quantity), 10, 64)
	if err != nil {
		return model.ProductInput{}, fmt.Errorf("invalid quantity %q: %w", r.Quantity, err)
	}
	return model.ProductInput{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Price:       price,
		StockQty:    qty,
	}, nil
}

// errMalformedBody marks a request body that is not a JSON object.
var errMalformedBody = errors.New("malformed JSON body")

var registerOnce sync.Once

// RegisterValidators adds the product rules to gin's validator engine.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("decimal", decimalNumber)
		_ = v.RegisterValidation("nonnegative", nonNegative)
		_ = v.RegisterValidation("whole", wholeNumber)
	})
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// decimalNumber accepts plain and exponent notation, e.g. "12.5", ".5", "1e2".
func decimalNumber(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func nonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func wholeNumber(fl validator.FieldLevel) bool {
	_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil
}

// bindProduct decodes and validates the request body. Field problems are
// returned as *service.ValidationError, a body that cannot be decoded as errMalformedBody.
func bindProduct(c *gin.Context) (model.ProductInput, error) {
	RegisterValidators()

	var req ProductRequest
	err := c.ShouldBindJSON(&req)
	if errors.Is(err, io.EOF) {
		// an empty body is validated as an empty object
		err = binding.Validator.ValidateStruct(&req)
	}
	if err != nil {
		return model.ProductInput{}, translateBindError(err)
	}
	return req.Input()
}

func translateBindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := map[string][]string{}
		for _, fe := range validationErrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		return service.NewValidationError(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.NewValidationError(map[string][]string{
			typeErr.Field: {fmt.Sprintf("The %s field must be a string.", typeErr.Field)},
		})
	}

	return fmt.Errorf("%w: %v", errMalformedBody, err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "decimal":
		return fmt.Sprintf("The %s field must be a number.", field)
	case "whole":
		return fmt.Sprintf("The %s field must be an integer.", field)
	case "nonnegative":
		return fmt.Sprintf("The %s field must be at least 0.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
