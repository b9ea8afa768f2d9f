package client

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Product is the client-side view of a product record.
// Price keeps the text the server sent; formatting happens at display time.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       string
	Quantity    int64
}

// ExtractList returns the records of a list response. The "data" envelope is
// used when present, otherwise the whole body is treated as the list.
func ExtractList(body []byte) []gjson.Result {
	list := ExtractOne(body)
	if !list.IsArray() {
		return nil
	}
	return list.Array()
}

// ExtractOne returns the record of a single-item response, unwrapping "data" when present.
func ExtractOne(body []byte) gjson.Result {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}
	}
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		if data := root.Get("data"); data.Exists() && data.Type != gjson.Null {
			return data
		}
	}
	return root
}

// Normalize maps a raw record in either naming convention to a Product.
func Normalize(raw gjson.Result) Product {
	name := raw.Get("product_name")
	if !name.Exists() || name.String() == "" {
		name = raw.Get("name")
	}

	return Product{
		ID:          raw.Get("id").Int(),
		Name:        name.String(),
		Description: raw.Get("description").String(),
		Price:       priceText(raw.Get("price")),
		Quantity:    firstPresent(raw, "stock_qty", "quantity").Int(),
	}
}

// NormalizeList maps every record of a list response.
func NormalizeList(body []byte) []Product {
	records := ExtractList(body)
	products := make([]Product, 0, len(records))
	for _, record := range records {
		products = append(products, Normalize(record))
	}
	return products
}

// FormatPrice renders a price with the peso sign and two fraction digits.
// Text that is not a number renders as zero.
func FormatPrice(price string) string {
	trimmed := strings.TrimSpace(price)
	if trimmed == "" {
		return "₱0.00"
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return "₱0.00"
	}
	return "₱" + d.StringFixed(2)
}

func priceText(price gjson.Result) string {
	switch price.Type {
	case gjson.String:
		return price.Str
	case gjson.Number:
		return price.Raw
	default:
		return ""
	}
}

// firstPresent returns the first key holding a non-null value.
func firstPresent(raw gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if value := raw.Get(key); value.Exists() && value.Type != gjson.Null {
			return value
		}
	}
	return gjson.Result{}
}
