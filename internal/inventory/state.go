package inventory

import (
	"strings"

	"github.com/iyhunko/product-inventory/internal/client"
)

// FormData is the product draft as typed by the user.
type FormData struct {
	Name        string
	Description string
	Price       string
	Quantity    string
}

// Payload converts the draft to a request body.
func (f FormData) Payload() client.Payload {
	return client.Payload{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Quantity:    f.Quantity,
	}
}

// State is a snapshot of the inventory screen.
type State struct {
	Products   []client.Product
	SearchTerm string
	Loading    bool
	Form       FormData
	// Editing is the product being edited, nil while adding.
	Editing *client.Product
}

// Filtered returns the products whose name contains the search term.
func (s State) Filtered() []client.Product {
	return Filter(s.Products, s.SearchTerm)
}

// Filter keeps the products whose name contains term, ignoring case.
// An empty term keeps every product. The input slice is never modified.
func Filter(products []client.Product, term string) []client.Product {
	needle := strings.ToLower(term)
	filtered := make([]client.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (s State) clone() State {
	out := s
	out.Products = append([]client.Product(nil), s.Products...)
	if s.Editing != nil {
		editing := *s.Editing
		out.Editing = &editing
	}
	return out
}
