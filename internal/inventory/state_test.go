package inventory

import (
	"testing"

	"github.com/iyhunko/product-inventory/internal/client"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	products := []client.Product{
		{ID: 1, Name: "Blue Pen"},
		{ID: 2, Name: "Mug"},
		{ID: 3, Name: "pencil case"},
	}
	original := append([]client.Product(nil), products...)

	tests := []struct {
		term    string
		wantIDs []int64
	}{
		{term: "", wantIDs: []int64{1, 2, 3}},
		{term: "pen", wantIDs: []int64{1, 3}},
		{term: "PEN", wantIDs: []int64{1, 3}},
		{term: "mug", wantIDs: []int64{2}},
		{term: "lamp", wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			ids := []int64{}
			for _, p := range Filter(products, tt.term) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, original, products)
		})
	}
}

func TestState_Filtered(t *testing.T) {
	state := State{
		Products:   []client.Product{{ID: 1, Name: "Pen"}, {ID: 2, Name: "Mug"}},
		SearchTerm: "mU",
	}
	assert.Equal(t, []client.Product{{ID: 2, Name: "Mug"}}, state.Filtered())
}

func TestFormData_Payload(t *testing.T) {
	form := FormData{Name: "Pen", Description: "Blue ink", Price: "12.50", Quantity: "100"}
	assert.Equal(t, client.Payload{Name: "Pen", Description: "Blue ink", Price: "12.50", Quantity: "100"}, form.Payload())
}
