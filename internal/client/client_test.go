package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/api/", WithHTTPClient(server.Client()))
}

func TestClient_List(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[{"id":1,"product_name":"Pen","description":"Blue ink","price":"12.50","stock_qty":100}]}`)
	})

	products, err := c.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Product{{ID: 1, Name: "Pen", Description: "Blue ink", Price: "12.50", Quantity: 100}}, products)
}

func TestClient_Create(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]string{"name": "Pen", "description": "Blue ink", "price": "12.5", "quantity": "100"}, payload)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Product created successfully","data":{"id":7,"product_name":"Pen","description":"Blue ink","price":"12.50","stock_qty":100}}`)
	})

	product, err := c.Create(context.Background(), Payload{Name: "Pen", Description: "Blue ink", Price: "12.5", Quantity: "100"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "12.50", product.Price)
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			_, _ = io.WriteString(w, `{"message":"Product updated successfully","data":{"id":7,"product_name":"Pen","price":"12.50","stock_qty":90}}`)
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"message":"Product deleted successfully"}`)
		}
	})

	updated, err := c.Update(context.Background(), 7, Payload{Name: "Pen", Description: "Blue ink", Price: "12.50", Quantity: "90"})
	require.NoError(t, err)
	assert.Equal(t, int64(90), updated.Quantity)

	require.NoError(t, c.Delete(context.Background(), 7))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /api/products/7", "DELETE /api/products/7"}, calls)
}

func TestClient_ValidationFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"The price field must be at least 0.","errors":{"price":["The price field must be at least 0."]}}`)
	})

	_, err := c.Create(context.Background(), Payload{Name: "Pen", Description: "Blue ink", Price: "-5", Quantity: "1"})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnprocessableEntity, te.StatusCode)
	assert.Equal(t, "The price field must be at least 0.", te.Message)
	assert.Equal(t, map[string][]string{"price": {"The price field must be at least 0."}}, te.Fields)
	assert.Equal(t, "api returned status 422: The price field must be at least 0.", te.Error())
}

func TestClient_NotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Product not found"}`)
	})

	_, err := c.Get(context.Background(), 42)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Nil(t, te.Fields)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	err := c.Delete(context.Background(), 1)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, "api returned status 502", te.Error())
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url).List(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_CurrentUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":1,"name":"Alice","email":"alice@example.com"}`)
	}))
	t.Cleanup(server.Close)

	user, err := New(server.URL, WithToken("secret-token")).CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Name: "Alice", Email: "alice@example.com"}, user)

	_, err = New(server.URL).CurrentUser(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
}
