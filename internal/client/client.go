package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Payload is the request body for create and update, carrying the form values as typed.
type Payload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
}

// User is the identity returned by the current-user endpoint.
type User struct {
	ID    int64
	Name  string
	Email string
}

// TransportError is returned when a request fails on the network or the API answers with a non-2xx status.
type TransportError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client calls the product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sends the bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a Client for the API rooted at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches every live product.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	return NormalizeList(body), nil
}

// Get fetches one product.
func (c *Client) Get(ctx context.Context, id int64) (Product, error) {
	body, err := c.do(ctx, http.MethodGet, productPath(id), nil)
	if err != nil {
		return Product{}, err
	}
	return Normalize(ExtractOne(body)), nil
}

// Create adds a product.
func (c *Client) Create(ctx context.Context, payload Payload) (Product, error) {
	body, err := c.do(ctx, http.MethodPost, "/products", payload)
	if err != nil {
		return Product{}, err
	}
	return Normalize(ExtractOne(body)), nil
}

// Update overwrites a product.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (Product, error) {
	body, err := c.do(ctx, http.MethodPut, productPath(id), payload)
	if err != nil {
		return Product{}, err
	}
	return Normalize(ExtractOne(body)), nil
}

// Delete removes a product.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, productPath(id), nil)
	return err
}

// CurrentUser returns the user the configured token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	body, err := c.do(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return User{}, err
	}
	raw := ExtractOne(body)
	return User{
		ID:    raw.Get("id").Int(),
		Name:  raw.Get("name").String(),
		Email: raw.Get("email").String(),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("API request failed", slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode))
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

func newStatusError(status int, body []byte) *TransportError {
	te := &TransportError{StatusCode: status}
	if !gjson.ValidBytes(body) {
		return te
	}
	root := gjson.ParseBytes(body)
	te.Message = root.Get("message").String()
	if errs := root.Get("errors"); errs.IsObject() {
		te.Fields = map[string][]string{}
		errs.ForEach(func(field, messages gjson.Result) bool {
			for _, msg := range messages.Array() {
				te.Fields[field.String()] = append(te.Fields[field.String()], msg.String())
			}
			return true
		})
	}
	return te
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}
