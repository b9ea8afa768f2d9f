package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/iyhunko/product-inventory/internal/client"
)

const (
	msgLoadFailed   = "Failed to fetch products."
	msgSaveFailed   = "Something went wrong while saving the product."
	msgDeleteFailed = "Failed to delete product."
	msgConfirmDel   = "Are you sure you want to delete this product?"
)

var (
	// ErrDeclined is returned when the user does not confirm a mutation.
	ErrDeclined = errors.New("action not confirmed")
	// ErrUnknownProduct is returned when the id is not in the loaded list.
	ErrUnknownProduct = errors.New("product is not loaded")
	// ErrUnknownField is returned by SetField for names outside the form.
	ErrUnknownField = errors.New("unknown form field")
)

// API is the product backend. *client.Client satisfies it.
type API interface {
	List(ctx context.Context) ([]client.Product, error)
	Create(ctx context.Context, payload client.Payload) (client.Product, error)
	Update(ctx context.Context, id int64, payload client.Payload) (client.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Confirmer asks the user to approve an action.
type Confirmer interface {
	Confirm(message string) bool
}

// Alerter shows a message to the user.
type Alerter interface {
	Alert(message string)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// Controller drives the inventory screen. It is safe for concurrent use;
// network calls are made without holding the state lock.
//
// Every call that replaces the product list takes a sequence number, and a
// response is dropped when a newer one has already been applied.
type Controller struct {
	api     API
	confirm Confirmer
	alert   Alerter

	mu       sync.Mutex
	state    State
	issued   uint64
	applied  uint64
	inFlight int
}

// NewController creates a Controller with an empty state.
func NewController(api API, confirm Confirmer, alert Alerter) *Controller {
	return &Controller{
		api:     api,
		confirm: confirm,
		alert:   alert,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Filtered returns the products matching the current search term.
func (c *Controller) Filtered() []client.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filtered()
}

// Load fetches the product list and replaces the local copy.
// On failure the list is cleared and the user is alerted.
func (c *Controller) Load(ctx context.Context) error {
	seq := c.begin()
	products, err := c.api.List(ctx)

	c.mu.Lock()
	current := c.finish(seq, true)
	if current {
		if err != nil {
			c.state.Products = nil
		} else {
			c.state.Products = products
		}
	}
	c.mu.Unlock()

	if err != nil {
		slog.Error("Failed to fetch products", slog.Any("err", err))
		if current {
			c.alert.Alert(msgLoadFailed)
		}
		return err
	}
	if !current {
		slog.Debug("Dropped stale product list", slog.Uint64("seq", seq))
	}
	return nil
}

// SetSearch changes the search term. The product list is not touched.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchTerm = term
}

// StartEdit fills the form from a loaded product and marks it as the edit target.
func (c *Controller) StartEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.state.Products {
		if p.ID == id {
			target := p
			c.state.Editing = &target
			c.state.Form = FormData{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Quantity:    strconv.FormatInt(p.Quantity, 10),
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownProduct, id)
}

// StartAdd clears the form for a new product.
func (c *Controller) StartAdd() {
	c.resetForm()
}

// Cancel abandons the current draft.
func (c *Controller) Cancel() {
	c.resetForm()
}

// SetField updates one draft field by its form name.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "name":
		c.state.Form.Name = value
	case "description":
		c.state.Form.Description = value
	case "price":
		c.state.Form.Price = value
	case "quantity":
		c.state.Form.Quantity = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Submit saves the draft after the user confirms. The edit target is updated,
// otherwise a new product is created. On success the list is reloaded and the
// form reset; on failure the form is left as it was.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.state.Form
	var editing *client.Product
	if c.state.Editing != nil {
		target := *c.state.Editing
		editing = &target
	}
	c.mu.Unlock()

	action := "add"
	if editing != nil {
		action = "update"
	}
	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to %s this product?", action)) {
		return ErrDeclined
	}

	var err error
	if editing != nil {
		_, err = c.api.Update(ctx, editing.ID, form.Payload())
	} else {
		_, err = c.api.Create(ctx, form.Payload())
	}
	if err != nil {
		slog.Error("Failed to save product", slog.Any("err", err), slog.String("action", action))
		c.alert.Alert(msgSaveFailed)
		return err
	}

	// a failed reload is reported by Load itself
	_ = c.Load(ctx)
	c.resetForm()
	return nil
}

// Delete removes a product after the user confirms. The id is dropped from
// the local list on success; the user is alerted on failure.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if !c.confirm.Confirm(msgConfirmDel) {
		return ErrDeclined
	}

	seq := c.begin()
	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	c.finish(seq, err == nil)
	if err == nil {
		c.state.Products = withoutProduct(c.state.Products, id)
	}
	c.mu.Unlock()

	if err != nil {
		slog.Error("Failed to delete product", slog.Any("err", err), slog.Int64("id", id))
		c.alert.Alert(msgDeleteFailed)
		return err
	}
	return nil
}

// begin registers a list-affecting call and returns its sequence number.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.inFlight++
	c.state.Loading = true
	return c.issued
}

// finish closes the call started with seq and reports whether it is the newest
// one applied so far. Only calls that changed the list advance the applied
// sequence. The caller must hold c.mu.
func (c *Controller) finish(seq uint64, changed bool) bool {
	c.inFlight--
	c.state.Loading = c.inFlight > 0
	if seq < c.applied {
		return false
	}
	if changed {
		c.applied = seq
	}
	return true
}

func (c *Controller) resetForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = FormData{}
	c.state.Editing = nil
}

func withoutProduct(products []client.Product, id int64) []client.Product {
	kept := make([]client.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}
