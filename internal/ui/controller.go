package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/records-api/internal/client"
	"github.com/aanand-mishra/records-api/internal/logger"
	"github.com/aanand-mishra/records-api/internal/types"
)

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}

// API is the part of the records API one controller talks to.
type API[T types.Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Controller drives one collection: it loads the list, saves the form and
// deletes rows, feeding every server answer back into the Store.
type Controller[T types.Record] struct {
	Store   *Store[T]
	Form    *Form[T]
	Columns []Column[T]
	Sort    SortState

	api     API[T]
	notify  Notifier
	log     *slog.Logger
	entity  string
	openNew func()
}

// Rows is the current view: the store sorted by the active column.
func (c *Controller[T]) Rows() []T {
	return Sorted(c.Store.Records(), c.Columns, c.Sort)
}

// ToggleSort cycles the sort on column.
func (c *Controller[T]) ToggleSort(column string) error {
	if _, err := FindColumn(c.Columns, column); err != nil {
		return err
	}
	c.Sort = c.Sort.Toggle(column)
	return nil
}

// Add opens the form in create mode with default values.
func (c *Controller[T]) Add() {
	c.openNew()
}

// Edit opens the form on record. Records without an id are rejected.
func (c *Controller[T]) Edit(record T) error {
	return c.Form.OpenEdit(record)
}

// Load fetches the whole collection once.
func (c *Controller[T]) Load(ctx context.Context) error {
	records, err := c.api.List(ctx)
	if err != nil {
		c.log.Error("failed to load records", slog.String("entity", c.entity), logger.Err(err))
		return err
	}
	c.Store.Dispatch(Loaded[T]{Records: records})
	return nil
}

// Save submits the form. Invalid input is alerted and nothing is sent.
// Request failures are alerted and returned with the form left open.
func (c *Controller[T]) Save(ctx context.Context) error {
	record, verrs := c.Form.Submit()
	if len(verrs) > 0 {
		c.notify.Alert(verrs.Message())
		return verrs
	}

	mode := c.Form.Mode
	if mode.IsEdit() && mode.ID() == "" {
		c.notify.Alert(ErrNoID.Error())
		return ErrNoID
	}

	var ack string
	if mode.IsEdit() {
		updated, err := c.api.Update(ctx, mode.ID(), record)
		if err != nil {
			return c.requestFailed(err)
		}
		c.Store.Dispatch(Updated[T]{Record: updated})
		ack = c.entity + " is updated."
	} else {
		created, err := c.api.Create(ctx, record)
		if err != nil {
			return c.requestFailed(err)
		}
		c.Store.Dispatch(Created[T]{Record: created})
		ack = c.entity + " is added."
	}

	c.Form.Close()
	c.notify.Alert(ack)
	return nil
}

// Delete issues one DELETE for id. Failures are logged, not shown.
func (c *Controller[T]) Delete(ctx context.Context, id string) {
	if err := c.api.Delete(ctx, id); err != nil {
		c.log.Error("failed to delete record", slog.String("entity", c.entity), slog.String("id", id), logger.Err(err))
		return
	}
	c.Store.Dispatch(Deleted[T]{ID: id})
}

func (c *Controller[T]) requestFailed(err error) error {
	msg := err.Error()
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	c.log.Error("save failed", slog.String("entity", c.entity), logger.Err(err))
	c.notify.Alert("Request failed: " + msg)
	return fmt.Errorf("save %s: %w", c.entity, err)
}

// NewPeopleController builds the controller for people. today supplies the
// default date of a new person.
func NewPeopleController(api API[types.Person], notify Notifier, log *slog.Logger, today func() types.Date) *Controller[types.Person] {
	form := NewPersonForm()
	return &Controller[types.Person]{
		Store:   NewStore[types.Person](),
		Form:    &form.Form,
		Columns: PersonColumns,
		api:     api,
		notify:  notify,
		log:     log,
		entity:  "User",
		openNew: func() { form.OpenCreate(today()) },
	}
}

func NewProductsController(api API[types.Product], notify Notifier, log *slog.Logger) *Controller[types.Product] {
	form := NewProductForm()
	return &Controller[types.Product]{
		Store:   NewStore[types.Product](),
		Form:    &form.Form,
		Columns: ProductColumns,
		api:     api,
		notify:  notify,
		log:     log,
		entity:  "Product",
		openNew: form.OpenCreate,
	}
}

// PeopleAPI adapts *client.Client to API[types.Person].
type PeopleAPI struct{ *client.Client }

func (a PeopleAPI) List(ctx context.Context) ([]types.Person, error) { return a.ListPeople(ctx) }

func (a PeopleAPI) Create(ctx context.Context, p types.Person) (types.Person, error) {
	return a.CreatePerson(ctx, p)
}

func (a PeopleAPI) Update(ctx context.Context, id string, p types.Person) (types.Person, error) {
	return a.UpdatePerson(ctx, id, p)
}

func (a PeopleAPI) Delete(ctx context.Context, id string) error { return a.DeletePerson(ctx, id) }

// ProductsAPI adapts *client.Client to API[types.Product].
type ProductsAPI struct{ *client.Client }

func (a ProductsAPI) List(ctx context.Context) ([]types.Product, error) { return a.ListProducts(ctx) }

func (a ProductsAPI) Create(ctx context.Context, p types.Product) (types.Product, error) {
	return a.CreateProduct(ctx, p)
}

func (a ProductsAPI) Update(ctx context.Context, id string, p types.Product) (types.Product, error) {
	return a.UpdateProduct(ctx, id, p)
}

func (a ProductsAPI) Delete(ctx context.Context, id string) error { return a.DeleteProduct(ctx, id) }
