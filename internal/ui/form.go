package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/validation"
)

type modeKind int

const (
	modeCreate modeKind = iota
	modeEdit
)

// ErrNoID is returned when a record without an identifier is opened for
// editing.
var ErrNoID = errors.New("record has no id, cannot edit")

// Mode says what saving the form does: create a record, or edit the one
// with a given id. The zero Mode is create.
type Mode struct {
	kind modeKind
	id   string
}

func CreateMode() Mode { return Mode{kind: modeCreate} }

func EditMode(id string) Mode { return Mode{kind: modeEdit, id: id} }

func (m Mode) IsEdit() bool { return m.kind == modeEdit }

// ID is the record being edited, "" in create mode.
func (m Mode) ID() string { return m.id }

func (m Mode) String() string {
	if m.IsEdit() {
		return "edit " + m.id
	}
	return "create"
}

// Form is the single modal used for both creating and editing a record.
type Form[T types.Record] struct {
	Mode  Mode
	Value T

	// Highlight is the field with the red outline: the first one that
	// failed on the last Submit.
	Highlight string

	open     bool
	flags    map[string]bool
	validate func(T) validation.Errors
	set      func(*T, string, string) error
}

func (f *Form[T]) IsOpen() bool { return f.open }

// Flagged reports whether field failed on the last Submit and has not been
// edited since.
func (f *Form[T]) Flagged(field string) bool { return f.flags[field] }

// OpenCreate opens an empty form holding initial.
func (f *Form[T]) OpenCreate(initial T) {
	f.reset()
	f.Value = initial
	f.open = true
}

// OpenEdit opens the form on a copy of record. A record without an id
// cannot be edited.
func (f *Form[T]) OpenEdit(record T) error {
	if record.GetID() == "" {
		return ErrNoID
	}
	f.reset()
	f.Mode = EditMode(record.GetID())
	f.Value = record
	f.open = true
	return nil
}

// Set parses value into field and clears that field's flag.
func (f *Form[T]) Set(field, value string) error {
	if err := f.set(&f.Value, field, value); err != nil {
		return err
	}
	delete(f.flags, field)
	if f.Highlight == field {
		f.Highlight = ""
	}
	return nil
}

// Submit validates the form. On failure it flags every failing field and
// highlights the first; nothing should be sent.
func (f *Form[T]) Submit() (T, validation.Errors) {
	errs := f.validate(f.Value)
	if len(errs) > 0 {
		f.flags = make(map[string]bool, len(errs))
		for _, fe := range errs {
			f.flags[fe.Field] = true
		}
		f.Highlight = errs.First()
		var zero T
		return zero, errs
	}
	return f.Value, nil
}

func (f *Form[T]) Close() {
	f.reset()
	f.open = false
}

func (f *Form[T]) reset() {
	var zero T
	f.Mode = CreateMode()
	f.Value = zero
	f.Highlight = ""
	f.flags = nil
}

// PersonForm is the form for people.
type PersonForm struct {
	Form[types.Person]
}

func NewPersonForm() *PersonForm {
	return &PersonForm{Form[types.Person]{validate: validation.ValidatePerson, set: setPersonField}}
}

// OpenCreate opens a blank person dated today.
func (f *PersonForm) OpenCreate(today types.Date) {
	f.Form.OpenCreate(types.Person{Date: today})
}

func setPersonField(p *types.Person, field, value string) error {
	switch field {
	case "name":
		p.Name = value
	case "nickname":
		p.Nickname = value
	case "email":
		p.Email = value
	case "age":
		if strings.TrimSpace(value) == "" {
			p.Age = 0
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("age must be a whole number, got %q", value)
		}
		p.Age = n
	case "date":
		d, err := types.ParseDate(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		p.Date = d
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// ProductForm is the form for products.
type ProductForm struct {
	Form[types.Product]
}

func NewProductForm() *ProductForm {
	return &ProductForm{Form[types.Product]{validate: validation.ValidateProduct, set: setProductField}}
}

// OpenCreate opens a blank product in the Undefined category.
func (f *ProductForm) OpenCreate() {
	f.Form.OpenCreate(types.Product{Category: types.CategoryUndefined})
}

func setProductField(p *types.Product, field, value string) error {
	switch field {
	case "name":
		p.Name = value
	case "price":
		if strings.TrimSpace(value) == "" {
			p.Price = 0
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("price must be a number, got %q", value)
		}
		p.Price = n
	case "category":
		// Stored as typed; Submit rejects anything outside the enumeration.
		p.Category = types.Category(strings.TrimSpace(value))
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
