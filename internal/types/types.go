// Package types holds the shared records (Person, Product) used by the
// storage backends, the HTTP handlers, the API client and the console UI.
// Keeping them in one place prevents import cycles: every layer imports
// types, types imports nothing from the application.
package types

import (
	"encoding/json"
	"errors"
	"math"
)

// Collection names. They match the collections the records have always
// lived in, so an existing database can be pointed at directly.
const (
	PeopleCollection   = "users"
	ProductsCollection = "products"
)

// Record is anything with a store-assigned identifier.
type Record interface {
	GetID() string
}

// Person is one entry of the people collection.
//
// Struct tags:
//
//  1. json:"..."     wire names. The identifier is "_id" so existing
//     clients keep working.
//  2. validate:"..." rules checked by internal/validation. The same tags
//     are evaluated by the API boundary and by the console form.
type Person struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"               validate:"required"`
	Age      int    `json:"age"                validate:"gt=0"`
	Nickname string `json:"nickname,omitempty"`
	Date     Date   `json:"date"               validate:"required"`
	Email    string `json:"email,omitempty"    validate:"omitempty,simple_email"`
}

func (p Person) GetID() string { return p.ID }

var errAgeNotWhole = errors.New("age must be a whole number")

// UnmarshalJSON accepts the legacy "username" key as an alias for nickname.
// Age may arrive as any JSON number with no fractional part, so 30.0 is 30.
func (p *Person) UnmarshalJSON(data []byte) error {
	type alias Person
	aux := struct {
		*alias
		Age      *float64 `json:"age"`
		Username string   `json:"username"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Age != nil {
		if v := *aux.Age; math.Trunc(v) != v || math.Abs(v) > math.MaxInt32 {
			return errAgeNotWhole
		}
		p.Age = int(*aux.Age)
	}
	if p.Nickname == "" {
		p.Nickname = aux.Username
	}
	return nil
}

// Product is one entry of the products collection.
type Product struct {
	ID       string   `json:"_id,omitempty"`
	Name     string   `json:"name"     validate:"required"`
	Price    float64  `json:"price"    validate:"gt=0"`
	Category Category `json:"category" validate:"required,oneof=Furniture Tool Material Undefined Extra"`
}

func (p Product) GetID() string { return p.ID }

// ApplyDefaults fills fields the store would otherwise default.
func (p *Product) ApplyDefaults() {
	if p.Category == "" {
		p.Category = CategoryUndefined
	}
}
