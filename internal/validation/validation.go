// Package validation is the single set of record rules. The API handlers
// run it on every create/update body and the console form runs it before
// issuing a request, so the two can never disagree.
//
// Rules are declared as validate:"..." tags on internal/types and checked
// with go-playground/validator. This package adds the custom tags, maps
// each failing field to its user-facing message, and orders the failures.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/records-api/internal/types"
)

// User-facing messages, one per field.
const (
	MsgAge           = "Age must be higher than zero!"
	MsgName          = "Please, fill in 'Name' field!"
	MsgEmail         = "Invalid email format! Please enter a valid email address."
	MsgDate          = "Please, fill in 'Date' field!"
	MsgPrice         = "Price must be higher than zero!"
	MsgCategory      = "Category must be one of: Furniture, Tool, Material, Undefined, Extra!"
	MsgInvalidRecord = "Invalid record."
)

// emailPattern is deliberately loose: local@domain.tld, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type rule struct {
	field   string
	message string
}

// Order matters: failures are reported in this order.
var (
	personRules = []rule{
		{"age", MsgAge},
		{"name", MsgName},
		{"email", MsgEmail},
		{"date", MsgDate},
	}
	productRules = []rule{
		{"price", MsgPrice},
		{"name", MsgName},
		{"category", MsgCategory},
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages, flags and API error
	// details all use the same keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// A zero Date counts as missing.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(types.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, types.Date{})

	if err := v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// FieldError is one failing rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors is the ordered list of failing rules for one record. A nil or
// empty Errors means the record is valid.
type Errors []FieldError

func (e Errors) Error() string { return e.Message() }

// Message joins every failing rule's message with a blank line between them.
func (e Errors) Message() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "\n\n")
}

// First returns the first failing field, or "" when valid.
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Field
}

func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Fields maps field name to message, for API error details.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// ValidatePerson checks p against the person rules.
func ValidatePerson(p types.Person) Errors {
	return check(p, personRules)
}

// ValidateProduct checks p against the product rules. Callers that want the
// store default for an empty category must call p.ApplyDefaults first.
func ValidateProduct(p types.Product) Errors {
	return check(p, productRules)
}

func check(record any, rules []rule) Errors {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "payload", Rule: "invalid", Message: MsgInvalidRecord}}
	}

	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		failed[fe.Field()] = fe.Tag()
	}

	out := make(Errors, 0, len(failed))
	for _, r := range rules {
		if tag, ok := failed[r.field]; ok {
			out = append(out, FieldError{Field: r.field, Rule: tag, Message: r.message})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
