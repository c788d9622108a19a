package types

import "fmt"

// Category is the fixed product classification.
type Category string

const (
	CategoryFurniture Category = "Furniture"
	CategoryTool      Category = "Tool"
	CategoryMaterial  Category = "Material"
	CategoryUndefined Category = "Undefined"
	CategoryExtra     Category = "Extra"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFurniture,
	CategoryTool,
	CategoryMaterial,
	CategoryUndefined,
	CategoryExtra,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory returns the category named s, or an error when s is not
// one of Categories. Matching is exact.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
