// Package site contains the pure business logic for maintenance sites.
// This is part of the Functional Core - no I/O, only pure functions.
package site

import "fmt"

// Category is the usage category of a site. It drives risk weighting.
type Category string

const (
	CategoryCommercial  Category = "commercial"
	CategoryTertiary    Category = "tertiary"
	CategoryResidential Category = "residential"
)

// Categories lists the recognized categories in display order.
func Categories() []Category {
	return []Category{CategoryCommercial, CategoryResidential, CategoryTertiary}
}

// ParseCategory converts a stored string into a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCommercial, CategoryTertiary, CategoryResidential:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown site category %q", s)
	}
}

// Site is a physical location owning a group of elevators.
type Site struct {
	ID          string
	Name        string
	Description string
	City        string
	Address     string
	Category    Category
}

// Coefficient returns the risk multiplier for the category.
// Unrecognized categories weigh like residential sites.
func Coefficient(c Category) float64 {
	switch c {
	case CategoryTertiary:
		return 1.3
	case CategoryCommercial:
		return 1.2
	case CategoryResidential:
		return 1.0
	default:
		return 1.0
	}
}

// UsagePhrase names the usage intensity implied by the category.
func UsagePhrase(c Category) string {
	switch c {
	case CategoryTertiary:
		return "Intensive usage (tertiary site)."
	case CategoryCommercial:
		return "Moderate usage (commercial site)."
	case CategoryResidential:
		return "Normal usage (residential site)."
	default:
		return "Normal usage (unclassified site)."
	}
}
