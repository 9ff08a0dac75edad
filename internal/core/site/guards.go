package site

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits enforced at the service boundary.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxCityLength        = 100
	MaxAddressLength     = 200
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SaveContext provides context for site create and update guards.
type SaveContext struct {
	Name        string
	Description string
	City        string
	Address     string
	Category    string
}

// CanSaveSite evaluates whether site fields are acceptable.
// Rules:
// - Name, city and address are required and bounded
// - Description is optional and bounded
// - Category must be one of the recognized categories
func CanSaveSite(ctx SaveContext) GuardResult {
	required := []struct {
		field string
		value string
		max   int
	}{
		{"name", ctx.Name, MaxNameLength},
		{"city", ctx.City, MaxCityLength},
		{"address", ctx.Address, MaxAddressLength},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s is required", f.field)}
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s exceeds %d characters", f.field, f.max)}
		}
	}
	if utf8.RuneCountInString(ctx.Description) > MaxDescriptionLength {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("description exceeds %d characters", MaxDescriptionLength)}
	}
	if _, err := ParseCategory(ctx.Category); err != nil {
		return GuardResult{Allowed: false, Reason: err.Error()}
	}
	return GuardResult{Allowed: true}
}

// DeleteContext provides context for site deletion guards.
// Populated by the caller with pre-fetched dependency counts.
type DeleteContext struct {
	SiteID        string
	ElevatorCount int
	ForceDelete   bool
}

// CanDeleteSite evaluates whether a site can be deleted.
// Rule: Sites with elevators require --force, which also deletes their history.
func CanDeleteSite(ctx DeleteContext) GuardResult {
	if ctx.ElevatorCount > 0 && !ctx.ForceDelete {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Site %s has %d elevators. Use --force to delete it with their history", ctx.SiteID, ctx.ElevatorCount),
		}
	}
	return GuardResult{Allowed: true}
}
