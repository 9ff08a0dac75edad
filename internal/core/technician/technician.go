// Package technician contains the pure business logic for maintenance technicians.
package technician

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits enforced at the service boundary.
const (
	MaxNameLength      = 100
	MaxSpecialtyLength = 100
)

// Technician is a person who can be assigned to faults.
// Available is informational; it never blocks an assignment.
type Technician struct {
	ID        string
	FullName  string
	Specialty string
	Available bool
}

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

// CreateContext provides context for technician creation guards.
type CreateContext struct {
	FullName  string
	Specialty string
}

// CanCreateTechnician evaluates whether a technician can be created.
// Rules: full name and specialty are required and bounded.
func CanCreateTechnician(ctx CreateContext) GuardResult {
	if strings.TrimSpace(ctx.FullName) == "" {
		return GuardResult{Allowed: false, Reason: "full name is required"}
	}
	if utf8.RuneCountInString(ctx.FullName) > MaxNameLength {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("full name exceeds %d characters", MaxNameLength)}
	}
	if strings.TrimSpace(ctx.Specialty) == "" {
		return GuardResult{Allowed: false, Reason: "specialty is required"}
	}
	if utf8.RuneCountInString(ctx.Specialty) > MaxSpecialtyLength {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("specialty exceeds %d characters", MaxSpecialtyLength)}
	}
	return GuardResult{Allowed: true}
}

// AssignSiteContext provides context for linking a technician to a site.
type AssignSiteContext struct {
	TechnicianID     string
	SiteID           string
	TechnicianExists bool
	SiteExists       bool
	AlreadyLinked    bool
}

// CanAssignToSite evaluates whether a technician can be linked to a site.
func CanAssignToSite(ctx AssignSiteContext) GuardResult {
	if !ctx.TechnicianExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("technician %s not found", ctx.TechnicianID)}
	}
	if !ctx.SiteExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("site %s not found", ctx.SiteID)}
	}
	if ctx.AlreadyLinked {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("technician %s already covers site %s", ctx.TechnicianID, ctx.SiteID)}
	}
	return GuardResult{Allowed: true}
}

// DeleteContext provides context for technician deletion guards.
type DeleteContext struct {
	TechnicianID string
	OpenFaults   int // elevators faulty/assigned or under repair with this technician
}

// CanDeleteTechnician evaluates whether a technician can be deleted.
// A technician still carried by an elevator snapshot cannot be removed.
func CanDeleteTechnician(ctx DeleteContext) GuardResult {
	if ctx.OpenFaults > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("technician %s is assigned to %d open fault(s); close them first", ctx.TechnicianID, ctx.OpenFaults),
		}
	}
	return GuardResult{Allowed: true}
}
