package elevator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits enforced at the service boundary.
const (
	MaxNameLength      = 100
	MaxReferenceLength = 50
	MaxCommentLength   = 1000
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
	return fmt.Errorf("%s: %w", r.Reason, ErrInvalidArgument)
}

// CreateElevatorContext provides context for elevator creation guards.
type CreateElevatorContext struct {
	Name       string
	Reference  string
	SiteID     string
	SiteExists bool
}

// CanCreateElevator evaluates whether an elevator can be created.
// Rules:
// - Name must not be empty and must fit the name limit
// - Reference must fit the reference limit
// - Site must exist
func CanCreateElevator(ctx CreateElevatorContext) GuardResult {
	if r := checkName(ctx.Name); !r.Allowed {
		return r
	}
	if utf8.RuneCountInString(ctx.Reference) > MaxReferenceLength {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("technical reference exceeds %d characters", MaxReferenceLength),
		}
	}
	if strings.TrimSpace(ctx.SiteID) == "" {
		return GuardResult{Allowed: false, Reason: "site id is required"}
	}
	if !ctx.SiteExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("site %s not found", ctx.SiteID),
		}
	}
	return GuardResult{Allowed: true}
}

// UpdateElevatorContext provides context for elevator detail updates.
type UpdateElevatorContext struct {
	ElevatorID string
	Name       string
	Reference  string
}

// CanUpdateElevator evaluates whether elevator details can be updated.
// State fields are never updated here; only transitions change them.
func CanUpdateElevator(ctx UpdateElevatorContext) GuardResult {
	if r := checkName(ctx.Name); !r.Allowed {
		return r
	}
	if utf8.RuneCountInString(ctx.Reference) > MaxReferenceLength {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("technical reference exceeds %d characters", MaxReferenceLength),
		}
	}
	return GuardResult{Allowed: true}
}

// MoveContext provides context for reassigning an elevator to another site.
type MoveContext struct {
	ElevatorID    string
	CurrentSiteID string
	TargetSiteID  string
	TargetExists  bool
}

// CanMoveElevator evaluates whether an elevator can change site.
func CanMoveElevator(ctx MoveContext) GuardResult {
	if !ctx.TargetExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("site %s not found", ctx.TargetSiteID),
		}
	}
	if ctx.CurrentSiteID == ctx.TargetSiteID {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("elevator %s already belongs to site %s", ctx.ElevatorID, ctx.TargetSiteID),
		}
	}
	return GuardResult{Allowed: true}
}

// DeclareFaultContext provides context for the fault comment policy.
type DeclareFaultContext struct {
	ElevatorID string
	Comment    string
}

// CanDeclareFault evaluates the fault description supplied by the caller.
// Rule: a fault must be described, within the comment limit.
func CanDeclareFault(ctx DeclareFaultContext) GuardResult {
	if strings.TrimSpace(ctx.Comment) == "" {
		return GuardResult{Allowed: false, Reason: "fault description is required"}
	}
	return checkCommentLength(ctx.Comment)
}

// CommentContext provides context for manual annotations.
type CommentContext struct {
	ElevatorID string
	Text       string
}

// CanComment evaluates whether a comment can be appended to the history.
func CanComment(ctx CommentContext) GuardResult {
	if strings.TrimSpace(ctx.Text) == "" {
		return GuardResult{Allowed: false, Reason: "comment cannot be empty"}
	}
	return checkCommentLength(ctx.Text)
}

// CheckCommentLength reports whether an optional comment fits the limit.
func CheckCommentLength(text string) GuardResult {
	return checkCommentLength(text)
}

func checkCommentLength(text string) GuardResult {
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("comment exceeds %d characters", MaxCommentLength),
		}
	}
	return GuardResult{Allowed: true}
}

func checkName(name string) GuardResult {
	if strings.TrimSpace(name) == "" {
		return GuardResult{Allowed: false, Reason: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("name exceeds %d characters", MaxNameLength),
		}
	}
	return GuardResult{Allowed: true}
}
