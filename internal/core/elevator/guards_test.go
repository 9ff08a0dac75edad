package elevator

import (
	"errors"
	"strings"
	"testing"
)

func TestCanCreateElevator(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateElevatorContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can create with name and existing site",
			ctx:         CreateElevatorContext{Name: "Lift A", SiteID: "SITE-001", SiteExists: true},
			wantAllowed: true,
		},
		{
			name:        "cannot create without name",
			ctx:         CreateElevatorContext{Name: "  ", SiteID: "SITE-001", SiteExists: true},
			wantAllowed: false,
			wantReason:  "name is required",
		},
		{
			name:        "cannot create with long reference",
			ctx:         CreateElevatorContext{Name: "Lift A", Reference: strings.Repeat("R", 51), SiteID: "SITE-001", SiteExists: true},
			wantAllowed: false,
			wantReason:  "technical reference exceeds 50 characters",
		},
		{
			name:        "cannot create without site",
			ctx:         CreateElevatorContext{Name: "Lift A"},
			wantAllowed: false,
			wantReason:  "site id is required",
		},
		{
			name:        "cannot create on unknown site",
			ctx:         CreateElevatorContext{Name: "Lift A", SiteID: "SITE-999"},
			wantAllowed: false,
			wantReason:  "site SITE-999 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateElevator(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanMoveElevator(t *testing.T) {
	tests := []struct {
		name        string
		ctx         MoveContext
		wantAllowed bool
	}{
		{"can move to another site", MoveContext{ElevatorID: "ELEV-001", CurrentSiteID: "SITE-001", TargetSiteID: "SITE-002", TargetExists: true}, true},
		{"cannot move to same site", MoveContext{ElevatorID: "ELEV-001", CurrentSiteID: "SITE-001", TargetSiteID: "SITE-001", TargetExists: true}, false},
		{"cannot move to unknown site", MoveContext{ElevatorID: "ELEV-001", CurrentSiteID: "SITE-001", TargetSiteID: "SITE-404"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMoveElevator(tt.ctx).Allowed; got != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got, tt.wantAllowed)
			}
		})
	}
}

func TestCanDeclareFault(t *testing.T) {
	if r := CanDeclareFault(DeclareFaultContext{ElevatorID: "ELEV-001", Comment: "Door jammed"}); !r.Allowed {
		t.Errorf("expected allowed, got %q", r.Reason)
	}
	if r := CanDeclareFault(DeclareFaultContext{ElevatorID: "ELEV-001"}); r.Allowed || r.Reason != "fault description is required" {
		t.Errorf("empty comment: %+v", r)
	}
	if r := CanDeclareFault(DeclareFaultContext{ElevatorID: "ELEV-001", Comment: strings.Repeat("x", 1001)}); r.Allowed {
		t.Errorf("expected oversize comment to be rejected")
	}
}

func TestGuardResult_Error(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("Error() = %v, want nil", err)
	}
	err := GuardResult{Allowed: false, Reason: "name is required"}.Error()
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Error() = %v, want wrapped ErrInvalidArgument", err)
	}
}
