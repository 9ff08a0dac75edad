package technician

import "testing"

func TestCanCreateTechnician(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateContext
		wantAllowed bool
		wantReason  string
	}{
		{"valid", CreateContext{FullName: "Jean Martin", Specialty: "Hydraulics"}, true, ""},
		{"missing name", CreateContext{Specialty: "Hydraulics"}, false, "full name is required"},
		{"missing specialty", CreateContext{FullName: "Jean Martin"}, false, "specialty is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateTechnician(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanAssignToSite(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AssignSiteContext
		wantAllowed bool
		wantReason  string
	}{
		{"valid", AssignSiteContext{TechnicianID: "TECH-001", SiteID: "SITE-001", TechnicianExists: true, SiteExists: true}, true, ""},
		{"unknown technician", AssignSiteContext{TechnicianID: "TECH-404", SiteID: "SITE-001", SiteExists: true}, false, "technician TECH-404 not found"},
		{"unknown site", AssignSiteContext{TechnicianID: "TECH-001", SiteID: "SITE-404", TechnicianExists: true}, false, "site SITE-404 not found"},
		{"already linked", AssignSiteContext{TechnicianID: "TECH-001", SiteID: "SITE-001", TechnicianExists: true, SiteExists: true, AlreadyLinked: true}, false, "technician TECH-001 already covers site SITE-001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAssignToSite(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanDeleteTechnician(t *testing.T) {
	if r := CanDeleteTechnician(DeleteContext{TechnicianID: "TECH-001"}); !r.Allowed {
		t.Errorf("expected delete allowed, got %q", r.Reason)
	}
	r := CanDeleteTechnician(DeleteContext{TechnicianID: "TECH-001", OpenFaults: 2})
	if r.Allowed {
		t.Fatal("expected delete blocked with open faults")
	}
	want := "technician TECH-001 is assigned to 2 open fault(s); close them first"
	if r.Reason != want {
		t.Errorf("Reason = %q, want %q", r.Reason, want)
	}
}
