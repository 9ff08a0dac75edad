package primary

import "context"

// TechnicianService defines the primary port for technician operations.
type TechnicianService interface {
	// CreateTechnician creates a new available technician.
	CreateTechnician(ctx context.Context, req CreateTechnicianRequest) (*CreateTechnicianResponse, error)

	// GetTechnician retrieves a technician by ID.
	GetTechnician(ctx context.Context, technicianID string) (*Technician, error)

	// ListTechnicians retrieves all technicians.
	ListTechnicians(ctx context.Context) ([]*Technician, error)

	// SetAvailability flags a technician as available or not.
	SetAvailability(ctx context.Context, technicianID string, available bool) (*Technician, error)

	// DeleteTechnician deletes a technician with no open fault.
	DeleteTechnician(ctx context.Context, technicianID string) error

	// AssignToSite links a technician to a site.
	AssignToSite(ctx context.Context, technicianID, siteID string) error

	// UnassignFromSite removes the link between a technician and a site.
	UnassignFromSite(ctx context.Context, technicianID, siteID string) error

	// ListSiteTechnicians retrieves the technicians covering a site.
	ListSiteTechnicians(ctx context.Context, siteID string) ([]*Technician, error)
}

// CreateTechnicianRequest contains parameters for creating a technician.
type CreateTechnicianRequest struct {
	FullName  string
	Specialty string
}

// CreateTechnicianResponse contains the result of creating a technician.
type CreateTechnicianResponse struct {
	TechnicianID string
	Technician   *Technician
}

// Technician represents a technician at the port boundary.
type Technician struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
	Available bool   `json:"available"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
