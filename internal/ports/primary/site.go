package primary

import "context"

// SiteService defines the primary port for site operations.
type SiteService interface {
	// CreateSite creates a new site.
	CreateSite(ctx context.Context, req CreateSiteRequest) (*CreateSiteResponse, error)

	// GetSite retrieves a site by ID.
	GetSite(ctx context.Context, siteID string) (*Site, error)

	// ListSites retrieves all sites.
	ListSites(ctx context.Context) ([]*Site, error)

	// UpdateSite replaces the details of a site.
	UpdateSite(ctx context.Context, req UpdateSiteRequest) (*Site, error)

	// DeleteSite deletes a site. Sites with elevators require Force.
	DeleteSite(ctx context.Context, req DeleteSiteRequest) error

	// GetSiteStats counts the elevators of a site per state.
	GetSiteStats(ctx context.Context, siteID string) (*SiteStats, error)
}

// CreateSiteRequest contains parameters for creating a site.
type CreateSiteRequest struct {
	Name        string
	Description string
	City        string
	Address     string
	Category    string
}

// CreateSiteResponse contains the result of creating a site.
type CreateSiteResponse struct {
	SiteID string
	Site   *Site
}

// UpdateSiteRequest contains parameters for updating a site.
type UpdateSiteRequest struct {
	SiteID      string
	Name        string
	Description string
	City        string
	Address     string
	Category    string
}

// DeleteSiteRequest contains parameters for deleting a site.
type DeleteSiteRequest struct {
	SiteID string
	Force  bool
}

// Site represents a site at the port boundary.
type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// SiteStats counts the elevators of a site per global state.
type SiteStats struct {
	SiteID      string `json:"site_id"`
	Total       int    `json:"total"`
	Functional  int    `json:"functional"`
	Faulty      int    `json:"faulty"`
	UnderRepair int    `json:"under_repair"`
}
