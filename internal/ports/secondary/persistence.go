// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// Storage sentinels. Adapters wrap them so callers can match with errors.Is.
var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict means the elevator changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
)

// SiteRepository defines the secondary port for site persistence.
type SiteRepository interface {
	// Create persists a new site.
	Create(ctx context.Context, site *SiteRecord) error

	// GetByID retrieves a site by its ID.
	GetByID(ctx context.Context, id string) (*SiteRecord, error)

	// Update updates an existing site.
	Update(ctx context.Context, site *SiteRecord) error

	// Delete removes a site together with its elevators, their events and
	// its technician links.
	Delete(ctx context.Context, id string) error

	// List retrieves all sites ordered by ID.
	List(ctx context.Context) ([]*SiteRecord, error)

	// GetNextID returns the next available site ID.
	GetNextID(ctx context.Context) (string, error)

	// CountElevators returns the number of elevators owned by a site.
	CountElevators(ctx context.Context, siteID string) (int, error)
}

// SiteRecord represents a site as stored in persistence.
type SiteRecord struct {
	ID          string
	Name        string
	Description string
	City        string
	Address     string
	Category    string
	CreatedAt   string
	UpdatedAt   string
}

// ElevatorRepository defines the secondary port for elevator persistence.
type ElevatorRepository interface {
	// Create persists a new elevator with version 1.
	Create(ctx context.Context, elevator *ElevatorRecord) error

	// GetByID retrieves an elevator by its ID.
	GetByID(ctx context.Context, id string) (*ElevatorRecord, error)

	// UpdateDetails updates name, reference and site if the stored version
	// still matches elevator.Version. On success elevator.Version is bumped.
	UpdateDetails(ctx context.Context, elevator *ElevatorRecord) error

	// ApplyTransition atomically stores the new state of an elevator and
	// appends its events. It fails with ErrVersionConflict when the stored
	// version differs from expectedVersion, leaving both untouched.
	ApplyTransition(ctx context.Context, elevator *ElevatorRecord, expectedVersion int, events []*EventRecord) error

	// Delete removes an elevator and its events.
	Delete(ctx context.Context, id string) error

	// List retrieves elevators matching the given filters.
	List(ctx context.Context, filters ElevatorFilters) ([]*ElevatorRecord, error)

	// GetNextID returns the next available elevator ID.
	GetNextID(ctx context.Context) (string, error)

	// CountOpenByTechnician returns the number of elevators carrying the technician.
	CountOpenByTechnician(ctx context.Context, technicianID string) (int, error)
}

// ElevatorRecord represents an elevator as stored in persistence.
type ElevatorRecord struct {
	ID           string
	Name         string
	Reference    string // empty string means null
	SiteID       string
	State        string
	SubState     string // empty string means null
	TechnicianID string // empty string means null
	Version      int
	CreatedAt    string
	UpdatedAt    string
}

// ElevatorFilters contains filter options for querying elevators.
type ElevatorFilters struct {
	SiteID string
	State  string
}

// EventRepository defines the secondary port for the append-only event log.
type EventRepository interface {
	// Append adds a single event outside of a transition (manual comments).
	Append(ctx context.Context, event *EventRecord) error

	// ListByElevator retrieves the events of one elevator in log order.
	ListByElevator(ctx context.Context, elevatorID string) ([]*EventRecord, error)

	// List retrieves events matching the given filters in log order.
	List(ctx context.Context, filters EventFilters) ([]*EventRecord, error)

	// ListRecent retrieves the newest events across all elevators, newest first.
	ListRecent(ctx context.Context, limit int) ([]*EventRecord, error)
}

// EventRecord represents an event as stored in persistence.
type EventRecord struct {
	ID           string    `json:"id"`
	ElevatorID   string    `json:"elevator_id"`
	Seq          int       `json:"seq"` // position in the elevator's log, assigned on insert
	Kind         string    `json:"kind"`
	OccurredAt   time.Time `json:"occurred_at"`
	Comment      string    `json:"comment,omitempty"`
	TechnicianID string    `json:"technician_id,omitempty"`
}

// EventFilters contains filter options for querying events.
type EventFilters struct {
	Since time.Time // zero means no lower bound
	Kind  string
}

// TechnicianRepository defines the secondary port for technician persistence.
type TechnicianRepository interface {
	// Create persists a new technician.
	Create(ctx context.Context, technician *TechnicianRecord) error

	// GetByID retrieves a technician by its ID.
	GetByID(ctx context.Context, id string) (*TechnicianRecord, error)

	// Update updates an existing technician.
	Update(ctx context.Context, technician *TechnicianRecord) error

	// Delete removes a technician and its site links.
	Delete(ctx context.Context, id string) error

	// List retrieves all technicians ordered by ID.
	List(ctx context.Context) ([]*TechnicianRecord, error)

	// GetNextID returns the next available technician ID.
	GetNextID(ctx context.Context) (string, error)

	// AssignToSite links a technician to a site.
	AssignToSite(ctx context.Context, technicianID, siteID string) error

	// UnassignFromSite removes a technician's link to a site.
	UnassignFromSite(ctx context.Context, technicianID, siteID string) error

	// ListBySite retrieves the technicians linked to a site.
	ListBySite(ctx context.Context, siteID string) ([]*TechnicianRecord, error)

	// IsAssignedToSite reports whether a technician is linked to a site.
	IsAssignedToSite(ctx context.Context, technicianID, siteID string) (bool, error)
}

// TechnicianRecord represents a technician as stored in persistence.
type TechnicianRecord struct {
	ID        string
	FullName  string
	Specialty string
	Available bool
	CreatedAt string
	UpdatedAt string
}
