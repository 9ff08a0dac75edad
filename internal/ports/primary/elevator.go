package primary

import (
	"context"
	"time"
)

// ElevatorService defines the primary port for elevator operations.
type ElevatorService interface {
	// CreateElevator creates a new functional elevator on a site.
	CreateElevator(ctx context.Context, req CreateElevatorRequest) (*CreateElevatorResponse, error)

	// GetElevator retrieves an elevator by ID.
	GetElevator(ctx context.Context, elevatorID string) (*Elevator, error)

	// ListElevators retrieves elevators matching the given filters.
	ListElevators(ctx context.Context, filters ElevatorFilters) ([]*Elevator, error)

	// UpdateElevator updates name and technical reference.
	UpdateElevator(ctx context.Context, req UpdateElevatorRequest) (*Elevator, error)

	// MoveElevator reassigns an elevator to another site.
	MoveElevator(ctx context.Context, req MoveElevatorRequest) (*Elevator, error)

	// DeleteElevator deletes an elevator and its history.
	DeleteElevator(ctx context.Context, elevatorID string) error

	// DeclareFault moves a functional elevator to faulty.
	DeclareFault(ctx context.Context, req DeclareFaultRequest) (*TransitionResponse, error)

	// AssignTechnician assigns a technician to a pending fault.
	AssignTechnician(ctx context.Context, req AssignTechnicianRequest) (*TransitionResponse, error)

	// StartRepair starts the repair of an assigned fault.
	StartRepair(ctx context.Context, elevatorID string) (*TransitionResponse, error)

	// CloseRepair returns an elevator under repair to service.
	CloseRepair(ctx context.Context, req CloseRepairRequest) (*TransitionResponse, error)

	// ApplyAction dispatches one of the four transitions by name.
	ApplyAction(ctx context.Context, req ActionRequest) (*TransitionResponse, error)

	// AddComment appends a manual annotation to an elevator's history.
	AddComment(ctx context.Context, req AddCommentRequest) (*Event, error)

	// GetHistory retrieves the events of an elevator in log order.
	GetHistory(ctx context.Context, elevatorID string) ([]*Event, error)

	// ListRecentEvents retrieves the newest events across the fleet.
	ListRecentEvents(ctx context.Context, limit int) ([]*Event, error)
}

// CreateElevatorRequest contains parameters for creating an elevator.
type CreateElevatorRequest struct {
	Name      string
	Reference string
	SiteID    string
}

// CreateElevatorResponse contains the result of creating an elevator.
type CreateElevatorResponse struct {
	ElevatorID string
	Elevator   *Elevator
}

// UpdateElevatorRequest contains parameters for updating an elevator.
type UpdateElevatorRequest struct {
	ElevatorID string
	Name       string
	Reference  string
}

// MoveElevatorRequest contains parameters for moving an elevator to a site.
type MoveElevatorRequest struct {
	ElevatorID   string
	TargetSiteID string
}

// DeclareFaultRequest contains parameters for declaring a fault.
type DeclareFaultRequest struct {
	ElevatorID string
	Comment    string
}

// AssignTechnicianRequest contains parameters for assigning a technician.
type AssignTechnicianRequest struct {
	ElevatorID   string
	TechnicianID string
}

// CloseRepairRequest contains parameters for closing a repair.
type CloseRepairRequest struct {
	ElevatorID string
	Comment    string // optional, a default text is used when empty
}

// ActionRequest names a transition and carries its optional inputs.
type ActionRequest struct {
	ElevatorID   string
	Action       string // declare_fault, assign_technician, start_repair, close_repair
	TechnicianID string
	Comment      string
}

// AddCommentRequest contains parameters for annotating an elevator.
type AddCommentRequest struct {
	ElevatorID   string
	Text         string
	TechnicianID string
}

// TransitionResponse contains the new snapshot and the events it produced.
type TransitionResponse struct {
	Elevator *Elevator
	Events   []*Event
}

// ElevatorFilters contains filter options for listing elevators.
type ElevatorFilters struct {
	SiteID string
	State  string
}

// Elevator represents an elevator at the port boundary.
type Elevator struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Reference    string `json:"reference,omitempty"`
	SiteID       string `json:"site_id"`
	State        string `json:"state"`
	SubState     string `json:"sub_state,omitempty"`
	TechnicianID string `json:"technician_id,omitempty"`
	Version      int    `json:"version"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Event represents a history entry at the port boundary.
type Event struct {
	ID           string    `json:"id"`
	ElevatorID   string    `json:"elevator_id"`
	Seq          int       `json:"seq"`
	Kind         string    `json:"kind"`
	OccurredAt   time.Time `json:"occurred_at"`
	Comment      string    `json:"comment,omitempty"`
	TechnicianID string    `json:"technician_id,omitempty"`
}
