package app

import (
	"fmt"

	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/core/site"
	"github.com/example/gmao/internal/core/technician"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// rejected turns a guard reason into an invalid-argument error.
func rejected(reason string) error {
	return fmt.Errorf("%s: %w", reason, coreelevator.ErrInvalidArgument)
}

func recordToElevator(r *secondary.ElevatorRecord) coreelevator.Elevator {
	return coreelevator.Elevator{
		ID:           r.ID,
		Name:         r.Name,
		Reference:    r.Reference,
		SiteID:       r.SiteID,
		State:        coreelevator.GlobalState(r.State),
		SubState:     coreelevator.FaultSubState(r.SubState),
		TechnicianID: r.TechnicianID,
		Version:      r.Version,
	}
}

// applySnapshot copies the state fields of a snapshot onto a copy of the record.
func applySnapshot(r *secondary.ElevatorRecord, el coreelevator.Elevator) *secondary.ElevatorRecord {
	next := *r
	next.State = string(el.State)
	next.SubState = string(el.SubState)
	next.TechnicianID = el.TechnicianID
	return &next
}

func recordToPrimaryElevator(r *secondary.ElevatorRecord) *primary.Elevator {
	return &primary.Elevator{
		ID:           r.ID,
		Name:         r.Name,
		Reference:    r.Reference,
		SiteID:       r.SiteID,
		State:        r.State,
		SubState:     r.SubState,
		TechnicianID: r.TechnicianID,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func eventToRecord(e coreelevator.Event) *secondary.EventRecord {
	return &secondary.EventRecord{
		ID:           e.ID,
		ElevatorID:   e.ElevatorID,
		Kind:         string(e.Kind),
		OccurredAt:   e.OccurredAt,
		Comment:      e.Comment,
		TechnicianID: e.TechnicianID,
	}
}

func recordToEvent(r *secondary.EventRecord) coreelevator.Event {
	return coreelevator.Event{
		ID:           r.ID,
		ElevatorID:   r.ElevatorID,
		Kind:         coreelevator.EventKind(r.Kind),
		OccurredAt:   r.OccurredAt,
		Comment:      r.Comment,
		TechnicianID: r.TechnicianID,
	}
}

func recordsToEvents(records []*secondary.EventRecord) []coreelevator.Event {
	out := make([]coreelevator.Event, len(records))
	for i, r := range records {
		out[i] = recordToEvent(r)
	}
	return out
}

func recordToPrimaryEvent(r *secondary.EventRecord) *primary.Event {
	return &primary.Event{
		ID:           r.ID,
		ElevatorID:   r.ElevatorID,
		Seq:          r.Seq,
		Kind:         r.Kind,
		OccurredAt:   r.OccurredAt,
		Comment:      r.Comment,
		TechnicianID: r.TechnicianID,
	}
}

func recordsToPrimaryEvents(records []*secondary.EventRecord) []*primary.Event {
	out := make([]*primary.Event, len(records))
	for i, r := range records {
		out[i] = recordToPrimaryEvent(r)
	}
	return out
}

func recordToSite(r *secondary.SiteRecord) site.Site {
	return site.Site{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		Address:     r.Address,
		Category:    site.Category(r.Category),
	}
}

func recordToPrimarySite(r *secondary.SiteRecord) *primary.Site {
	return &primary.Site{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		Address:     r.Address,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func recordToTechnician(r *secondary.TechnicianRecord) technician.Technician {
	return technician.Technician{
		ID:        r.ID,
		FullName:  r.FullName,
		Specialty: r.Specialty,
		Available: r.Available,
	}
}

func recordToPrimaryTechnician(r *secondary.TechnicianRecord) *primary.Technician {
	return &primary.Technician{
		ID:        r.ID,
		FullName:  r.FullName,
		Specialty: r.Specialty,
		Available: r.Available,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
