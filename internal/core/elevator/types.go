// Package elevator contains the pure business logic for the elevator lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package elevator

import (
	"fmt"
	"time"
)

// GlobalState represents the top-level status of an elevator.
type GlobalState string

const (
	StateFunctional  GlobalState = "functional"
	StateFaulty      GlobalState = "faulty"
	StateUnderRepair GlobalState = "under_repair"
)

// FaultSubState refines StateFaulty. It is empty in every other state.
type FaultSubState string

const (
	SubStateNone              FaultSubState = ""
	SubStatePendingAssignment FaultSubState = "pending_assignment"
	SubStateAssigned          FaultSubState = "assigned"
)

// EventKind is the closed vocabulary of the audit trail.
type EventKind string

const (
	EventFaultDeclared     EventKind = "fault_declared"
	EventFaultAssigned     EventKind = "fault_assigned"
	EventRepairStarted     EventKind = "repair_started"
	EventRepairFinished    EventKind = "repair_finished"
	EventReturnedToService EventKind = "returned_to_service"
	EventComment           EventKind = "comment"
)

// ParseGlobalState converts a stored string into a GlobalState.
func ParseGlobalState(s string) (GlobalState, error) {
	switch GlobalState(s) {
	case StateFunctional, StateFaulty, StateUnderRepair:
		return GlobalState(s), nil
	default:
		return "", fmt.Errorf("unknown elevator state %q", s)
	}
}

// ParseFaultSubState converts a stored string into a FaultSubState.
// The empty string is valid and means "no sub-state".
func ParseFaultSubState(s string) (FaultSubState, error) {
	switch FaultSubState(s) {
	case SubStateNone, SubStatePendingAssignment, SubStateAssigned:
		return FaultSubState(s), nil
	default:
		return "", fmt.Errorf("unknown fault sub-state %q", s)
	}
}

// ParseEventKind converts a stored string into an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case EventFaultDeclared, EventFaultAssigned, EventRepairStarted,
		EventRepairFinished, EventReturnedToService, EventComment:
		return EventKind(s), nil
	default:
		return "", fmt.Errorf("unknown event kind %q", s)
	}
}

// Elevator is an immutable snapshot of one elevator.
// Transitions never modify a snapshot; they return a new one.
type Elevator struct {
	ID           string
	Name         string
	Reference    string // optional technical reference
	SiteID       string
	State        GlobalState
	SubState     FaultSubState
	TechnicianID string // empty means no technician assigned
	Version      int
}

// HasTechnician reports whether a technician is recorded on the snapshot.
func (e Elevator) HasTechnician() bool {
	return e.TechnicianID != ""
}

// Event is one immutable entry of the audit trail.
type Event struct {
	ID           string
	ElevatorID   string
	Kind         EventKind
	OccurredAt   time.Time
	Comment      string
	TechnicianID string
}

// TransitionResult is the output of a successful transition: the new snapshot
// plus the events to append, in emission order.
type TransitionResult struct {
	Elevator Elevator
	Events   []Event
}

// Assignee is the technician data a fault assignment needs.
type Assignee struct {
	ID       string
	FullName string
}

// InitialState returns the state of a newly created elevator.
func InitialState() GlobalState {
	return StateFunctional
}
