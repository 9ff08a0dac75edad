package elevator

import (
	"fmt"
	"strings"
	"time"
)

// Default event comments.
const (
	CommentRepairStarted     = "Repair started"
	CommentRepairFinished    = "Repair completed"
	CommentReturnedToService = "Elevator returned to service"
)

// Validate checks that the snapshot is one of the four legal combinations:
//
//	functional   / -                  / no technician
//	faulty       / pending_assignment / no technician
//	faulty       / assigned           / technician
//	under_repair / -                  / technician
//
// The returned error wraps ErrMissingTechnician when only the technician is
// missing, ErrInvalidTransition otherwise.
func Validate(el Elevator) error {
	switch el.State {
	case StateFunctional:
		if el.SubState != SubStateNone {
			return fmt.Errorf("functional elevator %s has fault sub-state %q: %w", el.ID, el.SubState, ErrInvalidTransition)
		}
		if el.HasTechnician() {
			return fmt.Errorf("functional elevator %s has technician %s: %w", el.ID, el.TechnicianID, ErrInvalidTransition)
		}
	case StateFaulty:
		switch el.SubState {
		case SubStatePendingAssignment:
			if el.HasTechnician() {
				return fmt.Errorf("elevator %s is pending assignment but has technician %s: %w", el.ID, el.TechnicianID, ErrInvalidTransition)
			}
		case SubStateAssigned:
			if !el.HasTechnician() {
				return fmt.Errorf("elevator %s is assigned but has no technician: %w", el.ID, ErrMissingTechnician)
			}
		default:
			return fmt.Errorf("faulty elevator %s has fault sub-state %q: %w", el.ID, el.SubState, ErrInvalidTransition)
		}
	case StateUnderRepair:
		if el.SubState != SubStateNone {
			return fmt.Errorf("elevator %s under repair has fault sub-state %q: %w", el.ID, el.SubState, ErrInvalidTransition)
		}
		if !el.HasTechnician() {
			return fmt.Errorf("elevator %s under repair has no technician: %w", el.ID, ErrMissingTechnician)
		}
	default:
		return fmt.Errorf("elevator %s has unknown state %q: %w", el.ID, el.State, ErrInvalidTransition)
	}
	return nil
}

// Machine applies lifecycle transitions to elevator snapshots.
// It holds no state of its own; NewID only names the emitted events.
type Machine struct {
	// NewID returns a fresh event id. When nil, ids are derived from the
	// elevator id, the timestamp and the position in the batch.
	NewID func() string
}

func (m Machine) event(el Elevator, kind EventKind, now time.Time, position int, technicianID, comment string) Event {
	var id string
	if m.NewID != nil {
		id = m.NewID()
	} else {
		id = fmt.Sprintf("evt-%s-%d-%d", el.ID, now.UnixNano(), position)
	}
	return Event{
		ID:           id,
		ElevatorID:   el.ID,
		Kind:         kind,
		OccurredAt:   now,
		Comment:      comment,
		TechnicianID: technicianID,
	}
}

// DeclareFault moves a functional elevator to faulty / pending_assignment.
// The comment is stored verbatim on the fault_declared event.
func (m Machine) DeclareFault(el Elevator, comment string, now time.Time) (TransitionResult, error) {
	if el.State != StateFunctional {
		return TransitionResult{}, reject(OpDeclareFault, el, ErrInvalidTransition,
			"elevator must be %s (current state: %s)", StateFunctional, el.State)
	}
	if err := Validate(el); err != nil {
		return TransitionResult{}, reject(OpDeclareFault, el, ErrInvalidTransition, "inconsistent snapshot: %v", err)
	}

	next := el
	next.State = StateFaulty
	next.SubState = SubStatePendingAssignment
	next.TechnicianID = ""

	return TransitionResult{
		Elevator: next,
		Events:   []Event{m.event(el, EventFaultDeclared, now, 0, "", comment)},
	}, nil
}

// AssignTechnician records a technician on a fault pending assignment.
// It never reassigns: an already assigned fault fails with ErrAlreadyAssigned.
func (m Machine) AssignTechnician(el Elevator, technicianID string, tech Assignee, now time.Time) (TransitionResult, error) {
	if el.State != StateFaulty {
		return TransitionResult{}, reject(OpAssignTechnician, el, ErrInvalidTransition,
			"elevator must be %s (current state: %s)", StateFaulty, el.State)
	}
	if el.SubState == SubStateAssigned {
		return TransitionResult{}, reject(OpAssignTechnician, el, ErrAlreadyAssigned,
			"fault is already assigned to technician %s", el.TechnicianID)
	}
	if el.SubState != SubStatePendingAssignment {
		return TransitionResult{}, reject(OpAssignTechnician, el, ErrInvalidTransition,
			"fault must be %s (current sub-state: %q)", SubStatePendingAssignment, el.SubState)
	}
	if el.HasTechnician() {
		return TransitionResult{}, reject(OpAssignTechnician, el, ErrInvalidTransition,
			"inconsistent snapshot: pending fault already carries technician %s", el.TechnicianID)
	}
	if strings.TrimSpace(technicianID) == "" {
		return TransitionResult{}, reject(OpAssignTechnician, el, ErrMissingTechnician, "technician id is required")
	}
	if tech.ID != "" && tech.ID != technicianID {
		return TransitionResult{}, reject(OpAssignTechnician, el, ErrInvalidArgument,
			"technician record %s does not match requested technician %s", tech.ID, technicianID)
	}

	next := el
	next.SubState = SubStateAssigned
	next.TechnicianID = technicianID

	name := tech.FullName
	if name == "" {
		name = technicianID
	}
	comment := fmt.Sprintf("Fault assigned to %s (%s)", name, technicianID)

	return TransitionResult{
		Elevator: next,
		Events:   []Event{m.event(el, EventFaultAssigned, now, 0, technicianID, comment)},
	}, nil
}

// StartRepair moves an assigned fault to under_repair, keeping the technician.
func (m Machine) StartRepair(el Elevator, now time.Time) (TransitionResult, error) {
	if el.State != StateFaulty {
		return TransitionResult{}, reject(OpStartRepair, el, ErrInvalidTransition,
			"elevator must be %s (current state: %s)", StateFaulty, el.State)
	}
	if el.SubState != SubStateAssigned {
		return TransitionResult{}, reject(OpStartRepair, el, ErrInvalidTransition,
			"no technician assigned yet (current sub-state: %s)", el.SubState)
	}
	if !el.HasTechnician() {
		return TransitionResult{}, reject(OpStartRepair, el, ErrMissingTechnician,
			"fault is marked assigned but carries no technician")
	}

	next := el
	next.State = StateUnderRepair
	next.SubState = SubStateNone

	return TransitionResult{
		Elevator: next,
		Events:   []Event{m.event(el, EventRepairStarted, now, 0, el.TechnicianID, CommentRepairStarted)},
	}, nil
}

// CloseRepair returns an elevator under repair to service.
// It always emits repair_finished followed by returned_to_service.
func (m Machine) CloseRepair(el Elevator, comment string, now time.Time) (TransitionResult, error) {
	if el.State != StateUnderRepair {
		return TransitionResult{}, reject(OpCloseRepair, el, ErrInvalidTransition,
			"elevator must be %s (current state: %s)", StateUnderRepair, el.State)
	}
	if !el.HasTechnician() {
		return TransitionResult{}, reject(OpCloseRepair, el, ErrMissingTechnician,
			"elevator under repair carries no technician")
	}
	if el.SubState != SubStateNone {
		return TransitionResult{}, reject(OpCloseRepair, el, ErrInvalidTransition,
			"inconsistent snapshot: fault sub-state %q under repair", el.SubState)
	}

	if strings.TrimSpace(comment) == "" {
		comment = CommentRepairFinished
	}
	technicianID := el.TechnicianID

	next := el
	next.State = StateFunctional
	next.SubState = SubStateNone
	next.TechnicianID = ""

	return TransitionResult{
		Elevator: next,
		Events: []Event{
			m.event(el, EventRepairFinished, now, 0, technicianID, comment),
			m.event(el, EventReturnedToService, now, 1, technicianID, CommentReturnedToService),
		},
	}, nil
}

// Comment builds a manual annotation event. It does not touch the snapshot.
func (m Machine) Comment(el Elevator, text, technicianID string, now time.Time) (Event, error) {
	result := CanComment(CommentContext{ElevatorID: el.ID, Text: text})
	if !result.Allowed {
		return Event{}, reject(OpComment, el, ErrInvalidArgument, "%s", result.Reason)
	}
	return m.event(el, EventComment, now, 0, technicianID, text), nil
}

// Apply dispatches an operation by name. Assignee is only read for
// OpAssignTechnician and comment only for OpDeclareFault and OpCloseRepair.
func (m Machine) Apply(op Operation, el Elevator, tech Assignee, comment string, now time.Time) (TransitionResult, error) {
	switch op {
	case OpDeclareFault:
		return m.DeclareFault(el, comment, now)
	case OpAssignTechnician:
		return m.AssignTechnician(el, tech.ID, tech, now)
	case OpStartRepair:
		return m.StartRepair(el, now)
	case OpCloseRepair:
		return m.CloseRepair(el, comment, now)
	default:
		return TransitionResult{}, reject(op, el, ErrInvalidArgument, "unknown operation")
	}
}
