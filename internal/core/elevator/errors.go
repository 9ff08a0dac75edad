package elevator

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Match with errors.Is.
var (
	// ErrInvalidTransition means the current state does not satisfy the precondition.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrAlreadyAssigned means the fault already has a technician.
	ErrAlreadyAssigned = errors.New("technician already assigned")
	// ErrMissingTechnician means a technician id is required but absent.
	ErrMissingTechnician = errors.New("missing technician")
	// ErrInvalidArgument means the caller supplied unusable input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Operation names a state-machine operation.
type Operation string

const (
	OpDeclareFault     Operation = "declare_fault"
	OpAssignTechnician Operation = "assign_technician"
	OpStartRepair      Operation = "start_repair"
	OpCloseRepair      Operation = "close_repair"
	OpComment          Operation = "comment"
)

// ParseOperation converts an action name into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpDeclareFault, OpAssignTechnician, OpStartRepair, OpCloseRepair:
		return Operation(s), nil
	default:
		return "", fmt.Errorf("unknown action %q: %w", s, ErrInvalidArgument)
	}
}

// TransitionError describes a rejected operation.
// It carries the state observed on the snapshot for diagnostics.
type TransitionError struct {
	Op         Operation
	ElevatorID string
	State      GlobalState
	SubState   FaultSubState
	Kind       error
	Reason     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s elevator %s: %s", e.Op, e.ElevatorID, e.Reason)
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *TransitionError) Unwrap() error {
	return e.Kind
}

func reject(op Operation, el Elevator, kind error, format string, args ...any) *TransitionError {
	return &TransitionError{
		Op:         op,
		ElevatorID: el.ID,
		State:      el.State,
		SubState:   el.SubState,
		Kind:       kind,
		Reason:     fmt.Sprintf(format, args...),
	}
}
