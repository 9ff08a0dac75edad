package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/example/gmao/internal/ports/primary"
)

// ElevatorAdapter translates CLI operations to ElevatorService and RiskService calls.
type ElevatorAdapter struct {
	service primary.ElevatorService
	risk    primary.RiskService
	out     io.Writer
}

// NewElevatorAdapter creates a new ElevatorAdapter.
func NewElevatorAdapter(service primary.ElevatorService, risk primary.RiskService, out io.Writer) *ElevatorAdapter {
	return &ElevatorAdapter{
		service: service,
		risk:    risk,
		out:     out,
	}
}

// Create registers an elevator on a site.
func (a *ElevatorAdapter) Create(ctx context.Context, name, reference, siteID string) (*primary.Elevator, error) {
	resp, err := a.service.CreateElevator(ctx, primary.CreateElevatorRequest{
		Name:      name,
		Reference: reference,
		SiteID:    siteID,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created elevator %s: %s\n", resp.ElevatorID, resp.Elevator.Name)
	fmt.Fprintf(a.out, "  Site: %s\n", resp.Elevator.SiteID)
	return resp.Elevator, nil
}

// List lists elevators with optional site and state filters.
func (a *ElevatorAdapter) List(ctx context.Context, siteID, state string) ([]*primary.Elevator, error) {
	elevators, err := a.service.ListElevators(ctx, primary.ElevatorFilters{SiteID: siteID, State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to list elevators: %w", err)
	}

	if len(elevators) == 0 {
		fmt.Fprintln(a.out, "No elevators found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Register one:")
		fmt.Fprintln(a.out, "  gmao elevator create \"Ascenseur A\" --site SITE-001")
		return elevators, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSITE\tSTATE\tTECHNICIAN")
	fmt.Fprintln(w, "--\t----\t----\t-----\t----------")
	for _, e := range elevators {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Name,
			e.SiteID,
			stateLabel(e.State, e.SubState),
			orDash(e.TechnicianID),
		)
	}
	w.Flush()

	return elevators, nil
}

// Show displays an elevator with its current risk score.
func (a *ElevatorAdapter) Show(ctx context.Context, elevatorID string) (*primary.Elevator, error) {
	elevator, err := a.service.GetElevator(ctx, elevatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get elevator: %w", err)
	}

	fmt.Fprintf(a.out, "\nElevator: %s\n", bold.Sprint(elevator.ID))
	fmt.Fprintf(a.out, "Name:       %s\n", elevator.Name)
	fmt.Fprintf(a.out, "Reference:  %s\n", orDash(elevator.Reference))
	fmt.Fprintf(a.out, "Site:       %s\n", elevator.SiteID)
	fmt.Fprintf(a.out, "State:      %s\n", stateLabel(elevator.State, elevator.SubState))
	fmt.Fprintf(a.out, "Technician: %s\n", orDash(elevator.TechnicianID))
	fmt.Fprintf(a.out, "Version:    %d\n", elevator.Version)

	if a.risk != nil {
		score, err := a.risk.GetRiskScore(ctx, elevatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute risk: %w", err)
		}
		fmt.Fprintf(a.out, "Risk:       %s\n", tierLabel(score.Score, score.Tier))
		fmt.Fprintf(a.out, "            %s\n", score.Explanation)
	}
	fmt.Fprintln(a.out)

	return elevator, nil
}

// History prints the event log of an elevator in order.
func (a *ElevatorAdapter) History(ctx context.Context, elevatorID string) ([]*primary.Event, error) {
	events, err := a.service.GetHistory(ctx, elevatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if len(events) == 0 {
		fmt.Fprintf(a.out, "No events recorded for %s.\n", elevatorID)
		return events, nil
	}

	printEvents(a.out, events, false)
	return events, nil
}

// Recent prints the newest events across the fleet.
func (a *ElevatorAdapter) Recent(ctx context.Context, limit int) ([]*primary.Event, error) {
	events, err := a.service.ListRecentEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events recorded.")
		return events, nil
	}

	printEvents(a.out, events, true)
	return events, nil
}

func printEvents(out io.Writer, events []*primary.Event, withElevator bool) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	if withElevator {
		fmt.Fprintln(w, "WHEN\tELEVATOR\tKIND\tTECHNICIAN\tCOMMENT")
		fmt.Fprintln(w, "----\t--------\t----\t----------\t-------")
	} else {
		fmt.Fprintln(w, "#\tWHEN\tKIND\tTECHNICIAN\tCOMMENT")
		fmt.Fprintln(w, "-\t----\t----\t----------\t-------")
	}
	for _, e := range events {
		when := e.OccurredAt.UTC().Format(time.DateTime)
		if withElevator {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", when, e.ElevatorID, e.Kind, orDash(e.TechnicianID), e.Comment)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Seq, when, e.Kind, orDash(e.TechnicianID), e.Comment)
		}
	}
	w.Flush()
}

// Update changes the name and technical reference of an elevator.
func (a *ElevatorAdapter) Update(ctx context.Context, elevatorID, name, reference string) (*primary.Elevator, error) {
	elevator, err := a.service.UpdateElevator(ctx, primary.UpdateElevatorRequest{
		ElevatorID: elevatorID,
		Name:       name,
		Reference:  reference,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Elevator %s updated (version %d)\n", elevator.ID, elevator.Version)
	return elevator, nil
}

// DeclareFault reports a fault on a functional elevator.
func (a *ElevatorAdapter) DeclareFault(ctx context.Context, elevatorID, comment string) (*primary.TransitionResponse, error) {
	resp, err := a.service.DeclareFault(ctx, primary.DeclareFaultRequest{ElevatorID: elevatorID, Comment: comment})
	if err != nil {
		return nil, err
	}
	a.printTransition("Fault declared on", resp)
	return resp, nil
}

// Assign assigns a technician to a pending fault.
func (a *ElevatorAdapter) Assign(ctx context.Context, elevatorID, technicianID string) (*primary.TransitionResponse, error) {
	resp, err := a.service.AssignTechnician(ctx, primary.AssignTechnicianRequest{ElevatorID: elevatorID, TechnicianID: technicianID})
	if err != nil {
		return nil, err
	}
	a.printTransition("Technician assigned to", resp)
	return resp, nil
}

// StartRepair starts the repair of an assigned fault.
func (a *ElevatorAdapter) StartRepair(ctx context.Context, elevatorID string) (*primary.TransitionResponse, error) {
	resp, err := a.service.StartRepair(ctx, elevatorID)
	if err != nil {
		return nil, err
	}
	a.printTransition("Repair started on", resp)
	return resp, nil
}

// CloseRepair returns an elevator under repair to service.
func (a *ElevatorAdapter) CloseRepair(ctx context.Context, elevatorID, comment string) (*primary.TransitionResponse, error) {
	resp, err := a.service.CloseRepair(ctx, primary.CloseRepairRequest{ElevatorID: elevatorID, Comment: comment})
	if err != nil {
		return nil, err
	}
	a.printTransition("Repair closed on", resp)
	return resp, nil
}

func (a *ElevatorAdapter) printTransition(verb string, resp *primary.TransitionResponse) {
	fmt.Fprintf(a.out, "✓ %s %s\n", verb, resp.Elevator.ID)
	fmt.Fprintf(a.out, "  State: %s\n", stateLabel(resp.Elevator.State, resp.Elevator.SubState))
	if resp.Elevator.TechnicianID != "" {
		fmt.Fprintf(a.out, "  Technician: %s\n", resp.Elevator.TechnicianID)
	}
	for _, e := range resp.Events {
		fmt.Fprintf(a.out, "  + %s\n", e.Kind)
	}
}

// Comment appends a manual note to the history.
func (a *ElevatorAdapter) Comment(ctx context.Context, elevatorID, text, technicianID string) (*primary.Event, error) {
	event, err := a.service.AddComment(ctx, primary.AddCommentRequest{
		ElevatorID:   elevatorID,
		Text:         text,
		TechnicianID: technicianID,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Comment added to %s (#%d)\n", elevatorID, event.Seq)
	return event, nil
}

// Move reassigns an elevator to another site.
func (a *ElevatorAdapter) Move(ctx context.Context, elevatorID, siteID string) (*primary.Elevator, error) {
	elevator, err := a.service.MoveElevator(ctx, primary.MoveElevatorRequest{ElevatorID: elevatorID, TargetSiteID: siteID})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Elevator %s moved to %s\n", elevator.ID, elevator.SiteID)
	return elevator, nil
}

// Delete removes an elevator and its history.
func (a *ElevatorAdapter) Delete(ctx context.Context, elevatorID string) error {
	if err := a.service.DeleteElevator(ctx, elevatorID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Elevator %s deleted\n", elevatorID)
	return nil
}

// Risk prints the risk score of one elevator.
func (a *ElevatorAdapter) Risk(ctx context.Context, elevatorID string) (*primary.RiskScore, error) {
	score, err := a.risk.GetRiskScore(ctx, elevatorID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "%s: %s\n", elevatorID, tierLabel(score.Score, score.Tier))
	fmt.Fprintf(a.out, "  %s\n", score.Explanation)
	fmt.Fprintf(a.out, "  Faults (30d): %d, days since repair: %d\n", score.RecentFaults, score.DaysSinceRepair)
	return score, nil
}
