// Package analytics provides read-only rollups over the event log and the fleet.
// This is part of the Functional Core - no I/O, only pure functions.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/core/technician"
)

// Day is the bucket width of every daily aggregate.
const Day = 24 * time.Hour

// Default windows used by the dashboard.
const (
	WeekWindow  = 7 * Day
	MonthWindow = 30 * Day
)

// CountKind counts events of the given kind at or after since.
func CountKind(events []elevator.Event, kind elevator.EventKind, since time.Time) int {
	count := 0
	for _, e := range events {
		if e.Kind == kind && !e.OccurredAt.Before(since) {
			count++
		}
	}
	return count
}

// MTTR is the mean time to repair over a window.
type MTTR struct {
	Mean   time.Duration
	Cycles int // completed fault -> repair_finished pairs
}

// Hours returns the mean rounded half up to whole hours.
func (m MTTR) Hours() int {
	return roundHalfUp(m.Mean.Hours())
}

// ComputeMTTR pairs every fault_declared inside the window with the first
// repair_finished of the same elevator strictly after it. Faults with no
// matching repair yet are ignored.
func ComputeMTTR(events []elevator.Event, now time.Time, window time.Duration) MTTR {
	since := now.Add(-window)
	byElevator := groupSorted(events)

	var total time.Duration
	cycles := 0
	for _, evts := range byElevator {
		for i, e := range evts {
			if e.Kind != elevator.EventFaultDeclared || e.OccurredAt.Before(since) {
				continue
			}
			if fin, ok := nextAfter(evts[i+1:], elevator.EventRepairFinished, e.OccurredAt, ""); ok {
				total += fin.OccurredAt.Sub(e.OccurredAt)
				cycles++
			}
		}
	}

	if cycles == 0 {
		return MTTR{}
	}
	return MTTR{Mean: total / time.Duration(cycles), Cycles: cycles}
}

// TechnicianStats is the 30-day performance of one technician.
type TechnicianStats struct {
	TechnicianID       string
	FullName           string
	Specialty          string
	Available          bool
	Interventions      int // repair_finished events signed by the technician in the window
	InProgress         int // elevators currently under repair with this technician
	AverageRepairHours int
}

// TechnicianPerformance rolls up every technician, sorted by interventions
// descending. Ties keep the input order.
func TechnicianPerformance(techs []technician.Technician, elevators []elevator.Elevator, events []elevator.Event, now time.Time, window time.Duration) []TechnicianStats {
	since := now.Add(-window)
	byElevator := groupSorted(events)

	stats := make([]TechnicianStats, 0, len(techs))
	for _, t := range techs {
		s := TechnicianStats{
			TechnicianID: t.ID,
			FullName:     t.FullName,
			Specialty:    t.Specialty,
			Available:    t.Available,
			InProgress:   CountInProgress(elevators, t.ID),
		}

		var total time.Duration
		matched := 0
		for _, evts := range byElevator {
			for i, e := range evts {
				if e.Kind != elevator.EventRepairFinished || e.TechnicianID != t.ID || e.OccurredAt.Before(since) {
					continue
				}
				s.Interventions++
				if start, ok := lastBefore(evts[:i], elevator.EventRepairStarted, e.OccurredAt, t.ID); ok {
					total += e.OccurredAt.Sub(start.OccurredAt)
					matched++
				}
			}
		}
		if matched > 0 {
			s.AverageRepairHours = roundHalfUp((total / time.Duration(matched)).Hours())
		}
		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Interventions > stats[j].Interventions
	})
	return stats
}

// CountInProgress counts elevators under repair by the given technician.
func CountInProgress(elevators []elevator.Elevator, technicianID string) int {
	count := 0
	for _, el := range elevators {
		if el.State == elevator.StateUnderRepair && el.TechnicianID == technicianID {
			count++
		}
	}
	return count
}

// groupSorted splits events per elevator, each slice in chronological order.
func groupSorted(events []elevator.Event) map[string][]elevator.Event {
	out := make(map[string][]elevator.Event)
	for _, e := range events {
		out[e.ElevatorID] = append(out[e.ElevatorID], e)
	}
	for id := range out {
		evts := out[id]
		sort.SliceStable(evts, func(i, j int) bool {
			return evts[i].OccurredAt.Before(evts[j].OccurredAt)
		})
	}
	return out
}

func nextAfter(evts []elevator.Event, kind elevator.EventKind, after time.Time, technicianID string) (elevator.Event, bool) {
	for _, e := range evts {
		if e.Kind != kind || !e.OccurredAt.After(after) {
			continue
		}
		if technicianID != "" && e.TechnicianID != technicianID {
			continue
		}
		return e, true
	}
	return elevator.Event{}, false
}

func lastBefore(evts []elevator.Event, kind elevator.EventKind, before time.Time, technicianID string) (elevator.Event, bool) {
	for i := len(evts) - 1; i >= 0; i-- {
		e := evts[i]
		if e.Kind != kind || !e.OccurredAt.Before(before) {
			continue
		}
		if technicianID != "" && e.TechnicianID != technicianID {
			continue
		}
		return e, true
	}
	return elevator.Event{}, false
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
