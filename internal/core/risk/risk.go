// Package risk computes the predictive failure-risk score of an elevator.
// This is part of the Functional Core - no I/O, only pure functions.
package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/core/site"
)

// Tier is the discrete risk level derived from a score.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// Scoring constants.
const (
	RecentWindow      = 30 * 24 * time.Hour
	FaultWeight       = 15.0
	NoRepairDays      = 365
	DaysPerPoint      = 10.0
	BonusFaulty       = 20.0
	BonusUnderRepair  = 15.0
	HighThreshold     = 70
	ModerateThreshold = 40
	MinScore          = 0
	MaxScore          = 100
)

// Factors are the intermediate values of the score computation.
type Factors struct {
	RecentFaults     int
	DaysSinceRepair  int
	HasRepairHistory bool
	FaultComponent   float64
	TimeComponent    float64
	Coefficient      float64
	StateBonus       float64
	Raw              float64 // before clamping and rounding
}

// Score is the derived, non-persisted risk assessment of one elevator.
type Score struct {
	Value       int
	Tier        Tier
	Explanation string
	Factors     Factors
}

// Compute scores an elevator from its snapshot, the complete event log and
// its owning site. Events for other elevators are ignored.
func Compute(el elevator.Elevator, events []elevator.Event, s site.Site, now time.Time) Score {
	f := ComputeFactors(el, events, s, now)
	value := FinalScore(f.Raw)
	tier := TierFor(value)
	return Score{
		Value:       value,
		Tier:        tier,
		Explanation: Explain(f, tier, s.Category),
		Factors:     f,
	}
}

// ComputeFactors derives every intermediate value of the score.
func ComputeFactors(el elevator.Elevator, events []elevator.Event, s site.Site, now time.Time) Factors {
	f := Factors{
		RecentFaults:    countRecentFaults(events, el.ID, now),
		DaysSinceRepair: NoRepairDays,
		Coefficient:     site.Coefficient(s.Category),
		StateBonus:      StateBonus(el.State),
	}

	if last, ok := lastRepair(events, el.ID); ok {
		f.HasRepairHistory = true
		f.DaysSinceRepair = daysBetween(last, now)
	}

	f.FaultComponent = float64(f.RecentFaults) * FaultWeight
	f.TimeComponent = float64(f.DaysSinceRepair) / DaysPerPoint
	f.Raw = (f.FaultComponent+f.TimeComponent)*f.Coefficient + f.StateBonus
	return f
}

// FinalScore clamps the raw score to [0,100] and rounds half up.
func FinalScore(raw float64) int {
	clamped := math.Max(MinScore, math.Min(MaxScore, raw))
	return int(math.Floor(clamped + 0.5))
}

// TierFor maps a score to its tier. Lower bounds are inclusive.
func TierFor(score int) Tier {
	switch {
	case score >= HighThreshold:
		return TierHigh
	case score >= ModerateThreshold:
		return TierModerate
	default:
		return TierLow
	}
}

// StateBonus returns the risk added by the current global state.
func StateBonus(state elevator.GlobalState) float64 {
	switch state {
	case elevator.StateFaulty:
		return BonusFaulty
	case elevator.StateUnderRepair:
		return BonusUnderRepair
	case elevator.StateFunctional:
		return 0
	default:
		return 0
	}
}

// Explain renders the templated explanation for a score.
func Explain(f Factors, tier Tier, category site.Category) string {
	var b strings.Builder

	switch tier {
	case TierHigh:
		b.WriteString("High failure risk. ")
	case TierModerate:
		b.WriteString("Moderate failure risk. ")
	default:
		b.WriteString("Low failure risk. ")
	}

	switch {
	case f.RecentFaults == 0:
		b.WriteString("No recent faults recorded. ")
	case f.RecentFaults == 1:
		b.WriteString("1 fault recorded in the last 30 days. ")
	default:
		fmt.Fprintf(&b, "%d faults recorded in the last 30 days. ", f.RecentFaults)
	}

	switch {
	case !f.HasRepairHistory:
		b.WriteString("No repair history available. ")
	case f.DaysSinceRepair < 7:
		b.WriteString("Very recent repair (under 7 days). ")
	case f.DaysSinceRepair < 30:
		fmt.Fprintf(&b, "Last repair %d days ago. ", f.DaysSinceRepair)
	default:
		months := f.DaysSinceRepair / 30
		unit := "months"
		if months == 1 {
			unit = "month"
		}
		fmt.Fprintf(&b, "Last repair more than %d %s ago. ", months, unit)
	}

	b.WriteString(site.UsagePhrase(category))
	return b.String()
}

func countRecentFaults(events []elevator.Event, elevatorID string, now time.Time) int {
	threshold := now.Add(-RecentWindow)
	count := 0
	for _, e := range events {
		if e.ElevatorID == elevatorID && e.Kind == elevator.EventFaultDeclared && !e.OccurredAt.Before(threshold) {
			count++
		}
	}
	return count
}

func lastRepair(events []elevator.Event, elevatorID string) (time.Time, bool) {
	var last time.Time
	found := false
	for _, e := range events {
		if e.ElevatorID != elevatorID || e.Kind != elevator.EventRepairFinished {
			continue
		}
		if !found || e.OccurredAt.After(last) {
			last = e.OccurredAt
			found = true
		}
	}
	return last, found
}

// daysBetween counts whole days from then to now. A repair recorded in the
// future counts as zero days ago.
func daysBetween(then, now time.Time) int {
	d := now.Sub(then)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
