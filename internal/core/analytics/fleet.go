package analytics

import (
	"sort"
	"time"

	"github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/core/risk"
	"github.com/example/gmao/internal/core/site"
)

// HighRiskThreshold is the minimum score listed as high risk (moderate and above).
const HighRiskThreshold = risk.ModerateThreshold

// DefaultHighRiskLimit caps high-risk listings when no limit is given.
const DefaultHighRiskLimit = 10

// StateCounts breaks a set of elevators down by global state.
type StateCounts struct {
	Total       int
	Functional  int
	Faulty      int
	UnderRepair int
}

// CountStates tallies elevators per global state.
func CountStates(elevators []elevator.Elevator) StateCounts {
	c := StateCounts{Total: len(elevators)}
	for _, el := range elevators {
		switch el.State {
		case elevator.StateFunctional:
			c.Functional++
		case elevator.StateFaulty:
			c.Faulty++
		case elevator.StateUnderRepair:
			c.UnderRepair++
		}
	}
	return c
}

// AvailabilityRate is the rounded percentage of functional elevators.
// An empty fleet has a rate of 0.
func AvailabilityRate(elevators []elevator.Elevator) int {
	c := CountStates(elevators)
	if c.Total == 0 {
		return 0
	}
	return roundHalfUp(float64(c.Functional) / float64(c.Total) * 100)
}

// SiteSummary aggregates one site for the dashboard.
type SiteSummary struct {
	SiteID      string
	Name        string
	City        string
	Category    site.Category
	States      StateCounts
	AverageRisk int
	Trend       []int // events per day over the last 7 days, oldest first
}

// SummarizeSite builds the summary of a site from its own elevators.
// scores maps elevator id to risk score; missing entries count as 0.
func SummarizeSite(s site.Site, elevators []elevator.Elevator, events []elevator.Event, scores map[string]int, now time.Time) SiteSummary {
	ids := make(map[string]bool, len(elevators))
	total := 0
	for _, el := range elevators {
		ids[el.ID] = true
		total += scores[el.ID]
	}

	summary := SiteSummary{
		SiteID:   s.ID,
		Name:     s.Name,
		City:     s.City,
		Category: s.Category,
		States:   CountStates(elevators),
		Trend:    Trend(events, ids, now, 7),
	}
	if len(elevators) > 0 {
		summary.AverageRisk = roundHalfUp(float64(total) / float64(len(elevators)))
	}
	return summary
}

// CategoryCount is the size of the fleet in one site category.
type CategoryCount struct {
	Total      int
	Functional int
}

// CategoryBreakdown counts elevators per site category. Every known category
// is present; elevators of sites with an unknown category are skipped.
func CategoryBreakdown(sites []site.Site, elevators []elevator.Elevator) map[site.Category]CategoryCount {
	out := make(map[site.Category]CategoryCount, len(site.Categories()))
	for _, c := range site.Categories() {
		out[c] = CategoryCount{}
	}

	categoryOf := make(map[string]site.Category, len(sites))
	for _, s := range sites {
		categoryOf[s.ID] = s.Category
	}

	for _, el := range elevators {
		c, ok := categoryOf[el.SiteID]
		if !ok {
			continue
		}
		count, known := out[c]
		if !known {
			continue
		}
		count.Total++
		if el.State == elevator.StateFunctional {
			count.Functional++
		}
		out[c] = count
	}
	return out
}

// ScoredElevator pairs an elevator with its risk score.
type ScoredElevator struct {
	Elevator elevator.Elevator
	Score    risk.Score
}

// RankHighRisk keeps elevators scoring at least HighRiskThreshold, sorted by
// score descending, truncated to limit. A limit <= 0 uses DefaultHighRiskLimit.
func RankHighRisk(scored []ScoredElevator, limit int) []ScoredElevator {
	if limit <= 0 {
		limit = DefaultHighRiskLimit
	}

	out := make([]ScoredElevator, 0, len(scored))
	for _, s := range scored {
		if s.Score.Value >= HighRiskThreshold {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.Value > out[j].Score.Value
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
