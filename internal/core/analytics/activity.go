package analytics

import (
	"time"

	"github.com/example/gmao/internal/core/elevator"
)

// Trend counts events of the given elevators per day over the last days,
// oldest bucket first. Bucket i covers [now-(days-i)d, now-(days-i-1)d).
// A nil elevator set counts every elevator.
func Trend(events []elevator.Event, elevatorIDs map[string]bool, now time.Time, days int) []int {
	trend := make([]int, days)
	for i := 0; i < days; i++ {
		start, end := bucket(now, days-1-i)
		for _, e := range events {
			if elevatorIDs != nil && !elevatorIDs[e.ElevatorID] {
				continue
			}
			if inRange(e.OccurredAt, start, end) {
				trend[i]++
			}
		}
	}
	return trend
}

// DayActivity is one cell of the activity heatmap.
type DayActivity struct {
	Date    string // YYYY-MM-DD of the bucket start, UTC
	Count   int
	Faults  int
	Repairs int
}

// Heatmap builds daily activity over the last days, oldest first.
func Heatmap(events []elevator.Event, now time.Time, days int) []DayActivity {
	out := make([]DayActivity, 0, days)
	for i := days - 1; i >= 0; i-- {
		start, end := bucket(now, i)
		day := DayActivity{Date: start.UTC().Format("2006-01-02")}
		for _, e := range events {
			if !inRange(e.OccurredAt, start, end) {
				continue
			}
			day.Count++
			switch e.Kind {
			case elevator.EventFaultDeclared:
				day.Faults++
			case elevator.EventRepairFinished:
				day.Repairs++
			}
		}
		out = append(out, day)
	}
	return out
}

// bucket returns the window that ends offset days before now.
func bucket(now time.Time, offset int) (time.Time, time.Time) {
	end := now.Add(-time.Duration(offset) * Day)
	return end.Add(-Day), end
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
