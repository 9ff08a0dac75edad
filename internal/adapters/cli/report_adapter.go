package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/example/gmao/internal/ports/primary"
)

// ReportAdapter prints fleet-wide risk and analytics reports.
type ReportAdapter struct {
	risk      primary.RiskService
	analytics primary.AnalyticsService
	out       io.Writer
}

// NewReportAdapter creates a new ReportAdapter.
func NewReportAdapter(risk primary.RiskService, analytics primary.AnalyticsService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		risk:      risk,
		analytics: analytics,
		out:       out,
	}
}

// TopRisk prints the elevators scoring moderate or high, highest first.
func (a *ReportAdapter) TopRisk(ctx context.Context, limit int) ([]*primary.ElevatorRisk, error) {
	ranked, err := a.risk.ListHighRisk(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank elevators: %w", err)
	}

	if len(ranked) == 0 {
		fmt.Fprintln(a.out, green.Sprint("No elevator at risk."))
		return ranked, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ELEVATOR\tSITE\tSTATE\tRISK\tFAULTS (30D)\tEXPLANATION")
	fmt.Fprintln(w, "--------\t----\t-----\t----\t------------\t-----------")
	for _, r := range ranked {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Elevator.ID,
			r.Elevator.SiteID,
			stateLabel(r.Elevator.State, r.Elevator.SubState),
			tierLabel(r.Risk.Score, r.Risk.Tier),
			r.Risk.RecentFaults,
			r.Risk.Explanation,
		)
	}
	w.Flush()

	return ranked, nil
}

// Dashboard prints the fleet overview.
func (a *ReportAdapter) Dashboard(ctx context.Context) (*primary.Dashboard, error) {
	d, err := a.analytics.GetDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}

	fmt.Fprintf(a.out, "\n%s (%s)\n", bold.Sprint("Fleet overview"), d.GeneratedAt.UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "Elevators:    %d on %d sites, %d technicians\n", d.TotalElevators, d.TotalSites, d.TotalTechnicians)
	fmt.Fprintf(a.out, "Availability: %d%%\n", d.AvailabilityRate)
	fmt.Fprintf(a.out, "MTTR:         %dh\n", d.MTTRHours)
	fmt.Fprintf(a.out, "Faults:       %d (7d), %d (30d)\n", d.FaultsLast7Days, d.FaultsLast30Days)
	fmt.Fprintf(a.out, "In repair:    %d\n", d.RepairsOngoing)

	if len(d.Sites) > 0 {
		fmt.Fprintln(a.out)
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SITE\tNAME\tTOTAL\tFUNCTIONAL\tFAULTY\tREPAIR\tAVG RISK\tTREND 7D")
		fmt.Fprintln(w, "----\t----\t-----\t----------\t------\t------\t--------\t--------")
		for _, s := range d.Sites {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%v\n",
				s.SiteID, s.Name, s.Total, s.Functional, s.Faulty, s.UnderRepair, s.AverageRisk, s.Trend)
		}
		w.Flush()
	}

	if len(d.Technicians) > 0 {
		fmt.Fprintln(a.out)
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TECHNICIAN\tNAME\tAVAILABLE\tINTERVENTIONS\tIN PROGRESS\tAVG REPAIR")
		fmt.Fprintln(w, "----------\t----\t---------\t-------------\t-----------\t----------")
		for _, t := range d.Technicians {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dh\n",
				t.TechnicianID, t.FullName, availability(t.Available), t.Interventions, t.InProgress, t.AverageRepairHours)
		}
		w.Flush()
	}

	if len(d.Categories) > 0 {
		fmt.Fprintln(a.out)
		names := make([]string, 0, len(d.Categories))
		for name := range d.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c := d.Categories[name]
			fmt.Fprintf(a.out, "%-12s %d/%d functional\n", name+":", c.Functional, c.Total)
		}
	}
	fmt.Fprintln(a.out)

	return d, nil
}
