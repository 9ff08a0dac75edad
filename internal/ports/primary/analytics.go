package primary

import (
	"context"
	"time"
)

// AnalyticsService defines the primary port for fleet-wide rollups.
type AnalyticsService interface {
	// GetDashboard computes every dashboard aggregate at once.
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

// Dashboard is the fleet overview.
type Dashboard struct {
	GeneratedAt      time.Time                `json:"generated_at"`
	TotalElevators   int                      `json:"total_elevators"`
	TotalSites       int                      `json:"total_sites"`
	TotalTechnicians int                      `json:"total_technicians"`
	AvailabilityRate int                      `json:"availability_rate"` // percent functional
	MTTRHours        int                      `json:"mttr_hours"`
	FaultsLast7Days  int                      `json:"faults_last_7_days"`
	FaultsLast30Days int                      `json:"faults_last_30_days"`
	RepairsOngoing   int                      `json:"repairs_ongoing"`
	Sites            []SiteSummary            `json:"sites"`
	Technicians      []TechnicianPerformance  `json:"technicians"`
	Activity         []DayActivity            `json:"activity"`
	Categories       map[string]CategoryCount `json:"categories"`
}

// SiteSummary aggregates one site on the dashboard.
type SiteSummary struct {
	SiteID      string `json:"site_id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Category    string `json:"category"`
	Total       int    `json:"total"`
	Functional  int    `json:"functional"`
	Faulty      int    `json:"faulty"`
	UnderRepair int    `json:"under_repair"`
	AverageRisk int    `json:"average_risk"`
	Trend       []int  `json:"trend_7d"`
}

// TechnicianPerformance is the 30-day activity of a technician.
type TechnicianPerformance struct {
	TechnicianID       string `json:"technician_id"`
	FullName           string `json:"full_name"`
	Specialty          string `json:"specialty"`
	Available          bool   `json:"available"`
	Interventions      int    `json:"interventions_30d"`
	InProgress         int    `json:"in_progress"`
	AverageRepairHours int    `json:"average_repair_hours"`
}

// DayActivity is one day of the activity heatmap.
type DayActivity struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Faults  int    `json:"faults"`
	Repairs int    `json:"repairs"`
}

// CategoryCount is the fleet size of one site category.
type CategoryCount struct {
	Total      int `json:"total"`
	Functional int `json:"functional"`
}
