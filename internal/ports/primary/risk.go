package primary

import (
	"context"
	"time"
)

// RiskService defines the primary port for predictive risk scoring.
type RiskService interface {
	// GetRiskScore computes (or reads from cache) the risk of one elevator.
	GetRiskScore(ctx context.Context, elevatorID string) (*RiskScore, error)

	// ListHighRisk retrieves elevators scoring moderate or high, highest first.
	// A limit <= 0 uses the default of 10.
	ListHighRisk(ctx context.Context, limit int) ([]*ElevatorRisk, error)
}

// RiskScore represents a risk assessment at the port boundary.
type RiskScore struct {
	ElevatorID      string    `json:"elevator_id"`
	Score           int       `json:"score"`
	Tier            string    `json:"tier"`
	Explanation     string    `json:"explanation"`
	RecentFaults    int       `json:"recent_faults"`
	DaysSinceRepair int       `json:"days_since_repair"`
	ComputedAt      time.Time `json:"computed_at"`
}

// ElevatorRisk pairs an elevator with its risk.
type ElevatorRisk struct {
	Elevator *Elevator  `json:"elevator"`
	Risk     *RiskScore `json:"risk"`
}
