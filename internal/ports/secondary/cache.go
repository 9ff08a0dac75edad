package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by RiskCache.Get when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

// RiskCache defines the secondary port for caching computed risk scores.
type RiskCache interface {
	// Get retrieves the cached score of an elevator or ErrCacheMiss.
	Get(ctx context.Context, elevatorID string) (*RiskRecord, error)

	// Set stores a score for the given duration.
	Set(ctx context.Context, record *RiskRecord, ttl time.Duration) error

	// Invalidate drops the cached score of an elevator.
	Invalidate(ctx context.Context, elevatorID string) error
}

// RiskRecord is a computed risk score as stored in the cache.
type RiskRecord struct {
	ElevatorID      string    `json:"elevator_id"`
	Score           int       `json:"score"`
	Tier            string    `json:"tier"`
	Explanation     string    `json:"explanation"`
	RecentFaults    int       `json:"recent_faults"`
	DaysSinceRepair int       `json:"days_since_repair"`
	ComputedAt      time.Time `json:"computed_at"`
}

// EventPublisher defines the secondary port for the outbound event feed.
type EventPublisher interface {
	// Publish sends committed events to subscribers.
	Publish(ctx context.Context, events []*EventRecord) error

	// Close releases the underlying connection.
	Close() error
}
