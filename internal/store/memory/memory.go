// Package memory provides an in-memory document store for tests and local
// development without a MongoDB instance.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solrecover/claim-api/internal/domain"
)

// Store keeps the three collections in mutex-guarded slices.
type Store struct {
	mu         sync.RWMutex
	activities []domain.Activity
	metrics    []domain.Metric
	claims     []domain.Claim
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{}
}

// InsertClaim implements domain.Store.
func (s *Store) InsertClaim(ctx context.Context, claim domain.Claim) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim.ID = uuid.NewString()
	if claim.Accounts == nil {
		claim.Accounts = []string{}
	}
	s.claims = append(s.claims, claim)
	return claim.ID, nil
}

// InsertActivity implements domain.Store.
func (s *Store) InsertActivity(ctx context.Context, activity domain.Activity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity.ID = uuid.NewString()
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}
	s.activities = append(s.activities, activity)
	return activity.ID, nil
}

// InsertMetric implements domain.Store.
func (s *Store) InsertMetric(ctx context.Context, metric domain.Metric) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric.ID = uuid.NewString()
	if metric.UpdatedAt.IsZero() {
		metric.UpdatedAt = time.Now().UTC()
	}
	s.metrics = append(s.metrics, metric)
	return metric.ID, nil
}

// RecentActivity returns up to limit entries, newest first.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Activity, len(s.activities))
	copy(out, s.activities)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LatestMetric returns the most recently updated metric, or nil when none
// exists.
func (s *Store) LatestMetric(ctx context.Context) (*domain.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Metric
	for i := range s.metrics {
		if latest == nil || s.metrics[i].UpdatedAt.After(latest.UpdatedAt) {
			latest = &s.metrics[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// ApplyClaimTotals increments the totals on the first metric document,
// creating one when the collection is empty.
func (s *Store) ApplyClaimTotals(ctx context.Context, amountSOL float64, accounts int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.metrics) == 0 {
		s.metrics = append(s.metrics, domain.Metric{
			ID:                   uuid.NewString(),
			TotalSOLRecovered:    amountSOL,
			TotalAccountsClaimed: accounts,
			UpdatedAt:            updatedAt,
		})
		return nil
	}

	s.metrics[0].TotalSOLRecovered += amountSOL
	s.metrics[0].TotalAccountsClaimed += accounts
	s.metrics[0].UpdatedAt = updatedAt
	return nil
}

// CountActivity implements domain.Store.
func (s *Store) CountActivity(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.activities)), nil
}

// CountMetrics implements domain.Store.
func (s *Store) CountMetrics(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.metrics)), nil
}

// Ping implements domain.Store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Collections lists the collections that hold at least one document.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, 3)
	if len(s.activities) > 0 {
		names = append(names, "activity")
	}
	if len(s.claims) > 0 {
		names = append(names, "claim")
	}
	if len(s.metrics) > 0 {
		names = append(names, "metric")
	}
	return names, nil
}

// Claims returns a snapshot of the claim collection for assertions in tests.
func (s *Store) Claims() []domain.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Claim, len(s.claims))
	copy(out, s.claims)
	return out
}
