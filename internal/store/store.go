// Package store contains document store implementations of domain.Store.
package store

import (
	"context"
	"time"

	"github.com/solrecover/claim-api/internal/domain"
)

// Disconnected stands in for the document store when no connection was
// configured or the initial connect failed. Every operation reports
// domain.ErrStoreUnavailable so callers can degrade instead of crashing.
type Disconnected struct{}

func (Disconnected) InsertClaim(context.Context, domain.Claim) (string, error) {
	return "", domain.ErrStoreUnavailable
}

func (Disconnected) InsertActivity(context.Context, domain.Activity) (string, error) {
	return "", domain.ErrStoreUnavailable
}

func (Disconnected) InsertMetric(context.Context, domain.Metric) (string, error) {
	return "", domain.ErrStoreUnavailable
}

func (Disconnected) RecentActivity(context.Context, int) ([]domain.Activity, error) {
	return nil, domain.ErrStoreUnavailable
}

func (Disconnected) LatestMetric(context.Context) (*domain.Metric, error) {
	return nil, domain.ErrStoreUnavailable
}

func (Disconnected) ApplyClaimTotals(context.Context, float64, int64, time.Time) error {
	return domain.ErrStoreUnavailable
}

func (Disconnected) CountActivity(context.Context) (int64, error) {
	return 0, domain.ErrStoreUnavailable
}

func (Disconnected) CountMetrics(context.Context) (int64, error) {
	return 0, domain.ErrStoreUnavailable
}

func (Disconnected) Ping(context.Context) error {
	return domain.ErrStoreUnavailable
}

func (Disconnected) Collections(context.Context) ([]string, error) {
	return nil, domain.ErrStoreUnavailable
}
