// Package domain defines the business logic for the claim service.
package domain

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/solrecover/claim-api/internal/observability"
)

var (
	// ErrStoreUnavailable indicates no document store connection exists.
	// Reads degrade to not-found/empty; the primary claim write fails.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrMetricsNotFound is returned when no metric document exists.
	ErrMetricsNotFound = errors.New("metrics not found")
)

// Store captures the document store operations the service needs. The three
// backing collections are "activity", "metric" and "claim"; every insert
// returns the store-generated document id.
type Store interface {
	InsertClaim(ctx context.Context, claim Claim) (string, error)
	InsertActivity(ctx context.Context, activity Activity) (string, error)
	InsertMetric(ctx context.Context, metric Metric) (string, error)

	// RecentActivity returns up to limit activity documents, newest first.
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
	// LatestMetric returns the most recently updated metric document, or
	// nil when the collection is empty.
	LatestMetric(ctx context.Context) (*Metric, error)
	// ApplyClaimTotals atomically increments the aggregate totals,
	// upserting the metric document if none exists.
	ApplyClaimTotals(ctx context.Context, amountSOL float64, accounts int64, updatedAt time.Time) error

	CountActivity(ctx context.Context) (int64, error)
	CountMetrics(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}

// Service orchestrates claim intake and the public read paths.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService constructs a Service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateClaimInput captures the payload from the API layer.
type CreateClaimInput struct {
	Wallet         string
	Accounts       []string
	TotalAmountSOL float64
	FeePercent     float64
}

// PendingSignature is recorded on the feed entry for a claim whose chain
// transaction has not been executed yet.
const PendingSignature = "pending"

// CreateClaim persists the claim intent and then, best-effort, folds the
// claim into the aggregate totals and appends a redacted feed entry. Only
// the claim insert can fail the operation; the follow-up writes are logged
// and counted but never surfaced to the caller.
func (s *Service) CreateClaim(ctx context.Context, input CreateClaimInput) (string, error) {
	now := time.Now().UTC()

	claimID, err := s.store.InsertClaim(ctx, Claim{
		Wallet:         input.Wallet,
		Accounts:       input.Accounts,
		TotalAmountSOL: input.TotalAmountSOL,
		FeePercent:     input.FeePercent,
		TxSignature:    nil,
		CreatedAt:      now,
	})
	if err != nil {
		return "", err
	}
	observability.RecordClaimCreated(now)

	if err := s.store.ApplyClaimTotals(ctx, input.TotalAmountSOL, int64(len(input.Accounts)), now); err != nil {
		observability.RecordBestEffortFailure("metric_totals")
		s.logger.Warn("claim totals update failed",
			zap.String("claim_id", claimID),
			zap.Error(err))
	}

	_, err = s.store.InsertActivity(ctx, Activity{
		Wallet:      RedactWallet(input.Wallet),
		TxSignature: PendingSignature,
		AmountSOL:   input.TotalAmountSOL,
		Timestamp:   now,
	})
	if err != nil {
		observability.RecordBestEffortFailure("activity_append")
		s.logger.Warn("claim feed entry failed",
			zap.String("claim_id", claimID),
			zap.Error(err))
	}

	return claimID, nil
}

// Metrics returns the latest aggregate totals. A missing document and an
// unavailable store both surface as ErrMetricsNotFound.
func (s *Service) Metrics(ctx context.Context) (*Metric, error) {
	metric, err := s.store.LatestMetric(ctx)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, ErrMetricsNotFound
		}
		return nil, err
	}
	if metric == nil {
		return nil, ErrMetricsNotFound
	}
	return metric, nil
}

// RecentActivity returns up to limit feed entries, newest first. An
// unavailable store degrades to an empty feed.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	activities, err := s.store.RecentActivity(ctx, limit)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, nil
		}
		return nil, err
	}
	return activities, nil
}
