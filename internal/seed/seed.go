// Package seed populates default documents at startup so the public feed
// and metrics render before any real claim exists.
package seed

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/solrecover/claim-api/internal/domain"
)

// sampleActivities are illustrative feed entries inserted once into an
// empty activity collection.
var sampleActivities = []domain.Activity{
	{Wallet: "4h...XkQ", TxSignature: "5abc...123", AmountSOL: 1.25},
	{Wallet: "B9...PqL", TxSignature: "8def...456", AmountSOL: 0.78},
	{Wallet: "Fs...9Lm", TxSignature: "3xyz...789", AmountSOL: 2.03},
}

// Run seeds the metric and activity collections when they are empty. It is
// safe to call on every restart: the emptiness checks prevent duplicates,
// and every failure is logged and swallowed so the service still starts.
func Run(ctx context.Context, store domain.Store, logger *zap.Logger) {
	if err := seedMetric(ctx, store); err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			logger.Warn("seeding skipped, store unavailable")
			return
		}
		logger.Warn("metric seeding failed", zap.Error(err))
	}

	if err := seedActivity(ctx, store); err != nil {
		logger.Warn("activity seeding failed", zap.Error(err))
	}
}

func seedMetric(ctx context.Context, store domain.Store) error {
	count, err := store.CountMetrics(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = store.InsertMetric(ctx, domain.Metric{
		TotalSOLRecovered:    0,
		TotalAccountsClaimed: 0,
		UpdatedAt:            time.Now().UTC(),
	})
	return err
}

func seedActivity(ctx context.Context, store domain.Store) error {
	count, err := store.CountActivity(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for i, activity := range sampleActivities {
		// Stagger timestamps so the feed has a stable recency order.
		activity.Timestamp = now.Add(-time.Duration(i) * time.Minute)
		if _, err := store.InsertActivity(ctx, activity); err != nil {
			return err
		}
	}
	return nil
}
