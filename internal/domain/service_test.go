package domain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solrecover/claim-api/internal/domain"
	"github.com/solrecover/claim-api/internal/store"
	"github.com/solrecover/claim-api/internal/store/memory"
)

func TestCreateClaimPersistsClaim(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	service := domain.NewService(docs, zap.NewNop())

	claimID, err := service.CreateClaim(ctx, domain.CreateClaimInput{
		Wallet:         "4hKzrXkQabc",
		Accounts:       []string{"acc-1", "acc-2"},
		TotalAmountSOL: 1.5,
		FeePercent:     2.5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, claimID)

	claims := docs.Claims()
	require.Len(t, claims, 1)
	require.Equal(t, "4hKzrXkQabc", claims[0].Wallet)
	require.Equal(t, []string{"acc-1", "acc-2"}, claims[0].Accounts)
	require.Equal(t, 1.5, claims[0].TotalAmountSOL)
	require.Equal(t, 2.5, claims[0].FeePercent)
	require.Nil(t, claims[0].TxSignature)
	require.False(t, claims[0].CreatedAt.IsZero())
}

func TestCreateClaimAccumulatesTotals(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	service := domain.NewService(docs, zap.NewNop())

	inputs := []domain.CreateClaimInput{
		{Wallet: "wallet-one", Accounts: []string{"a"}, TotalAmountSOL: 1.0},
		{Wallet: "wallet-two", Accounts: []string{"b", "c"}, TotalAmountSOL: 2.5},
		{Wallet: "wallet-three", Accounts: nil, TotalAmountSOL: 0.5},
	}
	for _, input := range inputs {
		_, err := service.CreateClaim(ctx, input)
		require.NoError(t, err)
	}

	metric, err := service.Metrics(ctx)
	require.NoError(t, err)
	require.InDelta(t, 4.0, metric.TotalSOLRecovered, 1e-9)
	require.Equal(t, int64(3), metric.TotalAccountsClaimed)
}

func TestCreateClaimAppendsRedactedFeedEntry(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	service := domain.NewService(docs, zap.NewNop())

	_, err := service.CreateClaim(ctx, domain.CreateClaimInput{
		Wallet:         "4hKzrXkQabc",
		Accounts:       []string{"a"},
		TotalAmountSOL: 3.25,
	})
	require.NoError(t, err)

	activities, err := service.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, "4h...abc", activities[0].Wallet)
	require.Equal(t, domain.PendingSignature, activities[0].TxSignature)
	require.Equal(t, 3.25, activities[0].AmountSOL)
}

// flakyStore fails the post-claim follow-up writes while letting the
// primary claim insert succeed.
type flakyStore struct {
	*memory.Store
}

func (f flakyStore) ApplyClaimTotals(context.Context, float64, int64, time.Time) error {
	return errors.New("totals write refused")
}

func (f flakyStore) InsertActivity(context.Context, domain.Activity) (string, error) {
	return "", errors.New("feed write refused")
}

func TestCreateClaimSwallowsBestEffortFailures(t *testing.T) {
	ctx := context.Background()
	docs := flakyStore{memory.NewStore()}
	service := domain.NewService(docs, zap.NewNop())

	claimID, err := service.CreateClaim(ctx, domain.CreateClaimInput{
		Wallet:         "4hKzrXkQabc",
		Accounts:       []string{"a"},
		TotalAmountSOL: 1.0,
	})
	require.NoError(t, err)
	require.NotEmpty(t, claimID)
	require.Len(t, docs.Claims(), 1)
}

func TestCreateClaimFailsWhenStoreUnavailable(t *testing.T) {
	service := domain.NewService(store.Disconnected{}, zap.NewNop())

	_, err := service.CreateClaim(context.Background(), domain.CreateClaimInput{
		Wallet: "4hKzrXkQabc",
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestMetricsNotFound(t *testing.T) {
	ctx := context.Background()

	service := domain.NewService(memory.NewStore(), zap.NewNop())
	_, err := service.Metrics(ctx)
	require.ErrorIs(t, err, domain.ErrMetricsNotFound)

	degraded := domain.NewService(store.Disconnected{}, zap.NewNop())
	_, err = degraded.Metrics(ctx)
	require.ErrorIs(t, err, domain.ErrMetricsNotFound)
}

func TestRecentActivityDegradesToEmpty(t *testing.T) {
	service := domain.NewService(store.Disconnected{}, zap.NewNop())

	activities, err := service.RecentActivity(context.Background(), 12)
	require.NoError(t, err)
	require.Empty(t, activities)
}

func TestConcurrentClaimsAccumulateAllTotals(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	service := domain.NewService(docs, zap.NewNop())

	amounts := []float64{1.0, 2.0}
	errCh := make(chan error, len(amounts))
	var wg sync.WaitGroup
	for _, amount := range amounts {
		wg.Add(1)
		go func(amount float64) {
			defer wg.Done()
			_, err := service.CreateClaim(ctx, domain.CreateClaimInput{
				Wallet:         "4hKzrXkQabc",
				Accounts:       []string{"a"},
				TotalAmountSOL: amount,
			})
			errCh <- err
		}(amount)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	metric, err := service.Metrics(ctx)
	require.NoError(t, err)
	require.InDelta(t, 3.0, metric.TotalSOLRecovered, 1e-9)
	require.Equal(t, int64(2), metric.TotalAccountsClaimed)
}

func TestRedactWallet(t *testing.T) {
	cases := map[string]string{
		"4hKzrXkQabc": "4h...abc",
		"abcde":       "ab...cde",
		"abcd":        "abcd",
		"":            "",
	}
	for input, want := range cases {
		require.Equal(t, want, domain.RedactWallet(input), "input %q", input)
	}
}
