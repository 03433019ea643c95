// Package mongodb implements the document store adapter on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/solrecover/claim-api/internal/domain"
)

const (
	collectionActivity = "activity"
	collectionMetric   = "metric"
	collectionClaim    = "claim"
)

// Connect dials the store and verifies the connection with an
// exponential-backoff ping bounded by timeout.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	ping := func() (struct{}, error) {
		return struct{}{}, client.Ping(ctx, nil)
	}
	if _, err := backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(timeout),
	); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}

// Store provides create/read/increment operations against the activity,
// metric and claim collections.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore constructs a Store over an established client.
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// createDocument inserts one document and returns the generated id.
func (s *Store) createDocument(ctx context.Context, collection string, doc interface{}) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// InsertClaim implements domain.Store.
func (s *Store) InsertClaim(ctx context.Context, claim domain.Claim) (string, error) {
	if claim.Accounts == nil {
		claim.Accounts = []string{}
	}
	return s.createDocument(ctx, collectionClaim, claim)
}

// InsertActivity implements domain.Store.
func (s *Store) InsertActivity(ctx context.Context, activity domain.Activity) (string, error) {
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}
	return s.createDocument(ctx, collectionActivity, activity)
}

// InsertMetric implements domain.Store.
func (s *Store) InsertMetric(ctx context.Context, metric domain.Metric) (string, error) {
	if metric.UpdatedAt.IsZero() {
		metric.UpdatedAt = time.Now().UTC()
	}
	return s.createDocument(ctx, collectionMetric, metric)
}

// RecentActivity returns up to limit activity documents, newest first.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(collectionActivity).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cursor.Close(ctx)

	activities := make([]domain.Activity, 0, limit)
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return activities, nil
}

// LatestMetric returns the most recently updated metric document, or nil
// when the collection is empty.
func (s *Store) LatestMetric(ctx context.Context) (*domain.Metric, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var metric domain.Metric
	err := s.db.Collection(collectionMetric).FindOne(ctx, bson.M{}, opts).Decode(&metric)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find metric: %w", err)
	}
	return &metric, nil
}

// ApplyClaimTotals folds a claim into the aggregate totals with an atomic
// increment, upserting the metric document if none exists yet.
func (s *Store) ApplyClaimTotals(ctx context.Context, amountSOL float64, accounts int64, updatedAt time.Time) error {
	update := bson.M{
		"$inc": bson.M{
			"total_sol_recovered":    amountSOL,
			"total_accounts_claimed": accounts,
		},
		"$set": bson.M{"updated_at": updatedAt},
	}

	_, err := s.db.Collection(collectionMetric).
		UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update metric totals: %w", err)
	}
	return nil
}

// CountActivity implements domain.Store.
func (s *Store) CountActivity(ctx context.Context) (int64, error) {
	return s.db.Collection(collectionActivity).CountDocuments(ctx, bson.M{})
}

// CountMetrics implements domain.Store.
func (s *Store) CountMetrics(ctx context.Context) (int64, error) {
	return s.db.Collection(collectionMetric).CountDocuments(ctx, bson.M{})
}

// Ping reports whether the store connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Collections lists the collection names present in the database.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.M{})
}
