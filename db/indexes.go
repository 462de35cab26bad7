package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the controllers rely on.
// The finder TTL index expires cached search results; its duration is
// re-applied at startup from the finderResultsTTL system parameter.
func EnsureIndexes(ctx context.Context, finderTTLSeconds int32) error {
	_, err := ActorsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	})
	if err != nil {
		return err
	}

	_, err = TripsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"ticker": 1},
		Options: options.Index().SetUnique(true).SetName("unique_ticker"),
	})
	if err != nil {
		return err
	}

	// Mongo caps a collection's TTL indexes at one per field; drop and
	// recreate so an admin TTL change takes effect on restart.
	_, _ = FindersCollection.Indexes().DropOne(ctx, "ttl_computed_at")
	_, err = FindersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"computedAt": 1},
		Options: options.Index().SetExpireAfterSeconds(finderTTLSeconds).SetName("ttl_computed_at"),
	})
	if err != nil {
		return err
	}

	_, err = SystemParamsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"key": 1},
		Options: options.Index().SetUnique(true).SetName("unique_key"),
	})
	if err != nil {
		return err
	}

	_, err = MonthCubesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "explorerId", Value: 1}, {Key: "month", Value: 1}},
		Options: options.Index().SetName("explorer_month"),
	})
	if err != nil {
		return err
	}

	_, err = YearCubesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "explorerId", Value: 1}, {Key: "year", Value: 1}},
		Options: options.Index().SetName("explorer_year"),
	})
	if err != nil {
		return err
	}

	idx := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_idem_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err = IdempotencyCollection.Indexes().CreateMany(ctx, idx)
	return err
}
