package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	houseCollectionName    = "houses"
	reviewCollectionName   = "reviews"
	favoriteCollectionName = "favorites"
	counterCollectionName  = "counters"
)

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the lookup indexes and the (house_id, user_id)
// unique keys that back the one-review and one-favorite rules.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		houseCollectionName: {
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
		},
		reviewCollectionName: {
			{Keys: bson.D{{Key: "house_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_review_house_user")},
			{Keys: bson.D{{Key: "house_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
		favoriteCollectionName: {
			{Keys: bson.D{{Key: "house_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_favorite_house_user")},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			log.Error("Failed to create indexes", zap.String("collection", name), zap.Error(err))
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}
	log.Info("Successfully ensured indexes", zap.String("database", db.Name()))
	return nil
}

// nextID hands out the next value of the named sequence.
func nextID(ctx context.Context, db *mongo.Database, sequence string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(counterCollectionName).FindOneAndUpdate(ctx,
		bson.M{"_id": sequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id for %s: %w", sequence, err)
	}
	return doc.Seq, nil
}

// touchHouse bumps the house's child_version. Creating a child inside a
// transaction writes the parent document, so it conflicts with a concurrent
// house delete instead of leaving an orphan behind.
func touchHouse(ctx context.Context, db *mongo.Database, houseID int64) error {
	res, err := db.Collection(houseCollectionName).UpdateOne(ctx,
		bson.M{"_id": houseID},
		bson.M{"$inc": bson.M{"child_version": int64(1)}},
	)
	if err != nil {
		return fmt.Errorf("db house touch failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func sortSpec(field string, ascending bool) bson.D {
	dir := -1
	if ascending {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
