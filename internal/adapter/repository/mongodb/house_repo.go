package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// HouseRepository implements domain.HouseRepository using MongoDB.
type HouseRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewHouseRepository(db *mongo.Database, log *logger.Logger) *HouseRepository {
	return &HouseRepository{
		db:         db,
		collection: db.Collection(houseCollectionName),
		logger:     log.Named("HouseRepository"),
	}
}

func (r *HouseRepository) Create(ctx context.Context, house *domain.House) error {
	id, err := nextID(ctx, r.db, houseCollectionName)
	if err != nil {
		return err
	}
	house.ID = id
	house.CreatedAt = storedTime(house.CreatedAt)
	house.UpdatedAt = house.CreatedAt

	if _, err := r.collection.InsertOne(ctx, fromDomainHouse(house)); err != nil {
		r.logger.Error("Failed to insert house into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("House created in DB", zap.Int64("house_id", house.ID))
	return nil
}

func (r *HouseRepository) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	var doc houseDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get house by ID from DB", zap.Error(err), zap.Int64("house_id", id))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the house and every review and favorite that points at it.
// Run it inside a transaction to make the cascade atomic.
func (r *HouseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete house from DB", zap.Error(err), zap.Int64("house_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	for _, coll := range []string{reviewCollectionName, favoriteCollectionName} {
		if _, err := r.db.Collection(coll).DeleteMany(ctx, bson.M{"house_id": id}); err != nil {
			return fmt.Errorf("db cascade delete on %s failed: %w", coll, err)
		}
	}
	return nil
}

func (r *HouseRepository) List(ctx context.Context, req domain.PageRequest) ([]*domain.House, int64, error) {
	req = req.Normalize()
	field := "created_at"
	if req.Sort == domain.SortByPrice {
		field = "price"
	}

	opts := options.Find().
		SetSort(sortSpec(field, req.Direction == domain.Asc)).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Size))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list houses from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*houseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	houses := make([]*domain.House, len(docs))
	for i, d := range docs {
		houses[i] = d.toDomain()
	}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}
	return houses, total, nil
}

// Mongo keeps milliseconds; truncate so callers see what was stored.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// storedTime is t as Mongo will return it, or now when t is unset.
func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t.UTC().Truncate(time.Millisecond)
}
