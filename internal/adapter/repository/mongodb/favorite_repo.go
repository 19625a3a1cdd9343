package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// FavoriteRepository implements domain.FavoriteRepository using MongoDB.
type FavoriteRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		db:         db,
		collection: db.Collection(favoriteCollectionName),
		logger:     log.Named("FavoriteRepository"),
	}
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) error {
	if err := touchHouse(ctx, r.db, fav.HouseID); err != nil {
		return err
	}
	id, err := nextID(ctx, r.db, favoriteCollectionName)
	if err != nil {
		return err
	}
	fav.ID = id
	fav.CreatedAt = storedTime(fav.CreatedAt)

	if _, err := r.collection.InsertOne(ctx, fromDomainFavorite(fav)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate key error on favorite creation",
				zap.Int64("house_id", fav.HouseID), zap.Int64("user_id", fav.UserID))
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("Failed to insert favorite into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id int64) (*domain.Favorite, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *FavoriteRepository) FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*domain.Favorite, error) {
	return r.findOne(ctx, bson.M{"house_id": houseID, "user_id": userID})
}

func (r *FavoriteRepository) findOne(ctx context.Context, filter bson.M) (*domain.Favorite, error) {
	var doc favoriteDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find favorite in DB", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete favorite from DB", zap.Error(err), zap.Int64("favorite_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, req domain.PageRequest) ([]*domain.Favorite, int64, error) {
	req = req.Normalize()
	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(sortSpec("created_at", req.Direction == domain.Asc)).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Size))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list favorites from DB", zap.Error(err), zap.Int64("user_id", userID))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	favs := make([]*domain.Favorite, len(docs))
	for i, d := range docs {
		favs[i] = d.toDomain()
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}
	return favs, total, nil
}

func (r *FavoriteRepository) DeleteByHouseID(ctx context.Context, houseID int64) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"house_id": houseID})
	if err != nil {
		r.logger.Error("Failed to delete favorites by house", zap.Error(err), zap.Int64("house_id", houseID))
		return 0, fmt.Errorf("db delete many failed: %w", err)
	}
	return res.DeletedCount, nil
}
