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

// ReviewRepository implements domain.ReviewRepository using MongoDB.
type ReviewRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewReviewRepository(db *mongo.Database, log *logger.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:         db,
		collection: db.Collection(reviewCollectionName),
		logger:     log.Named("ReviewRepository"),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := touchHouse(ctx, r.db, review.HouseID); err != nil {
		return err
	}
	id, err := nextID(ctx, r.db, reviewCollectionName)
	if err != nil {
		return err
	}
	review.ID = id
	review.CreatedAt = storedTime(review.CreatedAt)
	review.UpdatedAt = review.CreatedAt

	if _, err := r.collection.InsertOne(ctx, fromDomainReview(review)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate key error on review creation",
				zap.Int64("house_id", review.HouseID), zap.Int64("user_id", review.UserID))
			return domain.ErrDuplicateReview
		}
		r.logger.Error("Failed to insert review into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ReviewRepository) FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"house_id": houseID, "user_id": userID})
}

func (r *ReviewRepository) findOne(ctx context.Context, filter bson.M) (*domain.Review, error) {
	var doc reviewDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find review in DB", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	update := bson.M{
		"$set": bson.M{
			"rating":     review.Rating,
			"comment":    review.Comment,
			"updated_at": review.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": review.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update review in DB", zap.Error(err), zap.Int64("review_id", review.ID))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete review from DB", zap.Error(err), zap.Int64("review_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByHouse(ctx context.Context, houseID int64, req domain.PageRequest) ([]*domain.Review, int64, error) {
	req = req.Normalize()
	filter := bson.M{"house_id": houseID}
	opts := options.Find().
		SetSort(sortSpec("created_at", req.Direction == domain.Asc)).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Size))

	reviews, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}
	return reviews, total, nil
}

func (r *ReviewRepository) TopByHouse(ctx context.Context, houseID int64, n int) ([]*domain.Review, error) {
	if n <= 0 {
		return []*domain.Review{}, nil
	}
	opts := options.Find().SetSort(sortSpec("created_at", false)).SetLimit(int64(n))
	return r.find(ctx, bson.M{"house_id": houseID}, opts)
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Review, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to find reviews in DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	out := make([]*domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ReviewRepository) CountByHouse(ctx context.Context, houseID int64) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"house_id": houseID})
	if err != nil {
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return n, nil
}

func (r *ReviewRepository) DeleteByHouseID(ctx context.Context, houseID int64) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"house_id": houseID})
	if err != nil {
		r.logger.Error("Failed to delete reviews by house", zap.Error(err), zap.Int64("house_id", houseID))
		return 0, fmt.Errorf("db delete many failed: %w", err)
	}
	return res.DeletedCount, nil
}
