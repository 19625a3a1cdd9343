package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"go.uber.org/zap"
)

// EventPublisher delivers domain events. Implemented by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

// ImageStore resolves and removes house images. Implemented by the MinIO storage.
type ImageStore interface {
	ImageURL(ctx context.Context, objectName string) (string, error)
	RemoveImage(ctx context.Context, objectName string) error
}

const (
	SubjectReviewCreated   = "review.created"
	SubjectReviewUpdated   = "review.updated"
	SubjectReviewDeleted   = "review.deleted"
	SubjectFavoriteCreated = "favorite.created"
	SubjectFavoriteDeleted = "favorite.deleted"
	SubjectHouseDeleted    = "house.deleted"
)

type ReviewEvent struct {
	ReviewID   int64     `json:"review_id"`
	HouseID    int64     `json:"house_id"`
	UserID     int64     `json:"user_id"`
	Rating     int       `json:"rating,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type FavoriteEvent struct {
	FavoriteID int64     `json:"favorite_id"`
	HouseID    int64     `json:"house_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type HouseDeletedEvent struct {
	HouseID          int64     `json:"house_id"`
	ReviewsRemoved   int64     `json:"reviews_removed"`
	FavoritesRemoved int64     `json:"favorites_removed"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// publish is fire-and-forget: the operation has already committed.
func publish(ctx context.Context, pub EventPublisher, log *logger.Logger, subject string, data any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// utcNow is millisecond precision, the coarsest of the stores, so the
// timestamps an operation returns match what later reads return.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
