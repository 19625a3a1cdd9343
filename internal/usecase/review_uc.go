package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// ReviewUsecase implements the review lifecycle: create, edit, delete, list.
type ReviewUsecase struct {
	houses  domain.HouseRepository
	reviews domain.ReviewRepository
	tx      domain.TxManager
	uniq    *UniquenessEnforcer
	pub     EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	now     func() time.Time
}

func NewReviewUsecase(
	houses domain.HouseRepository,
	reviews domain.ReviewRepository,
	tx domain.TxManager,
	pub EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *ReviewUsecase {
	return &ReviewUsecase{
		houses:  houses,
		reviews: reviews,
		tx:      tx,
		uniq:    &UniquenessEnforcer{reviews: reviews},
		pub:     pub,
		metrics: m,
		logger:  log.Named("ReviewUsecase"),
		now:     utcNow,
	}
}

type CreateReviewInput struct {
	HouseID int64
	UserID  int64
	Rating  *int
	Comment string
}

type UpdateReviewInput struct {
	ReviewID int64
	// HouseID, when non-zero, must match the review's house.
	HouseID int64
	UserID  int64
	Rating  *int
	Comment string
}

// Create adds the user's review of a house. Checks run in order: the house
// exists, the content is valid, the user has no review there yet.
func (uc *ReviewUsecase) Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	var review *domain.Review
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.houses.GetByID(ctx, in.HouseID); err != nil {
			return err
		}
		if err := domain.ValidateReviewContent(in.Rating, in.Comment); err != nil {
			return err
		}
		if err := uc.uniq.CheckReviewAllowed(ctx, in.HouseID, in.UserID); err != nil {
			return err
		}

		review = &domain.Review{
			HouseID:   in.HouseID,
			UserID:    in.UserID,
			Rating:    *in.Rating,
			Comment:   in.Comment,
			CreatedAt: uc.now(),
		}
		return uc.reviews.Create(ctx, review)
	})
	if err != nil {
		uc.logger.Info("Review not created",
			zap.Int64("house_id", in.HouseID), zap.Int64("user_id", in.UserID), zap.Error(err))
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReviewsCreatedTotal.Inc()
	}
	publish(ctx, uc.pub, uc.logger, SubjectReviewCreated, ReviewEvent{
		ReviewID: review.ID, HouseID: review.HouseID, UserID: review.UserID, Rating: review.Rating, OccurredAt: review.CreatedAt,
	})
	uc.logger.Info("Review created", zap.Int64("review_id", review.ID), zap.Int64("house_id", review.HouseID))
	return review, nil
}

func (uc *ReviewUsecase) Get(ctx context.Context, reviewID int64) (*domain.Review, error) {
	return uc.reviews.GetByID(ctx, reviewID)
}

// loadOwned resolves the review under houseID and checks the requester owns it.
func (uc *ReviewUsecase) loadOwned(ctx context.Context, reviewID, houseID, userID int64) (*domain.Review, error) {
	review, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if houseID != 0 && review.HouseID != houseID {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.houses.GetByID(ctx, review.HouseID); err != nil {
		return nil, err
	}
	if err := AssertOwner(review, userID); err != nil {
		return nil, err
	}
	return review, nil
}

// Update changes rating and comment of the requester's own review.
func (uc *ReviewUsecase) Update(ctx context.Context, in UpdateReviewInput) (*domain.Review, error) {
	var review *domain.Review
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		review, err = uc.loadOwned(ctx, in.ReviewID, in.HouseID, in.UserID)
		if err != nil {
			return err
		}
		if err := domain.ValidateReviewContent(in.Rating, in.Comment); err != nil {
			return err
		}
		review.Rating = *in.Rating
		review.Comment = in.Comment
		review.UpdatedAt = uc.now()
		return uc.reviews.Update(ctx, review)
	})
	if err != nil {
		uc.logger.Info("Review not updated",
			zap.Int64("review_id", in.ReviewID), zap.Int64("user_id", in.UserID), zap.Error(err))
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReviewUpdatesTotal.Inc()
	}
	publish(ctx, uc.pub, uc.logger, SubjectReviewUpdated, ReviewEvent{
		ReviewID: review.ID, HouseID: review.HouseID, UserID: review.UserID, Rating: review.Rating, OccurredAt: review.UpdatedAt,
	})
	return review, nil
}

// Delete removes the requester's own review.
func (uc *ReviewUsecase) Delete(ctx context.Context, reviewID, houseID, userID int64) error {
	var review *domain.Review
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		review, err = uc.loadOwned(ctx, reviewID, houseID, userID)
		if err != nil {
			return err
		}
		return uc.reviews.Delete(ctx, review.ID)
	})
	if err != nil {
		uc.logger.Info("Review not deleted",
			zap.Int64("review_id", reviewID), zap.Int64("user_id", userID), zap.Error(err))
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ReviewDeletesTotal.Inc()
	}
	publish(ctx, uc.pub, uc.logger, SubjectReviewDeleted, ReviewEvent{
		ReviewID: review.ID, HouseID: review.HouseID, UserID: review.UserID, OccurredAt: uc.now(),
	})
	return nil
}

// ListByHouse pages through a house's reviews, newest first.
func (uc *ReviewUsecase) ListByHouse(ctx context.Context, houseID int64, pageIndex, pageSize int) (domain.Page[*domain.Review], error) {
	if _, err := uc.houses.GetByID(ctx, houseID); err != nil {
		return domain.Page[*domain.Review]{}, err
	}
	req := domain.NewPageRequest(pageIndex, pageSize)
	items, total, err := uc.reviews.ListByHouse(ctx, houseID, req)
	if err != nil {
		uc.logger.Error("Failed to list reviews", zap.Int64("house_id", houseID), zap.Error(err))
		return domain.Page[*domain.Review]{}, err
	}
	return domain.NewPage(items, req, total), nil
}
