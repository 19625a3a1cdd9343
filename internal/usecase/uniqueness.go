package usecase

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

// UniquenessEnforcer answers whether a user may add a review or favorite for
// a house. It only short-circuits the common case; the stores' unique keys
// on (house_id, user_id) decide races. The review and favorite usecases
// each fill in only the repository their check reads.
type UniquenessEnforcer struct {
	reviews   domain.ReviewRepository
	favorites domain.FavoriteRepository
}

func NewUniquenessEnforcer(reviews domain.ReviewRepository, favorites domain.FavoriteRepository) *UniquenessEnforcer {
	return &UniquenessEnforcer{reviews: reviews, favorites: favorites}
}

func (e *UniquenessEnforcer) CheckReviewAllowed(ctx context.Context, houseID, userID int64) error {
	_, err := e.reviews.FindByHouseAndUser(ctx, houseID, userID)
	return absentOr(err, domain.ErrDuplicateReview)
}

func (e *UniquenessEnforcer) CheckFavoriteAllowed(ctx context.Context, houseID, userID int64) error {
	_, err := e.favorites.FindByHouseAndUser(ctx, houseID, userID)
	return absentOr(err, domain.ErrDuplicateFavorite)
}

func absentOr(lookupErr, duplicate error) error {
	switch {
	case lookupErr == nil:
		return duplicate
	case errors.Is(lookupErr, domain.ErrNotFound):
		return nil
	default:
		return lookupErr
	}
}
