package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/metrics"
	"go.uber.org/zap"
)

type FavoriteUsecase struct {
	houses    domain.HouseRepository
	favorites domain.FavoriteRepository
	tx        domain.TxManager
	uniq      *UniquenessEnforcer
	pub       EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

func NewFavoriteUsecase(
	houses domain.HouseRepository,
	favorites domain.FavoriteRepository,
	tx domain.TxManager,
	pub EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *FavoriteUsecase {
	return &FavoriteUsecase{
		houses:    houses,
		favorites: favorites,
		tx:        tx,
		uniq:      &UniquenessEnforcer{favorites: favorites},
		pub:       pub,
		metrics:   m,
		logger:    log.Named("FavoriteUsecase"),
		now:       utcNow,
	}
}

// Create adds the house to the user's favorites.
func (uc *FavoriteUsecase) Create(ctx context.Context, houseID, userID int64) (*domain.Favorite, error) {
	var fav *domain.Favorite
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.houses.GetByID(ctx, houseID); err != nil {
			return err
		}
		if err := uc.uniq.CheckFavoriteAllowed(ctx, houseID, userID); err != nil {
			return err
		}
		fav = &domain.Favorite{HouseID: houseID, UserID: userID, CreatedAt: uc.now()}
		return uc.favorites.Create(ctx, fav)
	})
	if err != nil {
		uc.logger.Info("Favorite not created",
			zap.Int64("house_id", houseID), zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FavoritesCreatedTotal.Inc()
	}
	publish(ctx, uc.pub, uc.logger, SubjectFavoriteCreated, FavoriteEvent{
		FavoriteID: fav.ID, HouseID: fav.HouseID, UserID: fav.UserID, OccurredAt: fav.CreatedAt,
	})
	return fav, nil
}

func (uc *FavoriteUsecase) Get(ctx context.Context, favoriteID int64) (*domain.Favorite, error) {
	return uc.favorites.GetByID(ctx, favoriteID)
}

// Delete removes one of the requester's favorites. houseID, when non-zero,
// must match the favorite's house.
func (uc *FavoriteUsecase) Delete(ctx context.Context, favoriteID, houseID, userID int64) error {
	var fav *domain.Favorite
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		fav, err = uc.favorites.GetByID(ctx, favoriteID)
		if err != nil {
			return err
		}
		if houseID != 0 && fav.HouseID != houseID {
			return domain.ErrNotFound
		}
		if err := AssertOwner(fav, userID); err != nil {
			return err
		}
		return uc.favorites.Delete(ctx, fav.ID)
	})
	if err != nil {
		uc.logger.Info("Favorite not deleted",
			zap.Int64("favorite_id", favoriteID), zap.Int64("user_id", userID), zap.Error(err))
		return err
	}

	if uc.metrics != nil {
		uc.metrics.FavoriteDeletesTotal.Inc()
	}
	publish(ctx, uc.pub, uc.logger, SubjectFavoriteDeleted, FavoriteEvent{
		FavoriteID: fav.ID, HouseID: fav.HouseID, UserID: fav.UserID, OccurredAt: uc.now(),
	})
	return nil
}

// ListByUser pages through the user's favorites, newest first. An empty page
// means the user has no favorites at that position; check Page.IsEmpty.
func (uc *FavoriteUsecase) ListByUser(ctx context.Context, userID int64, pageIndex, pageSize int) (domain.Page[*domain.Favorite], error) {
	req := domain.NewPageRequest(pageIndex, pageSize)
	items, total, err := uc.favorites.ListByUser(ctx, userID, req)
	if err != nil {
		uc.logger.Error("Failed to list favorites", zap.Int64("user_id", userID), zap.Error(err))
		return domain.Page[*domain.Favorite]{}, err
	}
	return domain.NewPage(items, req, total), nil
}
