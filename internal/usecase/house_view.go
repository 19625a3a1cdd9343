package usecase

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"go.uber.org/zap"
)

// RecentReviewLimit is how many reviews the house detail view shows.
const RecentReviewLimit = 6

type houseReader interface {
	GetHouse(ctx context.Context, id int64) (*domain.House, error)
	ReloadHouse(ctx context.Context, id int64) (*domain.House, error)
}

// HouseDetailView is everything the house page shows for a signed-in user.
type HouseDetailView struct {
	House            *domain.House
	ImageURL         string
	RecentReviews    []*domain.Review
	TotalReviewCount int64
	HasUserReviewed  bool
	Favorite         *domain.Favorite
}

type HouseViewBuilder struct {
	houses    houseReader
	reviews   domain.ReviewRepository
	favorites domain.FavoriteRepository
	images    ImageStore
	logger    *logger.Logger
}

func NewHouseViewBuilder(
	houses houseReader,
	reviews domain.ReviewRepository,
	favorites domain.FavoriteRepository,
	images ImageStore,
	log *logger.Logger,
) *HouseViewBuilder {
	return &HouseViewBuilder{
		houses:    houses,
		reviews:   reviews,
		favorites: favorites,
		images:    images,
		logger:    log.Named("HouseViewBuilder"),
	}
}

// BuildDetailView assembles the house page. A missing house is reported
// before a missing user.
func (b *HouseViewBuilder) BuildDetailView(ctx context.Context, houseID int64, user *domain.User) (*HouseDetailView, error) {
	house, err := b.houses.GetHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrAuthenticationRequired
	}

	recent, err := b.reviews.TopByHouse(ctx, houseID, RecentReviewLimit)
	if err != nil {
		return nil, err
	}
	total, err := b.reviews.CountByHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}
	// A deleted house has no reviews; the cached copy may outlive it.
	if total == 0 {
		if house, err = b.houses.ReloadHouse(ctx, houseID); err != nil {
			return nil, err
		}
	}

	reviewed := true
	if _, err := b.reviews.FindByHouseAndUser(ctx, houseID, user.ID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		reviewed = false
	}

	fav, err := b.favorites.FindByHouseAndUser(ctx, houseID, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		fav = nil
	}

	view := &HouseDetailView{
		House:            house,
		RecentReviews:    recent,
		TotalReviewCount: total,
		HasUserReviewed:  reviewed,
		Favorite:         fav,
	}
	if b.images != nil && house.ImageName != "" {
		if url, err := b.images.ImageURL(ctx, house.ImageName); err != nil {
			b.logger.Warn("Failed to resolve house image URL", zap.Int64("house_id", houseID), zap.Error(err))
		} else {
			view.ImageURL = url
		}
	}
	return view, nil
}
