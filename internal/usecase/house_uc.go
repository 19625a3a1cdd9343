package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/port/cache"
	"go.uber.org/zap"
)

const defaultHouseCacheTTL = time.Hour

func houseCacheKey(id int64) string {
	return fmt.Sprintf("house:%d", id)
}

// HouseUsecase owns the house lifecycle. Reads go through the cache when
// one is configured.
type HouseUsecase struct {
	houses    domain.HouseRepository
	reviews   domain.ReviewRepository
	favorites domain.FavoriteRepository
	tx        domain.TxManager
	cache     cache.CacheRepository
	cacheTTL  time.Duration
	images    ImageStore
	pub       EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

type HouseUsecaseOptions struct {
	Cache     cache.CacheRepository
	CacheTTL  time.Duration
	Images    ImageStore
	Publisher EventPublisher
	Metrics   *metrics.MetricsManager
}

func NewHouseUsecase(
	houses domain.HouseRepository,
	reviews domain.ReviewRepository,
	favorites domain.FavoriteRepository,
	tx domain.TxManager,
	opts HouseUsecaseOptions,
	log *logger.Logger,
) *HouseUsecase {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultHouseCacheTTL
	}
	return &HouseUsecase{
		houses:    houses,
		reviews:   reviews,
		favorites: favorites,
		tx:        tx,
		cache:     opts.Cache,
		cacheTTL:  ttl,
		images:    opts.Images,
		pub:       opts.Publisher,
		metrics:   opts.Metrics,
		logger:    log.Named("HouseUsecase"),
		now:       utcNow,
	}
}

type CreateHouseInput struct {
	Name        string
	ImageName   string
	Description string
	Price       int
	Capacity    int
	PostalCode  string
	Address     string
	PhoneNumber string
}

func (in CreateHouseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	if in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}
	return nil
}

func (uc *HouseUsecase) CreateHouse(ctx context.Context, in CreateHouseInput) (*domain.House, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	house := &domain.House{
		Name:        strings.TrimSpace(in.Name),
		ImageName:   in.ImageName,
		Description: in.Description,
		Price:       in.Price,
		Capacity:    in.Capacity,
		PostalCode:  in.PostalCode,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		CreatedAt:   uc.now(),
	}
	if err := uc.houses.Create(ctx, house); err != nil {
		uc.logger.Error("Failed to create house", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("House created", zap.Int64("house_id", house.ID))
	return house, nil
}

// GetHouse is a cache-aside read. Cache failures fall through to the store.
func (uc *HouseUsecase) GetHouse(ctx context.Context, id int64) (*domain.House, error) {
	key := houseCacheKey(id)
	if uc.cache != nil {
		raw, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			var h domain.House
			if jsonErr := json.Unmarshal(raw, &h); jsonErr == nil {
				uc.countCache("hit")
				return &h, nil
			}
			uc.logger.Warn("Dropping undecodable house cache entry", zap.String("key", key))
			_ = uc.cache.Delete(ctx, key)
		case errors.Is(err, cache.ErrNotFound):
		default:
			uc.logger.Warn("House cache read failed", zap.String("key", key), zap.Error(err))
		}
		uc.countCache("miss")
	}

	house, err := uc.houses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(house); err == nil {
			if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil {
				uc.logger.Warn("House cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return house, nil
}

// ReloadHouse reads the house from the store, bypassing the cache. A house
// that is gone is evicted so a cache write racing DeleteHouse cannot keep it
// alive.
func (uc *HouseUsecase) ReloadHouse(ctx context.Context, id int64) (*domain.House, error) {
	house, err := uc.houses.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) && uc.cache != nil {
		if delErr := uc.cache.Delete(ctx, houseCacheKey(id)); delErr != nil {
			uc.logger.Warn("Failed to evict stale house from cache", zap.Int64("house_id", id), zap.Error(delErr))
		}
	}
	return house, err
}

func (uc *HouseUsecase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.HouseCacheHitsTotal.WithLabelValues(result).Inc()
	}
}

// ListHouses pages through houses. order "priceAsc" sorts cheapest first;
// anything else lists newest first.
func (uc *HouseUsecase) ListHouses(ctx context.Context, order string, pageIndex, pageSize int) (domain.Page[*domain.House], error) {
	req := domain.HouseOrder(order, pageIndex, pageSize)
	items, total, err := uc.houses.List(ctx, req)
	if err != nil {
		uc.logger.Error("Failed to list houses", zap.Error(err))
		return domain.Page[*domain.House]{}, err
	}
	return domain.NewPage(items, req, total), nil
}

// DeleteHouse removes the house with its reviews and favorites in one
// transaction, then evicts the cache entry and the stored image.
func (uc *HouseUsecase) DeleteHouse(ctx context.Context, id int64) error {
	var (
		house           *domain.House
		reviewsN, favsN int64
	)
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if house, err = uc.houses.GetByID(ctx, id); err != nil {
			return err
		}
		if reviewsN, err = uc.reviews.DeleteByHouseID(ctx, id); err != nil {
			return err
		}
		if favsN, err = uc.favorites.DeleteByHouseID(ctx, id); err != nil {
			return err
		}
		return uc.houses.Delete(ctx, id)
	})
	if err != nil {
		uc.logger.Info("House not deleted", zap.Int64("house_id", id), zap.Error(err))
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, houseCacheKey(id)); err != nil {
			uc.logger.Warn("Failed to evict house from cache", zap.Int64("house_id", id), zap.Error(err))
		}
	}
	if uc.images != nil && house.ImageName != "" {
		if err := uc.images.RemoveImage(ctx, house.ImageName); err != nil {
			uc.logger.Warn("Failed to remove house image", zap.String("image", house.ImageName), zap.Error(err))
		}
	}
	if uc.metrics != nil {
		uc.metrics.HouseDeletesTotal.Inc()
	}
	publish(ctx, uc.pub, uc.logger, SubjectHouseDeleted, HouseDeletedEvent{
		HouseID: id, ReviewsRemoved: reviewsN, FavoritesRemoved: favsN, OccurredAt: uc.now(),
	})
	uc.logger.Info("House deleted",
		zap.Int64("house_id", id), zap.Int64("reviews_removed", reviewsN), zap.Int64("favorites_removed", favsN))
	return nil
}
