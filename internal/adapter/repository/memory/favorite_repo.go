package memory

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

type FavoriteRepository struct {
	s *Store
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) error {
	return r.s.write(ctx, func(t *tables) error {
		key := pairKey{fav.HouseID, fav.UserID}
		if _, taken := t.favoritePairs[key]; taken {
			return domain.ErrDuplicateFavorite
		}
		if _, ok := t.houses[fav.HouseID]; !ok {
			return domain.ErrNotFound
		}
		fav.ID = r.s.nextID()
		if fav.CreatedAt.IsZero() {
			fav.CreatedAt = r.s.now()
		}
		t.favorites[fav.ID] = *fav
		t.favoritePairs[key] = fav.ID
		return nil
	})
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id int64) (*domain.Favorite, error) {
	var out *domain.Favorite
	err := r.s.read(ctx, func(t *tables) error {
		f, ok := t.favorites[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &f
		return nil
	})
	return out, err
}

func (r *FavoriteRepository) FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*domain.Favorite, error) {
	var out *domain.Favorite
	err := r.s.read(ctx, func(t *tables) error {
		id, ok := t.favoritePairs[pairKey{houseID, userID}]
		if !ok {
			return domain.ErrNotFound
		}
		f := t.favorites[id]
		out = &f
		return nil
	})
	return out, err
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables) error {
		f, ok := t.favorites[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(t.favorites, id)
		delete(t.favoritePairs, pairKey{f.HouseID, f.UserID})
		return nil
	})
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, req domain.PageRequest) ([]*domain.Favorite, int64, error) {
	req = req.Normalize()
	var (
		out   []*domain.Favorite
		total int64
	)
	err := r.s.read(ctx, func(t *tables) error {
		var all []domain.Favorite
		for _, f := range t.favorites {
			if f.UserID == userID {
				all = append(all, f)
			}
		}
		total = int64(len(all))
		for _, f := range paginate(all, favoriteKey, req) {
			f := f
			out = append(out, &f)
		}
		return nil
	})
	return out, total, err
}

func (r *FavoriteRepository) DeleteByHouseID(ctx context.Context, houseID int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(t *tables) error {
		n = deleteFavoritesOf(t, houseID)
		return nil
	})
	return n, err
}

func deleteFavoritesOf(t *tables, houseID int64) int64 {
	var n int64
	for id, f := range t.favorites {
		if f.HouseID == houseID {
			delete(t.favorites, id)
			delete(t.favoritePairs, pairKey{f.HouseID, f.UserID})
			n++
		}
	}
	return n
}

func favoriteKey(f domain.Favorite) ordered {
	return ordered{id: f.ID, createdAt: f.CreatedAt}
}
