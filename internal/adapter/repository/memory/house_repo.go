package memory

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

type HouseRepository struct {
	s *Store
}

func (r *HouseRepository) Create(ctx context.Context, house *domain.House) error {
	return r.s.write(ctx, func(t *tables) error {
		house.ID = r.s.nextID()
		if house.CreatedAt.IsZero() {
			house.CreatedAt = r.s.now()
		}
		house.UpdatedAt = house.CreatedAt
		t.houses[house.ID] = *house
		return nil
	})
}

func (r *HouseRepository) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	var out *domain.House
	err := r.s.read(ctx, func(t *tables) error {
		h, ok := t.houses[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &h
		return nil
	})
	return out, err
}

// Delete removes the house together with its reviews and favorites.
func (r *HouseRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.houses[id]; !ok {
			return domain.ErrNotFound
		}
		delete(t.houses, id)
		deleteReviewsOf(t, id)
		deleteFavoritesOf(t, id)
		return nil
	})
}

func (r *HouseRepository) List(ctx context.Context, req domain.PageRequest) ([]*domain.House, int64, error) {
	req = req.Normalize()
	var (
		out   []*domain.House
		total int64
	)
	err := r.s.read(ctx, func(t *tables) error {
		all := make([]domain.House, 0, len(t.houses))
		for _, h := range t.houses {
			all = append(all, h)
		}
		total = int64(len(all))
		for _, h := range paginate(all, houseKey, req) {
			h := h
			out = append(out, &h)
		}
		return nil
	})
	return out, total, err
}

func houseKey(h domain.House) ordered {
	return ordered{id: h.ID, createdAt: h.CreatedAt, price: h.Price}
}
