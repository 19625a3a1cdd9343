package memory

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

type ReviewRepository struct {
	s *Store
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.s.write(ctx, func(t *tables) error {
		key := pairKey{review.HouseID, review.UserID}
		if _, taken := t.reviewPairs[key]; taken {
			return domain.ErrDuplicateReview
		}
		if _, ok := t.houses[review.HouseID]; !ok {
			return domain.ErrNotFound
		}
		review.ID = r.s.nextID()
		if review.CreatedAt.IsZero() {
			review.CreatedAt = r.s.now()
		}
		review.UpdatedAt = review.CreatedAt
		t.reviews[review.ID] = *review
		t.reviewPairs[key] = review.ID
		return nil
	})
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var out *domain.Review
	err := r.s.read(ctx, func(t *tables) error {
		rv, ok := t.reviews[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &rv
		return nil
	})
	return out, err
}

func (r *ReviewRepository) FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*domain.Review, error) {
	var out *domain.Review
	err := r.s.read(ctx, func(t *tables) error {
		id, ok := t.reviewPairs[pairKey{houseID, userID}]
		if !ok {
			return domain.ErrNotFound
		}
		rv := t.reviews[id]
		out = &rv
		return nil
	})
	return out, err
}

// Update stores the new rating and comment. Identity fields and CreatedAt are kept.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return r.s.write(ctx, func(t *tables) error {
		cur, ok := t.reviews[review.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Rating = review.Rating
		cur.Comment = review.Comment
		cur.UpdatedAt = review.UpdatedAt
		t.reviews[cur.ID] = cur
		return nil
	})
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables) error {
		rv, ok := t.reviews[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(t.reviews, id)
		delete(t.reviewPairs, pairKey{rv.HouseID, rv.UserID})
		return nil
	})
}

func (r *ReviewRepository) ListByHouse(ctx context.Context, houseID int64, req domain.PageRequest) ([]*domain.Review, int64, error) {
	req = req.Normalize()
	var (
		out   []*domain.Review
		total int64
	)
	err := r.s.read(ctx, func(t *tables) error {
		all := reviewsOf(t, houseID)
		total = int64(len(all))
		for _, rv := range paginate(all, reviewKey, req) {
			rv := rv
			out = append(out, &rv)
		}
		return nil
	})
	return out, total, err
}

func (r *ReviewRepository) TopByHouse(ctx context.Context, houseID int64, n int) ([]*domain.Review, error) {
	if n <= 0 {
		return []*domain.Review{}, nil
	}
	out, _, err := r.ListByHouse(ctx, houseID, domain.PageRequest{Size: n, Sort: domain.SortByCreatedAt, Direction: domain.Desc})
	return out, err
}

func (r *ReviewRepository) CountByHouse(ctx context.Context, houseID int64) (int64, error) {
	var n int64
	err := r.s.read(ctx, func(t *tables) error {
		for _, rv := range t.reviews {
			if rv.HouseID == houseID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ReviewRepository) DeleteByHouseID(ctx context.Context, houseID int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(t *tables) error {
		n = deleteReviewsOf(t, houseID)
		return nil
	})
	return n, err
}

func reviewsOf(t *tables, houseID int64) []domain.Review {
	var out []domain.Review
	for _, rv := range t.reviews {
		if rv.HouseID == houseID {
			out = append(out, rv)
		}
	}
	return out
}

func deleteReviewsOf(t *tables, houseID int64) int64 {
	var n int64
	for id, rv := range t.reviews {
		if rv.HouseID == houseID {
			delete(t.reviews, id)
			delete(t.reviewPairs, pairKey{rv.HouseID, rv.UserID})
			n++
		}
	}
	return n
}

func reviewKey(rv domain.Review) ordered {
	return ordered{id: rv.ID, createdAt: rv.CreatedAt}
}
