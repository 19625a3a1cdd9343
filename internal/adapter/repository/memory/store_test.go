package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHouse(t *testing.T, s *Store, name string, price int) *domain.House {
	t.Helper()
	h := &domain.House{Name: name, Price: price, Capacity: 2}
	require.NoError(t, s.Houses().Create(context.Background(), h))
	return h
}

func TestReviewRepository_UniquePair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	h := seedHouse(t, s, "A", 5000)

	require.NoError(t, s.Reviews().Create(ctx, &domain.Review{HouseID: h.ID, UserID: 1, Rating: 4, Comment: "ok"}))
	err := s.Reviews().Create(ctx, &domain.Review{HouseID: h.ID, UserID: 1, Rating: 2, Comment: "again"})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)

	n, err := s.Reviews().CountByHouse(ctx, h.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestReviewRepository_ConcurrentCreateSamePair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	h := seedHouse(t, s, "A", 5000)

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Reviews().Create(ctx, &domain.Review{HouseID: h.ID, UserID: 7, Rating: 5, Comment: "x"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case errors.Is(err, domain.ErrDuplicateReview):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, workers-1, dups)
}

func TestStore_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	h := seedHouse(t, s, "A", 5000)

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Favorites().Create(ctx, &domain.Favorite{HouseID: h.ID, UserID: 1}))
		require.NoError(t, s.Houses().Delete(ctx, h.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Houses().GetByID(ctx, h.ID)
	assert.NoError(t, err)
	_, err = s.Favorites().FindByHouseAndUser(ctx, h.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHouseRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	h := seedHouse(t, s, "A", 5000)
	other := seedHouse(t, s, "B", 6000)

	require.NoError(t, s.Reviews().Create(ctx, &domain.Review{HouseID: h.ID, UserID: 1, Rating: 3, Comment: "c"}))
	require.NoError(t, s.Favorites().Create(ctx, &domain.Favorite{HouseID: h.ID, UserID: 1}))
	require.NoError(t, s.Favorites().Create(ctx, &domain.Favorite{HouseID: other.ID, UserID: 1}))

	require.NoError(t, s.Houses().Delete(ctx, h.ID))

	n, err := s.Reviews().CountByHouse(ctx, h.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	favs, total, err := s.Favorites().ListByUser(ctx, 1, domain.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, favs, 1)
	assert.Equal(t, other.ID, favs[0].HouseID)
}

func TestHouseRepository_ListOrderingWithTies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, price := range []int{300, 100, 200, 100} {
		h := &domain.House{Name: "h", Price: price, CreatedAt: at.Add(time.Duration(i%2) * time.Hour)}
		require.NoError(t, s.Houses().Create(ctx, h))
	}

	byPrice, total, err := s.Houses().List(ctx, domain.HouseOrder(domain.OrderPriceAsc, 0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	var prices []int
	var ids []int64
	for _, h := range byPrice {
		prices = append(prices, h.Price)
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []int{100, 100, 200, 300}, prices)
	assert.Less(t, ids[0], ids[1])

	newest, _, err := s.Houses().List(ctx, domain.HouseOrder("", 0, 10))
	require.NoError(t, err)
	// ids 2 and 4 share the later timestamp; ties go by id descending
	assert.Equal(t, int64(4), newest[0].ID)
	assert.Equal(t, int64(2), newest[1].ID)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	h := seedHouse(t, s, "A", 5000)

	got, err := s.Houses().GetByID(ctx, h.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.Houses().GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}
