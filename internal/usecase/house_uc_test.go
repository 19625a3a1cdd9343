package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/port/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateHouse_Validation(t *testing.T) {
	f := newFixture(t, HouseUsecaseOptions{})
	for _, in := range []CreateHouseInput{
		{Name: " ", Price: 1, Capacity: 1},
		{Name: "a", Price: 0, Capacity: 1},
		{Name: "a", Price: 1, Capacity: 0},
	} {
		_, err := f.houses.CreateHouse(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestListHouses_Order(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	a := f.house(t, "a", 300)
	b := f.house(t, "b", 100)
	c := f.house(t, "c", 200)

	ids := func(p domain.Page[*domain.House]) []int64 {
		var out []int64
		for _, h := range p.Items {
			out = append(out, h.ID)
		}
		return out
	}

	byPrice, err := f.houses.ListHouses(ctx, domain.OrderPriceAsc, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID, a.ID}, ids(byPrice))

	for _, token := range []string{"", "bogus"} {
		newest, err := f.houses.ListHouses(ctx, token, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{c.ID, b.ID, a.ID}, ids(newest))
	}
}

func TestDeleteHouse_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	doomed := f.house(t, "doomed", 9000)
	kept := f.house(t, "kept", 9000)

	for u := int64(1); u <= 3; u++ {
		f.review(t, doomed.ID, u, 4)
		_, err := f.favorites.Create(ctx, doomed.ID, u)
		require.NoError(t, err)
	}
	_, err := f.favorites.Create(ctx, kept.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.houses.DeleteHouse(ctx, doomed.ID))

	_, err = f.houses.GetHouse(ctx, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := f.store.Reviews().CountByHouse(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	page, err := f.favorites.ListByUser(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].HouseID)

	f.pub.AssertCalled(t, "Publish", mock.Anything, SubjectHouseDeleted, mock.MatchedBy(func(e HouseDeletedEvent) bool {
		return e.HouseID == doomed.ID && e.ReviewsRemoved == 3 && e.FavoritesRemoved == 3
	}))
	assert.ErrorIs(t, f.houses.DeleteHouse(ctx, doomed.ID), domain.ErrNotFound)
}

func TestDeleteHouse_EvictsCacheAndImage(t *testing.T) {
	ctx := context.Background()
	c := &MockCache{}
	images := &MockImageStore{}
	f := newFixture(t, HouseUsecaseOptions{Cache: c, Images: images, CacheTTL: time.Minute})

	h, err := f.houses.CreateHouse(ctx, CreateHouseInput{Name: "pic", ImageName: "houses/pic.jpg", Price: 10, Capacity: 1})
	require.NoError(t, err)

	c.On("Delete", mock.Anything, houseCacheKey(h.ID)).Return(nil).Once()
	images.On("RemoveImage", mock.Anything, "houses/pic.jpg").Return(errors.New("minio down")).Once()

	// image cleanup failure does not undo the delete
	require.NoError(t, f.houses.DeleteHouse(ctx, h.ID))
	c.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestGetHouse_CacheAside(t *testing.T) {
	ctx := context.Background()
	c := &MockCache{}
	f := newFixture(t, HouseUsecaseOptions{Cache: c, CacheTTL: time.Minute})
	h := f.house(t, "cached", 4200)
	key := houseCacheKey(h.ID)

	c.On("Get", mock.Anything, key).Return(nil, cache.ErrNotFound).Once()
	c.On("Set", mock.Anything, key, mock.Anything, time.Minute).Return(nil).Once()

	got, err := f.houses.GetHouse(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Name)

	// served from cache without touching the store
	stale := *h
	stale.Name = "from cache"
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	c.On("Get", mock.Anything, key).Return(raw, nil).Once()

	got, err = f.houses.GetHouse(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "from cache", got.Name)
	c.AssertExpectations(t)
}

func TestGetHouse_CacheErrorFallsThrough(t *testing.T) {
	c := &MockCache{}
	f := newFixture(t, HouseUsecaseOptions{Cache: c})
	h := f.house(t, "x", 1)

	c.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	got, err := f.houses.GetHouse(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)

	_, err = f.houses.GetHouse(context.Background(), 31337)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
