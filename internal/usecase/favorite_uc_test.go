package usecase

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavoriteCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Lakeside", 7000)

	fav, err := f.favorites.Create(ctx, h.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, h.ID, fav.HouseID)
	assert.Equal(t, int64(5), fav.UserID)
	f.pub.AssertCalled(t, "Publish", mock.Anything, SubjectFavoriteCreated, mock.Anything)

	_, err = f.favorites.Create(ctx, h.ID, 5)
	assert.ErrorIs(t, err, domain.ErrDuplicateFavorite)

	_, err = f.favorites.Create(ctx, 4040, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFavoriteDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Lakeside", 7000)
	other := f.house(t, "Forest", 5000)
	fav, err := f.favorites.Create(ctx, h.ID, 5)
	require.NoError(t, err)

	assert.ErrorIs(t, f.favorites.Delete(ctx, fav.ID, h.ID, 6), domain.ErrForbidden)
	assert.ErrorIs(t, f.favorites.Delete(ctx, fav.ID, other.ID, 5), domain.ErrNotFound)
	_, err = f.favorites.Get(ctx, fav.ID)
	require.NoError(t, err)

	require.NoError(t, f.favorites.Delete(ctx, fav.ID, h.ID, 5))
	assert.ErrorIs(t, f.favorites.Delete(ctx, fav.ID, h.ID, 5), domain.ErrNotFound)

	// un-favoriting frees the pair
	_, err = f.favorites.Create(ctx, h.ID, 5)
	assert.NoError(t, err)
}

func TestFavoriteListByUser_EmptyIsNotAnError(t *testing.T) {
	f := newFixture(t, HouseUsecaseOptions{})

	page, err := f.favorites.ListByUser(context.Background(), 99, 0, 10)
	require.NoError(t, err)
	assert.True(t, page.IsEmpty())
	assert.Zero(t, page.TotalPages())
}

func TestFavoriteListByUser_PagesCoverEverythingOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})

	var newestFirst []int64
	for i := 0; i < 25; i++ {
		h := f.house(t, "h", 1000+i)
		fav, err := f.favorites.Create(ctx, h.ID, 8)
		require.NoError(t, err)
		newestFirst = append([]int64{fav.ID}, newestFirst...)
	}
	// someone else's favorite must not show up
	_, err := f.favorites.Create(ctx, f.house(t, "x", 1).ID, 9)
	require.NoError(t, err)

	var (
		got   []int64
		sizes []int
	)
	for idx := 0; ; idx++ {
		page, err := f.favorites.ListByUser(ctx, 8, idx, 10)
		require.NoError(t, err)
		if page.IsEmpty() {
			break
		}
		assert.EqualValues(t, 25, page.Total)
		sizes = append(sizes, len(page.Items))
		for _, fav := range page.Items {
			got = append(got, fav.ID)
		}
	}

	assert.Equal(t, []int{10, 10, 5}, sizes)
	assert.Equal(t, newestFirst, got)

	again, err := f.favorites.ListByUser(ctx, 8, 1, 10)
	require.NoError(t, err)
	for i, fav := range again.Items {
		assert.Equal(t, got[10+i], fav.ID)
	}
}
