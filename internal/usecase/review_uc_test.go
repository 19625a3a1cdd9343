package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewCreate_Success(t *testing.T) {
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)

	r, err := f.reviews.Create(context.Background(), CreateReviewInput{HouseID: h.ID, UserID: 3, Rating: ratingOf(4), Comment: "quiet"})
	require.NoError(t, err)

	assert.NotZero(t, r.ID)
	assert.Equal(t, 4, r.Rating)
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReviewsCreatedTotal))
	f.pub.AssertCalled(t, "Publish", mock.Anything, SubjectReviewCreated, mock.MatchedBy(func(e ReviewEvent) bool {
		return e.ReviewID == r.ID && e.HouseID == h.ID && e.UserID == 3
	}))
}

func TestReviewCreate_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)
	first := f.review(t, h.ID, 3, 5)

	_, err := f.reviews.Create(ctx, CreateReviewInput{HouseID: h.ID, UserID: 3, Rating: ratingOf(1), Comment: "changed my mind"})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)

	page, err := f.reviews.ListByHouse(ctx, h.ID, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, first.ID, page.Items[0].ID)
	assert.Equal(t, 5, page.Items[0].Rating)
}

func TestReviewCreate_ErrorPrecedence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)
	f.review(t, h.ID, 3, 5)

	// missing house wins over invalid input
	_, err := f.reviews.Create(ctx, CreateReviewInput{HouseID: 9999, UserID: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// invalid input wins over duplicate
	_, err = f.reviews.Create(ctx, CreateReviewInput{HouseID: h.ID, UserID: 3, Rating: ratingOf(9), Comment: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.reviews.Create(ctx, CreateReviewInput{HouseID: h.ID, UserID: 3, Rating: ratingOf(3), Comment: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.reviews.Create(ctx, CreateReviewInput{HouseID: h.ID, UserID: 3, Comment: "no rating"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReviewCreate_ConcurrentSamePair(t *testing.T) {
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)

	const workers = 20
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
			_, err := f.reviews.Create(context.Background(), CreateReviewInput{HouseID: h.ID, UserID: 42, Rating: ratingOf(5), Comment: "race"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else if errors.Is(err, domain.ErrDuplicateReview) {
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, workers-1, dups)
}

func TestReviewUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)
	other := f.house(t, "Mountain", 6000)
	r := f.review(t, h.ID, 3, 2)

	t.Run("non-owner is forbidden and nothing changes", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, UpdateReviewInput{ReviewID: r.ID, HouseID: h.ID, UserID: 4, Rating: ratingOf(5), Comment: "hijack"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		got, err := f.reviews.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Rating)
		assert.Equal(t, "stayed here", got.Comment)
	})

	t.Run("forbidden precedes validation", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, UpdateReviewInput{ReviewID: r.ID, UserID: 4, Rating: ratingOf(0)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("wrong house is not found", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, UpdateReviewInput{ReviewID: r.ID, HouseID: other.ID, UserID: 3, Rating: ratingOf(5), Comment: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown review is not found", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, UpdateReviewInput{ReviewID: 12345, UserID: 3, Rating: ratingOf(5), Comment: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("owner with invalid content", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, UpdateReviewInput{ReviewID: r.ID, UserID: 3, Rating: ratingOf(6), Comment: "x"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("owner edits rating and comment only", func(t *testing.T) {
		updated, err := f.reviews.Update(ctx, UpdateReviewInput{ReviewID: r.ID, HouseID: h.ID, UserID: 3, Rating: ratingOf(5), Comment: "better second time"})
		require.NoError(t, err)

		got, err := f.reviews.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Rating)
		assert.Equal(t, "better second time", got.Comment)
		assert.Equal(t, r.CreatedAt, got.CreatedAt)
		assert.Equal(t, r.HouseID, got.HouseID)
		assert.Equal(t, r.UserID, got.UserID)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
		assert.Equal(t, updated.UpdatedAt, got.UpdatedAt)
	})
}

func TestReviewDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)
	r := f.review(t, h.ID, 3, 4)

	assert.ErrorIs(t, f.reviews.Delete(ctx, r.ID, h.ID, 4), domain.ErrForbidden)
	_, err := f.reviews.Get(ctx, r.ID)
	require.NoError(t, err)

	require.NoError(t, f.reviews.Delete(ctx, r.ID, h.ID, 3))
	_, err = f.reviews.Get(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.reviews.Delete(ctx, r.ID, h.ID, 3), domain.ErrNotFound)

	// after deletion the user may review again
	f.review(t, h.ID, 3, 1)
}

func TestReviewListByHouse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})

	_, err := f.reviews.ListByHouse(ctx, 777, 0, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	h := f.house(t, "Seaside", 8000)
	page, err := f.reviews.ListByHouse(ctx, h.ID, 0, 10)
	require.NoError(t, err)
	assert.True(t, page.IsEmpty())
	assert.Zero(t, page.Total)

	var ids []int64
	for u := int64(1); u <= 12; u++ {
		ids = append([]int64{f.review(t, h.ID, u, 3).ID}, ids...)
	}
	first, err := f.reviews.ListByHouse(ctx, h.ID, 0, 10)
	require.NoError(t, err)
	second, err := f.reviews.ListByHouse(ctx, h.ID, 1, 10)
	require.NoError(t, err)

	assert.Len(t, first.Items, 10)
	assert.Len(t, second.Items, 2)
	assert.True(t, first.HasNext())
	assert.False(t, second.HasNext())

	var got []int64
	for _, r := range append(first.Items, second.Items...) {
		got = append(got, r.ID)
	}
	assert.Equal(t, ids, got)
}

func TestReviewListByHouse_FarPageIsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, HouseUsecaseOptions{})
	h := f.house(t, "Seaside", 8000)
	f.review(t, h.ID, 1, 4)

	var page domain.Page[*domain.Review]
	require.NotPanics(t, func() {
		var err error
		page, err = f.reviews.ListByHouse(ctx, h.ID, 1<<60, 10)
		require.NoError(t, err)
	})
	assert.True(t, page.IsEmpty())
	assert.EqualValues(t, 1, page.Total)
	assert.False(t, page.HasNext())
}
