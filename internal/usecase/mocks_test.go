package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/repository/memory"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/metrics"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data any) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockImageStore struct{ mock.Mock }

func (m *MockImageStore) ImageURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}
func (m *MockImageStore) RemoveImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

// clock hands out strictly increasing timestamps.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store   *memory.Store
	pub     *MockPublisher
	metrics *metrics.MetricsManager

	reviews   *ReviewUsecase
	favorites *FavoriteUsecase
	houses    *HouseUsecase
	view      *HouseViewBuilder
}

func newFixture(t *testing.T, opts HouseUsecaseOptions) *fixture {
	t.Helper()
	log := logger.NewNop()
	store := memory.NewStore()
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m := metrics.NewMetricsManager("stay-service-test")

	if opts.Publisher == nil {
		opts.Publisher = pub
	}
	opts.Metrics = m

	clk := newClock()
	f := &fixture{
		store:     store,
		pub:       pub,
		metrics:   m,
		reviews:   NewReviewUsecase(store.Houses(), store.Reviews(), store, pub, m, log),
		favorites: NewFavoriteUsecase(store.Houses(), store.Favorites(), store, pub, m, log),
		houses:    NewHouseUsecase(store.Houses(), store.Reviews(), store.Favorites(), store, opts, log),
	}
	f.reviews.now = clk.Now
	f.favorites.now = clk.Now
	f.houses.now = clk.Now
	f.view = NewHouseViewBuilder(f.houses, store.Reviews(), store.Favorites(), opts.Images, log)
	return f
}

func (f *fixture) house(t *testing.T, name string, price int) *domain.House {
	t.Helper()
	h, err := f.houses.CreateHouse(context.Background(), CreateHouseInput{Name: name, Price: price, Capacity: 4})
	require.NoError(t, err)
	return h
}

func (f *fixture) review(t *testing.T, houseID, userID int64, rating int) *domain.Review {
	t.Helper()
	r, err := f.reviews.Create(context.Background(), CreateReviewInput{
		HouseID: houseID, UserID: userID, Rating: &rating, Comment: "stayed here",
	})
	require.NoError(t, err)
	return r
}

func ratingOf(v int) *int { return &v }
