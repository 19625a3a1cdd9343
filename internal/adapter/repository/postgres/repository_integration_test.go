//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=stay",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=stay_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start Postgres resource: %s", err)
	}
	dsn := fmt.Sprintf("postgres://stay:secret@%s/stay_test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	if err := pool.Retry(func() error {
		var errRetry error
		testDB, errRetry = Open(context.Background(), dsn)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Postgres: %s", err)
	}
	if err := EnsureSchema(context.Background(), testDB); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	code := m.Run()

	_ = testDB.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge Postgres resource: %s", err)
	}
	os.Exit(code)
}

func TestReviewRepository_ConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	houses := NewHouseRepository(testDB, log)
	reviews := NewReviewRepository(testDB, log)
	tx := NewTxManager(testDB)

	h := &domain.House{Name: "pg", Price: 100, Capacity: 1}
	require.NoError(t, houses.Create(ctx, h))

	const workers = 8
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
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return reviews.Create(ctx, &domain.Review{HouseID: h.ID, UserID: 5, Rating: 5, Comment: "race"})
			})
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

func TestHouseRepository_DeleteCascadesThroughForeignKeys(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	houses := NewHouseRepository(testDB, log)
	reviews := NewReviewRepository(testDB, log)
	favs := NewFavoriteRepository(testDB, log)

	h := &domain.House{Name: "pg", Price: 100, Capacity: 1}
	require.NoError(t, houses.Create(ctx, h))
	require.NoError(t, reviews.Create(ctx, &domain.Review{HouseID: h.ID, UserID: 1, Rating: 4, Comment: "c"}))
	require.NoError(t, favs.Create(ctx, &domain.Favorite{HouseID: h.ID, UserID: 1}))

	require.NoError(t, houses.Delete(ctx, h.ID))

	n, err := reviews.CountByHouse(ctx, h.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = favs.FindByHouseAndUser(ctx, h.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFavoriteRepository_MissingHouse(t *testing.T) {
	favs := NewFavoriteRepository(testDB, logger.NewNop())
	err := favs.Create(context.Background(), &domain.Favorite{HouseID: 999999, UserID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	houses := NewHouseRepository(testDB, logger.NewNop())
	tx := NewTxManager(testDB)

	var id int64
	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		h := &domain.House{Name: "rolled back", Price: 1, Capacity: 1}
		require.NoError(t, houses.Create(ctx, h))
		id = h.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = houses.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
