// Package memory is an in-process Entity Store. It keeps the same uniqueness
// and cascade guarantees as the database adapters and backs the unit tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

type pairKey struct {
	houseID int64
	userID  int64
}

type tables struct {
	houses    map[int64]domain.House
	reviews   map[int64]domain.Review
	favorites map[int64]domain.Favorite

	reviewPairs   map[pairKey]int64
	favoritePairs map[pairKey]int64

	seq int64
}

func (t *tables) clone() *tables {
	c := &tables{
		houses:        make(map[int64]domain.House, len(t.houses)),
		reviews:       make(map[int64]domain.Review, len(t.reviews)),
		favorites:     make(map[int64]domain.Favorite, len(t.favorites)),
		reviewPairs:   make(map[pairKey]int64, len(t.reviewPairs)),
		favoritePairs: make(map[pairKey]int64, len(t.favoritePairs)),
		seq:           t.seq,
	}
	for k, v := range t.houses {
		c.houses[k] = v
	}
	for k, v := range t.reviews {
		c.reviews[k] = v
	}
	for k, v := range t.favorites {
		c.favorites[k] = v
	}
	for k, v := range t.reviewPairs {
		c.reviewPairs[k] = v
	}
	for k, v := range t.favoritePairs {
		c.favoritePairs[k] = v
	}
	return c
}

// Store holds all three tables behind one lock.
type Store struct {
	mu  sync.RWMutex
	t   *tables
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		t: &tables{
			houses:        make(map[int64]domain.House),
			reviews:       make(map[int64]domain.Review),
			favorites:     make(map[int64]domain.Favorite),
			reviewPairs:   make(map[pairKey]int64),
			favoritePairs: make(map[pairKey]int64),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read runs fn under the read lock unless ctx already holds the store
// inside a transaction.
func (s *Store) read(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.t)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.t)
}

func (s *Store) write(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.t)
}

func (s *Store) nextID() int64 {
	s.t.seq++
	return s.t.seq
}

// WithinTransaction holds the store exclusively while fn runs and restores
// the previous state if fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

// Houses returns the house repository backed by s.
func (s *Store) Houses() *HouseRepository { return &HouseRepository{s: s} }

// Reviews returns the review repository backed by s.
func (s *Store) Reviews() *ReviewRepository { return &ReviewRepository{s: s} }

// Favorites returns the favorite repository backed by s.
func (s *Store) Favorites() *FavoriteRepository { return &FavoriteRepository{s: s} }

type ordered struct {
	id        int64
	createdAt time.Time
	price     int
}

// less orders a before b for req, breaking ties on id in the same direction.
func less(a, b ordered, req domain.PageRequest) bool {
	var cmp int
	switch req.Sort {
	case domain.SortByPrice:
		cmp = compareInt(int64(a.price), int64(b.price))
	default:
		cmp = a.createdAt.Compare(b.createdAt)
	}
	if cmp == 0 {
		cmp = compareInt(a.id, b.id)
	}
	if req.Direction == domain.Asc {
		return cmp < 0
	}
	return cmp > 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// paginate sorts items in place and returns the slice for req.
func paginate[T any](items []T, key func(T) ordered, req domain.PageRequest) []T {
	sort.Slice(items, func(i, j int) bool { return less(key(items[i]), key(items[j]), req) })
	start := req.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
