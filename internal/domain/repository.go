package domain

import "context"

// HouseRepository persists houses.
type HouseRepository interface {
	Create(ctx context.Context, house *House) error
	GetByID(ctx context.Context, id int64) (*House, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, req PageRequest) ([]*House, int64, error)
}

// ReviewRepository persists reviews. Create returns ErrDuplicateReview when
// the (house, user) pair already has a review.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*Review, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id int64) error

	// ListByHouse returns a newest-first page and the house's review count.
	ListByHouse(ctx context.Context, houseID int64, req PageRequest) ([]*Review, int64, error)
	// TopByHouse returns at most n newest reviews.
	TopByHouse(ctx context.Context, houseID int64, n int) ([]*Review, error)
	CountByHouse(ctx context.Context, houseID int64) (int64, error)
	DeleteByHouseID(ctx context.Context, houseID int64) (int64, error)
}

// FavoriteRepository persists favorites. Create returns ErrDuplicateFavorite
// when the (house, user) pair is already favorited.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *Favorite) error
	GetByID(ctx context.Context, id int64) (*Favorite, error)
	FindByHouseAndUser(ctx context.Context, houseID, userID int64) (*Favorite, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64, req PageRequest) ([]*Favorite, int64, error)
	DeleteByHouseID(ctx context.Context, houseID int64) (int64, error)
}

// TxManager runs fn atomically. Repositories called with the ctx passed to
// fn take part in the transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
