package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Owned is implemented by resources that only their creator may mutate.
type Owned interface {
	OwnerID() int64
}

// Review is a user's rating and comment for a house. There is at most one
// per (HouseID, UserID).
type Review struct {
	ID        int64
	HouseID   int64
	UserID    int64
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) OwnerID() int64 { return r.UserID }

// ValidateReviewContent checks the user-editable part of a review.
func ValidateReviewContent(rating *int, comment string) error {
	if rating == nil {
		return fmt.Errorf("%w: rating is required", ErrValidation)
	}
	if *rating < MinRating || *rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("%w: comment must not be blank", ErrValidation)
	}
	return nil
}

// Favorite marks a house as bookmarked by a user. There is at most one per
// (HouseID, UserID). Favorites are never edited.
type Favorite struct {
	ID        int64
	HouseID   int64
	UserID    int64
	CreatedAt time.Time
}

func (f *Favorite) OwnerID() int64 { return f.UserID }
