package domain

import "errors"

var (
	// ErrNotFound indicates that a requested house, review or favorite does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrValidation indicates that the provided input data is invalid.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateReview indicates that the user has already reviewed the house.
	ErrDuplicateReview = errors.New("review already exists for this user and house")
	// ErrDuplicateFavorite indicates that the house is already in the user's favorites.
	ErrDuplicateFavorite = errors.New("favorite already exists for this user and house")
	// ErrForbidden indicates that the requester does not own the resource.
	ErrForbidden = errors.New("action forbidden")
	// ErrAuthenticationRequired indicates that the operation needs a signed-in user.
	ErrAuthenticationRequired = errors.New("login required")
)
