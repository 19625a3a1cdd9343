package handler

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/usecase"
)

type houseResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ImageName   string    `json:"image_name,omitempty"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Capacity    int       `json:"capacity"`
	PostalCode  string    `json:"postal_code"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toHouseResponse(h *domain.House) houseResponse {
	return houseResponse{
		ID:          h.ID,
		Name:        h.Name,
		ImageName:   h.ImageName,
		Description: h.Description,
		Price:       h.Price,
		Capacity:    h.Capacity,
		PostalCode:  h.PostalCode,
		Address:     h.Address,
		PhoneNumber: h.PhoneNumber,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

type reviewResponse struct {
	ID        int64     `json:"id"`
	HouseID   int64     `json:"house_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		HouseID:   r.HouseID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type favoriteResponse struct {
	ID        int64     `json:"id"`
	HouseID   int64     `json:"house_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toFavoriteResponse(f *domain.Favorite) favoriteResponse {
	return favoriteResponse{ID: f.ID, HouseID: f.HouseID, UserID: f.UserID, CreatedAt: f.CreatedAt}
}

type pageResponse[T any] struct {
	Items      []T    `json:"items"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	HasNext    bool   `json:"has_next"`
	Message    string `json:"message,omitempty"`
}

func toPageResponse[E any, T any](p domain.Page[E], conv func(E) T) pageResponse[T] {
	items := make([]T, len(p.Items))
	for i, e := range p.Items {
		items[i] = conv(e)
	}
	return pageResponse[T]{
		Items:      items,
		Page:       p.Index,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
		HasNext:    p.HasNext(),
	}
}

type houseDetailResponse struct {
	House            houseResponse     `json:"house"`
	ImageURL         string            `json:"image_url,omitempty"`
	RecentReviews    []reviewResponse  `json:"recent_reviews"`
	TotalReviewCount int64             `json:"total_review_count"`
	HasUserReviewed  bool              `json:"has_user_reviewed"`
	Favorite         *favoriteResponse `json:"favorite"`
}

func toHouseDetailResponse(v *usecase.HouseDetailView) houseDetailResponse {
	out := houseDetailResponse{
		House:            toHouseResponse(v.House),
		ImageURL:         v.ImageURL,
		RecentReviews:    make([]reviewResponse, len(v.RecentReviews)),
		TotalReviewCount: v.TotalReviewCount,
		HasUserReviewed:  v.HasUserReviewed,
	}
	for i, r := range v.RecentReviews {
		out.RecentReviews[i] = toReviewResponse(r)
	}
	if v.Favorite != nil {
		f := toFavoriteResponse(v.Favorite)
		out.Favorite = &f
	}
	return out
}

type createHouseRequest struct {
	Name        string `json:"name"`
	ImageName   string `json:"image_name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Capacity    int    `json:"capacity"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

type reviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}
