package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

type houseDocument struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	ImageName   string    `bson:"image_name,omitempty"`
	Description string    `bson:"description"`
	Price       int       `bson:"price"`
	Capacity    int       `bson:"capacity"`
	PostalCode  string    `bson:"postal_code"`
	Address     string    `bson:"address"`
	PhoneNumber string    `bson:"phone_number"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func fromDomainHouse(h *domain.House) *houseDocument {
	return &houseDocument{
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

func (d *houseDocument) toDomain() *domain.House {
	return &domain.House{
		ID:          d.ID,
		Name:        d.Name,
		ImageName:   d.ImageName,
		Description: d.Description,
		Price:       d.Price,
		Capacity:    d.Capacity,
		PostalCode:  d.PostalCode,
		Address:     d.Address,
		PhoneNumber: d.PhoneNumber,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type reviewDocument struct {
	ID        int64     `bson:"_id"`
	HouseID   int64     `bson:"house_id"`
	UserID    int64     `bson:"user_id"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func fromDomainReview(r *domain.Review) *reviewDocument {
	return &reviewDocument{
		ID:        r.ID,
		HouseID:   r.HouseID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID,
		HouseID:   d.HouseID,
		UserID:    d.UserID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type favoriteDocument struct {
	ID        int64     `bson:"_id"`
	HouseID   int64     `bson:"house_id"`
	UserID    int64     `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func fromDomainFavorite(f *domain.Favorite) *favoriteDocument {
	return &favoriteDocument{ID: f.ID, HouseID: f.HouseID, UserID: f.UserID, CreatedAt: f.CreatedAt}
}

func (d *favoriteDocument) toDomain() *domain.Favorite {
	return &domain.Favorite{ID: d.ID, HouseID: d.HouseID, UserID: d.UserID, CreatedAt: d.CreatedAt}
}
