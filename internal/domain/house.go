package domain

import "time"

// House is a rentable listing. Reviews and favorites hang off it and are
// removed with it.
type House struct {
	ID          int64
	Name        string
	ImageName   string
	Description string
	Price       int
	Capacity    int
	PostalCode  string
	Address     string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is the authenticated principal as seen by this service.
type User struct {
	ID   int64
	Name string
	Role string
}

// RoleAdmin may create and delete houses.
const RoleAdmin = "admin"

// IsAdmin reports whether u carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
