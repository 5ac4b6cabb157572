package domain

import "time"

type UserRole string

const (
	RoleTraveler     UserRole = "traveler"
	RoleGuide        UserRole = "guide"
	RoleHotelManager UserRole = "hotel-manager"
	RoleAdmin        UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleTraveler, RoleGuide, RoleHotelManager, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role may be chosen at signup.
func (r UserRole) SelfRegistrable() bool {
	return r.Valid() && r != RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Caller is the identity resolved by the auth gate for one call.
// A zero ID means an anonymous caller.
type Caller struct {
	ID   int64
	Role UserRole
}

func (c Caller) Authenticated() bool { return c.ID > 0 }

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }
