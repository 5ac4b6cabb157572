package auth

import "tourmarket/internal/domain"

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" binding:"required" validate:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	Password  string `json:"password" binding:"required" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"omitempty,oneof=traveler guide hotel-manager"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
