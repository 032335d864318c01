package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims carried by a bearer token
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for registration
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after successful registration or login
type AuthResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
