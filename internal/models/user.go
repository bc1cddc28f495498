package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name"`
	Email     string         `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password  string         `json:"-"`                        // Store hashed password, ignore for JSON serialization
	Avatar    string         `json:"avatar"`
	Tokens    []SessionToken `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `json:"date"`
	UpdatedAt time.Time      `json:"-"`
}

// SessionToken records a token issued to a user. Append-only; expired
// entries are never pruned.
type SessionToken struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"index"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"-"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
