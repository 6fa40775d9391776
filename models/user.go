package models

import (
	"time"
)

type User struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	IsVerified          bool      `json:"is_verified"`
	VerificationToken   string    `json:"-"`
	VerificationExpires time.Time `json:"-"`
	ResetToken          string    `json:"-"`
	ResetExpires        time.Time `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Admin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
