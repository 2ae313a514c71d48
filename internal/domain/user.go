package domain

import (
	"time"

	"github.com/google/uuid"
)

// User owns zero or more travel records. Email is unique and stored lower-cased.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Signup is the input for creating a new account.
type Signup struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
