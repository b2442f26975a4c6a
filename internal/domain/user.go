package domain

import (
	"context"
	"time"
)

// User is a learner identified through Google login.
type User struct {
	ID                string
	GoogleID          string
	Email             string
	Name              string
	ProfilePictureURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewUser(id, googleID, email string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		GoogleID:  googleID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) Validate() error {
	var errs ValidationErrors
	if u.GoogleID == "" {
		errs = append(errs, NewMissingFieldError("google_id"))
	}
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UserRepository returns (nil, nil) from the getters when no user matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}
