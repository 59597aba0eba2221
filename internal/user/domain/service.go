package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound     = errors.New("user_not_found")
	ErrInvalidInput = errors.New("invalid_user_input")
	ErrEmailTaken   = errors.New("email_taken")
)

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type Service interface {
	ListByCompany(ctx context.Context) ([]User, error)
	// Create adds a seat to the caller's company, enforcing the free-plan
	// seat cap before the write.
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id snowflake.ID) error
	ToggleActive(ctx context.Context, id snowflake.ID) (User, error)
}
