package user

import (
	"context"

	"github.com/google/uuid"

	User "parley/internal/user/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *User.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User.User, error)
	GetUserByUsername(ctx context.Context, username string) (*User.User, error)
}
