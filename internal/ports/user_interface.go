package ports

import (
	"auth-token-server/internal/model"
	"context"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	Exists(ctx context.Context, login string) (bool, error)
}
