package repository

import (
	"context"

	"github.com/taskboardhq/taskboard/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	// GetByEmail matches case-insensitively and includes the password hash.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}
