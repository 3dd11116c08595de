package user

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
)

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}
