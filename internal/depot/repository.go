package depot

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context, activeOnly bool) ([]model.Depot, error)
	FindByID(ctx context.Context, id string) (*model.Depot, error)
	FindByName(ctx context.Context, name string) (*model.Depot, error)
	Create(ctx context.Context, d *model.Depot) error
	Update(ctx context.Context, d *model.Depot) error
}
