package depot

import (
	"context"

	"github.com/fekuna/labstock-service/internal/depot/dto"
	"github.com/fekuna/labstock-service/internal/model"
)

type UseCase interface {
	ListDepots(ctx context.Context, activeOnly bool) ([]model.Depot, error)
	GetDepot(ctx context.Context, id string) (*model.Depot, error)
	CreateDepot(ctx context.Context, input *dto.CreateDepotInput) (*model.Depot, error)
	UpdateDepot(ctx context.Context, input *dto.UpdateDepotInput) (*model.Depot, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Depot, error)
}
