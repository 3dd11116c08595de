package alert

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
)

type Repository interface {
	// FindByDepot returns nil when the depot never saved a config.
	FindByDepot(ctx context.Context, depotID string) (*model.AlertConfig, error)
	Upsert(ctx context.Context, cfg *model.AlertConfig) error
}

// ProductLister lists the products stored at one depot.
type ProductLister interface {
	ListByLocation(ctx context.Context, location string) ([]model.Product, error)
}
