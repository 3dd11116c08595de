package product

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/product/dto"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Delete(ctx context.Context, id string) error
	ListByLocation(ctx context.Context, location string) ([]model.Product, error)
}
