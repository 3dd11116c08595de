package product

import (
	"context"

	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/product/dto"
)

// UseCase is the read side of the catalog. Stock-bearing writes live in the
// inventory package.
type UseCase interface {
	changefeed.Subscriber

	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SearchProducts(ctx context.Context, query, location string, limit int) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id string, actor model.Actor) error
	ImportCSV(ctx context.Context, data []byte, actor model.Actor) (*dto.ImportCSVResult, error)
	// SyncIndex pushes every product to the search index.
	SyncIndex(ctx context.Context) error
}
