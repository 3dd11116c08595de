package inventory

import (
	"context"

	"github.com/fekuna/labstock-service/internal/inventory/dto"
	"github.com/fekuna/labstock-service/internal/model"
)

// UseCase is the only path that changes Product.Stock. Every accepted change
// appends exactly one ledger row.
type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput, actor model.Actor) (*dto.MutationResult, error)
	EditProduct(ctx context.Context, input *dto.EditProductInput, actor model.Actor) (*dto.MutationResult, error)
	Consume(ctx context.Context, input *dto.ConsumeInput, actor model.Actor) (*dto.MutationResult, error)
	AdminMove(ctx context.Context, input *dto.AdminMoveInput, actor model.Actor) (*dto.MutationResult, error)
	SetStock(ctx context.Context, input *dto.SetStockInput, actor model.Actor) (*dto.MutationResult, error)
	SetDepotInventory(ctx context.Context, input *dto.SetDepotInventoryInput, actor model.Actor) (*dto.BulkSetResult, error)
	ImportProducts(ctx context.Context, rows []dto.CreateProductInput, actor model.Actor) (*dto.ImportResult, error)
}
