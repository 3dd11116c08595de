package movement

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement/dto"
)

// UseCase is the read side of the ledger. Rows are only ever written by the
// stock mutators, inside the transaction that changes the stock.
type UseCase interface {
	List(ctx context.Context, limit int) ([]model.StockMovement, error)
	ListForDepot(ctx context.Context, depotName string, limit int) ([]model.StockMovement, error)
	ListForProduct(ctx context.Context, productID string, limit int) ([]model.StockMovement, error)
	ListByTransactionRef(ctx context.Context, ref string) ([]model.StockMovement, error)
	Filter(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error)
}
