package movement

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement/dto"
)

// Repository reads the ledger. Inserts go through InsertQuery in the
// product write transaction; nothing updates or deletes a row.
type Repository interface {
	List(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error)
}
