package usecase

import (
	"context"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement"
	"github.com/fekuna/labstock-service/internal/movement/dto"
	"github.com/fekuna/labstock-service/pkg/logger"
)

type movementUseCase struct {
	repo   movement.Repository
	logger logger.ZapLogger
}

func NewMovementUseCase(repo movement.Repository, log logger.ZapLogger) movement.UseCase {
	return &movementUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *movementUseCase) List(ctx context.Context, limit int) ([]model.StockMovement, error) {
	return uc.repo.List(ctx, &dto.MovementFilters{Limit: normalizeLimit(limit)})
}

func (uc *movementUseCase) ListForDepot(ctx context.Context, depotName string, limit int) ([]model.StockMovement, error) {
	return uc.repo.List(ctx, &dto.MovementFilters{DepotName: depotName, Limit: normalizeLimit(limit)})
}

func (uc *movementUseCase) ListForProduct(ctx context.Context, productID string, limit int) ([]model.StockMovement, error) {
	return uc.repo.List(ctx, &dto.MovementFilters{ProductID: productID, Limit: normalizeLimit(limit)})
}

func (uc *movementUseCase) ListByTransactionRef(ctx context.Context, ref string) ([]model.StockMovement, error) {
	return uc.repo.List(ctx, &dto.MovementFilters{TransactionRef: ref})
}

// Filter combines any of product, depot, change type and ref.
func (uc *movementUseCase) Filter(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error) {
	if filters.ChangeType != "" && !filters.ChangeType.Valid() {
		return nil, apperror.Validation("change_type", "unknown change type "+string(filters.ChangeType))
	}
	f := *filters
	f.Limit = normalizeLimit(f.Limit)
	return uc.repo.List(ctx, &f)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return dto.DefaultListLimit
	}
	return limit
}
