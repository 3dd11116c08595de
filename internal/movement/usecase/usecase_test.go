package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement/dto"
	"github.com/fekuna/labstock-service/internal/movement/usecase"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(productID, depot, ref string, old, change int, at time.Time) model.StockMovement {
	return model.StockMovement{
		ID:             "m-" + ref,
		ProductID:      productID,
		ProductName:    productID,
		DepotName:      depot,
		ChangeType:     model.ChangeAdminEntry,
		QuantityChange: change,
		OldStockLevel:  old,
		NewStockLevel:  old + change,
		TransactionRef: ref,
		CreatedAt:      at,
	}
}

func TestList(t *testing.T) {
	s := memory.New()
	uc := usecase.NewMovementUseCase(s.Movements(), logger.NewNop())
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	s.Movements().Append(
		row("p1", "Labo A", "ENT-1", 0, 5, base),
		row("p2", "Labo B", "ENT-2", 1, 1, base.Add(time.Minute)),
		row("p1", "Labo A", "ENT-3", 5, 2, base.Add(2*time.Minute)),
	)

	all, err := uc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ENT-3", all[0].TransactionRef)
	assert.NotEmpty(t, all[0].ID)

	latest, err := uc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)

	labA, err := uc.ListForDepot(ctx, "Labo A", 0)
	require.NoError(t, err)
	assert.Len(t, labA, 2)

	p2, err := uc.ListForProduct(ctx, "p2", 0)
	require.NoError(t, err)
	assert.Len(t, p2, 1)

	byRef, err := uc.ListByTransactionRef(ctx, "ENT-1")
	require.NoError(t, err)
	require.Len(t, byRef, 1)
	assert.Equal(t, "p1", byRef[0].ProductID)
}

func TestFilter(t *testing.T) {
	s := memory.New()
	uc := usecase.NewMovementUseCase(s.Movements(), logger.NewNop())
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	consumed := row("p1", "Labo A", "CON-2", 5, -1, base.Add(time.Minute))
	consumed.ChangeType = model.ChangeConsumption
	s.Movements().Append(
		row("p1", "Labo A", "ENT-1", 0, 5, base),
		consumed,
		row("p2", "Labo B", "ENT-3", 0, 2, base.Add(2*time.Minute)),
	)

	got, err := uc.Filter(ctx, &dto.MovementFilters{ChangeType: model.ChangeConsumption})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CON-2", got[0].TransactionRef)

	got, err = uc.Filter(ctx, &dto.MovementFilters{DepotName: "Labo A", ChangeType: model.ChangeAdminEntry})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ENT-1", got[0].TransactionRef)

	_, err = uc.Filter(ctx, &dto.MovementFilters{ChangeType: "theft"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
