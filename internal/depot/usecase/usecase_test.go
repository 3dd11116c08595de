package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/depot/dto"
	"github.com/fekuna/labstock-service/internal/depot/usecase"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(t *testing.T) depot.UseCase {
	t.Helper()
	uc := usecase.NewDepotUseCase(memory.New().Depots(), logger.NewNop())
	_, err := uc.CreateDepot(context.Background(), &dto.CreateDepotInput{ID: "1", Name: "Labo A"})
	require.NoError(t, err)
	return uc
}

func TestCreateDepot(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	d, err := uc.GetDepot(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Labo A", d.Name)
	assert.Equal(t, "#64748b", d.Color)
	assert.True(t, d.Active)

	_, err = uc.CreateDepot(ctx, &dto.CreateDepotInput{ID: "abc", Name: "Labo B"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.CreateDepot(ctx, &dto.CreateDepotInput{ID: "2", Name: "Labo A"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = uc.CreateDepot(ctx, &dto.CreateDepotInput{ID: "1", Name: "Labo B"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestUpdateDepot(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	_, err := uc.CreateDepot(ctx, &dto.CreateDepotInput{ID: "2", Name: "Labo B", Color: "#ff0000"})
	require.NoError(t, err)

	d, err := uc.UpdateDepot(ctx, &dto.UpdateDepotInput{ID: "2", Name: "Labo C"})
	require.NoError(t, err)
	assert.Equal(t, "Labo C", d.Name)
	assert.Equal(t, "#ff0000", d.Color)

	_, err = uc.UpdateDepot(ctx, &dto.UpdateDepotInput{ID: "2", Name: "Labo A"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = uc.UpdateDepot(ctx, &dto.UpdateDepotInput{ID: "9", Name: "Labo Z"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	_, err := uc.CreateDepot(ctx, &dto.CreateDepotInput{ID: "2", Name: "Labo B"})
	require.NoError(t, err)

	_, err = uc.SetActive(ctx, "2", false)
	require.NoError(t, err)

	active, err := uc.ListDepots(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Labo A", active[0].Name)

	all, err := uc.ListDepots(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
