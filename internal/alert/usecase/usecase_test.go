package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/alert/dto"
	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = model.Actor{UserID: "u-admin", Role: model.RoleAdmin}
	depotOne = model.Actor{UserID: "u-a", Role: model.RoleDepot, DepotID: "1"}
	today    = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
)

func newUseCase(t *testing.T) (*alertUseCase, *memory.Store) {
	t.Helper()
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Depots().Create(ctx, &model.Depot{ID: "1", Name: "Labo A", Active: true}))
	require.NoError(t, s.Depots().Create(ctx, &model.Depot{ID: "2", Name: "Labo B", Active: true}))

	uc := NewAlertUseCase(s.Alerts(), s.Products(), s.Depots(), nil, logger.NewNop()).(*alertUseCase)
	uc.now = func() time.Time { return today }
	return uc, s
}

func addProduct(t *testing.T, s *memory.Store, id, location string, stock, threshold int, expiresIn *int) {
	t.Helper()
	p := model.Product{
		BaseModel:      model.BaseModel{ID: id},
		Code:           id,
		Name:           id,
		Location:       location,
		Stock:          stock,
		AlertThreshold: threshold,
		Version:        1,
	}
	if expiresIn != nil {
		expiry := today.AddDate(0, 0, *expiresIn)
		p.ExpiryDate = &expiry
	}
	require.NoError(t, s.Products().CreateWithMovement(context.Background(), &p, &model.StockMovement{ID: "m-" + id}))
}

func days(n int) *int { return &n }

func TestScan_DefaultConfig(t *testing.T) {
	uc, s := newUseCase(t)
	addProduct(t, s, "low", "Labo A", 2, 5, nil)
	addProduct(t, s, "at-threshold", "Labo A", 5, 5, nil)
	addProduct(t, s, "fine", "Labo A", 9, 5, days(90))
	addProduct(t, s, "no-threshold", "Labo A", 0, 0, nil)
	addProduct(t, s, "soon", "Labo A", 9, 0, days(30))
	addProduct(t, s, "expired", "Labo A", 9, 0, days(-2))
	addProduct(t, s, "elsewhere", "Labo B", 0, 5, days(1))

	res, err := uc.Scan(context.Background(), "1", depotOne)
	require.NoError(t, err)
	assert.Equal(t, "Labo A", res.Depot)
	assert.Equal(t, 30, res.Config.ExpiryWarningDays)

	var low []string
	for _, p := range res.LowStock {
		low = append(low, p.ID)
	}
	assert.ElementsMatch(t, []string{"low", "at-threshold"}, low)

	require.Len(t, res.Expiring, 2)
	byID := map[string]dto.ExpiringProduct{}
	for _, e := range res.Expiring {
		byID[e.Product.ID] = e
	}
	assert.Equal(t, 30, byID["soon"].DaysLeft)
	assert.False(t, byID["soon"].Expired)
	assert.Equal(t, -2, byID["expired"].DaysLeft)
	assert.True(t, byID["expired"].Expired)
}

func TestScan_UsesStoredConfig(t *testing.T) {
	uc, s := newUseCase(t)
	ctx := context.Background()
	addProduct(t, s, "low", "Labo A", 1, 5, days(20))

	_, err := uc.UpsertConfig(ctx, &dto.UpsertConfigInput{DepotID: "1", LowStockEnabled: false, ExpiryWarningDays: 7}, depotOne)
	require.NoError(t, err)

	res, err := uc.Scan(ctx, "1", admin)
	require.NoError(t, err)
	assert.Empty(t, res.LowStock)
	assert.Empty(t, res.Expiring)
}

func TestConfig(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	cfg, err := uc.GetConfig(ctx, "1", depotOne)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAlertConfig("1"), *cfg)

	_, err = uc.UpsertConfig(ctx, &dto.UpsertConfigInput{DepotID: "1", ExpiryWarningDays: 400}, depotOne)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.GetConfig(ctx, "2", depotOne)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = uc.Scan(ctx, "9", admin)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
