package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/changefeed"
	invdto "github.com/fekuna/labstock-service/internal/inventory/dto"
	invusecase "github.com/fekuna/labstock-service/internal/inventory/usecase"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/product"
	"github.com/fekuna/labstock-service/internal/product/dto"
	"github.com/fekuna/labstock-service/internal/product/usecase"
	"github.com/fekuna/labstock-service/internal/report"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = model.Actor{UserID: "u-admin", UserName: "Admin", Role: model.RoleAdmin}
	depotOne = model.Actor{UserID: "u-a", UserName: "Technicien A", Role: model.RoleDepot, DepotID: "1"}
)

func newUseCase(t *testing.T) (product.UseCase, *memory.Store) {
	t.Helper()
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Depots().Create(ctx, &model.Depot{ID: "1", Name: "Labo A", Active: true}))
	require.NoError(t, s.Depots().Create(ctx, &model.Depot{ID: "2", Name: "Labo B", Active: true}))

	inv := invusecase.NewInventoryUseCase(s.Products(), s.Depots(), s.Locks(), nil, logger.NewNop())
	for _, in := range []invdto.CreateProductInput{
		{Code: "ACE", Name: "Acétone", CASNumber: "67-64-1", Location: "Labo A", Stock: 2, AlertThreshold: 5},
		{Code: "ETH", Name: "Éthanol", CASNumber: "64-17-5", Location: "Labo A", Stock: 20, AlertThreshold: 5},
		{Code: "ETH", Name: "Éthanol", CASNumber: "64-17-5", Location: "Labo B", Stock: 1},
	} {
		in := in
		_, err := inv.CreateProduct(ctx, &in, admin)
		require.NoError(t, err)
	}
	return usecase.NewProductUseCase(s.Products(), inv, nil, nil, logger.NewNop()), s
}

func TestListProducts_Filters(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	all, count, err := uc.ListProducts(ctx, &dto.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, all, 3)

	labA, count, err := uc.ListProducts(ctx, &dto.ProductFilters{Location: "Labo A", SortBy: "stock", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "ETH", labA[0].Code)

	low, _, err := uc.ListProducts(ctx, &dto.ProductFilters{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "ACE", low[0].Code)

	page, count, err := uc.ListProducts(ctx, &dto.ProductFilters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, page, 1)
}

func TestSearchProducts_FallsBackToDatabase(t *testing.T) {
	uc, _ := newUseCase(t)

	found, err := uc.SearchProducts(context.Background(), "64-17", "Labo B", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Labo B", found[0].Location)
}

func TestDeleteProduct_KeepsLedger(t *testing.T) {
	uc, s := newUseCase(t)
	ctx := context.Background()
	p, err := s.Products().FindByCodeAndLocation(ctx, "ACE", "Labo A")
	require.NoError(t, err)

	err = uc.DeleteProduct(ctx, p.ID, depotOne)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	require.NoError(t, uc.DeleteProduct(ctx, p.ID, admin))
	_, err = uc.GetProduct(ctx, p.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// The ledger keeps the history of deleted products.
	assert.Len(t, s.AllMovements(), 3)
	err = uc.DeleteProduct(ctx, p.ID, admin)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestImportCSV(t *testing.T) {
	uc, s := newUseCase(t)
	ctx := context.Background()
	data := []byte(report.ImportHeader + "\n" +
		"NACL,Chlorure de sodium,7647-14-5,NaCl,Labo B,12,g,3,2028-01-01\n" +
		"ACE,Acétone,67-64-1,C3H6O,Labo A,4,L\n" +
		"KO,ligne courte\n")

	res, err := uc.ImportCSV(ctx, data, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Len(t, res.Errors, 2)
	assert.NotEmpty(t, res.TransactionRef)

	created, err := s.Products().FindByCodeAndLocation(ctx, "NACL", "Labo B")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 12, created.Stock)

	_, err = uc.ImportCSV(ctx, []byte(report.ImportHeader+"\n"), admin)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = uc.ImportCSV(ctx, data, depotOne)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestOnChange_WithoutBackendsIsNoop(t *testing.T) {
	uc, _ := newUseCase(t)
	assert.NoError(t, uc.OnChange(context.Background(), changefeed.Event{Table: changefeed.TableProducts, Action: changefeed.ActionUpdate, ID: "missing"}))
	assert.NoError(t, uc.SyncIndex(context.Background()))
}
