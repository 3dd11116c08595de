package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/approval"
	"github.com/fekuna/labstock-service/internal/approval/usecase"
	"github.com/fekuna/labstock-service/internal/changefeed"
	invdto "github.com/fekuna/labstock-service/internal/inventory/dto"
	invusecase "github.com/fekuna/labstock-service/internal/inventory/usecase"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = model.Actor{UserID: "u-admin", UserName: "Admin", Role: model.RoleAdmin}
	depotOne = model.Actor{UserID: "u-a", UserName: "Technicien A", Role: model.RoleDepot, DepotID: "1"}
	fixedNow = time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
)

type fixture struct {
	store *memory.Store
	feed  *changefeed.Recorder
	uc    approval.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	require.NoError(t, s.Depots().Create(context.Background(), &model.Depot{ID: "1", Name: "Labo A", Active: true}))

	clock := usecase.WithClock(func() time.Time { return fixedNow })
	inv := invusecase.NewInventoryUseCase(s.Products(), s.Depots(), s.Locks(), nil, logger.NewNop())
	feed := changefeed.NewRecorder(16)
	return &fixture{
		store: s,
		feed:  feed,
		uc:    usecase.NewApprovalUseCase(s.Submissions(), inv, feed, logger.NewNop(), clock),
	}
}

func (f *fixture) product(t *testing.T, code string, stock int) *model.Product {
	t.Helper()
	inv := invusecase.NewInventoryUseCase(f.store.Products(), f.store.Depots(), nil, nil, logger.NewNop())
	res, err := inv.CreateProduct(context.Background(), &invdto.CreateProductInput{
		Code: code, Name: "Produit " + code, Location: "Labo A", Stock: stock,
	}, admin)
	require.NoError(t, err)
	return res.Product
}

func (f *fixture) submission(t *testing.T, id string, items ...model.SubmissionItem) {
	t.Helper()
	require.NoError(t, f.store.Submissions().Create(context.Background(), &model.InventorySubmission{
		ID:        id,
		DepotID:   "1",
		DepotName: "Labo A",
		Items:     items,
		Status:    model.SubmissionPending,
		CreatedAt: fixedNow.Add(-time.Hour),
	}))
}

func (f *fixture) status(t *testing.T, id string) model.SubmissionStatus {
	t.Helper()
	s, err := f.store.Submissions().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.Status
}

func TestApprove_ReplacesStockWithCountedQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.product(t, "P1", 7)
	f.submission(t, "s1", model.SubmissionItem{ProductID: p1.ID, Name: p1.Name, Quantity: 15})

	res, err := f.uc.Approve(ctx, "s1", admin)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionApproved, res.Submission.Status)
	require.NotNil(t, res.Submission.ReviewedBy)
	assert.Equal(t, "Admin", *res.Submission.ReviewedBy)
	assert.Equal(t, "INV-1777730400000", res.TransactionRef)

	stored, err := f.store.Products().FindByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.Stock)

	require.Len(t, res.Movements, 1)
	m := res.Movements[0]
	assert.Equal(t, 7, m.OldStockLevel)
	assert.Equal(t, 15, m.NewStockLevel)
	assert.Equal(t, 8, m.QuantityChange)
	assert.Equal(t, model.ChangeSubmission, m.ChangeType)
	assert.Equal(t, model.SubmissionApproved, f.status(t, "s1"))
}

func TestApprove_AllRowsShareOneRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var items []model.SubmissionItem
	for _, code := range []string{"A", "B", "C", "D"} {
		p := f.product(t, code, 1)
		items = append(items, model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: 3})
	}
	f.submission(t, "s1", items...)

	res, err := f.uc.Approve(ctx, "s1", admin)
	require.NoError(t, err)
	require.Len(t, res.Movements, 4)

	count := 0
	for _, m := range f.store.AllMovements() {
		if m.ChangeType != model.ChangeSubmission {
			continue
		}
		count++
		assert.Equal(t, res.TransactionRef, m.TransactionRef)
	}
	assert.Equal(t, 4, count)
}

func TestApprove_UnchangedItemStillRecorded(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P1", 6)
	f.submission(t, "s1", model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: 6})

	res, err := f.uc.Approve(context.Background(), "s1", admin)
	require.NoError(t, err)
	require.Len(t, res.Movements, 1)
	assert.Equal(t, 0, res.Movements[0].QuantityChange)
}

func TestApprove_FailedItemRevertsToPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	good := f.product(t, "OK", 2)
	bad := f.product(t, "KO", 2)
	f.store.FailProductWrites(bad.ID, errors.New("timeout"))
	f.submission(t, "s1",
		model.SubmissionItem{ProductID: good.ID, Name: good.Name, Quantity: 10},
		model.SubmissionItem{ProductID: bad.ID, Name: bad.Name, Quantity: 10},
		model.SubmissionItem{ProductID: "gone", Name: "Supprimé", Quantity: 1},
	)

	res, err := f.uc.Approve(ctx, "s1", admin)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.ElementsMatch(t, []string{bad.ID, "gone"}, res.Failed)
	assert.Equal(t, model.SubmissionPending, res.Submission.Status)
	assert.Nil(t, res.Submission.ReviewedBy)
	assert.Equal(t, model.SubmissionPending, f.status(t, "s1"))

	// Items written before the failure stay written.
	stored, _ := f.store.Products().FindByID(ctx, good.ID)
	assert.Equal(t, 10, stored.Stock)
	stored, _ = f.store.Products().FindByID(ctx, bad.ID)
	assert.Equal(t, 2, stored.Stock)

	// Back in pending, the submission can be retried once the store recovers.
	f.store.FailProductWrites(bad.ID, nil)
	res, err = f.uc.Approve(ctx, "s1", admin)
	require.Error(t, err)
	assert.Equal(t, []string{"gone"}, res.Failed)
	stored, _ = f.store.Products().FindByID(ctx, bad.ID)
	assert.Equal(t, 10, stored.Stock)
	assert.Equal(t, model.SubmissionPending, f.status(t, "s1"))
}

func TestApprove_RejectsItemFromAnotherDepot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Depots().Create(ctx, &model.Depot{ID: "2", Name: "Labo B", Active: true}))
	own := f.product(t, "OWN", 2)
	inv := invusecase.NewInventoryUseCase(f.store.Products(), f.store.Depots(), nil, nil, logger.NewNop())
	created, err := inv.CreateProduct(ctx, &invdto.CreateProductInput{Code: "FOREIGN", Name: "Soude", Location: "Labo B", Stock: 4}, admin)
	require.NoError(t, err)
	foreign := created.Product

	f.submission(t, "s1",
		model.SubmissionItem{ProductID: own.ID, Name: own.Name, Quantity: 5},
		model.SubmissionItem{ProductID: foreign.ID, Name: "Soude", Quantity: 999},
	)

	res, err := f.uc.Approve(ctx, "s1", admin)
	require.Error(t, err)
	assert.Equal(t, []string{foreign.ID}, res.Failed)
	assert.Equal(t, model.SubmissionPending, f.status(t, "s1"))

	stored, _ := f.store.Products().FindByID(ctx, foreign.ID)
	assert.Equal(t, 4, stored.Stock)
	stored, _ = f.store.Products().FindByID(ctx, own.ID)
	assert.Equal(t, 5, stored.Stock)
}

func TestApprove_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "P1", 1)
	f.submission(t, "approved", model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: 2})
	f.submission(t, "rejected", model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: 3})

	_, err := f.uc.Approve(ctx, "approved", admin)
	require.NoError(t, err)
	_, err = f.uc.Reject(ctx, "rejected", admin)
	require.NoError(t, err)

	for _, id := range []string{"approved", "rejected"} {
		_, err = f.uc.Approve(ctx, id, admin)
		assert.True(t, apperror.Is(err, apperror.KindConflict), id)
		_, err = f.uc.Reject(ctx, id, admin)
		assert.True(t, apperror.Is(err, apperror.KindConflict), id)
	}
	assert.Equal(t, model.SubmissionApproved, f.status(t, "approved"))
	assert.Equal(t, model.SubmissionRejected, f.status(t, "rejected"))

	stored, _ := f.store.Products().FindByID(ctx, p.ID)
	assert.Equal(t, 2, stored.Stock)
}

func TestApprove_ConcurrentCallsApplyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "P1", 1)
	f.submission(t, "s1", model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: 9})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.Approve(ctx, "s1", admin); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	submissionRows := 0
	for _, m := range f.store.AllMovements() {
		if m.ChangeType == model.ChangeSubmission {
			submissionRows++
		}
	}
	assert.Equal(t, 1, submissionRows)
}

func TestReject_DoesNotTouchStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "P1", 4)
	f.submission(t, "s1", model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: 40})

	s, err := f.uc.Reject(ctx, "s1", admin)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionRejected, s.Status)

	stored, _ := f.store.Products().FindByID(ctx, p.ID)
	assert.Equal(t, 4, stored.Stock)
	assert.Len(t, f.store.AllMovements(), 1)

	event := <-f.feed.Events
	assert.Equal(t, changefeed.TableSubmissions, event.Table)
	assert.Equal(t, "s1", event.ID)
}

func TestApprove_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submission(t, "s1")

	_, err := f.uc.Approve(ctx, "s1", depotOne)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = f.uc.Reject(ctx, "s1", depotOne)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = f.uc.Approve(ctx, "missing", admin)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, model.SubmissionPending, f.status(t, "s1"))
}
