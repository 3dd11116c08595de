package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/inventory"
	"github.com/fekuna/labstock-service/internal/inventory/dto"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo   inventory.Repository
	depots depot.Repository
	locker inventory.Locker
	feed   changefeed.Publisher
	logger logger.ZapLogger
	now    func() time.Time
}

type Option func(*inventoryUseCase)

// WithClock overrides time.Now, which also drives transaction refs.
func WithClock(now func() time.Time) Option {
	return func(uc *inventoryUseCase) { uc.now = now }
}

// NewInventoryUseCase builds the stock mutator. locker may be nil when a
// single instance owns the database.
func NewInventoryUseCase(
	repo inventory.Repository,
	depots depot.Repository,
	locker inventory.Locker,
	feed changefeed.Publisher,
	log logger.ZapLogger,
	opts ...Option,
) inventory.UseCase {
	uc := &inventoryUseCase{
		repo:   repo,
		depots: depots,
		locker: locker,
		feed:   feed,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.feed == nil {
		uc.feed = changefeed.NopPublisher{}
	}
	return uc
}

func (uc *inventoryUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput, actor model.Actor) (*dto.MutationResult, error) {
	return uc.create(ctx, input, actor, model.ChangeInitial, movement.NewRef(movement.PrefixCreate, uc.now()))
}

func (uc *inventoryUseCase) create(ctx context.Context, input *dto.CreateProductInput, actor model.Actor, changeType model.ChangeType, ref string) (*dto.MutationResult, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	d, err := uc.depots.FindByName(ctx, input.Location)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", input.Location)
	}

	existing, err := uc.repo.FindByCodeAndLocation(ctx, input.Code, input.Location)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict(fmt.Sprintf("product %s already exists in %s", input.Code, input.Location))
	}

	now := uc.now()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:           strings.TrimSpace(input.Code),
		Name:           strings.TrimSpace(input.Name),
		CASNumber:      input.CASNumber,
		Formula:        input.Formula,
		Location:       input.Location,
		Stock:          input.Stock,
		Unit:           input.Unit,
		AlertThreshold: input.AlertThreshold,
		ExpiryDate:     input.ExpiryDate,
		ImageURL:       input.ImageURL,
		SafetySheetURL: input.SafetySheetURL,
		Version:        1,
	}
	return uc.insert(ctx, p, actor, changeType, ref)
}

func (uc *inventoryUseCase) insert(ctx context.Context, p *model.Product, actor model.Actor, changeType model.ChangeType, ref string) (*dto.MutationResult, error) {
	m := uc.newMovement(p, actor, changeType, 0, p.Stock, ref)
	if err := movement.Validate(m); err != nil {
		return nil, err
	}
	if err := uc.repo.CreateWithMovement(ctx, p, m); err != nil {
		return nil, err
	}

	uc.logger.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("code", p.Code),
		zap.String("location", p.Location),
		zap.Int("stock", p.Stock),
		zap.String("transaction_ref", ref),
	)
	uc.publish(ctx, p.ID, changefeed.ActionInsert, true)
	return &dto.MutationResult{Product: p, Movement: m}, nil
}

func (uc *inventoryUseCase) EditProduct(ctx context.Context, input *dto.EditProductInput, actor model.Actor) (*dto.MutationResult, error) {
	if input.Stock < 0 {
		return nil, apperror.ErrInvalidQuantity
	}
	if strings.TrimSpace(input.Code) == "" || strings.TrimSpace(input.Name) == "" || input.Location == "" {
		return nil, apperror.Validation("product", "code, name and location are required")
	}

	ref := movement.NewRef(movement.PrefixEdit, uc.now())
	return uc.mutate(ctx, input.ID, actor, model.ChangeUpdate, ref, func(p *model.Product) (bool, error) {
		if p.Location != input.Location {
			d, err := uc.depots.FindByName(ctx, input.Location)
			if err != nil {
				return false, err
			}
			if d == nil {
				return false, apperror.NotFound("depot", input.Location)
			}
		}
		p.Code = strings.TrimSpace(input.Code)
		p.Name = strings.TrimSpace(input.Name)
		p.CASNumber = input.CASNumber
		p.Formula = input.Formula
		p.Location = input.Location
		p.Stock = input.Stock
		p.Unit = input.Unit
		p.AlertThreshold = input.AlertThreshold
		p.ExpiryDate = input.ExpiryDate
		p.ImageURL = input.ImageURL
		p.SafetySheetURL = input.SafetySheetURL
		return true, nil
	})
}

func (uc *inventoryUseCase) Consume(ctx context.Context, input *dto.ConsumeInput, actor model.Actor) (*dto.MutationResult, error) {
	if input.Quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	ref := movement.NewRef(movement.PrefixConsumption, uc.now())
	return uc.mutate(ctx, input.ProductID, actor, model.ChangeConsumption, ref, func(p *model.Product) (bool, error) {
		if err := uc.checkDepotScope(ctx, actor, p); err != nil {
			return false, err
		}
		if input.Quantity > p.Stock {
			return false, apperror.InsufficientStock(p.Name, p.Stock, input.Quantity)
		}
		p.Stock -= input.Quantity
		return true, nil
	})
}

func (uc *inventoryUseCase) AdminMove(ctx context.Context, input *dto.AdminMoveInput, actor model.Actor) (*dto.MutationResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	if input.Quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	var (
		changeType model.ChangeType
		prefix     movement.Prefix
		sign       int
	)
	switch input.Direction {
	case dto.DirectionEntry:
		changeType, prefix, sign = model.ChangeAdminEntry, movement.PrefixEntry, 1
	case dto.DirectionExit:
		changeType, prefix, sign = model.ChangeAdminExit, movement.PrefixExit, -1
	default:
		return nil, apperror.Validation("direction", "must be entry or exit")
	}

	ref := movement.NewRef(prefix, uc.now())
	return uc.mutate(ctx, input.ProductID, actor, changeType, ref, func(p *model.Product) (bool, error) {
		next := p.Stock + sign*input.Quantity
		if next < 0 {
			return false, apperror.InsufficientStock(p.Name, p.Stock, input.Quantity)
		}
		p.Stock = next
		return true, nil
	})
}

func (uc *inventoryUseCase) SetStock(ctx context.Context, input *dto.SetStockInput, actor model.Actor) (*dto.MutationResult, error) {
	if input.NewStock < 0 {
		return nil, apperror.ErrInvalidQuantity
	}
	if input.TransactionRef == "" {
		return nil, apperror.Validation("transaction_ref", "required")
	}
	return uc.mutate(ctx, input.ProductID, actor, input.ChangeType, input.TransactionRef, func(p *model.Product) (bool, error) {
		if input.Location != "" && p.Location != input.Location {
			return false, apperror.Validation("product_id", "product belongs to "+p.Location+", not "+input.Location)
		}
		if input.SkipUnchanged && p.Stock == input.NewStock {
			return false, nil
		}
		p.Stock = input.NewStock
		return true, nil
	})
}

// SetDepotInventory replaces the stock of a whole depot from (code, stock) pairs.
// Pairs run concurrently and share one ref; a failing pair does not undo the others.
func (uc *inventoryUseCase) SetDepotInventory(ctx context.Context, input *dto.SetDepotInventoryInput, actor model.Actor) (*dto.BulkSetResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	seen := make(map[string]bool, len(input.Counts))
	for _, c := range input.Counts {
		if c.Stock < 0 {
			return nil, apperror.ErrInvalidQuantity
		}
		if c.Code == "" {
			return nil, apperror.Validation("code", "required")
		}
		if seen[c.Code] {
			return nil, apperror.Validation("code", "duplicate code "+c.Code)
		}
		seen[c.Code] = true
	}

	d, err := uc.depots.FindByID(ctx, input.DepotID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", input.DepotID)
	}

	result := &dto.BulkSetResult{TransactionRef: movement.NewRef(movement.PrefixInventory, uc.now())}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	for _, count := range input.Counts {
		count := count
		g.Go(func() error {
			outcome, err := uc.setCount(ctx, d.Name, count, result.TransactionRef, actor)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.logger.Error("inventory count failed",
					zap.String("depot", d.Name),
					zap.String("code", count.Code),
					zap.String("transaction_ref", result.TransactionRef),
					zap.Error(err),
				)
				result.Failed = append(result.Failed, count.Code)
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", count.Code, err))
				return err
			}
			switch outcome {
			case outcomeCreated:
				result.Created = append(result.Created, count.Code)
			case outcomeUpdated:
				result.Updated = append(result.Updated, count.Code)
			default:
				result.Unchanged = append(result.Unchanged, count.Code)
			}
			return nil
		})
	}
	_ = g.Wait()

	uc.logger.Info("depot inventory set",
		zap.String("depot", d.Name),
		zap.String("transaction_ref", result.TransactionRef),
		zap.Int("updated", len(result.Updated)),
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, errs
}

type countOutcome int

const (
	outcomeUnchanged countOutcome = iota
	outcomeUpdated
	outcomeCreated
)

func (uc *inventoryUseCase) setCount(ctx context.Context, depotName string, count dto.StockCount, ref string, actor model.Actor) (countOutcome, error) {
	p, err := uc.repo.FindByCodeAndLocation(ctx, count.Code, depotName)
	if err != nil {
		return outcomeUnchanged, err
	}

	if p != nil {
		if p.Stock == count.Stock {
			return outcomeUnchanged, nil
		}
		res, err := uc.SetStock(ctx, &dto.SetStockInput{
			ProductID:      p.ID,
			NewStock:       count.Stock,
			ChangeType:     model.ChangeInventoryCount,
			TransactionRef: ref,
			SkipUnchanged:  true,
		}, actor)
		if err != nil {
			return outcomeUnchanged, err
		}
		if res.Movement == nil {
			return outcomeUnchanged, nil
		}
		return outcomeUpdated, nil
	}

	if count.Stock == 0 {
		return outcomeUnchanged, nil
	}

	master, err := uc.repo.FindMasterByCode(ctx, count.Code)
	if err != nil {
		return outcomeUnchanged, err
	}
	if master == nil {
		return outcomeUnchanged, apperror.NotFound("product code", count.Code)
	}

	now := uc.now()
	clone := master.CloneForDepot(depotName)
	clone.ID = uuid.New().String()
	clone.Stock = count.Stock
	clone.Version = 1
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if _, err := uc.insert(ctx, clone, actor, model.ChangeInitial, ref); err != nil {
		return outcomeUnchanged, err
	}
	return outcomeCreated, nil
}

// ImportProducts creates every row with change_type=import under one IMP ref.
// Rows are independent: invalid ones are reported and skipped.
func (uc *inventoryUseCase) ImportProducts(ctx context.Context, rows []dto.CreateProductInput, actor model.Actor) (*dto.ImportResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	result := &dto.ImportResult{TransactionRef: movement.NewRef(movement.PrefixImport, uc.now())}

	var errs error
	for i := range rows {
		res, err := uc.create(ctx, &rows[i], actor, model.ChangeImport, result.TransactionRef)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("ligne %d (%s): %v", i+1, rows[i].Code, err))
			if apperror.KindOf(err) == apperror.KindRemote {
				errs = multierr.Append(errs, err)
			}
			continue
		}
		result.Created = append(result.Created, *res.Product)
	}
	return result, errs
}

// mutate is the read-compute-write cycle shared by every stock change. apply
// edits the product in place and reports whether a write is needed.
func (uc *inventoryUseCase) mutate(
	ctx context.Context,
	productID string,
	actor model.Actor,
	changeType model.ChangeType,
	ref string,
	apply func(p *model.Product) (bool, error),
) (*dto.MutationResult, error) {
	release, err := uc.lock(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", productID)
	}

	oldStock := p.Stock
	version := p.Version

	write, err := apply(p)
	if err != nil {
		return nil, err
	}
	if !write {
		return &dto.MutationResult{Product: p}, nil
	}
	if p.Stock < 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	var m *model.StockMovement
	if p.Stock != oldStock || changeType == model.ChangeSubmission {
		m = uc.newMovement(p, actor, changeType, oldStock, p.Stock, ref)
		if err := movement.Validate(m); err != nil {
			return nil, err
		}
	}

	p.UpdatedAt = uc.now()
	if err := uc.repo.UpdateWithMovement(ctx, p, version, m); err != nil {
		return nil, err
	}

	if m != nil {
		uc.logger.Info("stock changed",
			zap.String("product_id", p.ID),
			zap.String("change_type", string(changeType)),
			zap.Int("old", oldStock),
			zap.Int("new", p.Stock),
			zap.String("transaction_ref", ref),
		)
	}
	uc.publish(ctx, p.ID, changefeed.ActionUpdate, m != nil)
	return &dto.MutationResult{Product: p, Movement: m}, nil
}

func (uc *inventoryUseCase) lock(ctx context.Context, productID string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}
	key := "lock:product:" + productID
	value := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
					uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, apperror.Remote("acquire product lock", ctx.Err())
		case <-time.After(lockBackoff):
		}
	}
	return nil, apperror.Conflict("product is being updated, please try again")
}

func (uc *inventoryUseCase) checkDepotScope(ctx context.Context, actor model.Actor, p *model.Product) error {
	if actor.IsAdmin() {
		return nil
	}
	d, err := uc.depots.FindByID(ctx, actor.DepotID)
	if err != nil {
		return err
	}
	if d == nil || d.Name != p.Location {
		return apperror.Forbidden("product belongs to another depot")
	}
	return nil
}

func (uc *inventoryUseCase) newMovement(p *model.Product, actor model.Actor, changeType model.ChangeType, oldStock, newStock int, ref string) *model.StockMovement {
	return &model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		ProductName:    p.Name,
		DepotName:      p.Location,
		UserID:         actor.UserID,
		UserName:       actor.UserName,
		ChangeType:     changeType,
		QuantityChange: newStock - oldStock,
		OldStockLevel:  oldStock,
		NewStockLevel:  newStock,
		TransactionRef: ref,
		CreatedAt:      uc.now(),
	}
}

func (uc *inventoryUseCase) publish(ctx context.Context, productID, action string, recorded bool) {
	uc.feed.Publish(ctx, changefeed.TableProducts, action, productID)
	if recorded {
		uc.feed.Publish(ctx, changefeed.TableMovements, changefeed.ActionInsert, productID)
	}
}

func validateCreate(input *dto.CreateProductInput) error {
	if input.Stock < 0 {
		return apperror.ErrInvalidQuantity
	}
	if strings.TrimSpace(input.Code) == "" {
		return apperror.Validation("code", "required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return apperror.Validation("name", "required")
	}
	if input.Location == "" {
		return apperror.Validation("location", "required")
	}
	if input.AlertThreshold < 0 {
		return apperror.Validation("alert_threshold", "must be zero or positive")
	}
	return nil
}
