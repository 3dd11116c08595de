package usecase

import (
	"context"
	"math"
	"time"

	"github.com/fekuna/labstock-service/internal/alert"
	"github.com/fekuna/labstock-service/internal/alert/dto"
	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/zap"
)

const maxWarningDays = 365

type alertUseCase struct {
	repo     alert.Repository
	products alert.ProductLister
	depots   depot.Repository
	feed     changefeed.Publisher
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewAlertUseCase(
	repo alert.Repository,
	products alert.ProductLister,
	depots depot.Repository,
	feed changefeed.Publisher,
	log logger.ZapLogger,
) alert.UseCase {
	if feed == nil {
		feed = changefeed.NopPublisher{}
	}
	return &alertUseCase{
		repo:     repo,
		products: products,
		depots:   depots,
		feed:     feed,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *alertUseCase) GetConfig(ctx context.Context, depotID string, actor model.Actor) (*model.AlertConfig, error) {
	if _, err := uc.depot(ctx, depotID, actor); err != nil {
		return nil, err
	}
	return uc.config(ctx, depotID)
}

func (uc *alertUseCase) UpsertConfig(ctx context.Context, input *dto.UpsertConfigInput, actor model.Actor) (*model.AlertConfig, error) {
	if _, err := uc.depot(ctx, input.DepotID, actor); err != nil {
		return nil, err
	}
	if input.ExpiryWarningDays < 0 || input.ExpiryWarningDays > maxWarningDays {
		return nil, apperror.Validation("expiry_warning_days", "must be between 0 and 365")
	}

	cfg := &model.AlertConfig{
		DepotID:           input.DepotID,
		LowStockEnabled:   input.LowStockEnabled,
		ExpiryWarningDays: input.ExpiryWarningDays,
	}
	if err := uc.repo.Upsert(ctx, cfg); err != nil {
		uc.logger.Error("failed to save alert config", zap.String("depot_id", input.DepotID), zap.Error(err))
		return nil, err
	}
	uc.feed.Publish(ctx, changefeed.TableAlerts, changefeed.ActionUpdate, cfg.DepotID)
	return cfg, nil
}

// Scan lists the products of a depot at or under their alert threshold and
// those expiring within the configured window, expired ones included.
func (uc *alertUseCase) Scan(ctx context.Context, depotID string, actor model.Actor) (*dto.ScanResult, error) {
	d, err := uc.depot(ctx, depotID, actor)
	if err != nil {
		return nil, err
	}
	cfg, err := uc.config(ctx, depotID)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.ListByLocation(ctx, d.Name)
	if err != nil {
		return nil, err
	}

	result := &dto.ScanResult{
		Depot:    d.Name,
		Config:   *cfg,
		LowStock: []model.Product{},
		Expiring: []dto.ExpiringProduct{},
	}
	today := truncateDay(uc.now())
	for _, p := range products {
		if cfg.LowStockEnabled && p.IsLowStock() {
			result.LowStock = append(result.LowStock, p)
		}
		if p.ExpiryDate == nil {
			continue
		}
		days := int(math.Floor(truncateDay(*p.ExpiryDate).Sub(today).Hours() / 24))
		if days <= cfg.ExpiryWarningDays {
			result.Expiring = append(result.Expiring, dto.ExpiringProduct{
				Product:  p,
				DaysLeft: days,
				Expired:  days < 0,
			})
		}
	}
	return result, nil
}

func (uc *alertUseCase) config(ctx context.Context, depotID string) (*model.AlertConfig, error) {
	cfg, err := uc.repo.FindByDepot(ctx, depotID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def := model.DefaultAlertConfig(depotID)
		return &def, nil
	}
	return cfg, nil
}

func (uc *alertUseCase) depot(ctx context.Context, depotID string, actor model.Actor) (*model.Depot, error) {
	if !auth.CanAccessDepot(actor, depotID) {
		return nil, apperror.Forbidden("depot mismatch")
	}
	d, err := uc.depots.FindByID(ctx, depotID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", depotID)
	}
	return d, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
