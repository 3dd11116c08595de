package usecase

import (
	"context"
	"strconv"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/depot/dto"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/zap"
)

const defaultColor = "#64748b"

type depotUseCase struct {
	repo   depot.Repository
	logger logger.ZapLogger
}

func NewDepotUseCase(repo depot.Repository, log logger.ZapLogger) depot.UseCase {
	return &depotUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *depotUseCase) ListDepots(ctx context.Context, activeOnly bool) ([]model.Depot, error) {
	return uc.repo.FindAll(ctx, activeOnly)
}

func (uc *depotUseCase) GetDepot(ctx context.Context, id string) (*model.Depot, error) {
	d, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", id)
	}
	return d, nil
}

func (uc *depotUseCase) CreateDepot(ctx context.Context, input *dto.CreateDepotInput) (*model.Depot, error) {
	if _, err := strconv.Atoi(input.ID); err != nil {
		return nil, apperror.Validation("id", "depot id must be numeric")
	}
	if err := uc.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}
	existing, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("depot id already exists")
	}

	d := &model.Depot{ID: input.ID, Name: input.Name, Color: input.Color, Active: true}
	if d.Color == "" {
		d.Color = defaultColor
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDepot renames in place. Products and submissions reference the depot
// by name, so a rename leaves their historical values untouched.
func (uc *depotUseCase) UpdateDepot(ctx context.Context, input *dto.UpdateDepotInput) (*model.Depot, error) {
	d, err := uc.GetDepot(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if d.Name != input.Name {
		if err := uc.ensureNameFree(ctx, input.Name, d.ID); err != nil {
			return nil, err
		}
		uc.logger.Warn("depot renamed, existing product locations keep the old name",
			zap.String("depot_id", d.ID),
			zap.String("old_name", d.Name),
			zap.String("new_name", input.Name),
		)
	}
	d.Name = input.Name
	if input.Color != "" {
		d.Color = input.Color
	}
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *depotUseCase) SetActive(ctx context.Context, id string, active bool) (*model.Depot, error) {
	d, err := uc.GetDepot(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Active = active
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *depotUseCase) ensureNameFree(ctx context.Context, name, selfID string) error {
	other, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return apperror.Conflict("depot name already used")
	}
	return nil
}
