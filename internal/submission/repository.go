package submission

import (
	"context"
	"time"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/submission/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.InventorySubmission) error
	FindByID(ctx context.Context, id string) (*model.InventorySubmission, error)
	List(ctx context.Context, filters *dto.SubmissionFilters) ([]model.InventorySubmission, error)
	// UpdateStatus moves a submission from one status to another in a single
	// conditional write and reports whether the row was still in from.
	UpdateStatus(ctx context.Context, id string, from, to model.SubmissionStatus, reviewedBy *string, reviewedAt *time.Time) (bool, error)
}

// DraftStore holds the items a depot has staged but not yet submitted.
type DraftStore interface {
	Get(ctx context.Context, depotID string) ([]model.SubmissionItem, error)
	Save(ctx context.Context, depotID string, items []model.SubmissionItem) error
	Clear(ctx context.Context, depotID string) error
}

// ProductReader resolves staged product ids.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
