package submission

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/submission/dto"
)

type UseCase interface {
	Stage(ctx context.Context, input *dto.StageInput, actor model.Actor) ([]model.SubmissionItem, error)
	Unstage(ctx context.Context, depotID, productID string, actor model.Actor) ([]model.SubmissionItem, error)
	Draft(ctx context.Context, depotID string, actor model.Actor) ([]model.SubmissionItem, error)
	Submit(ctx context.Context, input *dto.SubmitInput, actor model.Actor) (*model.InventorySubmission, error)

	GetSubmission(ctx context.Context, id string, actor model.Actor) (*model.InventorySubmission, error)
	ListSubmissions(ctx context.Context, filters *dto.SubmissionFilters, actor model.Actor) ([]model.InventorySubmission, error)

	// Wait blocks until every post-submit side effect has finished.
	Wait()
}
