package approval

import (
	"context"

	"github.com/fekuna/labstock-service/internal/approval/dto"
	"github.com/fekuna/labstock-service/internal/model"
)

// UseCase moves a pending submission to approved or rejected. Approving
// replays every counted quantity as an absolute stock level.
type UseCase interface {
	Approve(ctx context.Context, submissionID string, admin model.Actor) (*dto.ApprovalResult, error)
	Reject(ctx context.Context, submissionID string, admin model.Actor) (*model.InventorySubmission, error)
}
