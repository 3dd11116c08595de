package alert

import (
	"context"

	"github.com/fekuna/labstock-service/internal/alert/dto"
	"github.com/fekuna/labstock-service/internal/model"
)

type UseCase interface {
	GetConfig(ctx context.Context, depotID string, actor model.Actor) (*model.AlertConfig, error)
	UpsertConfig(ctx context.Context, input *dto.UpsertConfigInput, actor model.Actor) (*model.AlertConfig, error)
	Scan(ctx context.Context, depotID string, actor model.Actor) (*dto.ScanResult, error)
}
