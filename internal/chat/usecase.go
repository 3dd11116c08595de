package chat

import (
	"context"

	"github.com/fekuna/labstock-service/internal/chat/dto"
	"github.com/fekuna/labstock-service/internal/model"
)

// UseCase is the support thread between the admins and one depot.
type UseCase interface {
	Send(ctx context.Context, input *dto.SendMessageInput, actor model.Actor) (*model.ChatMessage, error)
	List(ctx context.Context, depotID string, limit int, actor model.Actor) ([]model.ChatMessage, error)
	MarkRead(ctx context.Context, depotID string, actor model.Actor) (int64, error)
	CountUnread(ctx context.Context, depotID string, actor model.Actor) (int, error)
}
