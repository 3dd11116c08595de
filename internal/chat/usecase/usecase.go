package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/chat"
	"github.com/fekuna/labstock-service/internal/chat/dto"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyLength = 4000

type chatUseCase struct {
	repo   chat.Repository
	feed   changefeed.Publisher
	logger logger.ZapLogger
}

func NewChatUseCase(repo chat.Repository, feed changefeed.Publisher, log logger.ZapLogger) chat.UseCase {
	if feed == nil {
		feed = changefeed.NopPublisher{}
	}
	return &chatUseCase{
		repo:   repo,
		feed:   feed,
		logger: log,
	}
}

func (uc *chatUseCase) Send(ctx context.Context, input *dto.SendMessageInput, actor model.Actor) (*model.ChatMessage, error) {
	if !auth.CanAccessDepot(actor, input.DepotID) {
		return nil, apperror.Forbidden("message thread belongs to another depot")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperror.Validation("body", "required")
	}
	if len(body) > maxBodyLength {
		return nil, apperror.Validation("body", "message too long")
	}

	m := &model.ChatMessage{
		ID:         uuid.New().String(),
		DepotID:    input.DepotID,
		SenderID:   actor.UserID,
		SenderName: actor.UserName,
		SenderRole: actor.Role,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		uc.logger.Error("failed to send message", zap.String("depot_id", input.DepotID), zap.Error(err))
		return nil, err
	}
	uc.feed.Publish(ctx, changefeed.TableChat, changefeed.ActionInsert, m.ID)
	return m, nil
}

func (uc *chatUseCase) List(ctx context.Context, depotID string, limit int, actor model.Actor) ([]model.ChatMessage, error) {
	if !auth.CanAccessDepot(actor, depotID) {
		return nil, apperror.Forbidden("message thread belongs to another depot")
	}
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	return uc.repo.List(ctx, depotID, limit)
}

func (uc *chatUseCase) MarkRead(ctx context.Context, depotID string, actor model.Actor) (int64, error) {
	if !auth.CanAccessDepot(actor, depotID) {
		return 0, apperror.Forbidden("message thread belongs to another depot")
	}
	n, err := uc.repo.MarkRead(ctx, depotID, actor.Role)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.feed.Publish(ctx, changefeed.TableChat, changefeed.ActionUpdate, depotID)
	}
	return n, nil
}

func (uc *chatUseCase) CountUnread(ctx context.Context, depotID string, actor model.Actor) (int, error) {
	if !auth.CanAccessDepot(actor, depotID) {
		return 0, apperror.Forbidden("message thread belongs to another depot")
	}
	return uc.repo.CountUnread(ctx, depotID, actor.Role)
}
