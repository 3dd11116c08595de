package chat

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, m *model.ChatMessage) error
	// List returns the latest limit messages of a depot thread, oldest first.
	List(ctx context.Context, depotID string, limit int) ([]model.ChatMessage, error)
	// MarkRead flags as read every message of the thread not sent by readerRole.
	MarkRead(ctx context.Context, depotID string, readerRole model.Role) (int64, error)
	CountUnread(ctx context.Context, depotID string, readerRole model.Role) (int, error)
}
