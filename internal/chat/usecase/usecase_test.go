package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/chat/dto"
	"github.com/fekuna/labstock-service/internal/chat/usecase"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = model.Actor{UserID: "u-admin", UserName: "Admin", Role: model.RoleAdmin}
	depotOne = model.Actor{UserID: "u-a", UserName: "Technicien A", Role: model.RoleDepot, DepotID: "1"}
	depotTwo = model.Actor{UserID: "u-b", UserName: "Technicien B", Role: model.RoleDepot, DepotID: "2"}
)

func TestSendAndRead(t *testing.T) {
	ctx := context.Background()
	feed := changefeed.NewRecorder(8)
	uc := usecase.NewChatUseCase(memory.New().Chat(), feed, logger.NewNop())

	m, err := uc.Send(ctx, &dto.SendMessageInput{DepotID: "1", Body: "  Rupture d'acétone ?  "}, depotOne)
	require.NoError(t, err)
	assert.Equal(t, "Rupture d'acétone ?", m.Body)
	assert.Equal(t, model.RoleDepot, m.SenderRole)

	_, err = uc.Send(ctx, &dto.SendMessageInput{DepotID: "1", Body: "Livraison demain."}, admin)
	require.NoError(t, err)

	unread, err := uc.CountUnread(ctx, "1", admin)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	n, err := uc.MarkRead(ctx, "1", depotOne)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	unread, err = uc.CountUnread(ctx, "1", depotOne)
	require.NoError(t, err)
	assert.Zero(t, unread)

	messages, err := uc.List(ctx, "1", 0, depotOne)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Livraison demain.", messages[1].Body)

	assert.Equal(t, changefeed.TableChat, (<-feed.Events).Table)
}

func TestSend_Validation(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewChatUseCase(memory.New().Chat(), nil, logger.NewNop())

	_, err := uc.Send(ctx, &dto.SendMessageInput{DepotID: "1", Body: "   "}, depotOne)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.Send(ctx, &dto.SendMessageInput{DepotID: "1", Body: strings.Repeat("a", 4001)}, depotOne)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.Send(ctx, &dto.SendMessageInput{DepotID: "1", Body: "bonjour"}, depotTwo)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = uc.List(ctx, "1", 10, depotTwo)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestList_ReturnsLatestOldestFirst(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewChatUseCase(memory.New().Chat(), nil, logger.NewNop())
	for _, body := range []string{"un", "deux", "trois"} {
		_, err := uc.Send(ctx, &dto.SendMessageInput{DepotID: "1", Body: body}, depotOne)
		require.NoError(t, err)
	}

	messages, err := uc.List(ctx, "1", 2, admin)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "deux", messages[0].Body)
	assert.Equal(t, "trois", messages[1].Body)
}
