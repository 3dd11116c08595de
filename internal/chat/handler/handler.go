package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/chat"
	"github.com/fekuna/labstock-service/internal/chat/dto"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	uc     chat.UseCase
	logger logger.ZapLogger
}

func NewChatHandler(uc chat.UseCase, log logger.ZapLogger) *ChatHandler {
	return &ChatHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	actor, _ := auth.GetActor(c)

	items, err := h.uc.List(c.Request.Context(), c.Param("id"), limit, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	unread, err := h.uc.CountUnread(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": items, "unread": unread})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input dto.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.DepotID = c.Param("id")
	actor, _ := auth.GetActor(c)

	m, err := h.uc.Send(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	n, err := h.uc.MarkRead(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
