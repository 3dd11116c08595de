package handler

import (
	"net/http"

	"github.com/fekuna/labstock-service/internal/alert"
	"github.com/fekuna/labstock-service/internal/alert/dto"
	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	uc     alert.UseCase
	logger logger.ZapLogger
}

func NewAlertHandler(uc alert.UseCase, log logger.ZapLogger) *AlertHandler {
	return &AlertHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AlertHandler) GetConfig(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	cfg, err := h.uc.GetConfig(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AlertHandler) UpsertConfig(c *gin.Context) {
	var input dto.UpsertConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.DepotID = c.Param("id")
	actor, _ := auth.GetActor(c)

	cfg, err := h.uc.UpsertConfig(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AlertHandler) Scan(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	res, err := h.uc.Scan(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
