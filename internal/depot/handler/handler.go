package handler

import (
	"net/http"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/depot/dto"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type DepotHandler struct {
	uc     depot.UseCase
	logger logger.ZapLogger
}

func NewDepotHandler(uc depot.UseCase, log logger.ZapLogger) *DepotHandler {
	return &DepotHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DepotHandler) ListDepots(c *gin.Context) {
	depots, err := h.uc.ListDepots(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"depots": depots})
}

func (h *DepotHandler) GetDepot(c *gin.Context) {
	d, err := h.uc.GetDepot(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DepotHandler) CreateDepot(c *gin.Context) {
	var input dto.CreateDepotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	d, err := h.uc.CreateDepot(c.Request.Context(), &input)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DepotHandler) UpdateDepot(c *gin.Context) {
	var input dto.UpdateDepotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.ID = c.Param("id")
	d, err := h.uc.UpdateDepot(c.Request.Context(), &input)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DepotHandler) SetActive(c *gin.Context) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	d, err := h.uc.SetActive(c.Request.Context(), c.Param("id"), body.Active)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
