package handler

import (
	"net/http"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/internal/inventory"
	"github.com/fekuna/labstock-service/internal/inventory/dto"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	actor, _ := auth.GetActor(c)

	res, err := h.uc.CreateProduct(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *InventoryHandler) EditProduct(c *gin.Context) {
	var input dto.EditProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.ID = c.Param("id")
	actor, _ := auth.GetActor(c)

	res, err := h.uc.EditProduct(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InventoryHandler) Consume(c *gin.Context) {
	var input dto.ConsumeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.ProductID = c.Param("id")
	actor, _ := auth.GetActor(c)

	res, err := h.uc.Consume(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InventoryHandler) AdminMove(c *gin.Context) {
	var input dto.AdminMoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.ProductID = c.Param("id")
	actor, _ := auth.GetActor(c)

	res, err := h.uc.AdminMove(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SetDepotInventory answers 207 when some counts failed; the others stay applied.
func (h *InventoryHandler) SetDepotInventory(c *gin.Context) {
	var input dto.SetDepotInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.DepotID = c.Param("id")
	actor, _ := auth.GetActor(c)

	res, err := h.uc.SetDepotInventory(c.Request.Context(), &input, actor)
	if err != nil {
		if res == nil {
			httperr.Respond(c, h.logger, err)
			return
		}
		c.JSON(http.StatusMultiStatus, gin.H{
			"result": res,
			"error":  httperr.Message(err, c.GetHeader("Accept-Language")),
		})
		return
	}
	c.JSON(http.StatusOK, res)
}
