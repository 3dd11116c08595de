package handler

import (
	"io"
	"net/http"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/assistant"
	"github.com/fekuna/labstock-service/internal/assistant/dto"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	uc     assistant.UseCase
	depots depot.UseCase
	logger logger.ZapLogger
}

func NewAssistantHandler(uc assistant.UseCase, depots depot.UseCase, log logger.ZapLogger) *AssistantHandler {
	return &AssistantHandler{
		uc:     uc,
		depots: depots,
		logger: log,
	}
}

func (h *AssistantHandler) SafetySheet(c *gin.Context) {
	var input dto.SafetySheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	res, err := h.uc.SafetySheet(c.Request.Context(), &input)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AssistantHandler) PredictiveAnalysis(c *gin.Context) {
	name, ok := h.depotName(c)
	if !ok {
		return
	}
	res, err := h.uc.PredictiveAnalysis(c.Request.Context(), name)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AssistantHandler) AnomalyAnalysis(c *gin.Context) {
	name, ok := h.depotName(c)
	if !ok {
		return
	}
	res, err := h.uc.AnomalyAnalysis(c.Request.Context(), name)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AssistantHandler) ProductInfo(c *gin.Context) {
	var input dto.ProductInfoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	res, err := h.uc.ProductInfo(c.Request.Context(), &input)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExtractProducts reads the multipart "image" field.
func (h *AssistantHandler) ExtractProducts(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("image", err.Error()))
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("image", err.Error()))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("image", err.Error()))
		return
	}

	products, err := h.uc.ExtractProducts(c.Request.Context(), &dto.ImageInput{
		Data:     data,
		MIMEType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// depotName resolves the depot of the analysis: the caller's own depot, or
// any depot id passed by an admin.
func (h *AssistantHandler) depotName(c *gin.Context) (string, bool) {
	actor, _ := auth.GetActor(c)
	id := c.Param("id")
	if !auth.CanAccessDepot(actor, id) {
		httperr.Respond(c, h.logger, apperror.Forbidden("depot mismatch"))
		return "", false
	}
	d, err := h.depots.GetDepot(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return "", false
	}
	return d.Name, true
}
