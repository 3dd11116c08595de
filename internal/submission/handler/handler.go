package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/submission"
	"github.com/fekuna/labstock-service/internal/submission/dto"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	uc     submission.UseCase
	logger logger.ZapLogger
}

func NewSubmissionHandler(uc submission.UseCase, log logger.ZapLogger) *SubmissionHandler {
	return &SubmissionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SubmissionHandler) GetDraft(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	items, err := h.uc.Draft(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SubmissionHandler) Stage(c *gin.Context) {
	var input dto.StageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
		return
	}
	input.DepotID = c.Param("id")
	actor, _ := auth.GetActor(c)

	items, err := h.uc.Stage(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SubmissionHandler) Unstage(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	items, err := h.uc.Unstage(c.Request.Context(), c.Param("id"), c.Param("productId"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
	var input dto.SubmitInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.Respond(c, h.logger, apperror.Validation("body", err.Error()))
			return
		}
	}
	input.DepotID = c.Param("id")
	actor, _ := auth.GetActor(c)

	s, err := h.uc.Submit(c.Request.Context(), &input, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	s, err := h.uc.GetSubmission(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	actor, _ := auth.GetActor(c)

	items, err := h.uc.ListSubmissions(c.Request.Context(), &dto.SubmissionFilters{
		DepotID: c.Query("depot_id"),
		Status:  model.SubmissionStatus(c.Query("status")),
		Limit:   limit,
	}, actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": items, "total": len(items)})
}
