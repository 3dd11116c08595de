package handler

import (
	"net/http"

	"github.com/fekuna/labstock-service/internal/approval"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	uc     approval.UseCase
	logger logger.ZapLogger
}

func NewApprovalHandler(uc approval.UseCase, log logger.ZapLogger) *ApprovalHandler {
	return &ApprovalHandler{
		uc:     uc,
		logger: log,
	}
}

// Approve answers 207 with the partial result when some items failed and
// the submission went back to pending.
func (h *ApprovalHandler) Approve(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	res, err := h.uc.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		if res == nil {
			httperr.Respond(c, h.logger, err)
			return
		}
		c.JSON(http.StatusMultiStatus, gin.H{
			"result":  res,
			"error":   httperr.Message(err, c.GetHeader("Accept-Language")),
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ApprovalHandler) Reject(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	s, err := h.uc.Reject(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
