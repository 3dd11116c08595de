package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement"
	"github.com/fekuna/labstock-service/internal/movement/dto"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type MovementHandler struct {
	uc     movement.UseCase
	depots depot.UseCase
	logger logger.ZapLogger
}

func NewMovementHandler(uc movement.UseCase, depots depot.UseCase, log logger.ZapLogger) *MovementHandler {
	return &MovementHandler{
		uc:     uc,
		depots: depots,
		logger: log,
	}
}

// ListMovements serves the history page. Admins may filter by depot, product,
// change type or transaction ref; depot users only ever see their own depot.
func (h *MovementHandler) ListMovements(c *gin.Context) {
	ctx := c.Request.Context()
	limit, _ := strconv.Atoi(c.Query("limit"))
	actor, _ := auth.GetActor(c)

	filters := &dto.MovementFilters{
		ProductID:      c.Query("product_id"),
		DepotName:      c.Query("depot"),
		ChangeType:     model.ChangeType(c.Query("change_type")),
		TransactionRef: c.Query("ref"),
		Limit:          limit,
	}
	if !actor.IsAdmin() {
		d, err := h.depots.GetDepot(ctx, actor.DepotID)
		if err != nil {
			httperr.Respond(c, h.logger, err)
			return
		}
		filters.DepotName = d.Name
	}

	items, err := h.uc.Filter(ctx, filters)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": items, "total": len(items)})
}
