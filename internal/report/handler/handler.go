package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement"
	"github.com/fekuna/labstock-service/internal/product"
	"github.com/fekuna/labstock-service/internal/product/dto"
	"github.com/fekuna/labstock-service/internal/report"
	"github.com/fekuna/labstock-service/internal/submission"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

const csvContentType = "text/csv; charset=utf-8"

type ReportHandler struct {
	products    product.UseCase
	movements   movement.UseCase
	submissions submission.UseCase
	depots      depot.UseCase
	logger      logger.ZapLogger
}

func NewReportHandler(
	products product.UseCase,
	movements movement.UseCase,
	submissions submission.UseCase,
	depots depot.UseCase,
	log logger.ZapLogger,
) *ReportHandler {
	return &ReportHandler{
		products:    products,
		movements:   movements,
		submissions: submissions,
		depots:      depots,
		logger:      log,
	}
}

func (h *ReportHandler) StockSheet(c *gin.Context) {
	location, ok := h.scopeLocation(c, c.Query("location"))
	if !ok {
		return
	}
	products, _, err := h.products.ListProducts(c.Request.Context(), &dto.ProductFilters{Location: location})
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteStockSheet(&buf, products); err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	h.attach(c, "stock", buf.Bytes())
}

func (h *ReportHandler) MovementHistory(c *gin.Context) {
	location, ok := h.scopeLocation(c, c.Query("depot"))
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	var (
		items []model.StockMovement
		err   error
	)
	if location != "" {
		items, err = h.movements.ListForDepot(c.Request.Context(), location, limit)
	} else {
		items, err = h.movements.List(c.Request.Context(), limit)
	}
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteMovements(&buf, items); err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	h.attach(c, "mouvements", buf.Bytes())
}

func (h *ReportHandler) Submission(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	s, err := h.submissions.GetSubmission(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteSubmission(&buf, s); err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	h.attach(c, "soumission_"+s.ID, buf.Bytes())
}

func (h *ReportHandler) attach(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvContentType, data)
}

func (h *ReportHandler) scopeLocation(c *gin.Context, requested string) (string, bool) {
	actor, _ := auth.GetActor(c)
	if actor.IsAdmin() {
		return requested, true
	}
	d, err := h.depots.GetDepot(c.Request.Context(), actor.DepotID)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return "", false
	}
	return d.Name, true
}
