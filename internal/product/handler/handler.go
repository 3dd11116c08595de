package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/internal/product"
	"github.com/fekuna/labstock-service/internal/product/dto"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

const maxImportSize = 5 << 20

type ProductHandler struct {
	uc     product.UseCase
	depots depot.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, depots depot.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		depots: depots,
		logger: log,
	}
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListProducts restricts depot users to their own depot whatever location they ask for.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	filters := &dto.ProductFilters{
		Location:     c.Query("location"),
		SearchQuery:  c.Query("search"),
		LowStockOnly: c.Query("low_stock") == "true",
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
		Page:         page,
		PageSize:     pageSize,
	}

	location, ok := h.scopeLocation(c, filters.Location)
	if !ok {
		return
	}
	filters.Location = location

	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"total":     count,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	location, ok := h.scopeLocation(c, c.Query("location"))
	if !ok {
		return
	}

	products, err := h.uc.SearchProducts(c.Request.Context(), c.Query("q"), location, limit)
	if err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id"), actor); err != nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportProducts accepts either a multipart "file" field or a raw text/csv body.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var (
		data []byte
		err  error
	)
	if fh, ferr := c.FormFile("file"); ferr == nil {
		f, err := fh.Open()
		if err != nil {
			httperr.Respond(c, h.logger, apperror.Validation("file", err.Error()))
			return
		}
		defer f.Close()
		data, err = io.ReadAll(io.LimitReader(f, maxImportSize))
	} else {
		data, err = io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	}
	if err != nil {
		httperr.Respond(c, h.logger, apperror.Validation("file", err.Error()))
		return
	}

	actor, _ := auth.GetActor(c)
	res, err := h.uc.ImportCSV(c.Request.Context(), data, actor)
	if err != nil && res == nil {
		httperr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProductHandler) scopeLocation(c *gin.Context, requested string) (string, bool) {
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
