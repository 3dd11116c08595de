package main

import (
	"net/http"

	alertH "github.com/fekuna/labstock-service/internal/alert/handler"
	approvalH "github.com/fekuna/labstock-service/internal/approval/handler"
	assistantH "github.com/fekuna/labstock-service/internal/assistant/handler"
	"github.com/fekuna/labstock-service/internal/auth"
	chatH "github.com/fekuna/labstock-service/internal/chat/handler"
	depotH "github.com/fekuna/labstock-service/internal/depot/handler"
	invH "github.com/fekuna/labstock-service/internal/inventory/handler"
	"github.com/fekuna/labstock-service/internal/model"
	movementH "github.com/fekuna/labstock-service/internal/movement/handler"
	prodH "github.com/fekuna/labstock-service/internal/product/handler"
	reportH "github.com/fekuna/labstock-service/internal/report/handler"
	submissionH "github.com/fekuna/labstock-service/internal/submission/handler"
	userH "github.com/fekuna/labstock-service/internal/user/handler"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	user       *userH.UserHandler
	depot      *depotH.DepotHandler
	product    *prodH.ProductHandler
	inventory  *invH.InventoryHandler
	movement   *movementH.MovementHandler
	submission *submissionH.SubmissionHandler
	approval   *approvalH.ApprovalHandler
	chat       *chatH.ChatHandler
	alert      *alertH.AlertHandler
	report     *reportH.ReportHandler
	assistant  *assistantH.AssistantHandler
}

func registerRoutes(r *gin.Engine, h *handlers, tokens *auth.TokenManager, log logger.ZapLogger) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.user.Login)

	authed := api.Group("")
	authed.Use(auth.Middleware(tokens, log))
	admin := authed.Group("")
	admin.Use(auth.RequireRole(model.RoleAdmin, log))

	authed.GET("/me", h.user.Me)
	admin.POST("/users", h.user.CreateUser)

	// Depots
	authed.GET("/depots", h.depot.ListDepots)
	authed.GET("/depots/:id", h.depot.GetDepot)
	admin.POST("/depots", h.depot.CreateDepot)
	admin.PUT("/depots/:id", h.depot.UpdateDepot)
	admin.PATCH("/depots/:id/active", h.depot.SetActive)
	admin.PUT("/depots/:id/inventory", h.inventory.SetDepotInventory)

	// Catalog and stock
	authed.GET("/products", h.product.ListProducts)
	authed.GET("/products/search", h.product.SearchProducts)
	authed.GET("/products/:id", h.product.GetProduct)
	authed.POST("/products/:id/consume", h.inventory.Consume)
	admin.POST("/products", h.inventory.CreateProduct)
	admin.PUT("/products/:id", h.inventory.EditProduct)
	admin.POST("/products/:id/move", h.inventory.AdminMove)
	admin.DELETE("/products/:id", h.product.DeleteProduct)
	admin.POST("/products/import", h.product.ImportProducts)

	// Ledger
	authed.GET("/movements", h.movement.ListMovements)

	// Submission workflow
	authed.GET("/depots/:id/draft", h.submission.GetDraft)
	authed.POST("/depots/:id/draft", h.submission.Stage)
	authed.DELETE("/depots/:id/draft/:productId", h.submission.Unstage)
	authed.POST("/depots/:id/submissions", h.submission.Submit)
	authed.GET("/submissions", h.submission.ListSubmissions)
	authed.GET("/submissions/:id", h.submission.GetSubmission)
	admin.POST("/submissions/:id/approve", h.approval.Approve)
	admin.POST("/submissions/:id/reject", h.approval.Reject)

	// Support chat
	authed.GET("/depots/:id/messages", h.chat.ListMessages)
	authed.POST("/depots/:id/messages", h.chat.SendMessage)
	authed.POST("/depots/:id/messages/read", h.chat.MarkRead)

	// Alerts
	authed.GET("/depots/:id/alerts", h.alert.Scan)
	authed.GET("/depots/:id/alerts/config", h.alert.GetConfig)
	authed.PUT("/depots/:id/alerts/config", h.alert.UpsertConfig)

	// CSV reports
	authed.GET("/reports/stock.csv", h.report.StockSheet)
	authed.GET("/reports/movements.csv", h.report.MovementHistory)
	authed.GET("/reports/submissions/:id", h.report.Submission)

	// Assistant
	authed.POST("/assistant/safety-sheet", h.assistant.SafetySheet)
	authed.POST("/assistant/product-info", h.assistant.ProductInfo)
	authed.POST("/assistant/extract", h.assistant.ExtractProducts)
	authed.GET("/depots/:id/assistant/forecast", h.assistant.PredictiveAnalysis)
	authed.GET("/depots/:id/assistant/anomalies", h.assistant.AnomalyAnalysis)
}
