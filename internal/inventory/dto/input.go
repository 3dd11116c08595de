package dto

import (
	"time"

	"github.com/fekuna/labstock-service/internal/model"
)

type CreateProductInput struct {
	Code           string     `json:"code" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	CASNumber      string     `json:"cas_number"`
	Formula        string     `json:"formula"`
	Location       string     `json:"location" binding:"required"`
	Stock          int        `json:"stock"`
	Unit           string     `json:"unit"`
	AlertThreshold int        `json:"alert_threshold"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	ImageURL       *string    `json:"image_url"`
	SafetySheetURL *string    `json:"safety_sheet_url"`
}

type EditProductInput struct {
	ID             string     `json:"-"`
	Code           string     `json:"code" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	CASNumber      string     `json:"cas_number"`
	Formula        string     `json:"formula"`
	Location       string     `json:"location" binding:"required"`
	Stock          int        `json:"stock"`
	Unit           string     `json:"unit"`
	AlertThreshold int        `json:"alert_threshold"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	ImageURL       *string    `json:"image_url"`
	SafetySheetURL *string    `json:"safety_sheet_url"`
}

type ConsumeInput struct {
	ProductID string `json:"-"`
	Quantity  int    `json:"quantity"`
}

type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

type AdminMoveInput struct {
	ProductID string    `json:"-"`
	Direction Direction `json:"direction" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// SetStockInput replaces the stock of one product with an absolute level.
type SetStockInput struct {
	ProductID      string
	NewStock       int
	ChangeType     model.ChangeType
	TransactionRef string
	// Location, when set, must match the product's depot at write time.
	Location string
	// SkipUnchanged avoids writing anything when the level already matches.
	SkipUnchanged bool
}

type StockCount struct {
	Code  string `json:"code"`
	Stock int    `json:"stock"`
}

type SetDepotInventoryInput struct {
	DepotID string       `json:"-"`
	Counts  []StockCount `json:"counts" binding:"required"`
}
