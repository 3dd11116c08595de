package dto

import "github.com/fekuna/labstock-service/internal/model"

type UpsertConfigInput struct {
	DepotID           string `json:"-"`
	LowStockEnabled   bool   `json:"low_stock_enabled"`
	ExpiryWarningDays int    `json:"expiry_warning_days"`
}

type ExpiringProduct struct {
	Product  model.Product `json:"product"`
	DaysLeft int           `json:"days_left"`
	Expired  bool          `json:"expired"`
}

type ScanResult struct {
	Depot    string            `json:"depot"`
	Config   model.AlertConfig `json:"config"`
	LowStock []model.Product   `json:"low_stock"`
	Expiring []ExpiringProduct `json:"expiring"`
}
