package model

type AlertConfig struct {
	DepotID           string `db:"depot_id" json:"depot_id"`
	LowStockEnabled   bool   `db:"low_stock_enabled" json:"low_stock_enabled"`
	ExpiryWarningDays int    `db:"expiry_warning_days" json:"expiry_warning_days"`
}

func DefaultAlertConfig(depotID string) AlertConfig {
	return AlertConfig{DepotID: depotID, LowStockEnabled: true, ExpiryWarningDays: 30}
}
