package model

import "time"

// Product is one depot's instance of a chemical. The same Code appears once
// per depot; Location holds the depot name, not its id.
type Product struct {
	BaseModel
	Code           string     `db:"code" json:"code"`
	Name           string     `db:"name" json:"name"`
	CASNumber      string     `db:"cas_number" json:"cas_number"`
	Formula        string     `db:"formula" json:"formula"`
	Location       string     `db:"location" json:"location"`
	Stock          int        `db:"stock" json:"stock"`
	Unit           string     `db:"unit" json:"unit"`
	AlertThreshold int        `db:"alert_threshold" json:"alert_threshold"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiry_date"`
	ImageURL       *string    `db:"image_url" json:"image_url"`
	SafetySheetURL *string    `db:"safety_sheet_url" json:"safety_sheet_url"`
	Version        int        `db:"version" json:"version"`
}

func (p *Product) IsLowStock() bool {
	return p.AlertThreshold > 0 && p.Stock <= p.AlertThreshold
}

// CloneForDepot copies the master attributes of p into a fresh row for another depot.
func (p *Product) CloneForDepot(depotName string) *Product {
	return &Product{
		Code:           p.Code,
		Name:           p.Name,
		CASNumber:      p.CASNumber,
		Formula:        p.Formula,
		Location:       depotName,
		Unit:           p.Unit,
		AlertThreshold: p.AlertThreshold,
		ExpiryDate:     p.ExpiryDate,
		ImageURL:       p.ImageURL,
		SafetySheetURL: p.SafetySheetURL,
	}
}
