package dto

import "github.com/fekuna/labstock-service/internal/model"

type MutationResult struct {
	Product  *model.Product       `json:"product"`
	Movement *model.StockMovement `json:"movement,omitempty"`
}

type BulkSetResult struct {
	TransactionRef string   `json:"transaction_ref"`
	Updated        []string `json:"updated"`
	Created        []string `json:"created"`
	Unchanged      []string `json:"unchanged"`
	Failed         []string `json:"failed"`
}

type ImportResult struct {
	TransactionRef string          `json:"transaction_ref"`
	Created        []model.Product `json:"created"`
	Errors         []string        `json:"errors"`
}
