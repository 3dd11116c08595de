package dto

import "github.com/fekuna/labstock-service/internal/model"

type ApprovalResult struct {
	Submission     *model.InventorySubmission `json:"submission"`
	TransactionRef string                     `json:"transaction_ref"`
	Movements      []model.StockMovement      `json:"movements"`
	// Failed lists the product ids whose stock could not be written.
	Failed []string `json:"failed,omitempty"`
}
