package dto

import "github.com/fekuna/labstock-service/internal/model"

type StageInput struct {
	DepotID   string `json:"-"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// SubmitInput submits Items when given, the depot's staged draft otherwise.
type SubmitInput struct {
	DepotID string                 `json:"-"`
	Items   []model.SubmissionItem `json:"items"`
}

type SubmissionFilters struct {
	DepotID string
	Status  model.SubmissionStatus
	Limit   int
}
