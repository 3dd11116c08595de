package dto

import "github.com/fekuna/labstock-service/internal/model"

const DefaultListLimit = 500

type MovementFilters struct {
	ProductID      string
	DepotName      string
	ChangeType     model.ChangeType
	TransactionRef string
	Limit          int
}
