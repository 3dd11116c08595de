package movement

import (
	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
)

// Validate checks a ledger row before it is written.
func Validate(m *model.StockMovement) error {
	if m.ProductID == "" {
		return apperror.Validation("product_id", "required")
	}
	if !m.ChangeType.Valid() {
		return apperror.Validation("change_type", "unknown change type "+string(m.ChangeType))
	}
	if m.TransactionRef == "" {
		return apperror.Validation("transaction_ref", "required")
	}
	if m.OldStockLevel < 0 || m.NewStockLevel < 0 {
		return apperror.ErrInvalidQuantity
	}
	if m.NewStockLevel != m.OldStockLevel+m.QuantityChange {
		return apperror.Validation("quantity_change", "new level must equal old level plus change")
	}
	return nil
}
