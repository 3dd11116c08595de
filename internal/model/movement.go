package model

import "time"

type ChangeType string

const (
	ChangeInitial        ChangeType = "initial"
	ChangeUpdate         ChangeType = "update"
	ChangeCorrection     ChangeType = "correction"
	ChangeImport         ChangeType = "import"
	ChangeSubmission     ChangeType = "submission"
	ChangeConsumption    ChangeType = "consumption"
	ChangeAdminEntry     ChangeType = "admin_entry"
	ChangeAdminExit      ChangeType = "admin_exit"
	ChangeInventoryCount ChangeType = "inventory_count"
)

func (c ChangeType) Valid() bool {
	switch c {
	case ChangeInitial, ChangeUpdate, ChangeCorrection, ChangeImport, ChangeSubmission,
		ChangeConsumption, ChangeAdminEntry, ChangeAdminExit, ChangeInventoryCount:
		return true
	}
	return false
}

// StockMovement is an append-only ledger row. NewStockLevel always equals
// OldStockLevel + QuantityChange.
type StockMovement struct {
	ID             string     `db:"id" json:"id"`
	ProductID      string     `db:"product_id" json:"product_id"`
	ProductName    string     `db:"product_name" json:"product_name"`
	DepotName      string     `db:"depot_name" json:"depot_name"`
	UserID         string     `db:"user_id" json:"user_id"`
	UserName       string     `db:"user_name" json:"user_name"`
	ChangeType     ChangeType `db:"change_type" json:"change_type"`
	QuantityChange int        `db:"quantity_change" json:"quantity_change"`
	OldStockLevel  int        `db:"old_stock_level" json:"old_stock_level"`
	NewStockLevel  int        `db:"new_stock_level" json:"new_stock_level"`
	TransactionRef string     `db:"transaction_ref" json:"transaction_ref"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
