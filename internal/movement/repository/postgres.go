package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement/dto"
	"github.com/jmoiron/sqlx"
)

// InsertQuery is shared with repositories that append ledger rows inside
// their own transaction.
const InsertQuery = `
        INSERT INTO stock_movements (
            id, product_id, product_name, depot_name, user_id, user_name,
            change_type, quantity_change, old_stock_level, new_stock_level,
            transaction_ref, created_at
        )
        VALUES (
            :id, :product_id, :product_name, :depot_name, :user_id, :user_name,
            :change_type, :quantity_change, :old_stock_level, :new_stock_level,
            :transaction_ref, :created_at
        )
    `

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}


func (r *PGRepository) List(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, error) {
	var items []model.StockMovement

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.DepotName != "" {
		conditions = append(conditions, "depot_name = :depot_name")
		args["depot_name"] = f.DepotName
	}
	if f.ChangeType != "" {
		conditions = append(conditions, "change_type = :change_type")
		args["change_type"] = string(f.ChangeType)
	}
	if f.TransactionRef != "" {
		conditions = append(conditions, "transaction_ref = :transaction_ref")
		args["transaction_ref"] = f.TransactionRef
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperror.Remote("list movements", err)
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, apperror.Remote("list movements", err)
	}
	return items, nil
}
