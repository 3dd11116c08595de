package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	movementrepo "github.com/fekuna/labstock-service/internal/movement/repository"
	"github.com/fekuna/labstock-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByCodeAndLocation(ctx context.Context, code, location string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE code = $1 AND location = $2 LIMIT 1`, code, location)
}

func (r *PGRepository) FindMasterByCode(ctx context.Context, code string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE code = $1 ORDER BY created_at ASC LIMIT 1`, code)
}

func (r *PGRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Remote("get product", err)
	}
	return &p, nil
}

func (r *PGRepository) CreateWithMovement(ctx context.Context, p *model.Product, m *model.StockMovement) error {
	insertQuery := `
        INSERT INTO products (
            id, code, name, cas_number, formula, location, stock, unit,
            alert_threshold, expiry_date, image_url, safety_sheet_url,
            version, created_at, updated_at
        )
        VALUES (
            :id, :code, :name, :cas_number, :formula, :location, :stock, :unit,
            :alert_threshold, :expiry_date, :image_url, :safety_sheet_url,
            :version, :created_at, :updated_at
        )
    `
	err := postgres.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertQuery, p); err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		if _, err := tx.NamedExecContext(ctx, movementrepo.InsertQuery, m); err != nil {
			return fmt.Errorf("failed to log movement: %w", err)
		}
		return nil
	})
	return apperror.Remote("create product", err)
}

// UpdateWithMovement writes p only if its version still equals expectedVersion,
// then appends m in the same transaction.
func (r *PGRepository) UpdateWithMovement(ctx context.Context, p *model.Product, expectedVersion int, m *model.StockMovement) error {
	updateQuery := `
        UPDATE products
        SET code = $1, name = $2, cas_number = $3, formula = $4, location = $5,
            stock = $6, unit = $7, alert_threshold = $8, expiry_date = $9,
            image_url = $10, safety_sheet_url = $11, updated_at = $12,
            version = version + 1
        WHERE id = $13 AND version = $14
    `
	err := postgres.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, updateQuery,
			p.Code, p.Name, p.CASNumber, p.Formula, p.Location,
			p.Stock, p.Unit, p.AlertThreshold, p.ExpiryDate,
			p.ImageURL, p.SafetySheetURL, p.UpdatedAt,
			p.ID, expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperror.Conflict("product was modified concurrently")
		}

		if m != nil {
			if _, err := tx.NamedExecContext(ctx, movementrepo.InsertQuery, m); err != nil {
				return fmt.Errorf("failed to log movement: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return apperror.Remote("update product", err)
	}
	p.Version = expectedVersion + 1
	return nil
}
