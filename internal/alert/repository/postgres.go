package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByDepot(ctx context.Context, depotID string) (*model.AlertConfig, error) {
	var cfg model.AlertConfig
	err := r.DB.GetContext(ctx, &cfg, `SELECT * FROM alert_configs WHERE depot_id = $1`, depotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Remote("get alert config", err)
	}
	return &cfg, nil
}

func (r *PGRepository) Upsert(ctx context.Context, cfg *model.AlertConfig) error {
	query := `
        INSERT INTO alert_configs (depot_id, low_stock_enabled, expiry_warning_days)
        VALUES (:depot_id, :low_stock_enabled, :expiry_warning_days)
        ON CONFLICT (depot_id) DO UPDATE
        SET low_stock_enabled = EXCLUDED.low_stock_enabled,
            expiry_warning_days = EXCLUDED.expiry_warning_days
    `
	_, err := r.DB.NamedExecContext(ctx, query, cfg)
	return apperror.Remote("save alert config", err)
}
