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

func (r *PGRepository) FindAll(ctx context.Context, activeOnly bool) ([]model.Depot, error) {
	var depots []model.Depot
	query := `SELECT * FROM depots`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id`
	if err := r.DB.SelectContext(ctx, &depots, query); err != nil {
		return nil, apperror.Remote("list depots", err)
	}
	return depots, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Depot, error) {
	return r.findOne(ctx, `SELECT * FROM depots WHERE id = $1`, id)
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Depot, error) {
	return r.findOne(ctx, `SELECT * FROM depots WHERE name = $1`, name)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg string) (*model.Depot, error) {
	var d model.Depot
	if err := r.DB.GetContext(ctx, &d, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Remote("find depot", err)
	}
	return &d, nil
}

func (r *PGRepository) Create(ctx context.Context, d *model.Depot) error {
	_, err := r.DB.NamedExecContext(ctx,
		`INSERT INTO depots (id, name, color, active) VALUES (:id, :name, :color, :active)`, d)
	return apperror.Remote("create depot", err)
}

func (r *PGRepository) Update(ctx context.Context, d *model.Depot) error {
	_, err := r.DB.NamedExecContext(ctx,
		`UPDATE depots SET name = :name, color = :color, active = :active WHERE id = :id`, d)
	return apperror.Remote("update depot", err)
}
