package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/submission/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.InventorySubmission) error {
	query := `
        INSERT INTO inventory_submissions (id, depot_id, depot_name, items, status, created_at, reviewed_by, reviewed_at)
        VALUES (:id, :depot_id, :depot_name, :items, :status, :created_at, :reviewed_by, :reviewed_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return apperror.Remote("create submission", err)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.InventorySubmission, error) {
	var s model.InventorySubmission
	err := r.DB.GetContext(ctx, &s, `SELECT * FROM inventory_submissions WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Remote("get submission", err)
	}
	return &s, nil
}

func (r *PGRepository) List(ctx context.Context, f *dto.SubmissionFilters) ([]model.InventorySubmission, error) {
	var items []model.InventorySubmission

	conditions := []string{}
	args := map[string]interface{}{}

	if f.DepotID != "" {
		conditions = append(conditions, "depot_id = :depot_id")
		args["depot_id"] = f.DepotID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT * FROM inventory_submissions" + whereClause + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperror.Remote("list submissions", err)
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, apperror.Remote("list submissions", err)
	}
	return items, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, from, to model.SubmissionStatus, reviewedBy *string, reviewedAt *time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE inventory_submissions
        SET status = $1, reviewed_by = $2, reviewed_at = $3
        WHERE id = $4 AND status = $5
    `, to, reviewedBy, reviewedAt, id, from)
	if err != nil {
		return false, apperror.Remote("update submission status", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, apperror.Remote("update submission status", err)
	}
	return rows == 1, nil
}
