package repository

import (
	"context"

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

func (r *PGRepository) Create(ctx context.Context, m *model.ChatMessage) error {
	query := `
        INSERT INTO chat_messages (id, depot_id, sender_id, sender_name, sender_role, body, read, created_at)
        VALUES (:id, :depot_id, :sender_id, :sender_name, :sender_role, :body, :read, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return apperror.Remote("send message", err)
}

func (r *PGRepository) List(ctx context.Context, depotID string, limit int) ([]model.ChatMessage, error) {
	var items []model.ChatMessage
	query := `
        SELECT * FROM (
            SELECT * FROM chat_messages WHERE depot_id = $1 ORDER BY created_at DESC LIMIT $2
        ) latest
        ORDER BY created_at ASC
    `
	if err := r.DB.SelectContext(ctx, &items, query, depotID, limit); err != nil {
		return nil, apperror.Remote("list messages", err)
	}
	return items, nil
}

func (r *PGRepository) MarkRead(ctx context.Context, depotID string, readerRole model.Role) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE chat_messages SET read = TRUE WHERE depot_id = $1 AND sender_role <> $2 AND read = FALSE`,
		depotID, readerRole,
	)
	if err != nil {
		return 0, apperror.Remote("mark messages read", err)
	}
	return res.RowsAffected()
}

func (r *PGRepository) CountUnread(ctx context.Context, depotID string, readerRole model.Role) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM chat_messages WHERE depot_id = $1 AND sender_role <> $2 AND read = FALSE`,
		depotID, readerRole,
	)
	if err != nil {
		return 0, apperror.Remote("count unread messages", err)
	}
	return count, nil
}
