package model

import "time"

type ChatMessage struct {
	ID         string    `db:"id" json:"id"`
	DepotID    string    `db:"depot_id" json:"depot_id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	SenderName string    `db:"sender_name" json:"sender_name"`
	SenderRole Role      `db:"sender_role" json:"sender_role"`
	Body       string    `db:"body" json:"body"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
