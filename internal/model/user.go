package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleDepot Role = "depot"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	DepotID      *string   `db:"depot_id" json:"depot_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Actor identifies who performs a mutation; names are snapshotted onto ledger rows.
type Actor struct {
	UserID   string
	UserName string
	Role     Role
	DepotID  string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
