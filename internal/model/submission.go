package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// SubmissionItem is an absolute counted quantity, not a delta.
type SubmissionItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type SubmissionItems []SubmissionItem

func (s SubmissionItems) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *SubmissionItems) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*s = nil
		return nil
	default:
		return errors.New("submission items: unsupported scan type")
	}
	return json.Unmarshal(raw, s)
}

type InventorySubmission struct {
	ID         string           `db:"id" json:"id"`
	DepotID    string           `db:"depot_id" json:"depot_id"`
	DepotName  string           `db:"depot_name" json:"depot_name"`
	Items      SubmissionItems  `db:"items" json:"items"`
	Status     SubmissionStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	ReviewedBy *string          `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt *time.Time       `db:"reviewed_at" json:"reviewed_at"`
}
