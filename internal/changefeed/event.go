// Package changefeed publishes row-level change notifications and lets
// read caches invalidate themselves when a table they mirror changes.
package changefeed

import "time"

const (
	TableProducts    = "products"
	TableMovements   = "stock_movements"
	TableSubmissions = "inventory_submissions"
	TableDepots      = "depots"
	TableChat        = "chat_messages"
	TableAlerts      = "alert_configs"
)

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Event struct {
	Table     string    `json:"table"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
