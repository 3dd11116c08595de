package model

// Depot ids are short numeric strings that double as the login namespace.
type Depot struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Color  string `db:"color" json:"color"`
	Active bool   `db:"active" json:"active"`
}
