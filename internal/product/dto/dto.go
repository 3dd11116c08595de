package dto

type ProductFilters struct {
	Location     string `json:"location,omitempty"`
	SearchQuery  string `json:"search,omitempty"` // name, code or CAS number
	LowStockOnly bool   `json:"low_stock,omitempty"`
	SortBy       string `json:"sort_by,omitempty"` // name, code, stock, created_at
	SortOrder    string `json:"sort_order,omitempty"`
	Page         int    `json:"page,omitempty"`
	PageSize     int    `json:"page_size,omitempty"`
}

type ImportCSVResult struct {
	TransactionRef string   `json:"transaction_ref"`
	Created        int      `json:"created"`
	Errors         []string `json:"errors,omitempty"`
}
