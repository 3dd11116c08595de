package dto

type CreateDepotInput struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateDepotInput struct {
	ID    string `json:"-"`
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}
