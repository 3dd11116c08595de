package dto

const DefaultListLimit = 100

type SendMessageInput struct {
	DepotID string `json:"-"`
	Body    string `json:"body" binding:"required"`
}
