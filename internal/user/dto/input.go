package dto

import "github.com/fekuna/labstock-service/internal/model"

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserInput struct {
	Username    string     `json:"username" binding:"required"`
	DisplayName string     `json:"display_name"`
	Password    string     `json:"password" binding:"required"`
	Role        model.Role `json:"role" binding:"required"`
	DepotID     string     `json:"depot_id"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      *model.User `json:"user"`
}
