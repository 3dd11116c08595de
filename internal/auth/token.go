package auth

import (
	"fmt"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	DepotID string `json:"depot_id,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(u *model.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.ttl)
	depotID := ""
	if u.DepotID != nil {
		depotID = *u.DepotID
	}
	claims := Claims{
		UserID:  u.ID,
		Name:    u.DisplayName,
		Role:    string(u.Role),
		DepotID: depotID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(tokenString string) (model.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Actor{}, apperror.Unauthorized("invalid token")
	}

	role := model.Role(claims.Role)
	if role != model.RoleAdmin && role != model.RoleDepot {
		return model.Actor{}, apperror.Unauthorized("invalid role claim")
	}
	return model.Actor{
		UserID:   claims.UserID,
		UserName: claims.Name,
		Role:     role,
		DepotID:  claims.DepotID,
	}, nil
}
