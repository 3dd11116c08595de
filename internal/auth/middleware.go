package auth

import (
	"strings"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/httperr"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Middleware accepts a bearer token or the "token" cookie.
func Middleware(tm *TokenManager, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString, _ = c.Cookie("token")
		}
		if tokenString == "" {
			httperr.Respond(c, log, apperror.Unauthorized("authentication token required"))
			return
		}

		actor, err := tm.Parse(tokenString)
		if err != nil {
			httperr.Respond(c, log, err)
			return
		}
		SetActor(c, actor)
		c.Next()
	}
}

func RequireRole(role model.Role, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			httperr.Respond(c, log, apperror.Unauthorized("authentication token required"))
			return
		}
		if actor.Role != role {
			httperr.Respond(c, log, apperror.Forbidden("role "+string(role)+" required"))
			return
		}
		c.Next()
	}
}

// CanAccessDepot reports whether actor may read or write data of depotID.
func CanAccessDepot(actor model.Actor, depotID string) bool {
	return actor.IsAdmin() || actor.DepotID == depotID
}
