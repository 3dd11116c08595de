package auth

import (
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/gin-gonic/gin"
)

const actorKey = "auth.actor"

func SetActor(c *gin.Context, actor model.Actor) {
	c.Set(actorKey, actor)
}

// GetActor returns the authenticated caller populated by Middleware.
func GetActor(c *gin.Context) (model.Actor, bool) {
	val, ok := c.Get(actorKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := val.(model.Actor)
	return actor, ok
}
