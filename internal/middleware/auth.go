package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/service/session"
)

// ContextActor is the gin context key holding the resolved acting user.
const ContextActor = "actor"

type AuthMiddleware struct {
	sessions session.Servicer
}

func NewAuthMiddleware(sessions session.Servicer) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate resolves the persisted session marker and places the
// acting user in the request context. Everything below the handler
// layer receives the actor explicitly; nothing else reads session
// state.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.sessions.CurrentUser(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to resolve session"))
			c.Abort()
			return
		}
		if actor == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
			c.Abort()
			return
		}

		c.Set(ContextActor, *actor)
		c.Next()
	}
}

// RequireRoles denies the request unless the actor's role is in the
// allowed set. Must run after Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied for role "+actor.Role))
		c.Abort()
	}
}

// ActorFromContext returns the acting user placed by Authenticate.
func ActorFromContext(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return model.User{}, false
	}
	actor, ok := v.(model.User)
	return actor, ok
}
