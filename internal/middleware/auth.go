package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/utils"
)

const (
	// AuthCookie is the cookie checked when no Authorization header is sent
	AuthCookie = "auth-token"
	actorKey   = "actor"
)

// Authenticator resolves a bearer token to the calling actor
type Authenticator interface {
	Authenticate(token string) (*service.Actor, error)
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth rejects requests without a valid token and stores the actor in the context
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			utils.UnauthorizedResponse(c, "Authentication required")
			c.Abort()
			return
		}

		actor, err := auth.Authenticate(token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.UnauthorizedResponse(c, "Invalid or expired token")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to authenticate", err)
			}
			c.Abort()
			return
		}

		SetActor(c, *actor)
		c.Next()
	}
}

// RequireRoles must run after RequireAuth
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			utils.UnauthorizedResponse(c, "Authentication required")
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		utils.ForbiddenResponse(c, "You do not have access to this resource")
		c.Abort()
	}
}

// GetActor returns the actor stored by RequireAuth
func GetActor(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}

// SetActor stores an actor in the context, as RequireAuth does
func SetActor(c *gin.Context, actor service.Actor) {
	c.Set(actorKey, actor)
}
