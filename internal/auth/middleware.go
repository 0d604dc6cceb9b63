package auth

import (
	"context"
	"net/http"

	dom "taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session_id"

const contextKeyUser = "current_user"

// UserLoader resolves a user ID from a session into the full account.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
}

// CurrentUser returns the authenticated user set by RequireUser.
func CurrentUser(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// SetCurrentUser puts a user into the request context. Used by
// RequireUser and by handler tests that bypass the session check.
func SetCurrentUser(c *gin.Context, u dom.User) {
	c.Set(contextKeyUser, u)
}

// RequireUser returns a middleware that checks for a valid session
// cookie and sets the current user in context. If missing or invalid,
// responds with 401; clients treat that as "go to login".
func RequireUser(sessions *Store, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, ok := sessions.GetUserID(c.Request.Context(), sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			// Session outlived the account.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		SetCurrentUser(c, user)
		c.Next()
	}
}
