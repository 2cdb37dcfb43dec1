package middleware

import (
	"github.com/gin-gonic/gin"

	"inchat/internal/app"
	"inchat/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

// AuthSession gates a route on the session cookie. The token must verify and
// still have a live server-side record; anything else is unauthorized.
func AuthSession(authService *app.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil || raw == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userID, err := authService.Authenticate(c.Request.Context(), raw)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}
