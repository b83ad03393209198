package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
)

// RequireRoles restricts a route to the given roles. It must run after
// Auth; a valid session with an insufficient role is forbidden, which is
// distinct from the unauthenticated rejection.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		userVal, exists := c.Get(CurrentUserKey)
		if !exists {
			reject(c, apperr.Unauthenticated("you are not logged in, please log in to get access"))
			return
		}
		user, ok := userVal.(models.User)
		if !ok {
			reject(c, apperr.Unauthenticated("you are not logged in, please log in to get access"))
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			reject(c, apperr.Forbidden("you do not have permission to perform this action"))
			return
		}

		c.Next()
	}
}
