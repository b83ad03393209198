package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/service"
)

// CurrentUserKey is where the gate stores the resolved account. Only a
// fully verified account is ever attached.
const CurrentUserKey = "current_user"

// Auth is the authorization gate for protected routes: it extracts the
// bearer token, delegates verification to the auth service, and attaches
// the resolved account to the request context. Any failed step rejects the
// request before the handler runs.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			reject(c, apperr.Unauthenticated("you are not logged in, please log in to get access"))
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			reject(c, err)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

func reject(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := gin.H{"message": apperr.PublicMessage(err)}
	if status < 500 {
		body["status"] = "fail"
	} else {
		body["status"] = "error"
	}
	c.AbortWithStatusJSON(status, body)
}
