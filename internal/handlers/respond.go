package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/middleware"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
)

// fail renders an application error. The caller-facing message is always
// safe; the full error chain is logged server-side and echoed in the body
// only outside production.
func (h HandlerSet) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		h.log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	body := gin.H{"message": apperr.PublicMessage(err)}
	if status >= http.StatusInternalServerError {
		body["status"] = "error"
	} else {
		body["status"] = "fail"
	}
	if h.cfg.Environment != "production" {
		body["error"] = err.Error()
	}

	c.JSON(status, body)
}

func (h HandlerSet) success(c *gin.Context, status int, data gin.H) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

func (h HandlerSet) mustCurrentUser(c *gin.Context) (models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		h.fail(c, apperr.Unauthenticated("you are not logged in, please log in to get access"))
	}
	return user, ok
}
