package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/service"
)

type updateMeRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (h HandlerSet) UpdateMe(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	if req.Password != "" || req.PasswordConfirm != "" {
		h.fail(c, apperr.Validation("this route is not for password updates, please use /updateMyPassword instead"))
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.success(c, http.StatusOK, gin.H{"user": toUserResponse(updated)})
}

func (h HandlerSet) DeleteMe(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	if err := h.userService.SoftDelete(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(resp),
		"data":    gin.H{"users": resp},
	})
}
