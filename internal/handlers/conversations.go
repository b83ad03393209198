package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/service"
)

type messageRequest struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
}

func toMessageInputs(reqs []messageRequest) []service.MessageInput {
	if reqs == nil {
		return nil
	}
	inputs := make([]service.MessageInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, service.MessageInput{
			Role:      req.Role,
			Content:   req.Content,
			Timestamp: req.Timestamp,
		})
	}
	return inputs
}

type conversationResponse struct {
	ID        string           `json:"id"`
	Messages  []models.Message `json:"messages"`
	Tags      []string         `json:"tags"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func toConversationResponse(conv models.Conversation) conversationResponse {
	return conversationResponse{
		ID:        conv.ID,
		Messages:  conv.Messages,
		Tags:      conv.Tags,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

type createConversationRequest struct {
	Messages []messageRequest `json:"messages"`
	Tags     []string         `json:"tags"`
}

func (h HandlerSet) CreateConversation(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	conv, err := h.convService.Create(c.Request.Context(), user.ID, toMessageInputs(req.Messages), req.Tags)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.success(c, http.StatusCreated, gin.H{"conversation": toConversationResponse(conv)})
}

func (h HandlerSet) ListConversations(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	conversations, err := h.convService.List(c.Request.Context(), user.ID, service.ListQuery{
		Tags:        c.Query("tags"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		Keyword:     c.Query("keyword"),
		CreatedOnly: c.Query("createdOnly"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]conversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		resp = append(resp, toConversationResponse(conv))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(resp),
		"data":    gin.H{"conversations": resp},
	})
}

func (h HandlerSet) GetConversation(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	conv, err := h.convService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.success(c, http.StatusOK, gin.H{"conversation": toConversationResponse(conv)})
}

type updateConversationRequest struct {
	Messages []messageRequest `json:"messages"`
	Tags     []string         `json:"tags"`
}

func (h HandlerSet) UpdateConversation(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	conv, err := h.convService.Update(c.Request.Context(), user.ID, c.Param("id"), service.UpdateConversationInput{
		Messages: toMessageInputs(req.Messages),
		Tags:     req.Tags,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.success(c, http.StatusOK, gin.H{"conversation": toConversationResponse(conv)})
}

type appendMessageRequest struct {
	Message messageRequest `json:"message"`
}

func (h HandlerSet) AppendMessage(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	var req appendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	conv, err := h.convService.AppendMessage(c.Request.Context(), user.ID, c.Param("id"), service.MessageInput{
		Role:      req.Message.Role,
		Content:   req.Message.Content,
		Timestamp: req.Message.Timestamp,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.success(c, http.StatusOK, gin.H{"conversation": toConversationResponse(conv)})
}

func (h HandlerSet) DeleteConversation(c *gin.Context) {
	user, ok := h.mustCurrentUser(c)
	if !ok {
		return
	}

	if err := h.convService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
