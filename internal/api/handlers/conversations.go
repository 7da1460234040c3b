package handlers

import (
	"net/http"

	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ConversationHandler holds the service dependency for chat operations
type ConversationHandler struct {
	service   services.ChatService
	validator *validator.Validate
}

// NewConversationHandler creates a new ConversationHandler with the given service
func NewConversationHandler(service services.ChatService, validate *validator.Validate) *ConversationHandler {
	return &ConversationHandler{service: service, validator: validate}
}

// StartConversation godoc
// @Summary      Start a conversation
// @Description  Opens (or reuses) the conversation for a listing and posts the initial message. One conversation exists per listing and customer.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        conversation body      dto.StartConversationRequest true  "Listing and initial message"
// @Success      201  {object}  dto.ConversationResponse "Conversation with the initial message"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input or own listing"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /conversations [post]
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.UserID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	conv, msg, err := h.service.StartConversation(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapConversationToResponse(conv, msg))
}

// ListConversations godoc
// @Summary      List own conversations
// @Description  Lists the caller's conversations, most recently active first, each with its latest message.
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  default(20)
// @Param        offset  query     int  false  "Page offset" default(0)
// @Success      200  {array}   dto.ConversationResponse "Conversations"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /conversations [get]
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListConversationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.UserID = userID

	summaries, err := h.service.ListConversations(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.ConversationResponse, 0, len(summaries))
	for i := range summaries {
		responses = append(responses, mapConversationToResponse(&summaries[i].Conversation, summaries[i].LastMessage))
	}
	c.JSON(http.StatusOK, responses)
}

// GetConversation godoc
// @Summary      Get a conversation with its messages
// @Description  Returns the conversation and its full message history, oldest first. Participants only.
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Conversation ID" Format(uuid)
// @Success      200  {object}  dto.ConversationDetailResponse "Conversation with messages"
// @Failure      403  {object}  map[string]string "Forbidden - Not a participant"
// @Failure      404  {object}  map[string]string "Conversation Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /conversations/{id} [get]
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	conv, messages, err := h.service.GetConversation(c.Request.Context(), &dto.GetConversationRequest{ID: id, UserID: userID})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	detail := dto.ConversationDetailResponse{
		ConversationResponse: mapConversationToResponse(conv, nil),
		Messages:             make([]dto.MessageResponse, 0, len(messages)),
	}
	for i := range messages {
		detail.Messages = append(detail.Messages, mapMessageToResponse(&messages[i].Message, messages[i].Offer))
	}
	c.JSON(http.StatusOK, detail)
}

// PostMessage godoc
// @Summary      Post a message
// @Description  Adds a message to a conversation. Participants only.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string                 true  "Conversation ID" Format(uuid)
// @Param        message body      dto.PostMessageRequest true  "Message to post"
// @Success      201  {object}  dto.MessageResponse "Message posted"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403  {object}  map[string]string "Forbidden - Not a participant"
// @Failure      404  {object}  map[string]string "Conversation Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /conversations/{id}/messages [post]
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ConversationID = id
	req.SenderID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	msg, err := h.service.PostMessage(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapMessageToResponse(msg, nil))
}

// SuggestReply godoc
// @Summary      Suggest a reply
// @Description  Asks the AI for a reply suggestion to the latest message. Falls back to a static text when the AI is unavailable.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string                  true   "Conversation ID" Format(uuid)
// @Param        request body      dto.SuggestReplyRequest false  "Optional message override"
// @Success      200  {object}  dto.SuggestReplyResponse "Reply suggestion"
// @Failure      403  {object}  map[string]string "Forbidden - Not a participant"
// @Failure      404  {object}  map[string]string "Conversation Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /conversations/{id}/suggest-reply [post]
func (h *ConversationHandler) SuggestReply(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SuggestReplyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	req.ConversationID = id
	req.UserID = userID

	suggestion, err := h.service.SuggestReply(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuggestReplyResponse{Suggestion: suggestion})
}
