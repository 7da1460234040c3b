package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Conversation Request DTOs ---

// StartConversationRequest opens (or reuses) the conversation for a job and
// posts the initial message.
type StartConversationRequest struct {
	JobID   uuid.UUID `json:"job_id" validate:"required"`
	Message string    `json:"message" validate:"required"`
	UserID  uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// GetConversationRequest retrieves a conversation with its messages.
type GetConversationRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"`
	UserID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// ListConversationsRequest lists the caller's conversations.
type ListConversationsRequest struct {
	UserID uuid.UUID `json:"-" validate:"required"`
	Limit  int       `form:"limit,default=20"`
	Offset int       `form:"offset,default=0"`
}

// PostMessageRequest adds a message to a conversation.
type PostMessageRequest struct {
	ConversationID uuid.UUID `json:"-" validate:"required"`
	Content        string    `json:"content" validate:"required"`
	SenderID       uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// SuggestReplyRequest asks the AI for a reply suggestion in a conversation.
type SuggestReplyRequest struct {
	ConversationID uuid.UUID `json:"-" validate:"required"`
	UserID         uuid.UUID `json:"-"` // Set internally by handler from auth context
	LastMessage    string    `json:"last_message"`
}

// --- Conversation Response DTOs ---

// MessageResponse defines a single chat message, optionally wrapping an offer.
type MessageResponse struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID uuid.UUID      `json:"conversation_id"`
	SenderID       uuid.UUID      `json:"sender_id"`
	SenderName     string         `json:"sender_name,omitempty"`
	Content        string         `json:"content"`
	Offer          *OfferResponse `json:"offer,omitempty"`
	IsRead         bool           `json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ConversationResponse defines a conversation summary for list views.
type ConversationResponse struct {
	ID           uuid.UUID        `json:"id"`
	JobID        uuid.UUID        `json:"job_id"`
	JobTitle     string           `json:"job_title,omitempty"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	ContractorID uuid.UUID        `json:"contractor_id"`
	LastMessage  *MessageResponse `json:"last_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ConversationDetailResponse includes the full message history.
type ConversationDetailResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

// SuggestReplyResponse carries the AI reply suggestion.
type SuggestReplyResponse struct {
	Suggestion string `json:"suggestion"`
}
