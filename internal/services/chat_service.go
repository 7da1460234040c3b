package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mycraft-api/internal/ai"
	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"
	"mycraft-api/internal/ws"

	"github.com/google/uuid"
)

// suggestReplyFallback is returned when every AI model fails.
const suggestReplyFallback = "Entschuldigung, ein Antwortvorschlag ist derzeit leider nicht verfügbar."

type chatService struct {
	convRepo  storage.ConversationRepository
	jobRepo   storage.JobRepository
	offerRepo storage.OfferRepository
	db        storage.TxManager
	notifier  Notifier
	aiClient  ai.Client
}

// NewChatService creates a new instance of ChatService. notifier may be nil
// to disable push events.
func NewChatService(convRepo storage.ConversationRepository, jobRepo storage.JobRepository, offerRepo storage.OfferRepository, db storage.TxManager, notifier Notifier, aiClient ai.Client) ChatService {
	return &chatService{
		convRepo:  convRepo,
		jobRepo:   jobRepo,
		offerRepo: offerRepo,
		db:        db,
		notifier:  notifier,
		aiClient:  aiClient,
	}
}

func (s *chatService) notify(userID uuid.UUID, eventType string, data interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastToUsers([]uuid.UUID{userID}, ws.Event{Type: eventType, Data: data})
}

// otherParticipant returns the conversation partner of the given user.
func otherParticipant(conv *models.Conversation, userID uuid.UUID) uuid.UUID {
	if conv.CustomerID == userID {
		return conv.ContractorID
	}
	return conv.CustomerID
}

// StartConversation opens the conversation for a (job, customer) pair, reusing
// an existing one, and posts the initial message. Creation and message are one
// transaction; the unique index on (job_id, customer_id) resolves concurrent
// starts to a single conversation.
func (s *chatService) StartConversation(ctx context.Context, req *dto.StartConversationRequest) (*models.Conversation, *models.Message, error) {
	// --- Transaction Start ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("StartConversation: Error beginning transaction: %v", err)
		return nil, nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txJobRepo := s.jobRepo.WithTx(tx)
	txConvRepo := s.convRepo.WithTx(tx)

	job, err := txJobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, nil, mapRepoError(err, "fetching job for conversation")
	}
	if job.ContractorID == req.UserID {
		log.Printf("StartConversation: User %s attempted to chat on own job %s", req.UserID, req.JobID)
		return nil, nil, fmt.Errorf("%w: cannot start a conversation on your own listing", ErrValidation)
	}

	conv, err := txConvRepo.GetByJobAndCustomer(ctx, req.JobID, req.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		conv, err = txConvRepo.Create(ctx, &models.Conversation{
			ID:           uuid.New(),
			JobID:        req.JobID,
			CustomerID:   req.UserID,
			ContractorID: job.ContractorID,
		})
		if errors.Is(err, storage.ErrConflict) {
			// Lost a creation race; the winner's conversation is ours too.
			conv, err = txConvRepo.GetByJobAndCustomer(ctx, req.JobID, req.UserID)
		}
	}
	if err != nil {
		return nil, nil, mapRepoError(err, "resolving conversation")
	}

	msg, err := txConvRepo.CreateMessage(ctx, &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       req.UserID,
		Content:        req.Message,
	})
	if err != nil {
		return nil, nil, mapRepoError(err, "posting initial message")
	}
	if err := txConvRepo.Touch(ctx, conv.ID); err != nil {
		return nil, nil, mapRepoError(err, "touching conversation")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("StartConversation: Error committing transaction: %v", err)
		return nil, nil, fmt.Errorf("internal error committing conversation: %w", err)
	}
	// --- End Transaction ---

	s.notify(otherParticipant(conv, req.UserID), "message.new", msg)

	return conv, msg, nil
}

func (s *chatService) GetConversation(ctx context.Context, req *dto.GetConversationRequest) (*models.Conversation, []MessageView, error) {
	conv, err := s.convRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, nil, mapRepoError(err, "fetching conversation")
	}
	if !conv.IsParticipant(req.UserID) {
		return nil, nil, ErrForbidden
	}

	messages, err := s.convRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, nil, mapRepoError(err, "listing messages")
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		view := MessageView{Message: msg}
		if msg.OfferID != nil {
			offer, err := s.offerRepo.GetByID(ctx, *msg.OfferID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, nil, mapRepoError(err, "fetching offer for message")
			}
			view.Offer = offer
		}
		views = append(views, view)
	}
	return conv, views, nil
}

func (s *chatService) ListConversations(ctx context.Context, req *dto.ListConversationsRequest) ([]ConversationSummary, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	conversations, err := s.convRepo.ListByParticipant(ctx, req.UserID, limit, req.Offset)
	if err != nil {
		return nil, mapRepoError(err, "listing conversations")
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := ConversationSummary{Conversation: conv}
		last, err := s.convRepo.LastMessage(ctx, conv.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, mapRepoError(err, "fetching last message")
		}
		summary.LastMessage = last
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *chatService) PostMessage(ctx context.Context, req *dto.PostMessageRequest) (*models.Message, error) {
	// --- Transaction Start ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("PostMessage: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txConvRepo := s.convRepo.WithTx(tx)

	conv, err := txConvRepo.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, mapRepoError(err, "fetching conversation for message")
	}
	if !conv.IsParticipant(req.SenderID) {
		log.Printf("PostMessage: Forbidden attempt by user %s on conversation %s", req.SenderID, req.ConversationID)
		return nil, ErrForbidden
	}

	msg, err := txConvRepo.CreateMessage(ctx, &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       req.SenderID,
		Content:        req.Content,
	})
	if err != nil {
		return nil, mapRepoError(err, "posting message")
	}
	if err := txConvRepo.Touch(ctx, conv.ID); err != nil {
		return nil, mapRepoError(err, "touching conversation")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("PostMessage: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing message: %w", err)
	}
	// --- End Transaction ---

	s.notify(otherParticipant(conv, req.SenderID), "message.new", msg)

	return msg, nil
}

// SuggestReply asks the AI for a reply suggestion based on the latest message
// in the conversation. On AI failure a static fallback text is returned
// instead of an error.
func (s *chatService) SuggestReply(ctx context.Context, req *dto.SuggestReplyRequest) (string, error) {
	conv, err := s.convRepo.GetByID(ctx, req.ConversationID)
	if err != nil {
		return "", mapRepoError(err, "fetching conversation for reply suggestion")
	}
	if !conv.IsParticipant(req.UserID) {
		return "", ErrForbidden
	}

	lastMessage := strings.TrimSpace(req.LastMessage)
	if lastMessage == "" {
		last, err := s.convRepo.LastMessage(ctx, conv.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return "", fmt.Errorf("%w: conversation has no messages", ErrValidation)
			}
			return "", mapRepoError(err, "fetching last message")
		}
		lastMessage = last.Content
	}

	var sb strings.Builder
	sb.WriteString("Du hilfst bei der Kommunikation zwischen Kunden und Handwerkern auf einem deutschen Handwerker-Marktplatz. ")
	sb.WriteString("Formuliere eine kurze, freundliche und professionelle Antwort auf die folgende Nachricht. ")
	sb.WriteString("Antworte auf Deutsch und gib nur den Antworttext zurück.\n\n")
	fmt.Fprintf(&sb, "Nachricht: %s\n", lastMessage)

	suggestion, err := s.aiClient.Complete(ctx, sb.String())
	if err != nil {
		log.Printf("SuggestReply: AI request failed for conversation %s: %v", req.ConversationID, err)
		return suggestReplyFallback, nil
	}
	return strings.TrimSpace(suggestion), nil
}
