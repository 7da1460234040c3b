package services_test

import (
	"context"
	"errors"
	"testing"

	mock_storage "mycraft-api/internal/mocks"
	"mycraft-api/internal/models"
	"mycraft-api/internal/services"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatServiceMocks struct {
	convRepo  *mock_storage.MockConversationRepository
	jobRepo   *mock_storage.MockJobRepository
	offerRepo *mock_storage.MockOfferRepository
	db        *mock_storage.MockTxManager
	notifier  *mock_storage.MockNotifier
	ai        *mock_storage.MockAIClient
}

func setupChatServiceTest(t *testing.T) (context.Context, services.ChatService, *chatServiceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	m := &chatServiceMocks{
		convRepo:  mock_storage.NewMockConversationRepository(ctrl),
		jobRepo:   mock_storage.NewMockJobRepository(ctrl),
		offerRepo: mock_storage.NewMockOfferRepository(ctrl),
		db:        mock_storage.NewMockTxManager(ctrl),
		notifier:  mock_storage.NewMockNotifier(ctrl),
		ai:        mock_storage.NewMockAIClient(ctrl),
	}
	chatService := services.NewChatService(m.convRepo, m.jobRepo, m.offerRepo, m.db, m.notifier, m.ai)
	return context.Background(), chatService, m, ctrl
}

func TestChatService_StartConversation(t *testing.T) {
	jobID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	convID := uuid.New()

	job := &models.Job{ID: jobID, ContractorID: contractorID, Status: models.JobStatusOpen}
	existingConv := &models.Conversation{ID: convID, JobID: jobID, CustomerID: customerID, ContractorID: contractorID}

	t.Run("Success_CreatesConversationAndMessage", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.jobRepo.EXPECT().WithTx(tx).Return(m.jobRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.jobRepo.EXPECT().GetByID(gomock.Any(), jobID).Return(job, nil).Times(1)
		m.convRepo.EXPECT().GetByJobAndCustomer(gomock.Any(), jobID, customerID).Return(nil, storage.ErrNotFound).Times(1)
		m.convRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, conv *models.Conversation) (*models.Conversation, error) {
				assert.Equal(t, jobID, conv.JobID)
				assert.Equal(t, customerID, conv.CustomerID)
				assert.Equal(t, contractorID, conv.ContractorID)
				return conv, nil
			}).Times(1)
		m.convRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
				assert.Equal(t, customerID, msg.SenderID)
				assert.Equal(t, "Guten Tag, ist der Termin noch frei?", msg.Content)
				return msg, nil
			}).Times(1)
		m.convRepo.EXPECT().Touch(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		m.notifier.EXPECT().BroadcastToUsers([]uuid.UUID{contractorID}, gomock.Any()).Times(1)

		conv, msg, err := chatService.StartConversation(ctx, &dto.StartConversationRequest{
			JobID:   jobID,
			Message: "Guten Tag, ist der Termin noch frei?",
			UserID:  customerID,
		})

		require.NoError(t, err)
		require.NotNil(t, conv)
		require.NotNil(t, msg)
		assert.True(t, tx.committed)
	})

	t.Run("Success_ReusesExistingConversation", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.jobRepo.EXPECT().WithTx(tx).Return(m.jobRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.jobRepo.EXPECT().GetByID(gomock.Any(), jobID).Return(job, nil).Times(1)
		m.convRepo.EXPECT().GetByJobAndCustomer(gomock.Any(), jobID, customerID).Return(existingConv, nil).Times(1)
		m.convRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
				assert.Equal(t, convID, msg.ConversationID)
				return msg, nil
			}).Times(1)
		m.convRepo.EXPECT().Touch(gomock.Any(), convID).Return(nil).Times(1)
		m.notifier.EXPECT().BroadcastToUsers([]uuid.UUID{contractorID}, gomock.Any()).Times(1)

		conv, _, err := chatService.StartConversation(ctx, &dto.StartConversationRequest{
			JobID:   jobID,
			Message: "Noch eine Frage",
			UserID:  customerID,
		})

		require.NoError(t, err)
		assert.Equal(t, convID, conv.ID)
	})

	t.Run("Error_OwnListing", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.jobRepo.EXPECT().WithTx(tx).Return(m.jobRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.jobRepo.EXPECT().GetByID(gomock.Any(), jobID).Return(job, nil).Times(1)

		_, _, err := chatService.StartConversation(ctx, &dto.StartConversationRequest{
			JobID:   jobID,
			Message: "Hallo ich",
			UserID:  contractorID,
		})

		assert.True(t, errors.Is(err, services.ErrValidation))
		assert.True(t, tx.rolledBack)
	})
}

func TestChatService_GetConversation(t *testing.T) {
	convID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	offerID := uuid.New()

	conv := &models.Conversation{ID: convID, CustomerID: customerID, ContractorID: contractorID}
	offer := &models.Offer{ID: offerID, ConversationID: convID, Price: 300}
	messages := []models.Message{
		{ID: uuid.New(), ConversationID: convID, SenderID: customerID, Content: "Hallo"},
		{ID: uuid.New(), ConversationID: convID, SenderID: contractorID, OfferID: &offerID},
	}

	t.Run("Success_ResolvesOffers", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)
		m.convRepo.EXPECT().ListMessages(ctx, convID).Return(messages, nil).Times(1)
		m.offerRepo.EXPECT().GetByID(ctx, offerID).Return(offer, nil).Times(1)

		got, views, err := chatService.GetConversation(ctx, &dto.GetConversationRequest{ID: convID, UserID: customerID})

		require.NoError(t, err)
		assert.Equal(t, conv, got)
		require.Len(t, views, 2)
		assert.Nil(t, views[0].Offer)
		require.NotNil(t, views[1].Offer)
		assert.Equal(t, offerID, views[1].Offer.ID)
	})

	t.Run("Error_NotParticipant", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)

		_, _, err := chatService.GetConversation(ctx, &dto.GetConversationRequest{ID: convID, UserID: uuid.New()})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})
}

func TestChatService_PostMessage(t *testing.T) {
	convID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	conv := &models.Conversation{ID: convID, CustomerID: customerID, ContractorID: contractorID}

	t.Run("Success", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv, nil).Times(1)
		m.convRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
				return msg, nil
			}).Times(1)
		m.convRepo.EXPECT().Touch(gomock.Any(), convID).Return(nil).Times(1)
		m.notifier.EXPECT().BroadcastToUsers([]uuid.UUID{customerID}, gomock.Any()).Times(1)

		msg, err := chatService.PostMessage(ctx, &dto.PostMessageRequest{
			ConversationID: convID,
			Content:        "Ich kann am Dienstag",
			SenderID:       contractorID,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ich kann am Dienstag", msg.Content)
		assert.True(t, tx.committed)
	})

	t.Run("Error_NotParticipant", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv, nil).Times(1)

		_, err := chatService.PostMessage(ctx, &dto.PostMessageRequest{
			ConversationID: convID,
			Content:        "Hallo",
			SenderID:       uuid.New(),
		})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})
}

func TestChatService_SuggestReply(t *testing.T) {
	convID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	conv := &models.Conversation{ID: convID, CustomerID: customerID, ContractorID: contractorID}

	t.Run("Success_UsesProvidedLastMessage", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)
		m.ai.EXPECT().Complete(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "Wann können Sie kommen?")
				return "Ich kann am Dienstag ab 9 Uhr.", nil
			}).Times(1)

		suggestion, err := chatService.SuggestReply(ctx, &dto.SuggestReplyRequest{
			ConversationID: convID,
			UserID:         contractorID,
			LastMessage:    "Wann können Sie kommen?",
		})

		require.NoError(t, err)
		assert.Equal(t, "Ich kann am Dienstag ab 9 Uhr.", suggestion)
	})

	t.Run("Success_FetchesLastMessageFromHistory", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		last := &models.Message{ID: uuid.New(), ConversationID: convID, Content: "Was kostet das?"}
		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)
		m.convRepo.EXPECT().LastMessage(ctx, convID).Return(last, nil).Times(1)
		m.ai.EXPECT().Complete(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "Was kostet das?")
				return "Das kostet etwa 300 Euro.", nil
			}).Times(1)

		suggestion, err := chatService.SuggestReply(ctx, &dto.SuggestReplyRequest{
			ConversationID: convID,
			UserID:         contractorID,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, suggestion)
	})

	t.Run("FallbackOnAIFailure", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)
		m.ai.EXPECT().Complete(ctx, gomock.Any()).Return("", errors.New("all models exhausted")).Times(1)

		suggestion, err := chatService.SuggestReply(ctx, &dto.SuggestReplyRequest{
			ConversationID: convID,
			UserID:         customerID,
			LastMessage:    "Wann passt es Ihnen?",
		})

		require.NoError(t, err)
		assert.Contains(t, suggestion, "nicht verfügbar")
	})

	t.Run("Error_NotParticipant", func(t *testing.T) {
		ctx, chatService, m, ctrl := setupChatServiceTest(t)
		defer ctrl.Finish()

		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)

		_, err := chatService.SuggestReply(ctx, &dto.SuggestReplyRequest{
			ConversationID: convID,
			UserID:         uuid.New(),
			LastMessage:    "Hallo",
		})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})
}

func TestChatService_ListConversations(t *testing.T) {
	ctx, chatService, m, ctrl := setupChatServiceTest(t)
	defer ctrl.Finish()

	userID := uuid.New()
	convA := models.Conversation{ID: uuid.New(), CustomerID: userID, ContractorID: uuid.New()}
	convB := models.Conversation{ID: uuid.New(), CustomerID: userID, ContractorID: uuid.New()}
	lastA := &models.Message{ID: uuid.New(), ConversationID: convA.ID, Content: "Bis Dienstag"}

	m.convRepo.EXPECT().ListByParticipant(ctx, userID, 20, 0).Return([]models.Conversation{convA, convB}, nil).Times(1)
	m.convRepo.EXPECT().LastMessage(ctx, convA.ID).Return(lastA, nil).Times(1)
	// A conversation with no messages yet is still listed.
	m.convRepo.EXPECT().LastMessage(ctx, convB.ID).Return(nil, storage.ErrNotFound).Times(1)

	summaries, err := chatService.ListConversations(ctx, &dto.ListConversationsRequest{UserID: userID})

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, lastA, summaries[0].LastMessage)
	assert.Nil(t, summaries[1].LastMessage)
}
