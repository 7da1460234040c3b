// internal/storage/postgres/conversations.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const conversationColumns = "id, job_id, customer_id, contractor_id, created_at, updated_at"
const messageColumns = "id, conversation_id, sender_id, content, offer_id, is_read, created_at"

// ConversationRepo implements the storage.ConversationRepository interface
// using PostgreSQL. Messages live here too; they have no life outside their
// conversation.
type ConversationRepo struct {
	db Querier
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// WithTx creates a new ConversationRepo bound to the transaction.
func (r *ConversationRepo) WithTx(tx pgx.Tx) storage.ConversationRepository {
	return &ConversationRepo{db: tx}
}

// Compile-time check to ensure ConversationRepo implements ConversationRepository
var _ storage.ConversationRepository = (*ConversationRepo)(nil)

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.JobID,
		&conv.CustomerID,
		&conv.ContractorID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var msg models.Message
	err := row.Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.SenderID,
		&msg.Content,
		&msg.OfferID,
		&msg.IsRead,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Create saves a new conversation. The unique index on (job_id, customer_id)
// guarantees at most one thread per pair; violations map to ErrConflict.
func (r *ConversationRepo) Create(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		INSERT INTO conversations (id, job_id, customer_id, contractor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s
	`, conversationColumns)

	created, err := scanConversation(r.db.QueryRow(ctx, query,
		conv.ID,
		conv.JobID,
		conv.CustomerID,
		conv.ContractorID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("conversation already exists for job/customer: %w", storage.ErrConflict)
		}
		log.Printf("Error creating conversation: %v\n", err)
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	log.Printf("Conversation created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByID retrieves a specific conversation by its ID.
func (r *ConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE id = $1`, conversationColumns)

	conv, err := scanConversation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Conversation not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning conversation by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get conversation by ID %s: %w", id, err)
	}

	return conv, nil
}

// GetByJobAndCustomer retrieves the single conversation for a (job, customer)
// pair.
func (r *ConversationRepo) GetByJobAndCustomer(ctx context.Context, jobID, customerID uuid.UUID) (*models.Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE job_id = $1 AND customer_id = $2`, conversationColumns)

	conv, err := scanConversation(r.db.QueryRow(ctx, query, jobID, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning conversation for job %s / customer %s: %v\n", jobID, customerID, err)
		return nil, fmt.Errorf("failed to get conversation for job/customer: %w", err)
	}

	return conv, nil
}

// ListByParticipant retrieves the conversations a user takes part in, most
// recently active first.
func (r *ConversationRepo) ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM conversations
		WHERE customer_id = $1 OR contractor_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, conversationColumns)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		log.Printf("Error querying conversations for user %s: %v\n", userID, err)
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	convs, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Conversation])
	if err != nil {
		log.Printf("Error scanning conversations for user %s: %v\n", userID, err)
		return nil, fmt.Errorf("failed to scan conversations: %w", err)
	}

	if convs == nil {
		convs = []models.Conversation{} // Return empty slice, not nil
	}

	return convs, nil
}

// Touch bumps the conversation's updated_at so it sorts to the top of the
// inbox after new activity.
func (r *ConversationRepo) Touch(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch conversation %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateMessage saves a new message in a conversation.
func (r *ConversationRepo) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := fmt.Sprintf(`
		INSERT INTO messages (id, conversation_id, sender_id, content, offer_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING %s
	`, messageColumns)

	created, err := scanMessage(r.db.QueryRow(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.SenderID,
		msg.Content,
		msg.OfferID,
		msg.IsRead,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return nil, fmt.Errorf("failed to create message: invalid reference: %w", storage.ErrConflict)
		}
		log.Printf("Error creating message: %v\n", err)
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return created, nil
}

// ListMessages retrieves all messages of a conversation, oldest first.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, messageColumns)

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		log.Printf("Error querying messages for conversation %s: %v\n", conversationID, err)
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Message])
	if err != nil {
		log.Printf("Error scanning messages for conversation %s: %v\n", conversationID, err)
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	if msgs == nil {
		msgs = []models.Message{}
	}

	return msgs, nil
}

// LastMessage retrieves the newest message of a conversation, or ErrNotFound
// for an empty thread.
func (r *ConversationRepo) LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, messageColumns)

	msg, err := scanMessage(r.db.QueryRow(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get last message of conversation %s: %w", conversationID, err)
	}

	return msg, nil
}
