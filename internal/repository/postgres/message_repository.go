package postgres

import (
	"context"
	"database/sql"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

// MessageRepository handles database operations for chat messages.
type MessageRepository struct {
	DB *sql.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// SaveMessage inserts a message as a new row. CreatedAt keeps the value
// assigned at creation time, not the time of this insert.
func (r *MessageRepository) SaveMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, masked_sender_id, content, type, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		msg.ID,
		msg.ConversationID,
		nullable(msg.SenderID),
		nullable(msg.MaskedSenderID),
		msg.Content,
		string(msg.Type),
		nullable(msg.ParentID),
		msg.CreatedAt,
	)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
