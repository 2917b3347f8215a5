package sqldb

import (
	"context"
	"fmt"
	"slices"

	"github.com/rudybnb/workforce-api/pkg/models"
)

// ListRecent returns the last limit messages for a chat, oldest first,
// so callers can replay them as context in order.
func (r *SQLRepo) ListRecent(ctx context.Context, telegramID int64, limit int) ([]models.ConversationMessage, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, telegram_id, role, message, created_at FROM conversation_history WHERE telegram_id = ? ORDER BY id DESC LIMIT ?`, telegramID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ConversationMessage
	for rows.Next() {
		var m models.ConversationMessage
		if err := rows.Scan(&m.ID, &m.TelegramID, &m.Role, &m.Message, &m.Created); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(messages)
	return messages, nil
}

// SaveMessage appends one message to the chat's history.
func (r *SQLRepo) SaveMessage(ctx context.Context, m *models.ConversationMessage) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("message is nil")
	}

	// RETURNING works on both backing stores, unlike LastInsertId.
	var id int64
	err := r.conn.QueryRow(ctx, `INSERT INTO conversation_history (telegram_id, role, message) VALUES (?, ?, ?) RETURNING id`, m.TelegramID, m.Role, m.Message).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}
