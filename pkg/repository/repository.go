package repository

import (
	"context"
	"time"

	"github.com/rudybnb/workforce-api/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type WorkerRepo interface {
	// GetByTelegramID returns the approved worker for a Telegram chat
	// id, or (nil, nil) when no approved application matches.
	GetByTelegramID(ctx context.Context, telegramID string) (*models.Worker, error)
}

type SessionRepo interface {
	// ListSessionsByContractor returns the contractor's work sessions
	// starting at or after since, newest first.
	ListSessionsByContractor(ctx context.Context, contractorName string, since time.Time) ([]models.WorkSession, error)
}

type JobRepo interface {
	// ListJobsByContractor returns the contractor's jobs, newest first.
	ListJobsByContractor(ctx context.Context, contractorName string) ([]models.Job, error)
}

type ConversationRepo interface {
	// ListRecent returns the last limit messages for a chat in
	// chronological order.
	ListRecent(ctx context.Context, telegramID int64, limit int) ([]models.ConversationMessage, error)
	// SaveMessage appends one message and returns its id.
	SaveMessage(ctx context.Context, m *models.ConversationMessage) (int64, error)
}
