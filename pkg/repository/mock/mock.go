// Package mock provides in-memory repository fakes for handler and
// integration tests. Each fake serves canned data and can be forced to
// fail through its Err field.
package mock

import (
	"context"
	"time"

	"github.com/rudybnb/workforce-api/pkg/models"
	"github.com/rudybnb/workforce-api/pkg/repository"
)

type Mocks struct {
	Workers       *WorkerRepo
	Sessions      *SessionRepo
	Jobs          *JobRepo
	Conversations *ConversationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Workers:       &WorkerRepo{ByTelegramID: map[string]*models.Worker{}},
		Sessions:      &SessionRepo{},
		Jobs:          &JobRepo{},
		Conversations: &ConversationRepo{},
	}
}

type WorkerRepo struct {
	ByTelegramID map[string]*models.Worker
	Err          error
}

func (m *WorkerRepo) GetByTelegramID(ctx context.Context, telegramID string) (*models.Worker, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ByTelegramID[telegramID], nil
}

type SessionRepo struct {
	Sessions []models.WorkSession
	Err      error

	// LastSince records the window the handler asked for.
	LastSince time.Time
}

func (m *SessionRepo) ListSessionsByContractor(ctx context.Context, contractorName string, since time.Time) ([]models.WorkSession, error) {
	m.LastSince = since
	if m.Err != nil {
		return nil, m.Err
	}

	var out []models.WorkSession
	for _, s := range m.Sessions {
		if s.ContractorName == contractorName && !s.StartTime.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

type JobRepo struct {
	Jobs []models.Job
	Err  error
}

func (m *JobRepo) ListJobsByContractor(ctx context.Context, contractorName string) ([]models.Job, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	var out []models.Job
	for _, j := range m.Jobs {
		if j.ContractorName == contractorName {
			out = append(out, j)
		}
	}
	return out, nil
}

type ConversationRepo struct {
	Messages []models.ConversationMessage
	Err      error
	nextID   int64
}

func (m *ConversationRepo) ListRecent(ctx context.Context, telegramID int64, limit int) ([]models.ConversationMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	var out []models.ConversationMessage
	for _, msg := range m.Messages {
		if msg.TelegramID == telegramID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *ConversationRepo) SaveMessage(ctx context.Context, msg *models.ConversationMessage) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.nextID++
	saved := *msg
	saved.ID = m.nextID
	m.Messages = append(m.Messages, saved)
	return m.nextID, nil
}

// Ensure the fakes satisfy the repository contracts.
var (
	_ repository.WorkerRepo       = (*WorkerRepo)(nil)
	_ repository.SessionRepo      = (*SessionRepo)(nil)
	_ repository.JobRepo          = (*JobRepo)(nil)
	_ repository.ConversationRepo = (*ConversationRepo)(nil)
)
