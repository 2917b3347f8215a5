package models

import (
	"fmt"
	"strings"
	"time"
)

// Domain models matching the database schema in internal/db/migrations/00001_schema.sql

// WorkerType classifies how a worker is paid and which endpoints apply to them.
type WorkerType string

const (
	// WorkerTypeDayRate is an hourly/day-rate worker paid through payroll.
	WorkerTypeDayRate WorkerType = "day-rate"
	// WorkerTypeSubContractor is a priced-work subcontractor paid per job.
	WorkerTypeSubContractor WorkerType = "sub-contractor"
)

// ParseWorkerType maps a stored worker_type value onto the closed enum.
// Anything outside the enum (including empty) is rejected.
func ParseWorkerType(s string) (WorkerType, error) {
	switch WorkerType(strings.TrimSpace(s)) {
	case WorkerTypeDayRate:
		return WorkerTypeDayRate, nil
	case WorkerTypeSubContractor:
		return WorkerTypeSubContractor, nil
	}
	return "", fmt.Errorf("unrecognized worker type %q", s)
}

// Worker is an approved contractor application row.
type Worker struct {
	ID            int64   `json:"id" db:"id"`
	TelegramID    string  `json:"telegram_id" db:"telegram_id"`
	FirstName     string  `json:"first_name" db:"first_name"`
	LastName      string  `json:"last_name" db:"last_name"`
	Email         string  `json:"email" db:"email"`
	Username      string  `json:"username" db:"username"`
	Status        string  `json:"status" db:"status"`
	WorkerType    string  `json:"worker_type" db:"worker_type"`
	PayRate       float64 `json:"pay_rate" db:"admin_pay_rate"`
	CISRegistered bool    `json:"cis_registered" db:"is_cis_registered"`
}

// Type parses the stored worker_type field. Rows written before the
// classification backfill may hold an empty or unknown value.
func (w *Worker) Type() (WorkerType, error) {
	return ParseWorkerType(w.WorkerType)
}

// DisplayName joins first and last name, falling back to the username
// when the application had no name fields.
func (w *Worker) DisplayName() string {
	name := strings.TrimSpace(w.FirstName + " " + w.LastName)
	if name == "" {
		return w.Username
	}
	return name
}

// WorkSession is one clock-in/clock-out record. EndTime is nil while the
// session is still open and TotalHours holds the "H:MM" text written at
// clock-out ("" for open sessions).
type WorkSession struct {
	ID             int64      `json:"id" db:"id"`
	ContractorName string     `json:"contractor_name" db:"contractor_name"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty" db:"end_time"`
	TotalHours     string     `json:"total_hours" db:"total_hours"`
	Location       string     `json:"location" db:"job_site_location"`
}

// Job is a priced piece of work assigned to a subcontractor. Phases is a
// free-form JSON blob written by the assignment workflow.
type Job struct {
	ID             int64   `json:"id" db:"id"`
	ContractorName string  `json:"contractor_name" db:"contractor_name"`
	Title          string  `json:"title" db:"title"`
	Location       string  `json:"location" db:"location"`
	Description    string  `json:"description" db:"description"`
	Status         string  `json:"status" db:"status"`
	DueDate        string  `json:"due_date" db:"due_date"`
	Phases         string  `json:"phases" db:"phases"`
	Amount         float64 `json:"amount" db:"amount"`
}

// Job status values written by the assignment workflow.
const (
	JobStatusPending   = "pending"
	JobStatusAssigned  = "assigned"
	JobStatusCompleted = "completed"
)

// Conversation roles accepted by the history endpoints.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ValidRole reports whether s is one of the accepted conversation roles.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAssistant
}

// ConversationMessage is one stored line of bot dialogue for a chat.
type ConversationMessage struct {
	ID         int64     `json:"id" db:"id"`
	TelegramID int64     `json:"telegram_id" db:"telegram_id"`
	Role       string    `json:"role" db:"role"`
	Message    string    `json:"message" db:"message"`
	Created    time.Time `json:"created_at" db:"created_at"`
}
