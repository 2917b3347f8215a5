package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rudybnb/workforce-api/pkg/models"
	"github.com/rudybnb/workforce-api/pkg/repository"
)

// SubcontractorHandler serves the priced-work screens: quotes, payment
// status and milestones.
type SubcontractorHandler struct {
	workerRepo repository.WorkerRepo
	jobRepo    repository.JobRepo
	dbTimeout  time.Duration
}

func NewSubcontractorHandler(wr repository.WorkerRepo, jr repository.JobRepo, dbTimeout time.Duration) *SubcontractorHandler {
	return &SubcontractorHandler{workerRepo: wr, jobRepo: jr, dbTimeout: dbTimeout}
}

type quoteInfo struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
}

type quotesResponse struct {
	Success        bool        `json:"success"`
	ContractorName string      `json:"contractor_name"`
	Data           []quoteInfo `json:"data"`
}

// Quotes lists the sub-contractor's priced jobs, newest first.
func (h *SubcontractorHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	worker, ok := resolveWorker(ctx, w, r, h.workerRepo, chatID, models.WorkerTypeSubContractor)
	if !ok {
		return
	}

	jobs, err := h.jobRepo.ListJobsByContractor(ctx, worker.DisplayName())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	data := make([]quoteInfo, 0, len(jobs))
	for _, j := range jobs {
		data = append(data, quoteInfo{
			ID:          j.ID,
			Title:       j.Title,
			Location:    j.Location,
			Description: j.Description,
			Status:      j.Status,
			Amount:      j.Amount,
		})
	}

	writeJSON(w, quotesResponse{
		Success:        true,
		ContractorName: worker.DisplayName(),
		Data:           data,
	}, http.StatusOK)
}

type paymentStatusInfo struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	DueDate string `json:"due_date"`
}

type paymentStatusSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
}

type paymentStatusResponse struct {
	Success        bool                 `json:"success"`
	ContractorName string               `json:"contractor_name"`
	Data           []paymentStatusInfo  `json:"data"`
	Summary        paymentStatusSummary `json:"summary"`
}

// PaymentStatus lists the sub-contractor's jobs with a count of how
// many are finished versus still in flight.
func (h *SubcontractorHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	worker, ok := resolveWorker(ctx, w, r, h.workerRepo, chatID, models.WorkerTypeSubContractor)
	if !ok {
		return
	}

	jobs, err := h.jobRepo.ListJobsByContractor(ctx, worker.DisplayName())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	data := make([]paymentStatusInfo, 0, len(jobs))
	summary := paymentStatusSummary{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case models.JobStatusCompleted:
			summary.Completed++
		case models.JobStatusAssigned, models.JobStatusPending:
			summary.InProgress++
		}
		data = append(data, paymentStatusInfo{
			ID:      j.ID,
			Title:   j.Title,
			Status:  j.Status,
			DueDate: j.DueDate,
		})
	}

	writeJSON(w, paymentStatusResponse{
		Success:        true,
		ContractorName: worker.DisplayName(),
		Data:           data,
		Summary:        summary,
	}, http.StatusOK)
}

type milestoneInfo struct {
	JobID    int64  `json:"job_id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Status   string `json:"status"`
	DueDate  string `json:"due_date"`
	Phases   string `json:"phases"`
}

type milestonesResponse struct {
	Success        bool            `json:"success"`
	ContractorName string          `json:"contractor_name"`
	Data           []milestoneInfo `json:"data"`
}

// Milestones lists the sub-contractor's jobs with their phase
// breakdown. Phases is passed through exactly as the assignment
// workflow wrote it.
func (h *SubcontractorHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	worker, ok := resolveWorker(ctx, w, r, h.workerRepo, chatID, models.WorkerTypeSubContractor)
	if !ok {
		return
	}

	jobs, err := h.jobRepo.ListJobsByContractor(ctx, worker.DisplayName())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	data := make([]milestoneInfo, 0, len(jobs))
	for _, j := range jobs {
		data = append(data, milestoneInfo{
			JobID:    j.ID,
			Title:    j.Title,
			Location: j.Location,
			Status:   j.Status,
			DueDate:  j.DueDate,
			Phases:   j.Phases,
		})
	}

	writeJSON(w, milestonesResponse{
		Success:        true,
		ContractorName: worker.DisplayName(),
		Data:           data,
	}, http.StatusOK)
}
