package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rudybnb/workforce-api/internal/payroll"
	"github.com/rudybnb/workforce-api/pkg/models"
	"github.com/rudybnb/workforce-api/pkg/repository"
)

// WorkersHandler serves worker classification plus the day-rate hours
// and payments screens.
type WorkersHandler struct {
	workerRepo  repository.WorkerRepo
	sessionRepo repository.SessionRepo
	dbTimeout   time.Duration
}

func NewWorkersHandler(wr repository.WorkerRepo, sr repository.SessionRepo, dbTimeout time.Duration) *WorkersHandler {
	return &WorkersHandler{workerRepo: wr, sessionRepo: sr, dbTimeout: dbTimeout}
}

// chatIDParam extracts and validates the chat id path variable.
// Telegram chat ids are numeric; anything else is rejected before
// touching the store.
func chatIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	chatID := mux.Vars(r)["chat_id"]
	if !isDigits(chatID) || len(chatID) > 20 {
		respondError(w, http.StatusBadRequest, "Invalid chat id")
		return "", false
	}
	return chatID, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolveWorker loads the approved worker for a chat id, enforcing the
// endpoint's worker type when want is non-empty. On failure it writes
// the error response and reports false.
func resolveWorker(ctx context.Context, w http.ResponseWriter, r *http.Request, repo repository.WorkerRepo, chatID string, want models.WorkerType) (*models.Worker, bool) {
	worker, err := repo.GetByTelegramID(ctx, chatID)
	if err != nil {
		respondStoreError(w, r, err)
		return nil, false
	}
	if worker == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return nil, false
	}

	wt, err := worker.Type()
	if err != nil {
		respondChatError(w, http.StatusUnprocessableEntity, "Worker type not configured for this account", chatID)
		return nil, false
	}
	if want != "" && wt != want {
		respondChatError(w, http.StatusConflict, fmt.Sprintf("This endpoint is for %s workers only", want), chatID)
		return nil, false
	}

	return worker, true
}

type workerInfo struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Username   string            `json:"username"`
	WorkerType models.WorkerType `json:"worker_type"`
}

type workerTypeResponse struct {
	Success bool       `json:"success"`
	User    workerInfo `json:"user"`
}

// WorkerType reports how the worker is classified so the bot can show
// the right menu.
func (h *WorkersHandler) WorkerType(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	worker, err := h.workerRepo.GetByTelegramID(ctx, chatID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if worker == nil {
		respondChatError(w, http.StatusNotFound, "User not found or not approved", chatID)
		return
	}

	wt, err := worker.Type()
	if err != nil {
		respondChatError(w, http.StatusUnprocessableEntity, "Worker type not configured for this account", chatID)
		return
	}

	writeJSON(w, workerTypeResponse{
		Success: true,
		User: workerInfo{
			ID:         worker.ID,
			Name:       worker.DisplayName(),
			Email:      worker.Email,
			Username:   worker.Username,
			WorkerType: wt,
		},
	}, http.StatusOK)
}

type hoursSummary struct {
	TotalHours    float64 `json:"total_hours"`
	TotalSessions int     `json:"total_sessions"`
	TotalGrossPay float64 `json:"total_gross_pay"`
	TotalNetPay   float64 `json:"total_net_pay"`
}

type sessionInfo struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Hours     string `json:"hours"`
	Location  string `json:"location"`
}

type hoursResponse struct {
	Success        bool          `json:"success"`
	Period         string        `json:"period"`
	ContractorName string        `json:"contractor_name"`
	Summary        hoursSummary  `json:"summary"`
	Sessions       []sessionInfo `json:"sessions"`
}

// periodWindow parses the period query parameter into a window start.
// The default is the rolling week.
func periodWindow(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	now := time.Now().UTC()
	switch period {
	case "week":
		return period, payroll.WeekWindow(now), true
	case "today":
		return period, payroll.DayStart(now), true
	}

	respondError(w, http.StatusBadRequest, "Period must be week or today")
	return "", time.Time{}, false
}

// Hours returns the day-rate worker's sessions for the requested
// period with totals priced at their rate.
func (h *WorkersHandler) Hours(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}
	period, since, ok := periodWindow(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	worker, ok := resolveWorker(ctx, w, r, h.workerRepo, chatID, models.WorkerTypeDayRate)
	if !ok {
		return
	}

	sessions, err := h.sessionRepo.ListSessionsByContractor(ctx, worker.DisplayName(), since)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	sum := payroll.Summarize(sessions, payroll.HourlyRate(worker.PayRate), payroll.CISRate(worker.CISRegistered))

	out := make([]sessionInfo, 0, len(sessions))
	for _, s := range sessions {
		end := "Active"
		if s.EndTime != nil {
			end = s.EndTime.UTC().Format("15:04")
		}
		hours := s.TotalHours
		if hours == "" {
			hours = "0:00"
		}
		out = append(out, sessionInfo{
			ID:        s.ID,
			Date:      s.StartTime.UTC().Format("2006-01-02"),
			StartTime: s.StartTime.UTC().Format("15:04"),
			EndTime:   end,
			Hours:     hours,
			Location:  s.Location,
		})
	}

	writeJSON(w, hoursResponse{
		Success:        true,
		Period:         period,
		ContractorName: worker.DisplayName(),
		Summary: hoursSummary{
			TotalHours:    sum.TotalHours,
			TotalSessions: sum.TotalSessions,
			TotalGrossPay: sum.GrossPay,
			TotalNetPay:   sum.NetPay,
		},
		Sessions: out,
	}, http.StatusOK)
}

type paymentInfo struct {
	HourlyRate    float64 `json:"hourly_rate"`
	CISRegistered bool    `json:"cis_registered"`
	CISRate       float64 `json:"cis_rate"`
	ThisWeekGross float64 `json:"this_week_gross"`
	ThisWeekNet   float64 `json:"this_week_net"`
	CISDeduction  float64 `json:"cis_deduction"`
}

type paymentsResponse struct {
	Success        bool        `json:"success"`
	ContractorName string      `json:"contractor_name"`
	PaymentInfo    paymentInfo `json:"payment_info"`
}

// Payments returns the day-rate worker's rate, CIS standing and the
// rolling week's earnings.
func (h *WorkersHandler) Payments(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	worker, ok := resolveWorker(ctx, w, r, h.workerRepo, chatID, models.WorkerTypeDayRate)
	if !ok {
		return
	}

	sessions, err := h.sessionRepo.ListSessionsByContractor(ctx, worker.DisplayName(), payroll.WeekWindow(time.Now().UTC()))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	rate := payroll.HourlyRate(worker.PayRate)
	sum := payroll.Summarize(sessions, rate, payroll.CISRate(worker.CISRegistered))

	writeJSON(w, paymentsResponse{
		Success:        true,
		ContractorName: worker.DisplayName(),
		PaymentInfo: paymentInfo{
			HourlyRate:    rate,
			CISRegistered: worker.CISRegistered,
			CISRate:       payroll.CISRate(worker.CISRegistered),
			ThisWeekGross: sum.GrossPay,
			ThisWeekNet:   sum.NetPay,
			CISDeduction:  sum.Deduction(),
		},
	}, http.StatusOK)
}
