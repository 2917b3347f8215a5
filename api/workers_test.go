package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/rudybnb/workforce-api/api"
	"github.com/rudybnb/workforce-api/pkg/models"
	"github.com/rudybnb/workforce-api/pkg/repository/mock"
)

// newWorkersServer mounts the workers handler on a router so mux path
// variables resolve like they do in production.
func newWorkersServer(m *mock.Mocks) *mux.Router {
	h := api.NewWorkersHandler(m.Workers, m.Sessions, 5*time.Second)

	r := mux.NewRouter()
	r.HandleFunc("/api/telegram/worker-type/{chat_id}", h.WorkerType).Methods("GET")
	r.HandleFunc("/api/telegram/hours/{chat_id}", h.Hours).Methods("GET")
	r.HandleFunc("/api/telegram/payments/{chat_id}", h.Payments).Methods("GET")
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, target string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return res.StatusCode, body
}

func TestWorkerType(t *testing.T) {
	tests := []struct {
		name       string
		chatID     string
		prepare    func(m *mock.Mocks)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:   "SubContractor",
			chatID: "7617462316",
			prepare: func(m *mock.Mocks) {
				m.Workers.ByTelegramID["7617462316"] = &models.Worker{
					ID:         4,
					TelegramID: "7617462316",
					FirstName:  "Rudy",
					LastName:   "Diedericks",
					Email:      "rudy@example.com",
					Username:   "rudybnb",
					Status:     "approved",
					WorkerType: "sub-contractor",
				}
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["success"] != true {
					t.Fatalf("expected success true, got %v", body["success"])
				}
				user := body["user"].(map[string]any)
				if user["worker_type"] != "sub-contractor" {
					t.Fatalf("expected sub-contractor, got %v", user["worker_type"])
				}
				if user["name"] != "Rudy Diedericks" {
					t.Fatalf("expected full name, got %v", user["name"])
				}
			},
		},
		{
			name:   "DayRate",
			chatID: "555",
			prepare: func(m *mock.Mocks) {
				m.Workers.ByTelegramID["555"] = &models.Worker{
					ID: 1, TelegramID: "555", FirstName: "John", LastName: "Smith",
					Status: "approved", WorkerType: "day-rate",
				}
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				user := body["user"].(map[string]any)
				if user["worker_type"] != "day-rate" {
					t.Fatalf("expected day-rate, got %v", user["worker_type"])
				}
			},
		},
		{
			name:       "UnknownUser",
			chatID:     "999",
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				if body["success"] != false {
					t.Fatalf("expected success false, got %v", body["success"])
				}
				if body["error"] != "User not found or not approved" {
					t.Fatalf("unexpected error message: %v", body["error"])
				}
				if body["chat_id"] != "999" {
					t.Fatalf("expected chat_id echoed, got %v", body["chat_id"])
				}
			},
		},
		{
			name:       "MalformedChatID",
			chatID:     "12ab",
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				if body["error"] != "Invalid chat id" {
					t.Fatalf("unexpected error message: %v", body["error"])
				}
			},
		},
		{
			name:       "NegativeChatID",
			chatID:     "-42",
			prepare:    func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
			check:      func(t *testing.T, body map[string]any) {},
		},
		{
			name:   "UnconfiguredWorkerType",
			chatID: "777",
			prepare: func(m *mock.Mocks) {
				m.Workers.ByTelegramID["777"] = &models.Worker{
					ID: 2, TelegramID: "777", FirstName: "Jane", LastName: "Doe",
					Status: "approved", WorkerType: "",
				}
			},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				if body["error"] != "Worker type not configured for this account" {
					t.Fatalf("unexpected error message: %v", body["error"])
				}
				if body["chat_id"] != "777" {
					t.Fatalf("expected chat_id echoed, got %v", body["chat_id"])
				}
			},
		},
		{
			name:   "StoreError",
			chatID: "555",
			prepare: func(m *mock.Mocks) {
				m.Workers.Err = context.DeadlineExceeded
			},
			wantStatus: http.StatusGatewayTimeout,
			check: func(t *testing.T, body map[string]any) {
				if body["error"] != "Database timeout" {
					t.Fatalf("unexpected error message: %v", body["error"])
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := mock.NewMocks()
			tc.prepare(m)
			r := newWorkersServer(m)

			status, body := doJSON(t, r, http.MethodGet, "/api/telegram/worker-type/"+tc.chatID)
			if status != tc.wantStatus {
				t.Fatalf("expected %d got %d (body %v)", tc.wantStatus, status, body)
			}
			tc.check(t, body)
		})
	}
}

func dayRateWorker(rate float64, cis bool) *models.Worker {
	return &models.Worker{
		ID:            1,
		TelegramID:    "555",
		FirstName:     "John",
		LastName:      "Smith",
		Status:        "approved",
		WorkerType:    "day-rate",
		PayRate:       rate,
		CISRegistered: cis,
	}
}

func TestHours(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.ByTelegramID["555"] = dayRateWorker(15, true)

	now := time.Now().UTC()
	end1 := now.Add(-24 * time.Hour)
	end2 := now.Add(-48 * time.Hour)
	m.Sessions.Sessions = []models.WorkSession{
		{ID: 1, ContractorName: "John Smith", StartTime: end1.Add(-7 * time.Hour), EndTime: &end1, TotalHours: "7:30", Location: "Site A"},
		{ID: 2, ContractorName: "John Smith", StartTime: end2.Add(-2 * time.Hour), EndTime: &end2, TotalHours: "2:00", Location: "Site B"},
		{ID: 3, ContractorName: "John Smith", StartTime: now.Add(-time.Hour), TotalHours: ""},
	}

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/hours/555")
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d (body %v)", status, body)
	}
	if body["period"] != "week" {
		t.Fatalf("expected default period week, got %v", body["period"])
	}
	if body["contractor_name"] != "John Smith" {
		t.Fatalf("unexpected contractor_name: %v", body["contractor_name"])
	}

	summary := body["summary"].(map[string]any)
	if summary["total_hours"].(float64) != 9.5 {
		t.Fatalf("expected 9.5 total hours, got %v", summary["total_hours"])
	}
	if int(summary["total_sessions"].(float64)) != 3 {
		t.Fatalf("expected 3 sessions, got %v", summary["total_sessions"])
	}
	if summary["total_gross_pay"].(float64) != 142.5 {
		t.Fatalf("expected gross 142.5, got %v", summary["total_gross_pay"])
	}
	if summary["total_net_pay"].(float64) != 114.0 {
		t.Fatalf("expected net 114, got %v", summary["total_net_pay"])
	}

	sessions := body["sessions"].([]any)
	if len(sessions) != 3 {
		t.Fatalf("expected 3 session rows, got %d", len(sessions))
	}
	open := sessions[2].(map[string]any)
	if open["end_time"] != "Active" {
		t.Fatalf("open session should show Active, got %v", open["end_time"])
	}
	if open["hours"] != "0:00" {
		t.Fatalf("open session should show 0:00 hours, got %v", open["hours"])
	}

	// Rolling week: the window starts at a midnight 7-8 days back.
	since := m.Sessions.LastSince
	if age := now.Sub(since); age < 7*24*time.Hour || age > 8*24*time.Hour {
		t.Fatalf("unexpected week window start %v", since)
	}
}

func TestHoursPeriodToday(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.ByTelegramID["555"] = dayRateWorker(15, true)

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/hours/555?period=today")
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d (body %v)", status, body)
	}
	if body["period"] != "today" {
		t.Fatalf("expected period today, got %v", body["period"])
	}

	since := m.Sessions.LastSince
	if h, m2, s := since.Clock(); h != 0 || m2 != 0 || s != 0 {
		t.Fatalf("today window should start at midnight, got %v", since)
	}
	if age := time.Now().UTC().Sub(since); age < 0 || age > 24*time.Hour {
		t.Fatalf("today window too far back: %v", since)
	}
}

func TestHoursBadPeriod(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.ByTelegramID["555"] = dayRateWorker(15, true)

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/hours/555?period=month")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
	if body["error"] != "Period must be week or today" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestHoursWrongWorkerType(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.ByTelegramID["7617462316"] = &models.Worker{
		ID: 4, TelegramID: "7617462316", FirstName: "Rudy", LastName: "Diedericks",
		Status: "approved", WorkerType: "sub-contractor",
	}

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/hours/7617462316")
	if status != http.StatusConflict {
		t.Fatalf("expected 409 got %d (body %v)", status, body)
	}
	if body["error"] != "This endpoint is for day-rate workers only" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	if body["chat_id"] != "7617462316" {
		t.Fatalf("expected chat_id echoed, got %v", body["chat_id"])
	}
}

func TestHoursNotFoundIsPlain(t *testing.T) {
	m := mock.NewMocks()

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/hours/123")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", status)
	}
	if body["error"] != "User not found" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	if _, ok := body["chat_id"]; ok {
		t.Fatalf("hours 404 should not echo chat_id, got %v", body["chat_id"])
	}
}

func TestHoursStoreUnavailable(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.Err = context.Canceled

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/hours/555")
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", status)
	}
	if body["error"] != "Database unavailable" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestPayments(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.ByTelegramID["555"] = dayRateWorker(15, true)

	now := time.Now().UTC()
	end := now.Add(-24 * time.Hour)
	m.Sessions.Sessions = []models.WorkSession{
		{ID: 1, ContractorName: "John Smith", StartTime: end.Add(-7 * time.Hour), EndTime: &end, TotalHours: "7:30"},
		{ID: 2, ContractorName: "John Smith", StartTime: end.Add(-30 * time.Hour), EndTime: &end, TotalHours: "2:00"},
	}

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/payments/555")
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d (body %v)", status, body)
	}
	if body["contractor_name"] != "John Smith" {
		t.Fatalf("unexpected contractor_name: %v", body["contractor_name"])
	}

	info := body["payment_info"].(map[string]any)
	if info["hourly_rate"].(float64) != 15 {
		t.Fatalf("expected rate 15, got %v", info["hourly_rate"])
	}
	if info["cis_registered"] != true {
		t.Fatalf("expected cis_registered true, got %v", info["cis_registered"])
	}
	if info["cis_rate"].(float64) != 20 {
		t.Fatalf("expected cis_rate 20, got %v", info["cis_rate"])
	}
	if info["this_week_gross"].(float64) != 142.5 {
		t.Fatalf("expected gross 142.5, got %v", info["this_week_gross"])
	}
	if info["this_week_net"].(float64) != 114.0 {
		t.Fatalf("expected net 114, got %v", info["this_week_net"])
	}
	if info["cis_deduction"].(float64) != 28.5 {
		t.Fatalf("expected deduction 28.5, got %v", info["cis_deduction"])
	}
}

func TestPaymentsDefaultRate(t *testing.T) {
	m := mock.NewMocks()
	m.Workers.ByTelegramID["555"] = dayRateWorker(0, false)

	r := newWorkersServer(m)
	status, body := doJSON(t, r, http.MethodGet, "/api/telegram/payments/555")
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}

	info := body["payment_info"].(map[string]any)
	if info["hourly_rate"].(float64) != 9 {
		t.Fatalf("expected default rate 9, got %v", info["hourly_rate"])
	}
	if info["cis_rate"].(float64) != 30 {
		t.Fatalf("expected unregistered cis_rate 30, got %v", info["cis_rate"])
	}
}
