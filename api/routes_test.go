package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rudybnb/workforce-api/api"
	"github.com/rudybnb/workforce-api/internal/config"
	"github.com/rudybnb/workforce-api/internal/db"
)

// setupServer runs the full router against a migrated in-memory SQLite
// database, the same wiring cmd/server does in development.
func setupServer(t *testing.T, apiSecret string) (*httptest.Server, *db.DB) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := db.New(ctx, config.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := db.Migrate(d); err != nil {
		d.Close()
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Addr:        ":0",
		APISecret:   apiSecret,
		APITimeout:  15 * time.Second,
		DBTimeout:   5 * time.Second,
		LogLevel:    "info",
		Environment: "development",
		Database:    config.DatabaseConfig{Path: dsn},
	}

	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", d))
	t.Cleanup(func() {
		srv.Close()
		// Keep-alive connections would otherwise trip the leak check.
		http.DefaultClient.CloseIdleConnections()
		d.Close()
	})
	return srv, d
}

func seedWorkforce(t *testing.T, d *db.DB) {
	t.Helper()
	ctx := context.Background()
	exec := func(q string, args ...any) {
		t.Helper()
		if _, err := d.Exec(ctx, q, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	const insertWorker = `INSERT INTO contractor_applications
		(telegram_id, first_name, last_name, email, username, status, admin_pay_rate, is_cis_registered, worker_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	exec(insertWorker, "7617462316", "Rudy", "Diedericks", "rudy@example.com", "rudybnb", "approved", nil, "true", "sub-contractor")
	exec(insertWorker, "5551234", "John", "Smith", "john@example.com", "jsmith", "approved", 15.0, "true", "day-rate")
	exec(insertWorker, "4440000", "Pat", "Pending", "", "", "pending", nil, "", "day-rate")

	end := time.Now().UTC().Add(-2 * time.Hour)
	exec(`INSERT INTO work_sessions (contractor_name, start_time, end_time, total_hours, job_site_location)
		VALUES (?, ?, ?, ?, ?)`,
		"John Smith", end.Add(-7*time.Hour-30*time.Minute), end, "7:30", "Site A")

	exec(`INSERT INTO jobs (contractor_name, title, location, description, status, due_date, phases, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Rudy Diedericks", "Loft conversion", "12 Oak Lane", "Two dormers", "assigned", "2026-09-15", `["strip","frame"]`, 4800.0)
}

func getJSON(t *testing.T, url string, header http.Header) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer res.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return res.StatusCode, body
}

func TestRoutesEndToEnd(t *testing.T) {
	srv, d := setupServer(t, "")
	seedWorkforce(t, d)

	// Worker classification
	status, body := getJSON(t, srv.URL+"/api/telegram/worker-type/7617462316", nil)
	if status != http.StatusOK {
		t.Fatalf("worker-type: expected 200 got %d (body %v)", status, body)
	}
	user := body["user"].(map[string]any)
	if user["worker_type"] != "sub-contractor" {
		t.Fatalf("worker-type: expected sub-contractor, got %v", user["worker_type"])
	}

	// Reads are idempotent: the same lookup returns the same payload.
	status2, body2 := getJSON(t, srv.URL+"/api/telegram/worker-type/7617462316", nil)
	if status2 != status || !reflect.DeepEqual(body2, body) {
		t.Fatalf("repeated lookup diverged: %d %v vs %d %v", status, body, status2, body2)
	}

	// Pending applications stay invisible
	status, body = getJSON(t, srv.URL+"/api/telegram/worker-type/4440000", nil)
	if status != http.StatusNotFound {
		t.Fatalf("pending worker: expected 404 got %d (body %v)", status, body)
	}

	// Day-rate hours with the seeded 7:30 session
	status, body = getJSON(t, srv.URL+"/api/telegram/hours/5551234", nil)
	if status != http.StatusOK {
		t.Fatalf("hours: expected 200 got %d (body %v)", status, body)
	}
	summary := body["summary"].(map[string]any)
	if summary["total_hours"].(float64) != 7.5 {
		t.Fatalf("hours: expected 7.5 total, got %v", summary["total_hours"])
	}
	if summary["total_gross_pay"].(float64) != 112.5 {
		t.Fatalf("hours: expected gross 112.5, got %v", summary["total_gross_pay"])
	}
	if summary["total_net_pay"].(float64) != 90.0 {
		t.Fatalf("hours: expected net 90, got %v", summary["total_net_pay"])
	}
	sessions := body["sessions"].([]any)
	if len(sessions) != 1 {
		t.Fatalf("hours: expected 1 session, got %d", len(sessions))
	}
	if sessions[0].(map[string]any)["location"] != "Site A" {
		t.Fatalf("hours: unexpected location %v", sessions[0])
	}

	// Wrong worker type crossing endpoints
	status, body = getJSON(t, srv.URL+"/api/telegram/hours/7617462316", nil)
	if status != http.StatusConflict {
		t.Fatalf("hours for sub-contractor: expected 409 got %d (body %v)", status, body)
	}
	status, body = getJSON(t, srv.URL+"/api/telegram/subcontractor/quotes/5551234", nil)
	if status != http.StatusConflict {
		t.Fatalf("quotes for day-rate: expected 409 got %d (body %v)", status, body)
	}

	// Sub-contractor quotes
	status, body = getJSON(t, srv.URL+"/api/telegram/subcontractor/quotes/7617462316", nil)
	if status != http.StatusOK {
		t.Fatalf("quotes: expected 200 got %d (body %v)", status, body)
	}
	data := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("quotes: expected 1 job, got %d", len(data))
	}
	if data[0].(map[string]any)["amount"].(float64) != 4800 {
		t.Fatalf("quotes: unexpected amount %v", data[0])
	}

	// Conversation round trip through the real store
	payload := strings.NewReader(`{"telegram_id": 7617462316, "role": "user", "message": "quote status please"}`)
	res, err := http.Post(srv.URL+"/api/telegram/conversation-history", "application/json", payload)
	if err != nil {
		t.Fatalf("post conversation: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("post conversation: expected 200 got %d", res.StatusCode)
	}
	res.Body.Close()

	status, body = getJSON(t, srv.URL+"/api/telegram/conversation-history/7617462316", nil)
	if status != http.StatusOK {
		t.Fatalf("history: expected 200 got %d (body %v)", status, body)
	}
	messages := body["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("history: expected 1 message, got %d", len(messages))
	}
	if messages[0].(map[string]any)["content"] != "quote status please" {
		t.Fatalf("history: unexpected message %v", messages[0])
	}

	// System endpoints
	status, body = getJSON(t, srv.URL+"/", nil)
	if status != http.StatusOK || body["status"] != "online" {
		t.Fatalf("root: got %d %v", status, body)
	}
	status, body = getJSON(t, srv.URL+"/health", nil)
	if status != http.StatusOK || body["database"] != "connected" {
		t.Fatalf("health: got %d %v", status, body)
	}
}

func TestRoutesJWTGate(t *testing.T) {
	secret := "gate-secret"
	srv, d := setupServer(t, secret)
	seedWorkforce(t, d)

	// Without a token the API subrouter is closed.
	status, body := getJSON(t, srv.URL+"/api/telegram/worker-type/7617462316", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d (body %v)", status, body)
	}

	// Health stays open for uptime monitors.
	status, _ = getJSON(t, srv.URL+"/health", nil)
	if status != http.StatusOK {
		t.Fatalf("health should stay open, got %d", status)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "workflow",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokStr, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	header := http.Header{"Authorization": []string{"Bearer " + tokStr}}
	status, body = getJSON(t, srv.URL+"/api/telegram/worker-type/7617462316", header)
	if status != http.StatusOK {
		t.Fatalf("with token: expected 200 got %d (body %v)", status, body)
	}
	if body["user"].(map[string]any)["worker_type"] != "sub-contractor" {
		t.Fatalf("with token: unexpected body %v", body)
	}
}
