package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"
)

const serviceName = "Telegram Workforce Bot API"

// pingTimeout bounds the health check's database round trip.
const pingTimeout = 2 * time.Second

// Pinger is the slice of the database handle the system endpoints use.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	db Pinger
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

type rootResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// Root is the cheap liveness endpoint uptime monitors poll. It only
// reports whether a database handle exists; Health does the real ping.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	database := "disconnected"
	if h.db != nil {
		database = "connected"
	}

	writeJSON(w, rootResponse{
		Status:   "online",
		Service:  serviceName,
		Database: database,
	}, http.StatusOK)
}

type healthResponse struct {
	Status    string   `json:"status"`
	Database  string   `json:"database"`
	Endpoints []string `json:"endpoints"`
}

// Health reports database reachability and the routes this service
// serves. It always answers 200; the body carries the detail.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := "not configured"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		database = "connected"
		if err := h.db.Ping(ctx); err != nil {
			logger.Warn("health check database ping failed", slog.Any("err", err))
			database = "disconnected"
		}
	}

	writeJSON(w, healthResponse{
		Status:   "healthy",
		Database: database,
		Endpoints: []string{
			"/api/telegram/worker-type/{chat_id}",
			"/api/telegram/hours/{chat_id}",
			"/api/telegram/payments/{chat_id}",
			"/api/telegram/subcontractor/quotes/{chat_id}",
			"/api/telegram/subcontractor/milestones/{chat_id}",
			"/api/telegram/subcontractor/payment-status/{chat_id}",
			"/api/telegram/conversation-history/{telegram_id}",
			"POST /api/telegram/conversation-history",
		},
	}, http.StatusOK)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}

const twimlTest = `<Response>
  <Say>Twilio test path is working.</Say>
  <Hangup/>
</Response>`

// TwiMLTest keeps the legacy voice-webhook path answering while the
// number migration completes.
func (h *SystemHandler) TwiMLTest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, twimlTest)
}
