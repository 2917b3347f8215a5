package api

import (
	"github.com/gorilla/mux"
	"github.com/rudybnb/workforce-api/internal/config"
	"github.com/rudybnb/workforce-api/internal/db"
	"github.com/rudybnb/workforce-api/internal/repository/sqldb"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqldb.New(db)

	// Create handlers
	systemHandler := NewSystemHandler(db)
	workersHandler := NewWorkersHandler(repo, repo, cfg.DBTimeout)
	subcontractorHandler := NewSubcontractorHandler(repo, repo, cfg.DBTimeout)
	conversationHandler := NewConversationHandler(repo, cfg.DBTimeout)

	// Open endpoints
	r.HandleFunc("/", systemHandler.Root).Methods("GET")
	r.HandleFunc("/health", systemHandler.Health).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/twiml/test", systemHandler.TwiMLTest).Methods("POST")

	// Telegram bot endpoints. The auth gate is optional so local
	// development works without minting tokens.
	api := r.PathPrefix("/api/telegram").Subrouter()
	if cfg.APISecret != "" {
		api.Use(JWTAuthMiddlewareWithSecret(cfg.APISecret))
	}

	api.HandleFunc("/worker-type/{chat_id}", workersHandler.WorkerType).Methods("GET")
	api.HandleFunc("/hours/{chat_id}", workersHandler.Hours).Methods("GET")
	api.HandleFunc("/payments/{chat_id}", workersHandler.Payments).Methods("GET")

	// Sub-contractor endpoints
	api.HandleFunc("/subcontractor/quotes/{chat_id}", subcontractorHandler.Quotes).Methods("GET")
	api.HandleFunc("/subcontractor/payment-status/{chat_id}", subcontractorHandler.PaymentStatus).Methods("GET")
	api.HandleFunc("/subcontractor/milestones/{chat_id}", subcontractorHandler.Milestones).Methods("GET")

	// Conversation history
	api.HandleFunc("/conversation-history/{telegram_id}", conversationHandler.History).Methods("GET")
	api.HandleFunc("/conversation-history", conversationHandler.SaveMessage).Methods("POST")

	return r
}
