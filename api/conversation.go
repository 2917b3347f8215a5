package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/gorilla/mux"
	"github.com/qri-io/jsonschema"
	"github.com/rudybnb/workforce-api/pkg/models"
	"github.com/rudybnb/workforce-api/pkg/repository"
)

// Message bodies are capped well above the 4096 characters Telegram
// allows per message.
const maxMessageBody = 64 << 10

//go:embed schema/conversation_message.json
var conversationSchemaJSON []byte

var conversationSchema = mustSchema(conversationSchemaJSON)

func mustSchema(b []byte) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return rs
}

// ConversationHandler stores and replays bot dialogue so the workflow
// tool can build prompts with context.
type ConversationHandler struct {
	convRepo  repository.ConversationRepo
	dbTimeout time.Duration
}

func NewConversationHandler(cr repository.ConversationRepo, dbTimeout time.Duration) *ConversationHandler {
	return &ConversationHandler{convRepo: cr, dbTimeout: dbTimeout}
}

type conversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResponse struct {
	Success  bool                  `json:"success"`
	Messages []conversationMessage `json:"messages"`
}

// History returns the chat's recent messages, oldest first.
func (h *ConversationHandler) History(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["telegram_id"]
	if !isDigits(idStr) || len(idStr) > 20 {
		respondError(w, http.StatusBadRequest, "Invalid telegram id")
		return
	}
	telegramID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid telegram id")
		return
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 1 || v > 100 {
			respondError(w, http.StatusBadRequest, "Limit must be between 1 and 100")
			return
		}
		limit = v
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	messages, err := h.convRepo.ListRecent(ctx, telegramID, limit)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	out := make([]conversationMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, conversationMessage{Role: m.Role, Content: m.Message})
	}

	writeJSON(w, historyResponse{Success: true, Messages: out}, http.StatusOK)
}

type saveMessageRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Role       string `json:"role"`
	Message    string `json:"message"`
}

type saveMessageResponse struct {
	Success bool `json:"success"`
}

// SaveMessage appends one message to a chat's history. The body shape
// is checked against the embedded schema and the role against the
// model's closed role set before anything touches the store.
func (h *ConversationHandler) SaveMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	verrs, err := conversationSchema.ValidateBytes(r.Context(), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(verrs) > 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid message: %s", verrs[0].Message))
		return
	}

	var req saveMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "Role must be user or assistant")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.dbTimeout)
	defer cancel()

	id, err := h.convRepo.SaveMessage(ctx, &models.ConversationMessage{
		TelegramID: req.TelegramID,
		Role:       req.Role,
		Message:    req.Message,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logger.Debug("conversation message saved",
		slog.Int64("id", id),
		slog.Int64("telegram_id", req.TelegramID),
	)
	writeJSON(w, saveMessageResponse{Success: true}, http.StatusOK)
}
