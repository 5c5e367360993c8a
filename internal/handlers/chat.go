package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/glowcart/api/internal/platform/httpx"
	"github.com/glowcart/api/internal/services"
)

const maxChatBodySize = 16 * 1024

// ChatHandlers exposes the storefront assistant endpoint.
type ChatHandlers struct {
	chat services.ChatService
}

// NewChatHandlers constructs handlers for the chat endpoints.
func NewChatHandlers(chat services.ChatService) *ChatHandlers {
	return &ChatHandlers{chat: chat}
}

// Routes wires the /chat endpoints onto the provided router.
func (h *ChatHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.chatCompletion)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *ChatHandlers) chatCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.chat == nil {
		httpx.WriteError(ctx, w, httpx.NewError("chat_service_unavailable", "chat service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxChatBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "message is required", http.StatusBadRequest))
		return
	}

	reply, err := h.chat.ChatResponse(ctx, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrChatInvalidInput) {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "message is required", http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("chat_failed", err.Error(), http.StatusInternalServerError))
		return
	}

	writeJSONResponse(w, http.StatusOK, chatResponse{Response: reply})
}
