package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/account-store/internal/api/middleware"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/llm"
	"github.com/dom/account-store/internal/service"
)

type AssistantHandler struct {
	assistantService *service.AssistantService
}

func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Message  string        `json:"message"`
	Lang     string        `json:"lang"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	locale := middleware.GetLocale(r.Context())
	if l, ok := domain.ParseLocale(req.Lang); ok {
		locale = l
	}

	history := make([]service.ChatTurn, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, service.ChatTurn{Role: llm.Role(m.Role), Content: m.Content})
	}

	reply, err := h.assistantService.Reply(r.Context(), service.AssistantInput{
		History: history,
		Message: req.Message,
		Locale:  locale,
	})
	if err != nil {
		fallback := service.FallbackReply(locale)
		switch {
		case errors.Is(err, service.ErrEmptyQuestion):
			respondError(w, http.StatusBadRequest, "empty_message", "Message is required")
		case errors.Is(err, service.ErrAssistantNotConfigured):
			respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{
				Code:    "assistant_not_configured",
				Message: "Assistant is not configured",
				Reply:   fallback,
			})
		case errors.Is(err, service.ErrAssistantUnavailable):
			respondJSON(w, http.StatusBadGateway, ErrorResponse{
				Code:    "assistant_unavailable",
				Message: "Assistant is unavailable",
				Reply:   fallback,
			})
		default:
			log.Printf("ERROR [handler.Chat]: %v", err)
			respondJSON(w, http.StatusInternalServerError, ErrorResponse{
				Code:    "internal_error",
				Message: "Internal server error",
				Reply:   fallback,
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
