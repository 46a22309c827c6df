package handlers

import (
	"net/http"

	"personachat-backend/internal/models"
	"personachat-backend/internal/services"
	"personachat-backend/pkg/httputil"
)

// ExchangeHandler serves the remote exchange routes: direct chat, auto chat,
// analysis, and the busy-status poll.
type ExchangeHandler struct {
	exchanges *services.ExchangeService
}

func NewExchangeHandler(exchanges *services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchanges: exchanges}
}

// HandleDirectChat handles POST /v1/workspaces/{workspaceID}/exchange/direct
func (h *ExchangeHandler) HandleDirectChat(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.DirectChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.exchanges.DirectChat(r.Context(), id, req)
	if err != nil {
		respondExchangeError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.DirectChatResponse{Reply: reply})
}

// HandleAutoChat handles POST /v1/workspaces/{workspaceID}/exchange/auto
func (h *ExchangeHandler) HandleAutoChat(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.AutoChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appended, err := h.exchanges.AutoChat(r.Context(), id, req)
	if err != nil {
		respondExchangeError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.AutoChatResponse{Appended: appended})
}

// HandleAnalyze handles POST /v1/workspaces/{workspaceID}/exchange/analyze
func (h *ExchangeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	analysis, err := h.exchanges.Analyze(r.Context(), id, req)
	if err != nil {
		respondExchangeError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.AnalyzeResponse{Analysis: analysis})
}

// HandleExchangeStatus handles GET /v1/workspaces/{workspaceID}/exchange/status
func (h *ExchangeHandler) HandleExchangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	status, err := h.exchanges.Status(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}
