package handlers

import (
	"net/http"
	"strings"

	"personachat-backend/internal/models"
	"personachat-backend/internal/services"
	"personachat-backend/internal/workspace"
	"personachat-backend/pkg/httputil"
)

// MessageHandler serves the conversation log, context, projection, and
// transcript routes of a workspace.
type MessageHandler struct {
	workspaces *services.WorkspaceService
}

func NewMessageHandler(workspaces *services.WorkspaceService) *MessageHandler {
	return &MessageHandler{workspaces: workspaces}
}

func (h *MessageHandler) resolve(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	id, ok := workspaceID(w, r)
	if !ok {
		return nil, false
	}
	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}
	return ws, true
}

// HandleAppendMessage handles POST /v1/workspaces/{workspaceID}/messages
func (h *MessageHandler) HandleAppendMessage(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var req models.AppendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.PersonaName) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Persona name is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Message content must not be empty")
		return
	}

	view := ws.AppendMessage(req.PersonaName, req.Content, true)
	httputil.RespondJSON(w, http.StatusCreated, view)
}

// HandleListMessages handles GET /v1/workspaces/{workspaceID}/messages
func (h *MessageHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListMessagesResponse{Messages: ws.Messages()})
}

// HandleEditMessage handles PATCH /v1/workspaces/{workspaceID}/messages/{position}
func (h *MessageHandler) HandleEditMessage(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	position, ok := messagePosition(w, r)
	if !ok {
		return
	}
	var req models.EditMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := ws.EditMessage(position, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, view)
}

// HandleMarkDelete handles POST /v1/workspaces/{workspaceID}/messages/{position}/delete
func (h *MessageHandler) HandleMarkDelete(w http.ResponseWriter, r *http.Request) {
	h.deleteStep(w, r, func(ws *workspace.Workspace, position int) error {
		return ws.MarkMessageDelete(position)
	})
}

// HandleConfirmDelete handles POST /v1/workspaces/{workspaceID}/messages/{position}/delete/confirm
func (h *MessageHandler) HandleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.deleteStep(w, r, func(ws *workspace.Workspace, position int) error {
		return ws.ConfirmMessageDelete(position)
	})
}

// HandleCancelDelete handles POST /v1/workspaces/{workspaceID}/messages/{position}/delete/cancel
func (h *MessageHandler) HandleCancelDelete(w http.ResponseWriter, r *http.Request) {
	h.deleteStep(w, r, func(ws *workspace.Workspace, position int) error {
		return ws.CancelMessageDelete(position)
	})
}

func (h *MessageHandler) deleteStep(w http.ResponseWriter, r *http.Request, step func(*workspace.Workspace, int) error) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	position, ok := messagePosition(w, r)
	if !ok {
		return
	}

	if err := step(ws, position); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearMessages handles DELETE /v1/workspaces/{workspaceID}/messages
func (h *MessageHandler) HandleClearMessages(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	ws.ClearMessages()
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetContext handles PUT /v1/workspaces/{workspaceID}/context
func (h *MessageHandler) HandleSetContext(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var req models.SetContextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.SetDraftContext(req.Draft)
	httputil.RespondJSON(w, http.StatusOK, models.ContextResponse{
		Draft:     ws.DraftContext(),
		Committed: ws.CommittedContext(),
	})
}

// HandleCommitContext handles POST /v1/workspaces/{workspaceID}/context/commit
func (h *MessageHandler) HandleCommitContext(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if err := ws.CommitContext(); err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ContextResponse{
		Draft:     ws.DraftContext(),
		Committed: ws.CommittedContext(),
	})
}

// HandleGetContext handles GET /v1/workspaces/{workspaceID}/context
func (h *MessageHandler) HandleGetContext(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ContextResponse{
		Draft:     ws.DraftContext(),
		Committed: ws.CommittedContext(),
	})
}

// HandleGetProjections handles GET /v1/workspaces/{workspaceID}/projections
func (h *MessageHandler) HandleGetProjections(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ws.Projections())
}

// HandleTranscript handles POST /v1/workspaces/{workspaceID}/transcript
func (h *MessageHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var req models.TranscriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var policy workspace.Policy
	switch req.Policy {
	case "", "all":
		policy = workspace.AllPolicy()
	case "trailing":
		if req.N < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "Trailing policy requires n >= 1")
			return
		}
		policy = workspace.TrailingPolicy(req.N)
	case "range":
		if req.Start < 1 || req.End < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "Range bounds must be integers >= 1")
			return
		}
		if req.Start > req.End {
			httputil.RespondError(w, http.StatusBadRequest, "Range start must be <= end")
			return
		}
		policy = workspace.RangePolicy(req.Start, req.End, req.PersonaFilter)
	default:
		httputil.RespondError(w, http.StatusBadRequest, "Policy must be one of: all, trailing, range")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.TranscriptResponse{Transcript: ws.Extract(policy)})
}
