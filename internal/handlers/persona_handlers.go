package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personachat-backend/internal/models"
	"personachat-backend/internal/services"
	"personachat-backend/internal/workspace"
	"personachat-backend/pkg/httputil"
)

// PersonaHandler serves the persona registry routes of a workspace.
type PersonaHandler struct {
	workspaces *services.WorkspaceService
}

func NewPersonaHandler(workspaces *services.WorkspaceService) *PersonaHandler {
	return &PersonaHandler{workspaces: workspaces}
}

func personaResponse(p workspace.Persona) models.PersonaResponse {
	return models.PersonaResponse{
		Name:      p.Name,
		Prompt:    p.Prompt,
		ColorSlot: p.ColorSlot,
		HasAvatar: len(p.Avatar) > 0,
	}
}

// HandleCreatePersona handles POST /v1/workspaces/{workspaceID}/personas
func (h *PersonaHandler) HandleCreatePersona(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.CreatePersonaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	p, err := ws.AddPersona(req.Name, req.Prompt, req.ColorSlot, req.Avatar)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, personaResponse(p))
}

// HandleListPersonas handles GET /v1/workspaces/{workspaceID}/personas
func (h *PersonaHandler) HandleListPersonas(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	personas := ws.Personas()
	resp := models.ListPersonasResponse{Personas: make([]models.PersonaResponse, 0, len(personas))}
	for _, p := range personas {
		resp.Personas = append(resp.Personas, personaResponse(p))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleUpdatePrompt handles PATCH /v1/workspaces/{workspaceID}/personas/{name}/prompt
func (h *PersonaHandler) HandleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.UpdatePromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	name := chi.URLParam(r, "name")
	if err := ws.UpdatePersonaPrompt(name, req.Prompt); err != nil {
		respondServiceError(w, err)
		return
	}

	p, err := ws.Persona(name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, personaResponse(p))
}

// HandleUpdateAvatar handles PUT /v1/workspaces/{workspaceID}/personas/{name}/avatar.
// The body is the raw image bytes, capped at the avatar size limit.
func (h *PersonaHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Read one byte past the cap so an oversized upload is detected without
	// buffering the whole thing.
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, workspace.MaxAvatarBytes+1))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read avatar body")
		return
	}

	if err := ws.UpdatePersonaAvatar(chi.URLParam(r, "name"), data); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeletePersona handles DELETE /v1/workspaces/{workspaceID}/personas/{name}.
// Removal is idempotent; deleting an absent persona still returns 204.
func (h *PersonaHandler) HandleDeletePersona(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	ws.RemovePersona(chi.URLParam(r, "name"))
	w.WriteHeader(http.StatusNoContent)
}
