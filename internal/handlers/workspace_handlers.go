package handlers

import (
	"net/http"

	"personachat-backend/internal/models"
	"personachat-backend/internal/services"
	"personachat-backend/internal/workspace"
	"personachat-backend/pkg/httputil"
)

// WorkspaceHandler serves workspace lifecycle, snapshot, and seed routes.
type WorkspaceHandler struct {
	workspaces *services.WorkspaceService
}

func NewWorkspaceHandler(workspaces *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

func workspaceResponse(w *workspace.Workspace) models.WorkspaceResponse {
	return models.WorkspaceResponse{
		ID:          w.ID,
		Name:        w.Name,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt(),
		Projections: w.Projections(),
	}
}

// HandleCreateWorkspace handles POST /v1/workspaces
func (h *WorkspaceHandler) HandleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkspaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, err := h.workspaces.Create(req.Name, req.Seeded)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, workspaceResponse(ws))
}

// HandleListWorkspaces handles GET /v1/workspaces
func (h *WorkspaceHandler) HandleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	list := h.workspaces.List()
	resp := models.ListWorkspacesResponse{Workspaces: make([]models.WorkspaceResponse, 0, len(list))}
	for _, ws := range list {
		resp.Workspaces = append(resp.Workspaces, workspaceResponse(ws))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetWorkspace handles GET /v1/workspaces/{workspaceID}
func (h *WorkspaceHandler) HandleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, workspaceResponse(ws))
}

// HandleDeleteWorkspace handles DELETE /v1/workspaces/{workspaceID}
func (h *WorkspaceHandler) HandleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	if err := h.workspaces.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSaveSnapshot handles POST /v1/workspaces/{workspaceID}/snapshot
func (h *WorkspaceHandler) HandleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	if err := h.workspaces.SaveSnapshot(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRestoreSnapshot handles POST /v1/workspaces/{workspaceID}/restore
func (h *WorkspaceHandler) HandleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := workspaceID(w, r)
	if !ok {
		return
	}

	if err := h.workspaces.RestoreSnapshot(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	ws, err := h.workspaces.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, workspaceResponse(ws))
}

// HandleGetSeed handles GET /v1/seed
func (h *WorkspaceHandler) HandleGetSeed(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.workspaces.Seed())
}
