package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"personachat-backend/internal/backend"
	"personachat-backend/internal/services"
	"personachat-backend/internal/workspace"
	"personachat-backend/pkg/httputil"
)

// workspaceID parses the {workspaceID} URL parameter. On failure it writes
// a 400 and returns false.
func workspaceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid workspace ID format")
		return uuid.Nil, false
	}
	return id, true
}

// messagePosition parses the 1-based {position} URL parameter.
func messagePosition(w http.ResponseWriter, r *http.Request) (int, bool) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil || position < 1 {
		httputil.RespondError(w, http.StatusBadRequest, "Position must be a positive integer")
		return 0, false
	}
	return position, true
}

// decodeJSON decodes the request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// respondServiceError maps service and workspace errors onto HTTP statuses.
// Backend error payloads go out verbatim with a 502; other errors reaching
// the backend also map to 502 but with a generic connectivity message, so
// transport details never leak to the UI.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		httputil.RespondError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, workspace.ErrPersonaNotFound),
		errors.Is(err, workspace.ErrMessageNotFound),
		errors.Is(err, services.ErrNoSnapshot):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workspace.ErrInvalidName),
		errors.Is(err, workspace.ErrEmptyContext):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workspace.ErrDuplicateName),
		errors.Is(err, workspace.ErrDeletePending),
		errors.Is(err, workspace.ErrNoDeletePending),
		errors.Is(err, services.ErrExchangeBusy):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workspace.ErrAvatarTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, workspace.ErrBadSnapshot):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case backend.IsBackendError(err):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, services.ErrNoReply):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled service error")
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondExchangeError is respondServiceError with one difference: an
// unrecognized error means the remote request itself failed (timeout, refused
// connection), so it maps to 502 with a generic connectivity message instead
// of a 500.
func respondExchangeError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) ||
		errors.Is(err, services.ErrWorkspaceNotFound) ||
		errors.Is(err, services.ErrExchangeBusy) ||
		errors.Is(err, services.ErrNoReply) ||
		backend.IsBackendError(err) {
		respondServiceError(w, err)
		return
	}
	log.Warn().Err(err).Msg("exchange transport failure")
	httputil.RespondError(w, http.StatusBadGateway, "Unable to reach the chat backend")
}
