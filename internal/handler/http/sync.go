package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/utils"
	"github.com/MKhiriev/device-sync/models"
)

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.sync").Send()
		writeError(w, err)
		return
	}

	var req models.SyncRequest
	if err = decodeJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.sync").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	h.writeOutcome(w, r, h.services.SyncService.Sync(r.Context(), userID, req))
}

func (h *Handler) syncVoice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncVoice").Send()
		writeError(w, err)
		return
	}

	var req models.VoiceSyncRequest
	if err = decodeJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.syncVoice").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	h.writeOutcome(w, r, h.services.SyncService.Sync(r.Context(), userID, req.SyncRequest()))
}

// syncBatch answers 200 whenever the envelope is valid. Per-item failures
// are reported inside the body.
func (h *Handler) syncBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncBatch").Send()
		writeError(w, err)
		return
	}

	var req models.BatchSyncRequest
	if err = decodeJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.syncBatch").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	resp, err := h.services.SyncService.SyncBatch(r.Context(), userID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncBatch").Msg("invalid batch")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) getEntityStates(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntityStates").Send()
		writeError(w, err)
		return
	}

	domain := chi.URLParam(r, "domain")
	entityID, err := uuid.Parse(chi.URLParam(r, "entity_id"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntityStates").Msg("malformed entity id")
		writeError(w, ErrInvalidEntityID)
		return
	}

	states, err := h.services.SyncService.GetEntityStates(r.Context(), userID, domain, entityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntityStates").Msg("error getting entity states")
		writeError(w, err)
		return
	}
	if states == nil {
		states = []models.SyncState{}
	}

	utils.WriteJSON(w, models.EntityStateResponse{
		Domain:   domain,
		EntityID: entityID,
		States:   states,
	}, http.StatusOK)
}

func (h *Handler) writeOutcome(w http.ResponseWriter, r *http.Request, outcome models.SyncOutcome) {
	status := statusFromOutcome(outcome)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(outcome.Err).
			Str("func", "*Handler.writeOutcome").
			Str("error_kind", string(outcome.ErrorKind)).
			Msg("sync failed")
	}

	utils.WriteJSON(w, outcome.Response(), status)
}
