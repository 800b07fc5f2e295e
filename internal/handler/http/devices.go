package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/utils"
	"github.com/MKhiriev/device-sync/models"
)

func (h *Handler) registerDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.registerDevice").Send()
		writeError(w, err)
		return
	}

	var req models.RegisterDeviceRequest
	if err = decodeJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.registerDevice").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	device, err := h.services.DeviceRegistry.RegisterDevice(ctx, userID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.registerDevice").Msg("error registering device")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.RegisterDeviceResponse{
		DeviceID: device.DeviceID,
		Priority: device.Priority,
		Status:   models.DeviceStatusRegistered,
	}, http.StatusOK)
}

func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listDevices").Send()
		writeError(w, err)
		return
	}

	devices, err := h.services.DeviceRegistry.GetUserDevices(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listDevices").Msg("error getting user devices")
		writeError(w, err)
		return
	}

	items := make([]models.DeviceListItem, 0, len(devices))
	for _, d := range devices {
		items = append(items, models.NewDeviceListItem(d))
	}
	utils.WriteJSON(w, items, http.StatusOK)
}

func (h *Handler) deactivateDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.deactivateDevice").Send()
		writeError(w, err)
		return
	}

	deviceID := chi.URLParam(r, "device_id")
	deactivated, err := h.services.DeviceRegistry.DeactivateDevice(ctx, userID, deviceID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.deactivateDevice").Str("device_id", deviceID).Msg("error deactivating device")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.DeactivateDeviceResponse{Deactivated: deactivated}, http.StatusOK)
}
