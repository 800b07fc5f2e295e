package http

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/service"
	"github.com/MKhiriev/device-sync/models"
)

// Devices authenticate with a bearer token, so the browser origin carries
// no authority here.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// serveWS upgrades the request into the live notification channel of an
// active device of the caller. It blocks until the peer disconnects.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.serveWS").Send()
		writeError(w, err)
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		writeError(w, ErrNoDeviceID)
		return
	}

	devices, err := h.services.DeviceRegistry.GetUserDevices(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.serveWS").Msg("error getting user devices")
		writeError(w, err)
		return
	}
	if !slices.ContainsFunc(devices, func(d models.Device) bool { return d.DeviceID == deviceID }) {
		log.Warn().Str("func", "*Handler.serveWS").Str("device_id", deviceID).Msg("websocket for unknown device")
		writeError(w, service.ErrUnknownDevice)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.serveWS").Msg("websocket upgrade failed")
		return
	}

	client := h.hub.Register(userID, deviceID, conn)
	go client.WritePump()
	client.ReadPump()
}
