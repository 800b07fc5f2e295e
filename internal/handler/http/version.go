package http

import (
	"net/http"

	"github.com/MKhiriev/device-sync/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	buildInfo := h.services.AppInfoService.GetBuildInfo(r.Context())
	utils.WriteJSON(w, buildInfo.Response(), http.StatusOK)
}
