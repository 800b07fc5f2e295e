package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/utils"
)

const hashHeader = "HashSHA256"

// withHashCheck verifies the HMAC carried in the HashSHA256 header against
// the raw request body. Requests without the header pass unchecked, as does
// everything when no hash key is configured.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(hashHeader)
		if !h.verifyHash || signature == "" || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withHashCheck").Msg("failed to read request body")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !utils.VerifyHash(body, signature) {
			log.Error().Str("func", "*Handler.withHashCheck").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			http.Error(w, ErrIntegrityCheckFailed.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
